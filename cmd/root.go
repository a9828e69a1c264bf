package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qbank/internal/config"
	"github.com/abhisek/qbank/internal/logging"
	"github.com/abhisek/qbank/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "qbank",
	Short: "Exam question bank auditor and curator",
	Long: "qbank normalizes certification exam question banks, audits them for structural\n" +
		"and content defects, and curates balanced subsets for delivery.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides QBANK_CONFIG env var)")
	pf.String("db", "", "Path to SQLite history database (overrides QBANK_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: console or json")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(curateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime carries what every subcommand needs after flag resolution.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

// loadRuntime resolves configuration (flags > env > file > defaults) and
// builds the logger. Commands with a --quiet flag log errors only when it
// is set.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("QBANK_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	var logger *zap.Logger
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		logger, err = logging.Quiet(cfg.Logging.Format)
	} else {
		logger, err = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QBANK_DB env var, then the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if os.Getenv("QBANK_DB") == "" && cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

var errNoCurateRun = errors.New("no recorded curation run to replay")

// historyKeep bounds the number of runs retained in the history database.
const historyKeep = 500

// recordRun saves run to the history database. Failures are logged and
// never fail the command.
func (rt *runtime) recordRun(ctx context.Context, cmd *cobra.Command, run *store.Run) {
	if rt.cfg.Store.Disabled {
		return
	}
	if err := saveRun(ctx, cmd, rt.cfg, run); err != nil {
		rt.logger.Warn("run history not recorded", zap.Error(err))
		return
	}
	rt.logger.Debug("run recorded",
		zap.String("id", run.ID),
		zap.Int64("sequence", run.Sequence),
		zap.String("kind", string(run.Kind)))
}

// lastCurateSeed returns the seed of the most recent recorded curation run.
func lastCurateSeed(ctx context.Context, cmd *cobra.Command, cfg config.Config) (uint64, error) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return 0, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer s.Close()

	run, err := s.RunRepo().Latest(ctx, store.RunCurate)
	if err != nil {
		return 0, err
	}
	if run == nil {
		return 0, errNoCurateRun
	}
	return run.Summary.Seed, nil
}

func saveRun(ctx context.Context, cmd *cobra.Command, cfg config.Config, run *store.Run) error {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	repo := s.RunRepo()
	if err := repo.Save(ctx, run); err != nil {
		return err
	}
	return repo.Prune(ctx, historyKeep)
}
