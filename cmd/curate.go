package cmd

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/qbank/internal/curate"
	"github.com/abhisek/qbank/internal/question"
	"github.com/abhisek/qbank/internal/store"
	"github.com/abhisek/qbank/internal/ui/theme"
)

var curateCmd = &cobra.Command{
	Use:   "curate <paths...>",
	Short: "Select a balanced, deliverable subset per exam",
	Long: "Normalize every bank file, drop records that cannot be displayed, then sample\n" +
		"each exam's pool across sections and difficulties. One <exam>.json is written\n" +
		"per exam into --out-dir.",
	Args: cobra.MinimumNArgs(1),
	RunE: runCurate,
}

func init() {
	curateCmd.Flags().String("out-dir", "", "Directory for curated <exam>.json files")
	curateCmd.Flags().Int("target", 0, "Records to select per exam (default from config)")
	curateCmd.Flags().Uint64("seed", 0, "Seed for reproducible selection")
	curateCmd.Flags().Bool("replay-last", false, "Reuse the seed of the most recent recorded curation run")
	curateCmd.MarkFlagsMutuallyExclusive("seed", "replay-last")
	_ = curateCmd.MarkFlagRequired("out-dir")
}

func runCurate(cmd *cobra.Command, args []string) error {
	outDir, _ := cmd.Flags().GetString("out-dir")

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	cfg := rt.cfg.Curate
	if cmd.Flags().Changed("target") {
		cfg.Target, _ = cmd.Flags().GetInt("target")
	}
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint64("seed")
		cfg = cfg.WithSeed(seed)
	}
	if replay, _ := cmd.Flags().GetBool("replay-last"); replay {
		seed, err := lastCurateSeed(cmd.Context(), cmd, rt.cfg)
		if err != nil {
			return err
		}
		cfg = cfg.WithSeed(seed)
		rt.logger.Info("replaying last curation seed", zap.Uint64("seed", seed))
	}
	if cfg.Seed == nil {
		// One seed for the whole run so --seed can replay every exam.
		cfg = cfg.WithSeed(rand.Uint64())
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("curate: %w", err)
	}

	corpus, err := question.LoadCorpus(args, rt.logger)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, theme.Title.Render("Curated subsets"))

	selected := make(map[string]int)
	exams, pools := question.GroupByExam(corpus.Questions)
	for _, exam := range exams {
		res := curate.NewSelector(cfg).Select(pools[exam])

		path := filepath.Join(outDir, string(exam)+".json")
		if err := writeCurated(path, res.Selected); err != nil {
			return err
		}
		selected[string(exam)] = len(res.Selected)

		rt.logger.Info("exam curated",
			zap.String("exam", string(exam)),
			zap.Int("pool", res.PoolSize),
			zap.Int("eligible", res.Eligible),
			zap.Int("sections", res.Sections),
			zap.Int("filled", res.Filled),
			zap.Int("selected", len(res.Selected)),
			zap.String("path", path))

		fmt.Fprintf(out, "%s %s\n",
			theme.Heading.Render(fmt.Sprintf("%-5s", exam.DisplayName())),
			theme.Body.Render(fmt.Sprintf("%d selected from %d eligible of %d (%d sections) -> %s",
				len(res.Selected), res.Eligible, res.PoolSize, res.Sections, path)))
	}
	fmt.Fprintln(out, theme.Dim.Render(fmt.Sprintf("seed %d", *cfg.Seed)))

	rt.recordRun(cmd.Context(), cmd, &store.Run{
		Kind:   store.RunCurate,
		Inputs: args,
		Summary: store.RunSummary{
			Records:  len(corpus.Questions),
			Dropped:  corpus.TotalDropped(),
			Selected: selected,
			Seed:     *cfg.Seed,
			OutDir:   outDir,
		},
	})
	return nil
}

func writeCurated(path string, qs []question.Question) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := question.WriteDelivery(f, qs); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
