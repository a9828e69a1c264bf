package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/qbank/internal/audit"
	"github.com/abhisek/qbank/internal/question"
	"github.com/abhisek/qbank/internal/store"
)

// errCriticalIssues is returned by audit --strict when CRITICAL issues exist.
var errCriticalIssues = errors.New("critical issues found")

var auditCmd = &cobra.Command{
	Use:   "audit <paths...>",
	Short: "Validate and quality-check question banks",
	Long: "Normalize every bank file (directories are expanded), then report structural\n" +
		"defects, content quality problems, duplicates and answer-position bias.",
	Args: cobra.MinimumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().String("out", "", "Write the full JSON report to this file")
	auditCmd.Flags().Bool("strict", false, "Exit non-zero when any CRITICAL issue is found")
	auditCmd.Flags().Bool("quiet", false, "Skip the terminal summary and log errors only")
	auditCmd.Flags().Int("max-issues", 20, "Number of individual issues to list in the summary")
	auditCmd.Flags().String("min-severity", "LOW", "Hide listed issues below this severity")
}

func runAudit(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("out")
	strict, _ := cmd.Flags().GetBool("strict")
	quiet, _ := cmd.Flags().GetBool("quiet")
	maxIssues, _ := cmd.Flags().GetInt("max-issues")
	minSev, _ := cmd.Flags().GetString("min-severity")

	floor := audit.Severity(strings.ToUpper(minSev))
	if floor.Rank() == 0 {
		return fmt.Errorf("unknown severity %q", minSev)
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.logger.Sync() //nolint:errcheck

	ctx := cmd.Context()
	corpus, err := question.LoadCorpus(args, rt.logger)
	if err != nil {
		return err
	}

	report, err := audit.NewAuditor(rt.cfg.Audit, rt.logger).Run(ctx, corpus.Questions, corpus.Dropped)
	if err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if outPath != "" {
		if err := writeReport(outPath, report); err != nil {
			return err
		}
	}
	if !quiet {
		opts := audit.RenderOptions{MaxIssues: maxIssues, MinSeverity: floor}
		if err := report.Render(cmd.OutOrStdout(), opts); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
	}

	bySeverity := make(map[string]int, len(report.BySeverity))
	for sev, n := range report.BySeverity {
		bySeverity[string(sev)] = n
	}
	rt.recordRun(ctx, cmd, &store.Run{
		Kind:   store.RunAudit,
		Inputs: args,
		Summary: store.RunSummary{
			Records:    report.TotalRecords(),
			Dropped:    corpus.TotalDropped(),
			Issues:     len(report.Issues),
			BySeverity: bySeverity,
		},
	})

	if strict && report.HasCritical() {
		return fmt.Errorf("%w: %d", errCriticalIssues, report.Count(audit.SeverityCritical))
	}
	return nil
}

func writeReport(path string, report *audit.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := report.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
