package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/qbank/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent audit and curation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		since, _ := cmd.Flags().GetDuration("since")

		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cmd, rt.cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}

		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, Kind: store.RunKind(kind)}
		if since > 0 {
			opts.From = time.Now().UTC().Add(-since)
		}
		runs, err := s.RunRepo().List(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No runs found.")
			return nil
		}

		// Header.
		fmt.Fprintf(out, "%-5s  %-19s  %-6s  %-7s  %-7s  %s\n",
			"Seq", "Timestamp", "Kind", "Records", "Dropped", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 90))

		for _, r := range runs {
			fmt.Fprintf(out, "%-5d  %-19s  %-6s  %-7d  %-7d  %s\n",
				r.Sequence,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				r.Kind,
				r.Summary.Records,
				r.Summary.Dropped,
				runResult(r),
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	historyCmd.Flags().String("kind", "", "Filter by kind: audit or curate")
	historyCmd.Flags().Duration("since", 0, "Only show runs from this long ago, e.g. 24h")
}

// runResult summarizes a run's outcome on one line.
func runResult(r store.Run) string {
	switch r.Kind {
	case store.RunAudit:
		return fmt.Sprintf("%d issues (%d critical)", r.Summary.Issues, r.Summary.BySeverity["CRITICAL"])
	case store.RunCurate:
		return fmt.Sprintf("%s seed=%d", formatCounts(r.Summary.Selected), r.Summary.Seed)
	}
	return ""
}

func formatCounts(m map[string]int) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, " ")
}
