package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/qbank/internal/question"
)

// Auditor runs every checker and the corpus detector over a set of
// canonical records and produces a Report.
type Auditor struct {
	cfg      Config
	checkers []Checker
	detector *Detector
	logger   *zap.Logger
}

// NewAuditor creates an Auditor with the default checkers.
func NewAuditor(cfg Config, logger *zap.Logger) *Auditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Auditor{
		cfg:      cfg,
		checkers: DefaultCheckers(cfg),
		detector: NewDetector(cfg),
		logger:   logger,
	}
}

// examResult is what one per-exam worker produces.
type examResult struct {
	issues []Issue
	tally  *Tally
}

// Run audits questions. Exams are processed in parallel, each worker owning
// its own issue slice and Tally; results are merged in exam order so the
// report is deterministic. dropped is copied into the report as is.
// The only error is ctx cancellation.
func (a *Auditor) Run(ctx context.Context, questions []question.Question, dropped map[question.ExamID]int) (*Report, error) {
	start := time.Now()
	exams, groups := question.GroupByExam(questions)
	results := make([]examResult, len(exams))

	g, gctx := errgroup.WithContext(ctx)
	for i, exam := range exams {
		g.Go(func() error {
			tally := NewTally(exam, a.cfg)
			var issues []Issue
			for _, q := range groups[exam] {
				if err := gctx.Err(); err != nil {
					return err
				}
				for _, c := range a.checkers {
					issues = append(issues, c.Check(q)...)
				}
				tally.Add(q)
			}
			results[i] = examResult{issues: issues, tally: tally}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make(map[question.ExamID]int, len(exams))
	tallies := make([]*Tally, len(exams))
	var issues []Issue
	for i, r := range results {
		records[exams[i]] = r.tally.Total
		tallies[i] = r.tally
		issues = append(issues, r.issues...)
	}
	issues = append(issues, a.detector.Detect(tallies)...)

	report := NewReport(records, dropped, issues)
	a.logger.Info("audit complete",
		zap.Int("records", report.TotalRecords()),
		zap.Int("issues", len(report.Issues)),
		zap.Int("critical", report.Count(SeverityCritical)),
		zap.Int("high", report.Count(SeverityHigh)),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}
