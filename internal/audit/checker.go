package audit

import "github.com/abhisek/qbank/internal/question"

// Checker inspects a single canonical record.
// Implementations should be stateless and safe for concurrent use.
type Checker interface {
	// Name returns a short identifier for this checker, e.g. "structural".
	Name() string

	// Check returns every issue found in q, or nil for a clean record.
	// All checks run; one failing check never hides another.
	Check(q question.Question) []Issue
}

// DefaultCheckers returns the per-record checkers in reporting order.
func DefaultCheckers(cfg Config) []Checker {
	return []Checker{
		NewStructuralValidator(cfg),
		NewContentAnalyzer(cfg),
	}
}
