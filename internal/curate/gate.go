package curate

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/qbank/internal/question"
)

// Deliverable reports whether q may be offered on a constrained display
// surface. This is a display filter, separate from the audit: failing
// records are skipped, not reported.
func (c Config) Deliverable(q question.Question) bool {
	prompt := strings.TrimSpace(q.Prompt)
	if prompt == "" || utf8.RuneCountInString(prompt) > c.MaxPromptLength {
		return false
	}
	if len(q.Options) < c.MinOptions {
		return false
	}
	if _, ok := q.CorrectOption(); !ok {
		return false
	}
	for _, o := range q.Options {
		if utf8.RuneCountInString(o) > c.MaxOptionLength {
			return false
		}
	}
	return utf8.RuneCountInString(strings.TrimSpace(q.Explanation)) >= c.MinExplanationLength
}

// Eligible returns the deliverable records of pool in their original order.
func (c Config) Eligible(pool []question.Question) []question.Question {
	out := make([]question.Question, 0, len(pool))
	for _, q := range pool {
		if c.Deliverable(q) {
			out = append(out, q)
		}
	}
	return out
}
