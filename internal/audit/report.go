package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/abhisek/qbank/internal/question"
)

// Report aggregates the issues of one audit run.
type Report struct {
	GeneratedAt time.Time `json:"generatedAt"`

	// Records is the number of canonical records audited per exam.
	Records map[question.ExamID]int `json:"records"`

	// Dropped is the number of raw records lost to malformation per exam.
	Dropped map[question.ExamID]int `json:"dropped,omitempty"`

	BySeverity map[Severity]int `json:"bySeverity"`
	ByCategory map[Category]int `json:"byCategory"`
	Issues     []Issue          `json:"issues"`
}

// NewReport summarizes issues into a Report. The issue slice is kept as is.
func NewReport(records, dropped map[question.ExamID]int, issues []Issue) *Report {
	r := &Report{
		GeneratedAt: time.Now().UTC(),
		Records:     records,
		Dropped:     dropped,
		BySeverity:  make(map[Severity]int, len(AllSeverities())),
		ByCategory:  make(map[Category]int),
		Issues:      issues,
	}
	if r.Records == nil {
		r.Records = make(map[question.ExamID]int)
	}
	if r.Issues == nil {
		r.Issues = []Issue{}
	}
	for _, s := range AllSeverities() {
		r.BySeverity[s] = 0
	}
	for _, i := range issues {
		r.BySeverity[i.Severity]++
		r.ByCategory[i.Category]++
	}
	return r
}

// TotalRecords sums Records across exams.
func (r *Report) TotalRecords() int {
	n := 0
	for _, c := range r.Records {
		n += c
	}
	return n
}

// Count returns the number of issues with severity s.
func (r *Report) Count(s Severity) int {
	return r.BySeverity[s]
}

// HasCritical reports whether any CRITICAL issue was found.
func (r *Report) HasCritical() bool {
	return r.Count(SeverityCritical) > 0
}

// Filter returns the issues matching category, in report order.
func (r *Report) Filter(category Category) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Category == category {
			out = append(out, i)
		}
	}
	return out
}

// WriteJSON serializes the full report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
