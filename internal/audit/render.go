package audit

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qbank/internal/question"
	"github.com/abhisek/qbank/internal/ui/theme"
)

// RenderOptions controls terminal rendering of a report.
type RenderOptions struct {
	// MaxIssues caps how many individual issues are listed (0 = none).
	MaxIssues int

	// MinSeverity hides listed issues below this severity.
	MinSeverity Severity
}

// Render writes a styled summary of the report: records per exam, counts by
// severity and category, then the most serious issues.
func (r *Report) Render(w io.Writer, opts RenderOptions) error {
	var b strings.Builder

	b.WriteString(theme.Title.Render("Question bank audit"))
	b.WriteString("\n\n")

	var exams []string
	for _, e := range sortedExams(r.Records) {
		line := fmt.Sprintf("%-6s %6d records", e.DisplayName(), r.Records[e])
		if d := r.Dropped[e]; d > 0 {
			line += theme.Dim.Render(fmt.Sprintf("  (%d dropped)", d))
		}
		exams = append(exams, line)
	}
	exams = append(exams, theme.Heading.Render(fmt.Sprintf("%-6s %6d records", "TOTAL", r.TotalRecords())))
	b.WriteString(theme.Card.Render(strings.Join(exams, "\n")))
	b.WriteString("\n\n")

	var sev []string
	for _, s := range AllSeverities() {
		sev = append(sev, theme.Severity(string(s)).Render(string(s))+fmt.Sprintf(" %6d", r.BySeverity[s]))
	}
	cats := sortedCategories(r.ByCategory)
	var catLines []string
	for _, c := range cats {
		catLines = append(catLines, fmt.Sprintf("%-26s %6d", c, r.ByCategory[c]))
	}
	if len(catLines) == 0 {
		catLines = append(catLines, theme.Pass.Render("no issues"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Card.Render(strings.Join(sev, "\n")),
		" ",
		theme.Card.Render(strings.Join(catLines, "\n")),
	))
	b.WriteString("\n")

	if opts.MaxIssues > 0 {
		listed := r.ranked(opts.MinSeverity)
		if len(listed) > opts.MaxIssues {
			listed = listed[:opts.MaxIssues]
		}
		if len(listed) > 0 {
			b.WriteString("\n")
		}
		for _, i := range listed {
			ref := string(i.Exam)
			if i.RecordID != "" {
				ref += "/" + i.RecordID
			}
			fmt.Fprintf(&b, "%s %s %s %s\n",
				theme.Severity(string(i.Severity)).Render(string(i.Severity)),
				theme.Dim.Render(ref),
				theme.Body.Render(string(i.Category)),
				i.Message)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ranked returns issues at or above floor, most severe first, stable within
// a severity.
func (r *Report) ranked(floor Severity) []Issue {
	out := make([]Issue, 0, len(r.Issues))
	for _, i := range r.Issues {
		if i.Severity.Rank() >= floor.Rank() {
			out = append(out, i)
		}
	}
	slices.SortStableFunc(out, func(a, b Issue) int {
		return cmp.Compare(b.Severity.Rank(), a.Severity.Rank())
	})
	return out
}

func sortedExams(m map[question.ExamID]int) []question.ExamID {
	var out []question.ExamID
	for _, e := range question.AllExams() {
		if _, ok := m[e]; ok {
			out = append(out, e)
		}
	}
	var extra []question.ExamID
	for e := range m {
		if !slices.Contains(out, e) {
			extra = append(extra, e)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// sortedCategories orders categories by count, then name.
func sortedCategories(m map[Category]int) []Category {
	out := make([]Category, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Category) int {
		if d := cmp.Compare(m[b], m[a]); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})
	return out
}
