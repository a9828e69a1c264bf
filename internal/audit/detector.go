package audit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/qbank/internal/question"
)

// Tally accumulates the cross-record facts of a single exam. Tallies are
// built independently per exam and merged by Detector, so building them in
// parallel needs no locking.
type Tally struct {
	Exam  question.ExamID
	Total int

	cfg      Config
	idCounts map[string]int
	idOrder  []string
	texts    map[string][]string
	txtOrder []string
	answers  map[int]int
}

// NewTally creates an empty Tally for exam.
func NewTally(exam question.ExamID, cfg Config) *Tally {
	return &Tally{
		Exam:     exam,
		cfg:      cfg,
		idCounts: make(map[string]int),
		texts:    make(map[string][]string),
		answers:  make(map[int]int),
	}
}

// Add folds one record into the tally.
func (t *Tally) Add(q question.Question) {
	t.Total++
	t.answers[q.CorrectIndex]++

	if id := strings.TrimSpace(q.ID); id != "" {
		if t.idCounts[id] == 0 {
			t.idOrder = append(t.idOrder, id)
		}
		t.idCounts[id]++
	}

	key := normalizePrompt(q.Prompt)
	if utf8.RuneCountInString(key) < t.cfg.DuplicateTextMinLength {
		return
	}
	if _, seen := t.texts[key]; !seen {
		t.txtOrder = append(t.txtOrder, key)
	}
	t.texts[key] = append(t.texts[key], q.ID)
}

// normalizePrompt lowercases and collapses all whitespace runs.
func normalizePrompt(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Detector runs the corpus-wide checks over a complete set of tallies:
// global id uniqueness, duplicate prompts within an exam and answer-position
// bias. It must see every tally before reporting.
type Detector struct {
	cfg Config
}

// NewDetector creates a Detector with cfg thresholds.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Detect merges tallies in the order given and returns the corpus issues.
func (d *Detector) Detect(tallies []*Tally) []Issue {
	var issues []Issue
	issues = append(issues, d.duplicateIDs(tallies)...)
	for _, t := range tallies {
		issues = append(issues, d.duplicateTexts(t)...)
	}
	for _, t := range tallies {
		issues = append(issues, d.answerBias(t)...)
	}
	return issues
}

// duplicateIDs reports each id seen more than once anywhere in the corpus,
// once, naming every exam occurrence.
func (d *Detector) duplicateIDs(tallies []*Tally) []Issue {
	seen := make(map[string][]question.ExamID)
	var order []string
	for _, t := range tallies {
		for _, id := range t.idOrder {
			if _, ok := seen[id]; !ok {
				order = append(order, id)
			}
			for range t.idCounts[id] {
				seen[id] = append(seen[id], t.Exam)
			}
		}
	}

	var issues []Issue
	for _, id := range order {
		exams := seen[id]
		if len(exams) < 2 {
			continue
		}
		names := make([]string, len(exams))
		for i, e := range exams {
			names[i] = string(e)
		}
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Category: CategoryDuplicateID,
			RecordID: id,
			Exam:     exams[0],
			Message:  fmt.Sprintf("id appears %d times (%s)", len(exams), strings.Join(names, ", ")),
		})
	}
	return issues
}

// duplicateTexts reports groups of identical prompts within one exam. The
// same prompt in different exams is allowed.
func (d *Detector) duplicateTexts(t *Tally) []Issue {
	var issues []Issue
	for _, key := range t.txtOrder {
		ids := t.texts[key]
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Category: CategoryDuplicateText,
			RecordID: ids[0],
			Exam:     t.Exam,
			Message:  fmt.Sprintf("same question text in %d records: %s", len(ids), strings.Join(ids, ", ")),
		})
	}
	return issues
}

// answerBias reports any correct-answer position holding more than
// BiasThreshold of an exam's records.
func (d *Detector) answerBias(t *Tally) []Issue {
	if t.Total < d.cfg.BiasMinRecords || t.Total == 0 {
		return nil
	}
	positions := make([]int, 0, len(t.answers))
	for idx := range t.answers {
		positions = append(positions, idx)
	}
	slices.Sort(positions)

	var issues []Issue
	for _, idx := range positions {
		share := float64(t.answers[idx]) / float64(t.Total)
		if share <= d.cfg.BiasThreshold {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityHigh,
			Category: CategoryAnswerBias,
			Exam:     t.Exam,
			Message: fmt.Sprintf("correct answer is index %d in %d of %d records (%.1f%%)",
				idx, t.answers[idx], t.Total, share*100),
		})
	}
	return issues
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
