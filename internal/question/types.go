package question

import (
	"fmt"
	"slices"
	"strings"
)

// ExamID identifies the certification exam a question belongs to.
type ExamID string

const (
	ExamCPA  ExamID = "cpa"
	ExamCIA  ExamID = "cia"
	ExamCMA  ExamID = "cma"
	ExamCFP  ExamID = "cfp"
	ExamEA   ExamID = "ea"
	ExamCISA ExamID = "cisa"
)

// AllExams returns every supported exam in display order.
func AllExams() []ExamID {
	return []ExamID{ExamCPA, ExamCIA, ExamCMA, ExamCFP, ExamEA, ExamCISA}
}

// ParseExam converts a raw exam tag (case-insensitive) into an ExamID.
func ParseExam(raw string) (ExamID, error) {
	id := ExamID(strings.ToLower(strings.TrimSpace(raw)))
	if !slices.Contains(AllExams(), id) {
		return "", fmt.Errorf("%w: %q", ErrUnknownExam, raw)
	}
	return id, nil
}

// DisplayName returns the upper-case exam code, e.g. "CPA".
func (e ExamID) DisplayName() string {
	return strings.ToUpper(string(e))
}

// knownSections lists the blueprint sections of each exam.
var knownSections = map[ExamID][]string{
	ExamCPA:  {"FAR", "AUD", "REG", "BAR", "ISC", "TCP"},
	ExamCIA:  {"CIA1", "CIA2", "CIA3"},
	ExamCMA:  {"CMA1", "CMA2"},
	ExamCFP:  {"GEN", "RISK", "INV", "TAX", "RET", "EST", "PSY", "PCR"},
	ExamEA:   {"SEE1", "SEE2", "SEE3"},
	ExamCISA: {"D1", "D2", "D3", "D4", "D5"},
}

// KnownSections returns the enumerated section codes for an exam.
// Returns nil for an unknown exam.
func KnownSections(exam ExamID) []string {
	return knownSections[exam]
}

// IsKnownSection reports whether section is one of the exam's enumerated
// sections. Comparison is case-insensitive.
func IsKnownSection(exam ExamID, section string) bool {
	for _, s := range knownSections[exam] {
		if strings.EqualFold(s, strings.TrimSpace(section)) {
			return true
		}
	}
	return false
}

// UnspecifiedSection is the sentinel section assigned to records that carry
// no classification at all.
func UnspecifiedSection(exam ExamID) string {
	return exam.DisplayName() + " - Unspecified"
}

// Difficulty is the coarse difficulty band of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is assigned when a record carries no usable difficulty.
const DefaultDifficulty = DifficultyMedium

// AllDifficulties returns the difficulty bands from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

var difficultyAliases = map[string]Difficulty{
	"easy":         DifficultyEasy,
	"beginner":     DifficultyEasy,
	"basic":        DifficultyEasy,
	"1":            DifficultyEasy,
	"medium":       DifficultyMedium,
	"intermediate": DifficultyMedium,
	"moderate":     DifficultyMedium,
	"2":            DifficultyMedium,
	"hard":         DifficultyHard,
	"advanced":     DifficultyHard,
	"difficult":    DifficultyHard,
	"3":            DifficultyHard,
}

// ParseDifficulty maps a raw difficulty label onto a Difficulty.
// Empty or unrecognised labels yield DefaultDifficulty.
func ParseDifficulty(raw string) Difficulty {
	if d, ok := difficultyAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return d
	}
	return DefaultDifficulty
}

// Question is the canonical record every analysis and curation step consumes.
type Question struct {
	ID         string     `json:"id" yaml:"id"`
	Exam       ExamID     `json:"exam" yaml:"exam"`
	Section    string     `json:"section" yaml:"section"`
	Topic      string     `json:"topic,omitempty" yaml:"topic,omitempty"`
	Subtopic   string     `json:"subtopic,omitempty" yaml:"subtopic,omitempty"`
	Blueprint  string     `json:"blueprintArea,omitempty" yaml:"blueprintArea,omitempty"`
	SkillLevel string     `json:"skillLevel,omitempty" yaml:"skillLevel,omitempty"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// Prompt is the question body shown to the candidate.
	Prompt string `json:"question" yaml:"question"`

	// Options holds the answer choices in display order.
	Options []string `json:"options" yaml:"options"`

	// CorrectIndex is the zero-based index into Options.
	CorrectIndex int `json:"correctIndex" yaml:"correctIndex"`

	Explanation string `json:"explanation" yaml:"explanation"`
}

// CorrectOption returns the text of the correct option and whether
// CorrectIndex is within bounds.
func (q Question) CorrectOption() (string, bool) {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return "", false
	}
	return q.Options[q.CorrectIndex], true
}

// HasUnspecifiedSection reports whether the section is missing or the
// normalizer's sentinel.
func (q Question) HasUnspecifiedSection() bool {
	s := strings.TrimSpace(q.Section)
	return s == "" || s == UnspecifiedSection(q.Exam)
}

// GroupByExam splits questions per exam, preserving input order within each
// exam. The returned exam slice is in AllExams order followed by any other
// exam tags sorted lexically.
func GroupByExam(questions []Question) ([]ExamID, map[ExamID][]Question) {
	groups := make(map[ExamID][]Question)
	for _, q := range questions {
		groups[q.Exam] = append(groups[q.Exam], q)
	}

	var order []ExamID
	for _, e := range AllExams() {
		if _, ok := groups[e]; ok {
			order = append(order, e)
		}
	}
	var extra []ExamID
	for e := range groups {
		if !slices.Contains(AllExams(), e) {
			extra = append(extra, e)
		}
	}
	slices.Sort(extra)
	return append(order, extra...), groups
}
