package audit

import (
	"strings"
	"unicode/utf8"

	"github.com/abhisek/qbank/internal/question"
)

// StructuralValidator checks that a record is usable for delivery: ids,
// option shape, answer bounds, prompt length and unfinished text.
type StructuralValidator struct {
	cfg Config
}

// NewStructuralValidator creates a StructuralValidator with cfg thresholds.
func NewStructuralValidator(cfg Config) *StructuralValidator {
	return &StructuralValidator{cfg: cfg}
}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Check(q question.Question) []Issue {
	var issues []Issue

	if strings.TrimSpace(q.ID) == "" {
		issues = append(issues, newIssue(q, SeverityCritical, CategoryMissingID, "record has no id"))
	}

	switch n := len(q.Options); {
	case n < v.cfg.OptionCount:
		issues = append(issues, newIssue(q, SeverityCritical, CategoryTooFewOptions,
			"has %d options, expected %d", n, v.cfg.OptionCount))
	case n > v.cfg.MaxOptions:
		issues = append(issues, newIssue(q, SeverityHigh, CategoryTooManyOptions,
			"has %d options, expected %d", n, v.cfg.OptionCount))
	}

	folded := make([]string, len(q.Options))
	for i, o := range q.Options {
		folded[i] = strings.ToLower(strings.TrimSpace(o))
		if folded[i] == "" {
			issues = append(issues, newIssue(q, SeverityCritical, CategoryEmptyOption,
				"option %d is empty", i))
		}
	}
	for i := 0; i < len(folded); i++ {
		if folded[i] == "" {
			continue
		}
		for j := i + 1; j < len(folded); j++ {
			if folded[i] == folded[j] {
				issues = append(issues, newIssue(q, SeverityCritical, CategoryDuplicateOptions,
					"options %d and %d are identical (%q)", i, j, strings.TrimSpace(q.Options[i])))
			}
		}
	}

	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		issues = append(issues, newIssue(q, SeverityCritical, CategoryAnswerOutOfBound,
			"correct index %d outside [0, %d)", q.CorrectIndex, len(q.Options)))
	}

	prompt := strings.TrimSpace(q.Prompt)
	switch n := utf8.RuneCountInString(prompt); {
	case n < v.cfg.MinPromptLength:
		issues = append(issues, newIssue(q, SeverityCritical, CategoryQuestionTooShort,
			"question is %d characters, minimum %d", n, v.cfg.MinPromptLength))
	case n < v.cfg.ShortPromptLength:
		issues = append(issues, newIssue(q, SeverityHigh, CategoryQuestionShort,
			"question is %d characters, recommended at least %d", n, v.cfg.ShortPromptLength))
	}

	lower := strings.ToLower(q.Prompt)
	for _, token := range v.cfg.Placeholders {
		if token != "" && strings.Contains(lower, strings.ToLower(token)) {
			issues = append(issues, newIssue(q, SeverityCritical, CategoryPlaceholderText,
				"question contains placeholder text %q", token))
			break
		}
	}

	return issues
}
