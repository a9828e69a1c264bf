package audit

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/qbank/internal/question"
)

// ContentAnalyzer reports heuristic quality concerns: weak explanations,
// stray option artifacts, answer-length leaks, incomplete metadata and
// options that differ only in punctuation.
type ContentAnalyzer struct {
	cfg   Config
	strip *strings.Replacer
}

// NewContentAnalyzer creates a ContentAnalyzer with cfg thresholds.
func NewContentAnalyzer(cfg Config) *ContentAnalyzer {
	pairs := make([]string, 0, 2*len(cfg.NearDuplicatePunctuation))
	for _, r := range cfg.NearDuplicatePunctuation {
		pairs = append(pairs, string(r), "")
	}
	return &ContentAnalyzer{cfg: cfg, strip: strings.NewReplacer(pairs...)}
}

func (a *ContentAnalyzer) Name() string { return "content" }

func (a *ContentAnalyzer) Check(q question.Question) []Issue {
	var issues []Issue
	issues = append(issues, a.checkExplanation(q)...)
	issues = append(issues, a.checkSingleChar(q)...)
	issues = append(issues, a.checkStandout(q)...)
	issues = append(issues, a.checkMetadata(q)...)
	issues = append(issues, a.checkNearDuplicates(q)...)
	return issues
}

func (a *ContentAnalyzer) checkExplanation(q question.Question) []Issue {
	n := utf8.RuneCountInString(strings.TrimSpace(q.Explanation))
	switch {
	case n == 0:
		return []Issue{newIssue(q, SeverityHigh, CategoryMissingExplanation, "no explanation")}
	case n < a.cfg.MinExplanationLength:
		return []Issue{newIssue(q, SeverityHigh, CategoryExplanationTooShort,
			"explanation is %d characters, minimum %d", n, a.cfg.MinExplanationLength)}
	}
	return nil
}

// checkSingleChar catches stray lettered artifacts such as a lone "A".
// Bare digits are legitimate numeric answers.
func (a *ContentAnalyzer) checkSingleChar(q question.Question) []Issue {
	var issues []Issue
	for i, o := range q.Options {
		t := strings.TrimSpace(o)
		if utf8.RuneCountInString(t) != 1 {
			continue
		}
		r, _ := utf8.DecodeRuneInString(t)
		if unicode.IsDigit(r) {
			continue
		}
		issues = append(issues, newIssue(q, SeverityHigh, CategorySingleCharOption,
			"option %d is a single character %q", i, t))
	}
	return issues
}

// checkStandout flags a correct option written far more elaborately than
// its distractors. Only the record's own options are compared.
func (a *ContentAnalyzer) checkStandout(q question.Question) []Issue {
	correct, ok := q.CorrectOption()
	if !ok || len(q.Options) < 2 {
		return nil
	}
	correctLen := utf8.RuneCountInString(strings.TrimSpace(correct))
	if correctLen <= a.cfg.StandoutMinLength {
		return nil
	}

	total := 0
	for i, o := range q.Options {
		if i != q.CorrectIndex {
			total += utf8.RuneCountInString(strings.TrimSpace(o))
		}
	}
	mean := float64(total) / float64(len(q.Options)-1)
	if float64(correctLen) <= mean*a.cfg.StandoutMultiplier {
		return nil
	}
	return []Issue{newIssue(q, SeverityHigh, CategoryCorrectStandout,
		"correct option is %d characters vs distractor mean %.1f", correctLen, mean)}
}

func (a *ContentAnalyzer) checkMetadata(q question.Question) []Issue {
	var issues []Issue
	if q.HasUnspecifiedSection() {
		issues = append(issues, newIssue(q, SeverityMedium, CategoryMissingSection, "no section"))
	} else if q.Exam != "" && !question.IsKnownSection(q.Exam, q.Section) {
		msg := fmt.Sprintf("section %q is not a known %s section", q.Section, q.Exam.DisplayName())
		if known := question.KnownSections(q.Exam); len(known) > 0 {
			msg += " (expected one of " + strings.Join(known, ", ") + ")"
		}
		issues = append(issues, newIssue(q, SeverityLow, CategoryUnknownSection, "%s", msg))
	}
	if strings.TrimSpace(string(q.Exam)) == "" {
		issues = append(issues, newIssue(q, SeverityMedium, CategoryMissingExam, "no exam tag"))
	}
	if strings.TrimSpace(q.Blueprint) == "" {
		issues = append(issues, newIssue(q, SeverityMedium, CategoryMissingBlueprint, "no blueprint area"))
	}
	if strings.TrimSpace(q.SkillLevel) == "" {
		issues = append(issues, newIssue(q, SeverityMedium, CategoryMissingSkillLevel, "no skill level"))
	}
	if strings.TrimSpace(q.Topic) == "" {
		issues = append(issues, newIssue(q, SeverityMedium, CategoryMissingTopic, "no topic"))
	}
	return issues
}

// checkNearDuplicates groups options equal after punctuation stripping,
// case folding and whitespace collapsing. Pairs that are already exact
// duplicates are left to the structural validator.
func (a *ContentAnalyzer) checkNearDuplicates(q question.Question) []Issue {
	groups := make(map[string][]int)
	var order []string
	for i, o := range q.Options {
		key := a.nearKey(o)
		if utf8.RuneCountInString(key) <= a.cfg.NearDuplicateMinLength {
			continue
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	var issues []Issue
	for _, key := range order {
		idx := groups[key]
		if len(idx) < 2 || allExactDuplicates(q.Options, idx) {
			continue
		}
		issues = append(issues, newIssue(q, SeverityMedium, CategoryNearDuplicateOption,
			"options %s differ only in punctuation or spacing", joinInts(idx)))
	}
	return issues
}

func (a *ContentAnalyzer) nearKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(a.strip.Replace(s))), " ")
}

func allExactDuplicates(options []string, idx []int) bool {
	first := strings.ToLower(strings.TrimSpace(options[idx[0]]))
	for _, i := range idx[1:] {
		if strings.ToLower(strings.TrimSpace(options[i])) != first {
			return false
		}
	}
	return true
}
