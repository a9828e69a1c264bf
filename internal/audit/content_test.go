package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/qbank/internal/question"
)

func TestContent_CleanRecord(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())
	assert.Empty(t, a.Check(validQuestion()))
}

func TestContent_Explanation(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())

	q := validQuestion()
	q.Explanation = "   "
	assert.Equal(t, []Category{CategoryMissingExplanation}, categories(a.Check(q)))

	q.Explanation = "Too brief."
	issues := a.Check(q)
	assert.Equal(t, []Category{CategoryExplanationTooShort}, categories(issues))
	assert.Equal(t, SeverityHigh, issues[0].Severity)

	q.Explanation = strings.Repeat("e", 20)
	assert.Empty(t, a.Check(q))
}

func TestContent_SingleCharOption(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())
	q := validQuestion()
	q.Options = []string{"A", " 7 ", "Interest income", "Dividend income"}
	issues := a.Check(q)
	assert.Equal(t, 1, countCategory(issues, CategorySingleCharOption))
	assert.Contains(t, issues[0].Message, "option 0")
}

func TestContent_CorrectAnswerStandout(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())

	q := validQuestion()
	q.Options = []string{
		"Recognize revenue when control of the promised goods transfers to the customer at a point in time",
		"When cash is received",
		"When invoiced",
		"At contract signing",
	}
	issues := a.Check(q)
	assert.Equal(t, 1, countCategory(issues, CategoryCorrectStandout))

	// A long distractor set raises the mean above the multiplier.
	q.Options[1] = strings.Repeat("d", 60)
	q.Options[2] = strings.Repeat("e", 60)
	assert.Zero(t, countCategory(a.Check(q), CategoryCorrectStandout))

	// Below the absolute floor nothing is flagged, however short the distractors.
	q.Options = []string{strings.Repeat("c", 50), "a", "b", "c"}
	assert.Zero(t, countCategory(a.Check(q), CategoryCorrectStandout))

	// Only the correct option is measured: a long distractor is not a leak.
	q.Options = []string{"Yes", strings.Repeat("d", 120), "No", "Maybe"}
	assert.Zero(t, countCategory(a.Check(q), CategoryCorrectStandout))
}

func TestContent_MetadataCompleteness(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())
	q := validQuestion()
	q.Section = question.UnspecifiedSection(q.Exam)
	q.Topic = ""
	q.Blueprint = ""
	q.SkillLevel = ""
	issues := a.Check(q)

	assert.ElementsMatch(t,
		[]Category{CategoryMissingSection, CategoryMissingTopic, CategoryMissingBlueprint, CategoryMissingSkillLevel},
		categories(issues))
	for _, i := range issues {
		assert.Equal(t, SeverityMedium, i.Severity)
	}

	q = validQuestion()
	q.Exam = ""
	q.Section = ""
	assert.Subset(t, categories(a.Check(q)), []Category{CategoryMissingExam, CategoryMissingSection})
}

func TestContent_UnknownSection(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())
	q := validQuestion()
	q.Section = "Financial Accounting"
	issues := a.Check(q)
	assert.Equal(t, []Category{CategoryUnknownSection}, categories(issues))
	assert.Equal(t, SeverityLow, issues[0].Severity)
	assert.Equal(t, `section "Financial Accounting" is not a known CPA section (expected one of FAR, AUD, REG, BAR, ISC, TCP)`,
		issues[0].Message)

	q.Section = "far"
	assert.Empty(t, a.Check(q))
}

func TestContent_NearDuplicateOptions(t *testing.T) {
	a := NewContentAnalyzer(DefaultConfig())

	q := validQuestion()
	q.Options = []string{"Net income.", "net   income", "Gross margin", "Operating (income)"}
	issues := a.Check(q)
	assert.Equal(t, 1, countCategory(issues, CategoryNearDuplicateOption))
	assert.Contains(t, issues[0].Message, "options 0, 1")

	// Exact duplicates belong to the structural validator.
	q.Options = []string{"Net income", "net income ", "Gross margin", "Operating income"}
	assert.Zero(t, countCategory(a.Check(q), CategoryNearDuplicateOption))

	// Normalized values of length <= 2 are ignored.
	q.Options = []string{"I.", "i", "Gross margin", "Operating income"}
	assert.Zero(t, countCategory(a.Check(q), CategoryNearDuplicateOption))
}
