package audit

import (
	"fmt"

	"github.com/abhisek/qbank/internal/question"
)

// Severity classifies how serious an Issue is.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// AllSeverities returns severities from most to least serious.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Rank orders severities; higher is more serious. Unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Category names the kind of defect an Issue reports.
type Category string

// Structural defects.
const (
	CategoryMissingID        Category = "missing-id"
	CategoryTooFewOptions    Category = "too-few-options"
	CategoryTooManyOptions   Category = "too-many-options"
	CategoryEmptyOption      Category = "empty-option"
	CategoryDuplicateOptions Category = "duplicate-options"
	CategoryAnswerOutOfBound Category = "answer-out-of-bounds"
	CategoryQuestionTooShort Category = "question-too-short"
	CategoryQuestionShort    Category = "question-short"
	CategoryPlaceholderText  Category = "placeholder-text"
)

// Content quality defects.
const (
	CategoryMissingExplanation  Category = "missing-explanation"
	CategoryExplanationTooShort Category = "explanation-too-short"
	CategorySingleCharOption    Category = "single-char-option"
	CategoryCorrectStandout     Category = "correct-answer-standout"
	CategoryMissingSection      Category = "missing-section"
	CategoryMissingExam         Category = "missing-exam"
	CategoryMissingBlueprint    Category = "missing-blueprint"
	CategoryMissingSkillLevel   Category = "missing-skill-level"
	CategoryMissingTopic        Category = "missing-topic"
	CategoryNearDuplicateOption Category = "near-duplicate-options"
	CategoryUnknownSection      Category = "unknown-section"
)

// Corpus-wide defects.
const (
	CategoryDuplicateID   Category = "duplicate-id"
	CategoryDuplicateText Category = "duplicate-question-text"
	CategoryAnswerBias    Category = "answer-pattern-bias"
)

// Issue is one finding of an audit run. Issues are values and are never
// modified after creation.
type Issue struct {
	Severity Severity        `json:"severity"`
	Category Category        `json:"category"`
	RecordID string          `json:"recordId,omitempty"`
	Exam     question.ExamID `json:"examId"`
	Message  string          `json:"message"`
}

func (i Issue) String() string {
	if i.RecordID == "" {
		return fmt.Sprintf("[%s] %s %s: %s", i.Severity, i.Exam, i.Category, i.Message)
	}
	return fmt.Sprintf("[%s] %s/%s %s: %s", i.Severity, i.Exam, i.RecordID, i.Category, i.Message)
}

// newIssue builds an Issue about a single record.
func newIssue(q question.Question, sev Severity, cat Category, format string, args ...any) Issue {
	return Issue{
		Severity: sev,
		Category: cat,
		RecordID: q.ID,
		Exam:     q.Exam,
		Message:  fmt.Sprintf(format, args...),
	}
}
