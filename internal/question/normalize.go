package question

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Normalizer maps raw records of any variant onto the canonical Question.
// It is pure apart from logging dropped records.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer. A nil logger disables logging.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts one raw record owned by exam into a canonical Question.
// Returns an ErrMalformed error when no prompt or no options can be derived.
func (n *Normalizer) Normalize(exam ExamID, rec RawRecord) (Question, error) {
	meta := rec.Meta()
	if strings.TrimSpace(meta.Prompt) == "" {
		return Question{}, malformed(meta.ID, "prompt is empty")
	}

	var (
		options []string
		correct int
	)
	switch r := rec.(type) {
	case IndexedRecord:
		options, correct = fromIndexed(r)
	case FlaggedRecord:
		options, correct = fromFlagged(r)
	case LetteredRecord:
		options, correct = fromLettered(r)
	default:
		return Question{}, malformed(meta.ID, fmt.Sprintf("unsupported variant %T", rec))
	}
	if len(options) == 0 {
		return Question{}, malformed(meta.ID, "no options")
	}

	return Question{
		ID:           strings.TrimSpace(meta.ID),
		Exam:         exam,
		Section:      sectionFor(exam, meta),
		Topic:        meta.Topic,
		Subtopic:     meta.Subtopic,
		Blueprint:    firstNonBlank(meta.BlueprintArea, meta.Domain),
		SkillLevel:   meta.SkillLevel,
		Difficulty:   ParseDifficulty(meta.Difficulty),
		Prompt:       meta.Prompt,
		Options:      options,
		CorrectIndex: correct,
		Explanation:  meta.Explanation,
	}, nil
}

// NormalizeAll converts every record of a bank, dropping (and logging) the
// malformed ones. Returns the canonical questions and the drop count.
func (n *Normalizer) NormalizeAll(exam ExamID, recs []RawRecord) ([]Question, int) {
	out := make([]Question, 0, len(recs))
	dropped := 0
	for i, rec := range recs {
		q, err := n.Normalize(exam, rec)
		if err != nil {
			dropped++
			n.logger.Warn("dropping malformed record",
				zap.String("exam", string(exam)),
				zap.Int("position", i),
				zap.String("variant", string(rec.Variant())),
				zap.Error(err))
			continue
		}
		out = append(out, q)
	}
	return out, dropped
}

func fromIndexed(r IndexedRecord) ([]string, int) {
	return append([]string(nil), r.Options...), r.CorrectIndex
}

// fromFlagged picks the first flagged option; none flagged falls back to 0.
func fromFlagged(r FlaggedRecord) ([]string, int) {
	options := make([]string, len(r.Options))
	correct := -1
	for i, o := range r.Options {
		options[i] = o.Text
		if o.Correct && correct < 0 {
			correct = i
		}
	}
	if correct < 0 {
		correct = 0
	}
	return options, correct
}

func fromLettered(r LetteredRecord) ([]string, int) {
	options := make([]string, len(r.Options))
	for i, o := range r.Options {
		options[i] = o.Text
	}
	return options, letterIndex(r.CorrectLetter, r.Options)
}

// letterIndex resolves a correct-answer code. An option whose id matches
// the code wins; otherwise a single letter is read as its offset from 'A'.
// Anything outside the option range falls back to 0.
func letterIndex(code string, options []LetteredOption) int {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return 0
	}
	for i, o := range options {
		if strings.EqualFold(strings.TrimSpace(o.ID), code) {
			return i
		}
	}
	if utf8.RuneCountInString(code) == 1 {
		r, _ := utf8.DecodeRuneInString(code)
		if idx := int(r - 'A'); idx >= 0 && idx < len(options) {
			return idx
		}
	}
	return 0
}

func sectionFor(exam ExamID, meta RawMeta) string {
	if s := firstNonBlank(meta.Section, meta.Domain, meta.BlueprintArea); s != "" {
		return s
	}
	return UnspecifiedSection(exam)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
