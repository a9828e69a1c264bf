package question

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant names one of the raw on-disk record shapes.
type Variant string

const (
	// VariantIndexed is plain string options with a numeric correct index.
	VariantIndexed Variant = "indexed"

	// VariantFlagged is option objects carrying a correctness flag.
	VariantFlagged Variant = "flagged"

	// VariantLettered is option objects with a letter-coded correct option.
	VariantLettered Variant = "lettered"
)

// RawRecord is a question record in one of the supported raw shapes.
// The concrete types are IndexedRecord, FlaggedRecord and LetteredRecord.
type RawRecord interface {
	Variant() Variant
	Meta() RawMeta
}

// RawMeta holds the fields every raw shape shares.
type RawMeta struct {
	ID            string
	Prompt        string
	Section       string
	Domain        string
	BlueprintArea string
	Topic         string
	Subtopic      string
	Difficulty    string
	Explanation   string
	SkillLevel    string
}

// IndexedRecord stores options as plain strings and the answer as a
// zero-based index. CorrectIndex is -1 when the source carried no index.
type IndexedRecord struct {
	RawMeta
	Options      []string
	CorrectIndex int
}

func (r IndexedRecord) Variant() Variant { return VariantIndexed }
func (r IndexedRecord) Meta() RawMeta    { return r.RawMeta }

// FlaggedOption is an option object with an explicit correctness flag.
type FlaggedOption struct {
	Text    string
	Correct bool
}

// FlaggedRecord stores option objects, each flagged correct or not.
type FlaggedRecord struct {
	RawMeta
	Options []FlaggedOption
}

func (r FlaggedRecord) Variant() Variant { return VariantFlagged }
func (r FlaggedRecord) Meta() RawMeta    { return r.RawMeta }

// LetteredOption is an option object identified by a letter code.
type LetteredOption struct {
	ID   string
	Text string
}

// LetteredRecord stores option objects and names the correct one by letter
// ("A" for the first option).
type LetteredRecord struct {
	RawMeta
	Options       []LetteredOption
	CorrectLetter string
}

func (r LetteredRecord) Variant() Variant { return VariantLettered }
func (r LetteredRecord) Meta() RawMeta    { return r.RawMeta }

// Field name aliases seen across the exam banks.
var (
	promptKeys      = []string{"question", "questionText", "stem", "prompt"}
	correctKeys     = []string{"correctAnswer", "correctIndex", "correctOptionId", "answer"}
	optionTextKeys  = []string{"text", "label", "value", "option"}
	optionFlagKeys  = []string{"isCorrect", "correct"}
	explanationKeys = []string{"explanation", "rationale"}
)

// Classify inspects a decoded record and returns the matching raw variant.
// It is the only place that looks at record shape. Records whose options
// are missing, empty or of mixed shape return an ErrMalformed error.
func Classify(m map[string]any) (RawRecord, error) {
	meta := RawMeta{
		ID:            stringField(m, "id"),
		Prompt:        stringField(m, promptKeys...),
		Section:       stringField(m, "section"),
		Domain:        stringField(m, "domain"),
		BlueprintArea: stringField(m, "blueprintArea", "blueprint"),
		Topic:         stringField(m, "topic"),
		Subtopic:      stringField(m, "subtopic"),
		Difficulty:    stringField(m, "difficulty"),
		Explanation:   stringField(m, explanationKeys...),
		SkillLevel:    stringField(m, "skillLevel"),
	}

	items, ok := m["options"].([]any)
	if !ok || len(items) == 0 {
		return nil, malformed(meta.ID, "options missing or empty")
	}

	marker, hasMarker := firstPresent(m, correctKeys...)

	if texts, ok := scalarOptions(items); ok {
		if !hasMarker {
			return IndexedRecord{RawMeta: meta, Options: texts, CorrectIndex: -1}, nil
		}
		if idx, ok := asInt(marker); ok {
			return IndexedRecord{RawMeta: meta, Options: texts, CorrectIndex: idx}, nil
		}
		if isNumeric(marker) {
			return IndexedRecord{RawMeta: meta, Options: texts, CorrectIndex: -1}, nil
		}
		opts := make([]LetteredOption, len(texts))
		for i, t := range texts {
			opts[i] = LetteredOption{Text: t}
		}
		return LetteredRecord{RawMeta: meta, Options: opts, CorrectLetter: scalarString(marker)}, nil
	}

	objects := make([]map[string]any, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			return nil, malformed(meta.ID, "options mix objects and scalars")
		}
		objects = append(objects, obj)
	}

	if hasFlag(objects) {
		opts := make([]FlaggedOption, len(objects))
		for i, obj := range objects {
			opts[i] = FlaggedOption{Text: stringField(obj, optionTextKeys...), Correct: flagValue(obj)}
		}
		return FlaggedRecord{RawMeta: meta, Options: opts}, nil
	}

	opts := make([]LetteredOption, len(objects))
	for i, obj := range objects {
		opts[i] = LetteredOption{ID: stringField(obj, "id"), Text: stringField(obj, optionTextKeys...)}
	}
	lettered := LetteredRecord{RawMeta: meta, Options: opts, CorrectLetter: scalarString(marker)}

	// An option id wins over reading the marker as a position.
	if !hasMarker || matchesOptionID(opts, lettered.CorrectLetter) {
		return lettered, nil
	}
	if idx, ok := asInt(marker); ok {
		return IndexedRecord{RawMeta: meta, Options: optionTexts(opts), CorrectIndex: idx}, nil
	}
	if isNumeric(marker) {
		return IndexedRecord{RawMeta: meta, Options: optionTexts(opts), CorrectIndex: -1}, nil
	}
	return lettered, nil
}

func matchesOptionID(opts []LetteredOption, marker string) bool {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return false
	}
	for _, o := range opts {
		if strings.EqualFold(strings.TrimSpace(o.ID), marker) {
			return true
		}
	}
	return false
}

func optionTexts(opts []LetteredOption) []string {
	texts := make([]string, len(opts))
	for i, o := range opts {
		texts[i] = o.Text
	}
	return texts
}

func scalarOptions(items []any) ([]string, bool) {
	texts := make([]string, len(items))
	for i, it := range items {
		if _, isObj := it.(map[string]any); isObj || it == nil {
			return nil, false
		}
		texts[i] = scalarString(it)
	}
	return texts, true
}

func hasFlag(objects []map[string]any) bool {
	for _, obj := range objects {
		for _, k := range optionFlagKeys {
			if _, ok := obj[k].(bool); ok {
				return true
			}
		}
	}
	return false
}

func flagValue(obj map[string]any) bool {
	for _, k := range optionFlagKeys {
		if b, ok := obj[k].(bool); ok {
			return b
		}
	}
	return false
}

// firstPresent returns the first non-nil value among keys.
func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// stringField returns the first non-blank scalar value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if _, isObj := v.(map[string]any); isObj {
			continue
		}
		if _, isList := v.([]any); isList {
			continue
		}
		if s := scalarString(v); strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// scalarString renders a decoded scalar. YAML decodes bare numbers in option
// lists as int, JSON as float64; both must come back as their literal text.
func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// asInt converts integral numbers and digit strings to int.
func asInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// isNumeric reports whether v is a number, integral or not. A fractional
// marker names no option position.
func isNumeric(v any) bool {
	switch t := v.(type) {
	case int, int64, uint64, float64:
		return true
	case string:
		t = strings.TrimSpace(t)
		if !strings.ContainsAny(t, "0123456789") {
			return false
		}
		_, err := strconv.ParseFloat(t, 64)
		return err == nil
	default:
		return false
	}
}
