package question

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleOptions = []string{"Accrual basis", "Cash basis", "Modified cash basis", "Tax basis"}

func sampleMeta() RawMeta {
	return RawMeta{
		ID:          "far-001",
		Prompt:      "Which basis of accounting is required under GAAP?",
		Section:     "FAR",
		Topic:       "Conceptual framework",
		Difficulty:  "hard",
		Explanation: "GAAP requires the accrual basis of accounting.",
	}
}

func TestNormalize_RoundTripAllVariants(t *testing.T) {
	n := NewNormalizer(nil)

	for want := range sampleOptions {
		letter := string(rune('A' + want))

		flagged := FlaggedRecord{RawMeta: sampleMeta()}
		lettered := LetteredRecord{RawMeta: sampleMeta(), CorrectLetter: letter}
		for i, o := range sampleOptions {
			flagged.Options = append(flagged.Options, FlaggedOption{Text: o, Correct: i == want})
			lettered.Options = append(lettered.Options, LetteredOption{ID: string(rune('A' + i)), Text: o})
		}

		records := []RawRecord{
			IndexedRecord{RawMeta: sampleMeta(), Options: sampleOptions, CorrectIndex: want},
			flagged,
			lettered,
		}
		for _, rec := range records {
			t.Run(fmt.Sprintf("%s/%s", rec.Variant(), letter), func(t *testing.T) {
				q, err := n.Normalize(ExamCPA, rec)
				require.NoError(t, err)
				got, ok := q.CorrectOption()
				require.True(t, ok)
				assert.Equal(t, sampleOptions[want], got)
				assert.Equal(t, sampleOptions, q.Options)
			})
		}
	}
}

func TestNormalize_LowercaseLetter(t *testing.T) {
	rec := LetteredRecord{RawMeta: sampleMeta(), CorrectLetter: " c "}
	for _, o := range sampleOptions {
		rec.Options = append(rec.Options, LetteredOption{Text: o})
	}
	q, err := NewNormalizer(nil).Normalize(ExamCPA, rec)
	require.NoError(t, err)
	assert.Equal(t, 2, q.CorrectIndex)
}

func TestNormalize_LetterOutOfRangeFallsBackToZero(t *testing.T) {
	for _, code := range []string{"E", "Z", "", "?", "É", "1"} {
		rec := LetteredRecord{RawMeta: sampleMeta(), CorrectLetter: code}
		for _, o := range sampleOptions {
			rec.Options = append(rec.Options, LetteredOption{Text: o})
		}
		q, err := NewNormalizer(nil).Normalize(ExamCPA, rec)
		require.NoError(t, err)
		assert.Equal(t, 0, q.CorrectIndex, "code %q", code)
	}
}

func TestNormalize_LetterMatchesOptionID(t *testing.T) {
	rec := LetteredRecord{
		RawMeta: sampleMeta(),
		Options: []LetteredOption{
			{ID: "opt-a", Text: "one"},
			{ID: "opt-b", Text: "two"},
		},
		CorrectLetter: "opt-b",
	}
	q, err := NewNormalizer(nil).Normalize(ExamCPA, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, q.CorrectIndex)
}

func TestNormalize_NoFlagFallsBackToZero(t *testing.T) {
	rec := FlaggedRecord{RawMeta: sampleMeta()}
	for _, o := range sampleOptions {
		rec.Options = append(rec.Options, FlaggedOption{Text: o})
	}
	q, err := NewNormalizer(nil).Normalize(ExamCPA, rec)
	require.NoError(t, err)
	assert.Equal(t, 0, q.CorrectIndex)
}

func TestNormalize_FirstFlagWins(t *testing.T) {
	rec := FlaggedRecord{RawMeta: sampleMeta(), Options: []FlaggedOption{
		{Text: "a"}, {Text: "b", Correct: true}, {Text: "c", Correct: true},
	}}
	q, err := NewNormalizer(nil).Normalize(ExamCPA, rec)
	require.NoError(t, err)
	assert.Equal(t, 1, q.CorrectIndex)
}

func TestNormalize_SectionFallbacks(t *testing.T) {
	tests := []struct {
		name string
		meta RawMeta
		want string
	}{
		{"section wins", RawMeta{Section: "REG", Domain: "Tax"}, "REG"},
		{"domain fallback", RawMeta{Domain: "Ethics"}, "Ethics"},
		{"blueprint fallback", RawMeta{BlueprintArea: "Area II"}, "Area II"},
		{"sentinel", RawMeta{}, "CMA - Unspecified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := tt.meta
			meta.Prompt = "What is the contribution margin ratio?"
			q, err := NewNormalizer(nil).Normalize(ExamCMA, IndexedRecord{RawMeta: meta, Options: sampleOptions})
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Section)
		})
	}
}

func TestNormalize_DifficultyDefault(t *testing.T) {
	meta := sampleMeta()
	meta.Difficulty = ""
	q, err := NewNormalizer(nil).Normalize(ExamCIA, IndexedRecord{RawMeta: meta, Options: sampleOptions})
	require.NoError(t, err)
	assert.Equal(t, DifficultyMedium, q.Difficulty)

	meta.Difficulty = "Advanced"
	q, err = NewNormalizer(nil).Normalize(ExamCIA, IndexedRecord{RawMeta: meta, Options: sampleOptions})
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, q.Difficulty)
}

func TestNormalize_MalformedRecords(t *testing.T) {
	noPrompt := sampleMeta()
	noPrompt.Prompt = "   "

	records := []RawRecord{
		IndexedRecord{RawMeta: noPrompt, Options: sampleOptions},
		IndexedRecord{RawMeta: sampleMeta()},
		FlaggedRecord{RawMeta: sampleMeta()},
	}
	for _, rec := range records {
		_, err := NewNormalizer(nil).Normalize(ExamEA, rec)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", rec.Variant(), err)
		}
	}
}

func TestNormalizeAll_DropsMalformed(t *testing.T) {
	bad := sampleMeta()
	bad.Prompt = ""
	recs := []RawRecord{
		IndexedRecord{RawMeta: sampleMeta(), Options: sampleOptions},
		IndexedRecord{RawMeta: bad, Options: sampleOptions},
		IndexedRecord{RawMeta: sampleMeta(), Options: sampleOptions, CorrectIndex: 3},
	}
	qs, dropped := NewNormalizer(nil).NormalizeAll(ExamCFP, recs)
	if dropped != 1 {
		t.Fatalf("dropped = %d, want 1", dropped)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions, want 2", len(qs))
	}
	if qs[1].CorrectIndex != 3 || qs[1].Exam != ExamCFP {
		t.Errorf("unexpected second question: %+v", qs[1])
	}
}
