package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlBank = `exam: CIA
questions:
  - id: cia-1
    question: "Which standard governs internal audit independence?"
    section: CIA1
    options: ["Standard 1100", "Standard 2000", "Standard 2400", "Standard 1300"]
    correctAnswer: 0
    explanation: "Standard 1100 covers independence and objectivity."
  - id: cia-2
    stem: "What is the primary purpose of an engagement work program?"
    options:
      - {id: A, text: "Document procedures"}
      - {id: B, text: "Set the budget"}
      - {id: C, text: "Assign staff"}
      - {id: D, text: "Report findings"}
    correctAnswer: A
  - id: cia-3
    options: ["a", "b"]
  - id: cia-4
    question: "Broken options"
    options: "none"
`

func TestLoadBank_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cia.yaml", yamlBank)

	bank, err := LoadBank(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ExamCIA, bank.Exam)
	assert.Len(t, bank.Records, 3)
	assert.Equal(t, 1, bank.Rejected)
	assert.Equal(t, VariantIndexed, bank.Records[0].Variant())
	assert.Equal(t, VariantLettered, bank.Records[1].Variant())
}

func TestLoadBank_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cisa.json", `{
  "exam": "cisa",
  "questions": [
    {"id": "c1", "question": "Which control is preventive?",
     "options": [{"text": "Firewall", "correct": true}, {"text": "Audit log", "correct": false}]}
  ]
}`)
	bank, err := LoadBank(path, nil)
	require.NoError(t, err)
	require.Len(t, bank.Records, 1)
	assert.Equal(t, VariantFlagged, bank.Records[0].Variant())
}

func TestLoadBank_InvalidDocument(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"list.json":       `[{"id": "x"}]`,
		"unknown.json":    `{"exam": "bar-exam", "questions": []}`,
		"scalars.json":    `{"exam": "cpa", "questions": [1, 2]}`,
		"noquestions.yml": "exam: cpa\n",
		"garbage.json":    `{"exam": `,
	}
	for name, content := range cases {
		path := writeFile(t, dir, name, content)
		_, err := LoadBank(path, nil)
		var invalid *ErrInvalidBank
		if !errors.As(err, &invalid) {
			t.Errorf("%s: expected ErrInvalidBank, got %v", name, err)
		}
	}
}

func TestLoadCorpus_DirectoryAndDropCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cia/part1.yaml", yamlBank)
	writeFile(t, dir, "cpa/far.json", `{"exam": "cpa", "questions": [
		{"id": "f1", "question": "Define materiality in financial reporting.", "options": ["a","b","c","d"], "correctAnswer": 1}
	]}`)
	writeFile(t, dir, "README.md", "not a bank")

	corpus, err := LoadCorpus([]string{dir}, nil)
	require.NoError(t, err)

	// cia-3 has no prompt (normalizer drop), cia-4 has unusable options (classifier drop).
	assert.Len(t, corpus.Questions, 3)
	assert.Equal(t, 2, corpus.Dropped[ExamCIA])
	assert.Equal(t, 0, corpus.Dropped[ExamCPA])
	assert.Equal(t, 2, corpus.TotalDropped())
}

func TestLoadCorpus_NoFiles(t *testing.T) {
	_, err := LoadCorpus([]string{t.TempDir()}, nil)
	require.Error(t, err)
}

func TestWriteDelivery(t *testing.T) {
	q := Question{
		ID: "q1", Exam: ExamEA, Section: "SEE1", Topic: "Filing status", Subtopic: "hidden",
		Difficulty: DifficultyEasy, Prompt: "Which filing status applies?",
		Options: []string{"Single", "MFJ", "MFS", "HOH"}, CorrectIndex: 1,
		Explanation: "Married couples filing together use MFJ.",
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDelivery(&buf, []Question{q}))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Which filing status applies?", got[0]["question"])
	assert.Equal(t, float64(1), got[0]["correctIndex"])
	assert.Equal(t, "ea", got[0]["exam"])
	assert.NotContains(t, got[0], "subtopic")
}
