package question

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Bank is one decoded question-bank file. Each file belongs to one exam.
type Bank struct {
	Exam    ExamID
	Path    string
	Records []RawRecord

	// Rejected counts records whose shape could not be classified.
	Rejected int
}

// Corpus is the canonical, normalized content of one or more banks.
type Corpus struct {
	Questions []Question

	// Dropped counts, per exam, records lost to classification or
	// normalization failures.
	Dropped map[ExamID]int
}

// TotalDropped sums Dropped across exams.
func (c Corpus) TotalDropped() int {
	n := 0
	for _, d := range c.Dropped {
		n += d
	}
	return n
}

// LoadCorpus loads every bank reachable from paths (files or directories)
// and normalizes them into a single corpus.
func LoadCorpus(paths []string, logger *zap.Logger) (Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	banks, err := LoadBanks(paths, logger)
	if err != nil {
		return Corpus{}, err
	}

	n := NewNormalizer(logger)
	corpus := Corpus{Dropped: make(map[ExamID]int)}
	for _, b := range banks {
		qs, dropped := n.NormalizeAll(b.Exam, b.Records)
		corpus.Questions = append(corpus.Questions, qs...)
		corpus.Dropped[b.Exam] += dropped + b.Rejected
		logger.Info("bank loaded",
			zap.String("path", b.Path),
			zap.String("exam", string(b.Exam)),
			zap.Int("records", len(qs)),
			zap.Int("dropped", dropped+b.Rejected))
	}
	return corpus, nil
}

// LoadBanks loads each path; directories expand to the bank files they
// contain (recursively, in lexical order).
func LoadBanks(paths []string, logger *zap.Logger) ([]Bank, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}
	banks := make([]Bank, 0, len(files))
	for _, f := range files {
		b, err := LoadBank(f, logger)
		if err != nil {
			return nil, err
		}
		banks = append(banks, b)
	}
	return banks, nil
}

// LoadBank reads and classifies one bank file. A document that fails the
// bank schema returns *ErrInvalidBank; individual unclassifiable records are
// logged and counted in Bank.Rejected.
func LoadBank(path string, logger *zap.Logger) (Bank, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("read question bank: %w", err)
	}
	doc, err := decodeDocument(data, path)
	if err != nil {
		return Bank{}, &ErrInvalidBank{Path: path, Err: err}
	}
	if err := validateBankDocument(doc); err != nil {
		return Bank{}, &ErrInvalidBank{Path: path, Err: err}
	}

	top := doc.(map[string]any)
	exam, err := ParseExam(top["exam"].(string))
	if err != nil {
		return Bank{}, &ErrInvalidBank{Path: path, Err: err}
	}

	items := top["questions"].([]any)
	bank := Bank{Exam: exam, Path: path, Records: make([]RawRecord, 0, len(items))}
	for i, it := range items {
		rec, err := Classify(it.(map[string]any))
		if err != nil {
			bank.Rejected++
			logger.Warn("dropping unclassifiable record",
				zap.String("path", path),
				zap.Int("position", i),
				zap.Error(err))
			continue
		}
		bank.Records = append(bank.Records, rec)
	}
	return bank, nil
}

// decodeDocument parses JSON or YAML (by extension) into a plain JSON value
// tree: map[string]any, []any, float64, string, bool, nil.
func decodeDocument(data []byte, path string) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return doc, nil
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
		// Round-trip through JSON so YAML ints and nested maps take the same
		// representation the schema validator and Classify expect.
		raw, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("convert yaml: %w", err)
		}
		return out, nil
	}
}

func isBankFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isBankFile(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no question bank files found in %s", strings.Join(paths, ", "))
	}
	return files, nil
}
