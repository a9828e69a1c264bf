package question

import (
	"encoding/json"
	"fmt"
	"io"
)

// deliveryRecord is the list-of-records format consumed by delivery systems.
type deliveryRecord struct {
	ID           string     `json:"id"`
	Exam         ExamID     `json:"exam"`
	Section      string     `json:"section"`
	Topic        string     `json:"topic"`
	Difficulty   Difficulty `json:"difficulty"`
	Question     string     `json:"question"`
	Options      []string   `json:"options"`
	CorrectIndex int        `json:"correctIndex"`
	Explanation  string     `json:"explanation"`
}

// WriteDelivery serializes questions as an indented JSON array of delivery
// records.
func WriteDelivery(w io.Writer, questions []Question) error {
	out := make([]deliveryRecord, len(questions))
	for i, q := range questions {
		out[i] = deliveryRecord{
			ID:           q.ID,
			Exam:         q.Exam,
			Section:      q.Section,
			Topic:        q.Topic,
			Difficulty:   q.Difficulty,
			Question:     q.Prompt,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode delivery records: %w", err)
	}
	return nil
}
