package question

import (
	"errors"
	"fmt"
)

// ErrUnknownExam indicates an exam tag outside the supported set.
var ErrUnknownExam = errors.New("unknown exam")

// ErrMalformed indicates a raw record that cannot yield a prompt and an
// option list. Such records are dropped, never fatal.
var ErrMalformed = errors.New("malformed record")

// ErrInvalidBank indicates a bank document that is not even minimally
// shaped (wrong top-level structure, unknown exam, questions not a list).
type ErrInvalidBank struct {
	Path string
	Err  error
}

func (e *ErrInvalidBank) Error() string {
	return fmt.Sprintf("invalid question bank %s: %v", e.Path, e.Err)
}

func (e *ErrInvalidBank) Unwrap() error { return e.Err }

// malformed wraps ErrMalformed with a record-specific reason.
func malformed(id, reason string) error {
	if id == "" {
		return fmt.Errorf("%w: %s", ErrMalformed, reason)
	}
	return fmt.Errorf("%w %q: %s", ErrMalformed, id, reason)
}
