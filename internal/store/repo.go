package store

import (
	"context"
	"time"
)

// RunKind distinguishes the pipeline that produced a run.
type RunKind string

const (
	RunAudit  RunKind = "audit"
	RunCurate RunKind = "curate"
)

// QueryOpts configures run queries with filtering and pagination.
type QueryOpts struct {
	Limit int     // max results (0 = unlimited)
	Kind  RunKind // empty matches every kind
	From  time.Time
}

// RunSummary is the outcome of one run. Fields that do not apply to the
// run's kind stay zero.
type RunSummary struct {
	Records    int            `json:"records"`
	Dropped    int            `json:"dropped"`
	Issues     int            `json:"issues,omitempty"`
	BySeverity map[string]int `json:"bySeverity,omitempty"`
	Selected   map[string]int `json:"selected,omitempty"`
	Seed       uint64         `json:"seed,omitempty"`
	OutDir     string         `json:"outDir,omitempty"`
}

// Run is one recorded audit or curation invocation.
type Run struct {
	ID        string
	Sequence  int64
	Kind      RunKind
	Timestamp time.Time
	Inputs    []string
	Summary   RunSummary
}

// RunRepo records and lists pipeline runs.
type RunRepo interface {
	// Save assigns ID (when empty), Sequence and Timestamp (when zero) and
	// stores the run.
	Save(ctx context.Context, run *Run) error

	// List returns runs newest first.
	List(ctx context.Context, opts QueryOpts) ([]Run, error)

	// Latest returns the most recent run of kind, or nil if none exist.
	Latest(ctx context.Context, kind RunKind) (*Run, error)

	// Prune deletes all but the N most recent runs.
	Prune(ctx context.Context, keep int) error
}
