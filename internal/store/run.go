package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// runRepo implements RunRepo with raw SQL.
type runRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *runRepo) Save(ctx context.Context, run *Run) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	run.Sequence = seq

	inputs, err := json.Marshal(run.Inputs)
	if err != nil {
		return fmt.Errorf("marshal inputs: %w", err)
	}
	summary, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (id, sequence, kind, created_at, inputs, summary) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Sequence, string(run.Kind), run.Timestamp, string(inputs), string(summary),
	)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (r *runRepo) List(ctx context.Context, opts QueryOpts) ([]Run, error) {
	var (
		where []string
		args  []any
	)
	if opts.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(opts.Kind))
	}
	if !opts.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.From)
	}

	query := `SELECT id, sequence, kind, created_at, inputs, summary FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sequence DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

func (r *runRepo) Latest(ctx context.Context, kind RunKind) (*Run, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, sequence, kind, created_at, inputs, summary FROM runs
		 WHERE kind = ? ORDER BY sequence DESC LIMIT 1`, string(kind))
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

func (r *runRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM runs WHERE sequence NOT IN (
			SELECT sequence FROM runs ORDER BY sequence DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run             Run
		kind            string
		inputs, summary string
	)
	if err := s.Scan(&run.ID, &run.Sequence, &kind, &run.Timestamp, &inputs, &summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Kind = RunKind(kind)
	if err := json.Unmarshal([]byte(inputs), &run.Inputs); err != nil {
		return nil, fmt.Errorf("unmarshal inputs: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &run, nil
}
