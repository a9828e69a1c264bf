package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if err := s.DB().Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "qbank.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestRunSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run, err := repo.Latest(ctx, RunAudit)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if run != nil {
		t.Fatal("expected nil run when none exist")
	}

	now := time.Now().UTC().Truncate(time.Second)
	saved := &Run{
		Kind:      RunAudit,
		Timestamp: now,
		Inputs:    []string{"banks/cpa.json"},
		Summary: RunSummary{
			Records:    12,
			Dropped:    1,
			Issues:     3,
			BySeverity: map[string]int{"CRITICAL": 1, "LOW": 2},
		},
	}
	if err := repo.Save(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an assigned run id")
	}
	if saved.Sequence != 1 {
		t.Errorf("sequence = %d, want 1", saved.Sequence)
	}

	run, err = repo.Latest(ctx, RunAudit)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if run == nil {
		t.Fatal("expected non-nil run")
	}
	if run.ID != saved.ID {
		t.Errorf("id = %q, want %q", run.ID, saved.ID)
	}
	if !run.Timestamp.Equal(now) {
		t.Errorf("timestamp = %v, want %v", run.Timestamp, now)
	}
	if len(run.Inputs) != 1 || run.Inputs[0] != "banks/cpa.json" {
		t.Errorf("inputs = %v", run.Inputs)
	}
	if run.Summary.BySeverity["CRITICAL"] != 1 || run.Summary.Records != 12 {
		t.Errorf("summary = %+v", run.Summary)
	}

	none, err := repo.Latest(ctx, RunCurate)
	if err != nil {
		t.Fatalf("latest curate: %v", err)
	}
	if none != nil {
		t.Error("expected no curation run")
	}
}

func TestRunListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	kinds := []RunKind{RunAudit, RunCurate, RunAudit, RunCurate, RunAudit}
	for i, k := range kinds {
		if err := repo.Save(ctx, &Run{Kind: k, Summary: RunSummary{Records: i}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("len = %d, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Sequence <= all[i].Sequence {
			t.Errorf("runs not newest first at %d", i)
		}
	}

	audits, err := repo.List(ctx, QueryOpts{Kind: RunAudit, Limit: 2})
	if err != nil {
		t.Fatalf("list audits: %v", err)
	}
	if len(audits) != 2 {
		t.Fatalf("len = %d, want 2", len(audits))
	}
	if audits[0].Summary.Records != 4 || audits[1].Summary.Records != 2 {
		t.Errorf("audits = %d, %d; want 4, 2", audits[0].Summary.Records, audits[1].Summary.Records)
	}
}

func TestRunPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if err := repo.Save(ctx, &Run{Kind: RunCurate}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	if err := repo.Prune(ctx, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining runs = %d, want 5", count)
	}

	run, err := repo.Latest(ctx, RunCurate)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if run.Sequence != 7 {
		t.Errorf("latest sequence = %d, want 7", run.Sequence)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Errorf("next = %d, want %d", got, want)
		}
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("QBANK_DB", filepath.Join(dir, "env", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path (env): %v", err)
	}
	if p != filepath.Join(dir, "env", "custom.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("QBANK_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path (xdg): %v", err)
	}
	if p != filepath.Join(dir, "qbank", "qbank.db") {
		t.Errorf("path = %q", p)
	}
}

func TestRunListFrom(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for i, ts := range []time.Time{now.Add(-72 * time.Hour), now.Add(-2 * time.Hour), now} {
		if err := repo.Save(ctx, &Run{Kind: RunAudit, Timestamp: ts, Summary: RunSummary{Records: i}}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	runs, err := repo.List(ctx, QueryOpts{From: now.Add(-24 * time.Hour)})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if runs[0].Summary.Records != 2 || runs[1].Summary.Records != 1 {
		t.Errorf("records = %d, %d; want 2, 1", runs[0].Summary.Records, runs[1].Summary.Records)
	}
}
