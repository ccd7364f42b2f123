// Package archive persists per-tick trait summaries of a run.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Run identifies one simulation run.
type Run struct {
	ID      string
	Seed    int64
	Started time.Time
}

// NewRun creates a run record with a fresh id.
func NewRun(seed int64) Run {
	return Run{ID: uuid.NewString(), Seed: seed, Started: time.Now().UTC()}
}

// Record is one summary value of one trait at one tick.
type Record struct {
	RunID  string
	Tick   uint64
	Target string
	Column string
	Value  string
}

// Store is implemented by every archive backend.
type Store interface {
	Init(ctx context.Context) error
	StartRun(ctx context.Context, run Run) error
	Runs(ctx context.Context) ([]Run, error)
	Append(ctx context.Context, records ...Record) error
	Records(ctx context.Context, runID string) ([]Record, error)
	Close() error
}

// Open returns the store for path: in memory when path is empty or
// ":memory:", sqlite otherwise.
func Open(path string) Store {
	if path == "" || path == ":memory:" {
		return NewMemoryStore()
	}
	return NewSQLiteStore(path)
}
