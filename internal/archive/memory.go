package archive

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore keeps records in memory. It is the default for runs that do
// not name a database file.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
	records     map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)
	s.records = make(map[string][]Record)
	return nil
}

func (s *MemoryStore) StartRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("memory store is not initialized")
	}
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) Runs(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started.Before(out[j].Started) })
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, records ...Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("memory store is not initialized")
	}
	for _, r := range records {
		s.records[r.RunID] = append(s.records[r.RunID], r)
	}
	return nil
}

func (s *MemoryStore) Records(_ context.Context, runID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]Record(nil), s.records[runID]...), nil
}

func (s *MemoryStore) Close() error { return nil }
