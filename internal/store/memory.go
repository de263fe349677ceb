package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/nvandessel/schelling/internal/simulation"
)

// InMemoryRunStore implements RunStore for testing and for runs that
// should not touch the filesystem.
type InMemoryRunStore struct {
	mu   sync.RWMutex
	runs map[string]RunRecord
}

// NewInMemoryRunStore creates a new in-memory store.
func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{runs: make(map[string]RunRecord)}
}

// RecordRun stores a copy of run.
func (s *InMemoryRunStore) RecordRun(ctx context.Context, run RunRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = NewRunID()
	}
	if _, exists := s.runs[run.ID]; exists {
		return "", fmt.Errorf("run already recorded: %s", run.ID)
	}

	run.Params.Mode = modeOrDefault(run.Params.Mode)
	run.Rounds = append([]simulation.RoundStats(nil), run.Rounds...)
	s.runs[run.ID] = run
	return run.ID, nil
}

// GetRun returns a copy of the run with its rounds. Returns nil if not found.
func (s *InMemoryRunStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, nil
	}
	run.Rounds = append(make([]simulation.RoundStats, 0, len(run.Rounds)), run.Rounds...)
	return &run, nil
}

// ListRuns returns runs newest first, without rounds.
func (s *InMemoryRunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]RunRecord, 0, len(s.runs))
	for _, run := range s.runs {
		run.Rounds = nil
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Rounds returns the round statistics of a run in round order.
func (s *InMemoryRunStore) Rounds(ctx context.Context, id string) ([]simulation.RoundStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return []simulation.RoundStats{}, nil
	}
	return append(make([]simulation.RoundStats, 0, len(run.Rounds)), run.Rounds...), nil
}

// DeleteRun removes a run.
func (s *InMemoryRunStore) DeleteRun(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.runs[id]
	delete(s.runs, id)
	return ok, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryRunStore) Close() error {
	return nil
}
