// Package store defines the RunStore interface for recording finished
// simulation runs and their per-round statistics.
//
// Only parameters and summary metrics are stored. Boards are never
// persisted, so nothing recorded here can seed a later run.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nvandessel/schelling/internal/simulation"
)

// RunRecord describes one completed simulation run.
type RunRecord struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Params     simulation.Params `json:"params"`
	Seed       uint64            `json:"seed"`

	// Summary measures the final board.
	Summary simulation.RoundStats `json:"summary"`

	// Rounds is only populated by GetRun and the JSONL export.
	Rounds []simulation.RoundStats `json:"rounds,omitempty"`
}

// Duration returns how long the run took.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NewRunRecord builds a record from a finished run.
func NewRunRecord(id string, res *simulation.Result, seed uint64, started, finished time.Time) RunRecord {
	rounds := make([]simulation.RoundStats, len(res.Rounds))
	copy(rounds, res.Rounds)
	return RunRecord{
		ID:         id,
		StartedAt:  started,
		FinishedAt: finished,
		Params:     res.Params,
		Seed:       seed,
		Summary:    res.Summary,
		Rounds:     rounds,
	}
}

// RunStore records simulation runs.
type RunStore interface {
	// RecordRun stores run and its rounds. An empty ID is replaced with a
	// new one. Returns the stored ID.
	RecordRun(ctx context.Context, run RunRecord) (string, error)

	// GetRun returns the run with its rounds. Returns nil if not found.
	GetRun(ctx context.Context, id string) (*RunRecord, error)

	// ListRuns returns runs newest first, without rounds.
	// A limit <= 0 returns every run.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Rounds returns the round statistics of a run in round order.
	Rounds(ctx context.Context, id string) ([]simulation.RoundStats, error)

	// DeleteRun removes a run and its rounds. Reports whether it existed.
	DeleteRun(ctx context.Context, id string) (bool, error)

	// Close releases resources.
	Close() error
}
