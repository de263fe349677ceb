// Package runner executes simulations on behalf of the CLI and the MCP
// server: it picks the seed, traces each round and records finished runs.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/nvandessel/schelling/internal/logging"
	"github.com/nvandessel/schelling/internal/simulation"
	"github.com/nvandessel/schelling/internal/store"
)

// Runner orchestrates a single simulation run and its side outputs.
// The zero value runs without logging or recording.
type Runner struct {
	// Store records finished runs. Nil disables recording.
	Store store.RunStore

	// Retention prunes Store after each recording. Nil keeps every run.
	Retention store.RetentionPolicy

	// Logger receives operational messages. Nil discards them.
	Logger *slog.Logger

	// Rounds traces every round to JSONL. Nil disables tracing.
	Rounds *logging.RoundLogger

	// Now is the clock used for run timestamps. Defaults to time.Now.
	Now func() time.Time
}

// Outcome is a finished run.
type Outcome struct {
	// ID is the run identifier. Runs are given an ID even when not recorded
	// so traces can be correlated.
	ID         string
	Recorded   bool
	Seed       uint64
	StartedAt  time.Time
	FinishedAt time.Time
	Result     *simulation.Result
}

// Run validates p and executes it. A zero seed is replaced with a fresh one.
func (r *Runner) Run(ctx context.Context, p simulation.Params, seed uint64) (*Outcome, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	logger := r.logger()
	if seed == 0 {
		seed = simulation.NewSeed()
	}
	id := store.NewRunID()
	started := r.now()

	logger.Info("starting run",
		"run_id", id, "seed", seed, "grid_size", p.Size,
		"count_a", p.CountA, "count_b", p.CountB,
		"threshold", p.Threshold, "rounds", p.Rounds, "mode", p.Mode)

	res, err := simulation.Run(ctx, p, simulation.NewRand(seed), func(s simulation.RoundStats) {
		r.Rounds.LogRound(id, seed, s)
		logger.Log(ctx, logging.LevelTrace, "round",
			"run_id", id, "round", s.Round, "dissatisfied", s.Dissatisfied,
			"mean_similarity", s.MeanSimilarity)
	})
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}

	out := &Outcome{
		ID:         id,
		Seed:       seed,
		StartedAt:  started,
		FinishedAt: r.now(),
		Result:     res,
	}

	logger.Debug("run finished",
		"run_id", id, "duration", out.FinishedAt.Sub(out.StartedAt),
		"dissatisfied", res.Summary.Dissatisfied,
		"mean_similarity", res.Summary.MeanSimilarity)

	if r.Store != nil {
		rec := store.NewRunRecord(id, res, seed, out.StartedAt, out.FinishedAt)
		if _, err := r.Store.RecordRun(ctx, rec); err != nil {
			return nil, fmt.Errorf("recording run %s: %w", id, err)
		}
		out.Recorded = true
		logger.Info("run recorded", "run_id", id)

		if r.Retention != nil {
			pruned, err := store.Prune(ctx, r.Store, r.Retention)
			if err != nil {
				logger.Warn("pruning history failed", "error", err)
			} else if pruned > 0 {
				logger.Debug("pruned history", "deleted", pruned)
			}
		}
	}

	return out, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
