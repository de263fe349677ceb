package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/nvandessel/schelling/internal/grid"
)

// maxPrealloc caps the up-front allocation of per-round stats.
const maxPrealloc = 1024

// Observer is called after each relocation round.
type Observer func(RoundStats)

// Result captures a complete run.
type Result struct {
	Params Params

	// Initial is the board produced by Initialize; Final is the board after
	// the last round.
	Initial *grid.Grid
	Final   *grid.Grid

	// Rounds holds one entry per round, measured before that round's moves.
	Rounds []RoundStats

	// Summary measures the final board.
	Summary RoundStats
}

// Run validates p, builds the initial board and applies p.Rounds relocation
// rounds, each consuming the previous round's grid. Only the initial and
// current grids are retained. The context is checked between rounds.
func Run(ctx context.Context, p Params, rng *rand.Rand, observe Observer) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	initial, err := Initialize(p.Size, p.CountA, p.CountB, rng)
	if err != nil {
		return nil, fmt.Errorf("initializing grid: %w", err)
	}

	mode := p.mode()
	current := initial
	rounds := make([]RoundStats, 0, min(p.Rounds, maxPrealloc))
	for i := 1; i <= p.Rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("round %d: %w", i, err)
		}
		next, stats := Relocate(current, p.Threshold, mode, rng)
		stats.Round = i
		rounds = append(rounds, stats)
		if observe != nil {
			observe(stats)
		}
		current = next
	}

	p.Mode = mode
	return &Result{
		Params:  p,
		Initial: initial,
		Final:   current,
		Rounds:  rounds,
		Summary: Measure(current, p.Threshold),
	}, nil
}
