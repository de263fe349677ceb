package simulation

import (
	"math/rand/v2"

	"github.com/nvandessel/schelling/internal/grid"
)

// Initialize builds an n x n board holding exactly countA TypeA agents,
// countB TypeB agents and Empty everywhere else. The pool of values is
// shuffled with rng and laid onto the coordinate set in row-major order.
//
// Counts exceeding the board capacity are rejected before anything is built.
func Initialize(n, countA, countB int, rng *rand.Rand) (*grid.Grid, error) {
	if err := validateBoard(n, countA, countB); err != nil {
		return nil, err
	}

	pool := make([]grid.Cell, n*n)
	for i := range pool {
		switch {
		case i < countA:
			pool[i] = grid.TypeA
		case i < countA+countB:
			pool[i] = grid.TypeB
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	g := grid.New(n)
	for i, c := range g.Coords() {
		g.Set(c, pool[i])
	}
	return g, nil
}
