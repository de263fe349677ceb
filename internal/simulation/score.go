package simulation

import (
	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/grid"
)

// ContentScore returns the fraction of c's occupied neighbors that share its
// value. Empty neighbors count toward neither side of the ratio; an agent
// whose eight neighbors are all Empty scores 1.0.
//
// The queried cell is expected to be occupied. For an Empty cell the result
// compares against Empty neighbors and is not meaningful.
func ContentScore(g *grid.Grid, c grid.Coord) float64 {
	self := g.At(c)
	var same, empty int
	for _, v := range g.Neighbors(c) {
		switch {
		case v == grid.Empty:
			empty++
		case v == self:
			same++
		}
	}
	if empty == len(grid.Neighborhood) {
		return constants.IsolatedScore
	}
	return float64(same) / float64(len(grid.Neighborhood)-empty)
}
