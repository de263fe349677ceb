package simulation

import (
	"math/rand/v2"
	"slices"

	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/grid"
)

// survey is a single scoring pass over the board.
type survey struct {
	// candidates are the positions whose values a round redistributes,
	// in coordinate order.
	candidates []grid.Coord

	// scores holds the content score of every occupied cell.
	scores []float64

	dissatisfied int
}

func surveyGrid(g *grid.Grid, threshold float64, mode constants.Mode) survey {
	var s survey
	for _, c := range g.Coords() {
		if !g.At(c).Occupied() {
			if mode == constants.ModeVacancy {
				s.candidates = append(s.candidates, c)
			}
			continue
		}
		score := ContentScore(g, c)
		s.scores = append(s.scores, score)
		if score < threshold {
			s.dissatisfied++
			s.candidates = append(s.candidates, c)
		}
	}
	return s
}

// Candidates returns, in coordinate order, the positions a relocation round
// would redistribute: every agent scoring below threshold, plus every
// vacant cell in vacancy mode. Empty cells are never selected in swap mode.
func Candidates(g *grid.Grid, threshold float64, mode constants.Mode) []grid.Coord {
	return surveyGrid(g, threshold, mode).candidates
}

// Step runs one swap round: the agents scoring below threshold trade places
// in a random permutation. The input grid is left untouched and every cell
// outside the dissatisfied set keeps its value in the returned grid.
func Step(g *grid.Grid, threshold float64, rng *rand.Rand) *grid.Grid {
	next, _ := Relocate(g, threshold, constants.ModeSwap, rng)
	return next
}

// Relocate runs one round in the given mode and returns the new grid along
// with statistics measured on the input grid. Round is left zero for the
// caller to fill in.
func Relocate(g *grid.Grid, threshold float64, mode constants.Mode, rng *rand.Rand) (*grid.Grid, RoundStats) {
	s := surveyGrid(g, threshold, mode)
	return permute(g, s.candidates, rng), s.stats()
}

// permute returns a copy of g where oldPos[i] receives the value originally
// at newPos[i], newPos being a shuffled copy of oldPos.
func permute(g *grid.Grid, oldPos []grid.Coord, rng *rand.Rand) *grid.Grid {
	newPos := slices.Clone(oldPos)
	rng.Shuffle(len(newPos), func(i, j int) { newPos[i], newPos[j] = newPos[j], newPos[i] })

	next := g.Clone()
	for i, dst := range oldPos {
		next.Set(dst, g.At(newPos[i]))
	}
	return next
}
