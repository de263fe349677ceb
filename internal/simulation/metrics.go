package simulation

import (
	"github.com/nvandessel/schelling/internal/constants"
	"github.com/nvandessel/schelling/internal/grid"
	"gonum.org/v1/gonum/stat"
)

// RoundStats summarizes the board at the start of a relocation round.
type RoundStats struct {
	// Round is the 1-based round number. Zero for a standalone measurement.
	Round int `json:"round"`

	// Population is the number of agents on the board.
	Population int `json:"population"`

	// Dissatisfied is the number of agents scoring below the threshold.
	Dissatisfied int `json:"dissatisfied"`

	// Candidates is the number of positions redistributed in the round.
	Candidates int `json:"candidates"`

	// Dissatisfaction is Dissatisfied / Population.
	Dissatisfaction float64 `json:"dissatisfaction"`

	// MeanSimilarity is the mean content score over all agents.
	MeanSimilarity float64 `json:"mean_similarity"`

	// SimilarityStdDev is the sample standard deviation of content scores.
	SimilarityStdDev float64 `json:"similarity_stddev"`
}

func (s survey) stats() RoundStats {
	out := RoundStats{
		Population:   len(s.scores),
		Dissatisfied: s.dissatisfied,
		Candidates:   len(s.candidates),
	}
	if out.Population == 0 {
		return out
	}
	out.Dissatisfaction = float64(s.dissatisfied) / float64(out.Population)
	if out.Population == 1 {
		out.MeanSimilarity = s.scores[0]
		return out
	}
	out.MeanSimilarity, out.SimilarityStdDev = stat.MeanStdDev(s.scores, nil)
	return out
}

// Measure scores every agent on g against threshold without moving anyone.
func Measure(g *grid.Grid, threshold float64) RoundStats {
	return surveyGrid(g, threshold, constants.ModeSwap).stats()
}
