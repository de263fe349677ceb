package simulation

import (
	"math"
	"testing"
)

func TestMeasure(t *testing.T) {
	g := mustParse(t,
		"aab",
		".a.",
		"b..",
	)
	got := Measure(g, 0.6)

	if got.Population != 5 {
		t.Errorf("Population = %d, want 5", got.Population)
	}
	// (1,3), (2,2) and (3,1) score 0, 0.5 and 0.
	if got.Dissatisfied != 3 {
		t.Errorf("Dissatisfied = %d, want 3", got.Dissatisfied)
	}
	if got.Candidates != 3 {
		t.Errorf("Candidates = %d, want 3", got.Candidates)
	}
	if math.Abs(got.Dissatisfaction-0.6) > 1e-9 {
		t.Errorf("Dissatisfaction = %v, want 0.6", got.Dissatisfaction)
	}
	wantMean := (1.0 + 2.0/3.0 + 0 + 0.5 + 0) / 5
	if math.Abs(got.MeanSimilarity-wantMean) > 1e-9 {
		t.Errorf("MeanSimilarity = %v, want %v", got.MeanSimilarity, wantMean)
	}
	if got.SimilarityStdDev <= 0 {
		t.Errorf("SimilarityStdDev = %v, want > 0", got.SimilarityStdDev)
	}
	if got.Round != 0 {
		t.Errorf("Round = %d, want 0 for a standalone measurement", got.Round)
	}
}

func TestMeasure_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		wantPop  int
		wantMean float64
	}{
		{"empty board", []string{"..", ".."}, 0, 0},
		{"single agent", []string{"a.", ".."}, 1, 1.0},
		{"homogeneous", []string{"aa", "aa"}, 4, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Measure(mustParse(t, tt.rows...), 0.6)
			if got.Population != tt.wantPop {
				t.Errorf("Population = %d, want %d", got.Population, tt.wantPop)
			}
			if got.MeanSimilarity != tt.wantMean {
				t.Errorf("MeanSimilarity = %v, want %v", got.MeanSimilarity, tt.wantMean)
			}
			if math.IsNaN(got.SimilarityStdDev) || got.SimilarityStdDev != 0 {
				t.Errorf("SimilarityStdDev = %v, want 0", got.SimilarityStdDev)
			}
			if got.Dissatisfaction != 0 {
				t.Errorf("Dissatisfaction = %v, want 0", got.Dissatisfaction)
			}
		})
	}
}
