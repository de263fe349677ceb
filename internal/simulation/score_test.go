package simulation

import (
	"math"
	"testing"

	"github.com/nvandessel/schelling/internal/grid"
)

func mustParse(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(rows...)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return g
}

func TestContentScore(t *testing.T) {
	g := mustParse(t,
		"aab",
		".a.",
		"b..",
	)

	tests := []struct {
		name string
		at   grid.Coord
		want float64
	}{
		{"corner next to own type", grid.Coord{X: 1, Y: 1}, 1.0},
		{"two of three alike", grid.Coord{X: 1, Y: 2}, 2.0 / 3.0},
		{"corner surrounded by other type", grid.Coord{X: 1, Y: 3}, 0},
		{"center half alike", grid.Coord{X: 2, Y: 2}, 0.5},
		{"lone b next to a", grid.Coord{X: 3, Y: 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContentScore(g, tt.at)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ContentScore(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestContentScore_Isolated(t *testing.T) {
	g := mustParse(t,
		"a..",
		"...",
		"..b",
	)
	for _, c := range []grid.Coord{{X: 1, Y: 1}, {X: 3, Y: 3}} {
		if got := ContentScore(g, c); got != 1.0 {
			t.Errorf("isolated agent at %v scored %v, want 1.0", c, got)
		}
	}
}

func TestContentScore_Bounds(t *testing.T) {
	g, err := Initialize(20, 150, 150, NewRand(3))
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	for _, c := range g.Coords() {
		if !g.At(c).Occupied() {
			continue
		}
		s := ContentScore(g, c)
		if s < 0 || s > 1 {
			t.Errorf("ContentScore(%v) = %v, outside [0, 1]", c, s)
		}
	}
}

func TestContentScore_DoesNotMutate(t *testing.T) {
	g := mustParse(t, "ab", "ba")
	before := g.Clone()
	for _, c := range g.Coords() {
		ContentScore(g, c)
	}
	if !g.Equal(before) {
		t.Error("ContentScore modified the grid")
	}
}
