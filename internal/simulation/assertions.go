package simulation

import (
	"testing"

	"github.com/nvandessel/schelling/internal/grid"
)

// AssertConserved asserts that before and after hold the same number of
// Empty, TypeA and TypeB cells.
func AssertConserved(t *testing.T, before, after *grid.Grid) {
	t.Helper()
	if b, a := before.Counts(), after.Counts(); b != a {
		t.Errorf("AssertConserved: counts changed from %+v to %+v", b, a)
	}
}

// AssertUnchangedOutside asserts that every interior cell not listed in
// moved holds the same value in before and after.
func AssertUnchangedOutside(t *testing.T, before, after *grid.Grid, moved []grid.Coord) {
	t.Helper()
	skip := make(map[grid.Coord]bool, len(moved))
	for _, c := range moved {
		skip[c] = true
	}
	for _, c := range before.Coords() {
		if skip[c] {
			continue
		}
		if b, a := before.At(c), after.At(c); b != a {
			t.Errorf("AssertUnchangedOutside: cell (%d,%d) changed from %v to %v", c.X, c.Y, b, a)
		}
	}
}

// AssertPermutation asserts that the values at positions in after are a
// rearrangement of the values at the same positions in before.
func AssertPermutation(t *testing.T, before, after *grid.Grid, positions []grid.Coord) {
	t.Helper()
	tally := make(map[grid.Cell]int)
	for _, c := range positions {
		tally[before.At(c)]++
		tally[after.At(c)]--
	}
	for v, n := range tally {
		if n != 0 {
			t.Errorf("AssertPermutation: value %v count differs by %d across %d positions", v, n, len(positions))
		}
	}
}

// AssertSatisfiedStable asserts that every agent in before scoring at or
// above threshold keeps its exact value in after.
func AssertSatisfiedStable(t *testing.T, before, after *grid.Grid, threshold float64) {
	t.Helper()
	for _, c := range before.Coords() {
		v := before.At(c)
		if !v.Occupied() || ContentScore(before, c) < threshold {
			continue
		}
		if got := after.At(c); got != v {
			t.Errorf("AssertSatisfiedStable: satisfied cell (%d,%d) changed from %v to %v", c.X, c.Y, v, got)
		}
	}
}
