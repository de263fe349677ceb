// Package grid holds the padded two-type board used by the segregation model.
//
// A Grid of size N stores (N+2)x(N+2) cells. The outer ring is a border that
// always reads as Empty, so every interior cell has eight addressable
// neighbors without bounds checks.
package grid

import "fmt"

// Cell is the state of a single board position.
type Cell uint8

const (
	// Empty marks a vacant position. Border cells are always Empty.
	Empty Cell = iota
	// TypeA is the first agent type.
	TypeA
	// TypeB is the second agent type.
	TypeB
)

// String returns a short name for the cell state.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case TypeA:
		return "a"
	case TypeB:
		return "b"
	default:
		return fmt.Sprintf("cell(%d)", uint8(c))
	}
}

// Occupied reports whether the cell holds an agent.
func (c Cell) Occupied() bool {
	return c == TypeA || c == TypeB
}

// Coord addresses a cell. Interior coordinates are 1-indexed on both axes;
// X selects the row and Y the column.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighborhood is the Moore neighborhood: every (dx, dy) with dx, dy in
// {-1, 0, 1} except (0, 0), ordered by dx then dy.
var Neighborhood = [8]Coord{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Coords returns the interior coordinates of an n x n board in row-major
// order: X outer, Y inner, both running 1..n.
func Coords(n int) []Coord {
	coords := make([]Coord, 0, n*n)
	for x := 1; x <= n; x++ {
		for y := 1; y <= n; y++ {
			coords = append(coords, Coord{X: x, Y: y})
		}
	}
	return coords
}

// Grid is an n x n board with a one-cell Empty border.
type Grid struct {
	n     int
	cells []Cell

	// coords is computed once and shared read-only between clones.
	coords []Coord
}

// New returns an all-Empty grid with n x n interior cells.
// It panics if n < 1; callers validate sizes before construction.
func New(n int) *Grid {
	if n < 1 {
		panic(fmt.Sprintf("grid: invalid size %d", n))
	}
	stride := n + 2
	return &Grid{
		n:      n,
		cells:  make([]Cell, stride*stride),
		coords: Coords(n),
	}
}

// Size returns the interior dimension N.
func (g *Grid) Size() int { return g.n }

// Coords returns the interior coordinate set in its fixed row-major order.
// The returned slice must not be modified.
func (g *Grid) Coords() []Coord { return g.coords }

// Interior reports whether c lies inside the simulated N x N area.
func (g *Grid) Interior(c Coord) bool {
	return c.X >= 1 && c.X <= g.n && c.Y >= 1 && c.Y <= g.n
}

func (g *Grid) index(c Coord) int {
	return c.X*(g.n+2) + c.Y
}

// At returns the value at c. Border coordinates (row or column 0 or N+1)
// read as Empty.
func (g *Grid) At(c Coord) Cell {
	return g.cells[g.index(c)]
}

// Set stores v at the interior coordinate c.
// It panics on border coordinates, which must stay Empty.
func (g *Grid) Set(c Coord, v Cell) {
	if !g.Interior(c) {
		panic(fmt.Sprintf("grid: set outside interior at (%d, %d)", c.X, c.Y))
	}
	g.cells[g.index(c)] = v
}

// Neighbors returns the eight Moore neighbors of c in Neighborhood order.
func (g *Grid) Neighbors(c Coord) [8]Cell {
	var out [8]Cell
	for i, d := range Neighborhood {
		out[i] = g.At(Coord{X: c.X + d.X, Y: c.Y + d.Y})
	}
	return out
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{n: g.n, cells: cells, coords: g.coords}
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.n != other.n {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Counts tallies interior cells by state.
type Counts struct {
	Empty int `json:"empty"`
	A     int `json:"a"`
	B     int `json:"b"`
}

// Population returns the number of occupied cells.
func (c Counts) Population() int { return c.A + c.B }

// Counts returns the number of Empty, TypeA and TypeB interior cells.
func (g *Grid) Counts() Counts {
	var out Counts
	for _, c := range g.coords {
		switch g.At(c) {
		case TypeA:
			out.A++
		case TypeB:
			out.B++
		default:
			out.Empty++
		}
	}
	return out
}
