package grid

import "fmt"

// Parse builds a grid from square rows of '.', 'a' and 'b' characters
// (Empty, TypeA, TypeB). It is mainly useful for fixtures.
func Parse(rows ...string) (*Grid, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("no rows")
	}
	g := New(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), n)
		}
		for j := 0; j < n; j++ {
			var v Cell
			switch row[j] {
			case '.':
				v = Empty
			case 'a':
				v = TypeA
			case 'b':
				v = TypeB
			default:
				return nil, fmt.Errorf("row %d col %d: unknown cell %q", i+1, j+1, row[j])
			}
			g.Set(Coord{X: i + 1, Y: j + 1}, v)
		}
	}
	return g, nil
}
