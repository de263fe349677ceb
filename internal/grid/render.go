package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Glyphs maps each cell state to the text drawn for it, indexed by Cell.
type Glyphs [3]string

// DefaultGlyphs draws two characters per cell.
var DefaultGlyphs = Glyphs{"  ", "--", "||"}

// ParseGlyphs parses a comma-separated list of three glyphs in
// Empty, TypeA, TypeB order, e.g. "  ,--,||".
func ParseGlyphs(s string) (Glyphs, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Glyphs{}, fmt.Errorf("expected 3 comma-separated glyphs, got %d", len(parts))
	}
	var g Glyphs
	copy(g[:], parts)
	return g, nil
}

// Rows renders each interior row of g as a string.
func Rows(g *Grid, glyphs Glyphs) []string {
	rows := make([]string, 0, g.n)
	var sb strings.Builder
	for _, c := range g.coords {
		sb.WriteString(glyphs[g.At(c)])
		if c.Y == g.n {
			rows = append(rows, sb.String())
			sb.Reset()
		}
	}
	return rows
}

// Render writes g to w using DefaultGlyphs.
func Render(w io.Writer, g *Grid) error {
	return RenderWith(w, g, DefaultGlyphs)
}

// RenderWith writes g to w, one line per row with a newline after the last
// column of each row.
func RenderWith(w io.Writer, g *Grid, glyphs Glyphs) error {
	bw := bufio.NewWriter(w)
	for _, c := range g.coords {
		if _, err := bw.WriteString(glyphs[g.At(c)]); err != nil {
			return err
		}
		if c.Y == g.n {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// String renders g with DefaultGlyphs.
func (g *Grid) String() string {
	var sb strings.Builder
	_ = Render(&sb, g)
	return sb.String()
}
