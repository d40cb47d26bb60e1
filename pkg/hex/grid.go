package hex

import (
	"bytes"
	"strings"
)

// Grid is an N×N snapshot of cell owners, indexed as [x][y]. Values follow
// the Color encoding: 0 empty, 1 blue, 2 red.
type Grid struct {
	size  int
	cells []byte
}

// NewGrid returns an empty grid of the given size.
func NewGrid(size int) Grid {
	return Grid{size: size, cells: make([]byte, size*size)}
}

// Size returns the edge length of the grid.
func (g Grid) Size() int { return g.size }

// At returns the owner of (x, y). Coordinates outside the grid are Empty.
func (g Grid) At(x, y int) Color {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return Empty
	}
	return Color(g.cells[x*g.size+y])
}

// AtCell returns the owner of c.
func (g Grid) AtCell(c Cell) Color {
	return g.At(c.X(), c.Y())
}

func (g Grid) set(c Cell, color Color) {
	g.cells[c.X()*g.size+c.Y()] = byte(color)
}

// Bytes returns a copy of the raw encoding, row by row along x.
func (g Grid) Bytes() []byte {
	out := make([]byte, len(g.cells))
	copy(out, g.cells)
	return out
}

// Rows returns the grid as nested integer slices, [x][y].
func (g Grid) Rows() [][]int {
	rows := make([][]int, g.size)
	for x := 0; x < g.size; x++ {
		row := make([]int, g.size)
		for y := 0; y < g.size; y++ {
			row[y] = int(g.cells[x*g.size+y])
		}
		rows[x] = row
	}
	return rows
}

// Equal reports whether both grids have the same size and contents.
func (g Grid) Equal(other Grid) bool {
	return g.size == other.size && bytes.Equal(g.cells, other.cells)
}

// Clone creates a deep copy of the grid
func (g Grid) Clone() Grid {
	return Grid{size: g.size, cells: g.Bytes()}
}

// Count returns the number of cells owned by color.
func (g Grid) Count(color Color) int {
	n := 0
	for _, v := range g.cells {
		if Color(v) == color {
			n++
		}
	}
	return n
}

// String renders the grid with one line per y, shifted to show the rhombus.
func (g Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.size; y++ {
		sb.WriteString(strings.Repeat(" ", y))
		for x := 0; x < g.size; x++ {
			switch g.At(x, y) {
			case Blue:
				sb.WriteString("B ")
			case Red:
				sb.WriteString("R ")
			default:
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
