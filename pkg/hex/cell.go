package hex

import "fmt"

// MaxCoordinate is the largest value a cell coordinate can take.
const MaxCoordinate = 255

// Cell is an immutable coordinate on the board. It is comparable and can be
// used as a map key.
type Cell struct {
	x uint8
	y uint8
}

// NewCell creates a cell, rejecting coordinates outside [0, 255].
func NewCell(x, y int) (Cell, error) {
	if x < 0 || x > MaxCoordinate || y < 0 || y > MaxCoordinate {
		return Cell{}, fmt.Errorf("%w: (%d, %d)", ErrCoordinateRange, x, y)
	}
	return Cell{x: uint8(x), y: uint8(y)}, nil
}

// MustCell is like NewCell but panics on invalid coordinates. Intended for
// literals in tests and fixed tables.
func MustCell(x, y int) Cell {
	c, err := NewCell(x, y)
	if err != nil {
		panic(err)
	}
	return c
}

// X returns the x coordinate of the cell.
func (c Cell) X() int { return int(c.x) }

// Y returns the y coordinate of the cell.
func (c Cell) Y() int { return int(c.y) }

// Within reports whether the cell lies on a board of the given size.
func (c Cell) Within(size int) bool {
	return int(c.x) < size && int(c.y) < size
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.x, c.y)
}
