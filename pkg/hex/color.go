// Package hex defines the board entities of a Hex game: cells, moves,
// colours, grids, the move ledger and the connectivity win detector.
package hex

// Color represents the owner of a cell. The numeric values are the grid
// encoding shared with every consumer of a board state.
type Color uint8

// Possible cell owners. Blue always moves first.
const (
	Empty Color = 0
	Blue  Color = 1
	Red   Color = 2
)

// Opp returns the opposite color for the given color.
func (c Color) Opp() Color {
	switch c {
	case Blue:
		return Red
	case Red:
		return Blue
	default:
		return Empty
	}
}

// IsPlayer reports whether c is one of the two playing colors.
func (c Color) IsPlayer() bool {
	return c == Blue || c == Red
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Blue:
		return "blue"
	case Red:
		return "red"
	default:
		return "unknown"
	}
}

// ColorAtPly returns the color that played the move at the given ledger
// index. Even indexes belong to Blue, odd ones to Red.
func ColorAtPly(index int) Color {
	if index%2 == 0 {
		return Blue
	}
	return Red
}
