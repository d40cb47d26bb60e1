package hex

import (
	"fmt"
	"time"
)

// Move is a cell paired with the time it was played. A zero timestamp means
// the move carries no time information.
type Move struct {
	cell      Cell
	timestamp time.Time
}

// NewMove creates a move at cell played at ts.
func NewMove(cell Cell, ts time.Time) Move {
	return Move{cell: cell, timestamp: ts}
}

// Cell returns the cell of the move.
func (m Move) Cell() Cell { return m.cell }

// Timestamp returns when the move was played.
func (m Move) Timestamp() time.Time { return m.timestamp }

// HasTimestamp reports whether the move carries a timestamp.
func (m Move) HasTimestamp() bool { return !m.timestamp.IsZero() }

// Equal compares moves by cell only. Two moves on the same cell are the same
// move regardless of when they were played.
func (m Move) Equal(other Move) bool {
	return m.cell == other.cell
}

func (m Move) String() string {
	if !m.HasTimestamp() {
		return fmt.Sprintf("move%s", m.cell)
	}
	return fmt.Sprintf("move%s@%s", m.cell, m.timestamp.Format(time.RFC3339Nano))
}
