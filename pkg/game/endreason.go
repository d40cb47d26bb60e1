package game

import "fmt"

// EndReason records why a game stopped. The zero value means it has not.
type EndReason uint8

const (
	EndNotFinished EndReason = iota
	EndResign
	EndOvertime
	EndVictory
	EndDraw
	EndCorrupted
)

func (r EndReason) String() string {
	switch r {
	case EndNotFinished:
		return "NOT_FINISHED"
	case EndResign:
		return "RESIGN"
	case EndOvertime:
		return "OVERTIME"
	case EndVictory:
		return "VICTORY"
	case EndDraw:
		return "DRAW"
	case EndCorrupted:
		return "CORRUPTED"
	default:
		return fmt.Sprintf("EndReason(%d)", uint8(r))
	}
}

// Valid reports whether r is a declared reason.
func (r EndReason) Valid() bool { return r <= EndCorrupted }

// HasWinner reports whether a game ending for r names a winner.
func (r EndReason) HasWinner() bool { return r == EndVictory || r == EndResign }
