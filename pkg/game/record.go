package game

import (
	"fmt"
	"time"

	"github.com/tecu23/hex-server/pkg/hex"
)

// Record is the persistence boundary of a game: every scalar field that is
// not derivable from the board ledger.
type Record struct {
	State      State
	EndReason  EndReason
	Winner     hex.Color
	StartTime  time.Time
	EndTime    time.Time
	TotalPause time.Duration
	PauseStart time.Time

	// Set only for timed games.
	Timed         bool
	BlueAllotment time.Duration
	RedAllotment  time.Duration
}

// RestoreGame rebuilds a game from a board and a record. It returns a
// *TimedGame when the record is timed, a *Game otherwise.
func RestoreGame(board hex.Board, rec Record, opts ...Option) (Match, error) {
	if err := rec.validate(board); err != nil {
		return nil, err
	}

	g := NewGame(board, opts...)
	g.state = rec.State
	g.reason = rec.EndReason
	g.winner = rec.Winner
	g.startTime = rec.StartTime
	g.endTime = rec.EndTime
	g.totalPause = rec.TotalPause
	g.pauseStart = rec.PauseStart

	if !rec.Timed {
		return g, nil
	}
	timed, err := newTimed(g, rec.BlueAllotment, rec.RedAllotment)
	if err != nil {
		return nil, err
	}
	return timed, nil
}

func (rec Record) validate(board hex.Board) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidRecord, fmt.Sprintf(format, args...))
	}

	if board == nil {
		return invalid("missing board")
	}
	if !rec.State.Valid() {
		return invalid("unknown state %s", rec.State)
	}
	if !rec.EndReason.Valid() {
		return invalid("unknown end reason %s", rec.EndReason)
	}
	if rec.TotalPause < 0 {
		return invalid("negative pause duration %s", rec.TotalPause)
	}
	if rec.Timed && (rec.BlueAllotment < 0 || rec.RedAllotment < 0) {
		return invalid("negative time allotment")
	}

	finished := rec.EndReason != EndNotFinished
	switch rec.State {
	case Finished:
		if !finished {
			return invalid("finished game without end reason")
		}
		if rec.EndTime.IsZero() {
			return invalid("finished game without end time")
		}
	case Corrupted:
	default:
		if finished {
			return invalid("end reason %s on a %s game", rec.EndReason, rec.State)
		}
	}

	if rec.EndReason.HasWinner() != rec.Winner.IsPlayer() {
		return invalid("winner %s does not match end reason %s", rec.Winner, rec.EndReason)
	}
	if rec.Winner != hex.Empty && !rec.Winner.IsPlayer() {
		return invalid("unknown winner %s", rec.Winner)
	}
	if rec.EndReason == EndVictory && board.Winner() != rec.Winner {
		return invalid("board does not show a win for %s", rec.Winner)
	}

	switch rec.State {
	case NotStarted:
		if board.TotalMoves() > 0 || !rec.StartTime.IsZero() {
			return invalid("not started game with moves or a start time")
		}
	case Active, Paused, Finished:
		if rec.StartTime.IsZero() {
			return invalid("%s game without start time", rec.State)
		}
	}
	if (rec.State == Paused) != !rec.PauseStart.IsZero() {
		return invalid("pause start does not match state %s", rec.State)
	}
	return nil
}
