package game

import (
	"fmt"
	"time"

	"github.com/tecu23/hex-server/pkg/hex"
)

// TimedGame is a Game with one clock per color. Remaining time is derived
// from the move timestamps on every query, never stored incrementally.
type TimedGame struct {
	*Game

	allotment [3]time.Duration
	remaining [3]time.Duration
}

// NewTimedGame gives both colors the same allotment.
func NewTimedGame(board hex.Board, allotment time.Duration, opts ...Option) (*TimedGame, error) {
	return NewTimedGameWithAllotments(board, allotment, allotment, opts...)
}

// NewTimedGameWithAllotments gives each color its own allotment.
func NewTimedGameWithAllotments(board hex.Board, blue, red time.Duration, opts ...Option) (*TimedGame, error) {
	return newTimed(NewGame(board, opts...), blue, red)
}

func newTimed(g *Game, blue, red time.Duration) (*TimedGame, error) {
	if blue < 0 || red < 0 {
		return nil, fmt.Errorf("%w: blue %s, red %s", ErrInvalidAllotment, blue, red)
	}
	t := &TimedGame{Game: g}
	t.allotment[hex.Blue], t.allotment[hex.Red] = blue, red
	t.remaining = t.allotment
	return t, nil
}

func (t *TimedGame) Timed() bool { return true }

// Allotment returns the initial time of c.
func (t *TimedGame) Allotment(c hex.Color) time.Duration {
	if !c.IsPlayer() {
		return 0
	}
	return t.allotment[c]
}

// UpdateTimers recomputes both clocks from the ledger and stores them.
func (t *TimedGame) UpdateTimers() error {
	remaining, err := t.compute()
	if err != nil {
		return err
	}
	t.remaining = remaining
	return nil
}

// Remaining returns the clocks as of the last UpdateTimers.
func (t *TimedGame) Remaining() (blue, red time.Duration) {
	return t.remaining[hex.Blue], t.remaining[hex.Red]
}

// compute derives both clocks from the ledger in one pass:
//
//   - start to first move is charged to Blue
//   - the gap between two moves is charged to the color of the later one
//   - last move to now is charged to the color on turn, only while the game
//     is Active
//   - the accumulated pause is credited back half to each color
//
// Splitting pauses evenly ignores who was on turn when the pause began.
func (t *TimedGame) compute() ([3]time.Duration, error) {
	var remaining [3]time.Duration
	if t.startTime.IsZero() {
		return t.allotment, nil
	}

	var (
		charged [3]time.Duration
		moves   = t.board.Moves()
		last    = t.startTime
	)

	for i, m := range moves {
		if !m.HasTimestamp() {
			return remaining, fmt.Errorf("%w: move %d at %s has no timestamp", ErrInvalidTimestamp, i, m.Cell())
		}
		ts := m.Timestamp()
		if ts.Before(last) {
			if i == 0 {
				return remaining, fmt.Errorf("%w: first move precedes game start", ErrInvalidTimestamp)
			}
			return remaining, fmt.Errorf("%w: move %d precedes move %d", ErrInvalidTimestamp, i, i-1)
		}
		charged[hex.ColorAtPly(i)] += ts.Sub(last)
		last = ts
	}

	if t.state == Active && !t.IsOver() {
		now := t.now()
		if now.Before(last) {
			return remaining, fmt.Errorf("%w: current time precedes the last move", ErrInvalidTimestamp)
		}
		charged[t.CurrentPlayer()] += now.Sub(last)
	}

	credit := t.TotalPauseDuration() / 2
	for _, c := range []hex.Color{hex.Blue, hex.Red} {
		remaining[c] = max(t.allotment[c]-charged[c]+credit, 0)
	}
	return remaining, nil
}

// RemainingTime returns the time left for c right now. It does not mutate
// the game, so concurrent readers may call it.
func (t *TimedGame) RemainingTime(c hex.Color) (time.Duration, error) {
	if !c.IsPlayer() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPlayer, c)
	}
	remaining, err := t.compute()
	if err != nil {
		return 0, err
	}
	return remaining[c], nil
}

// CheckOvertime reports whether the color on turn has no time left.
func (t *TimedGame) CheckOvertime() (bool, error) {
	left, err := t.RemainingTime(t.CurrentPlayer())
	if err != nil {
		return false, err
	}
	return left <= 0, nil
}

// MakeMove refuses the move once the color on turn is out of time, and
// finishes a running game with EndOvertime when that happens.
func (t *TimedGame) MakeMove(m hex.Move) error {
	if t.IsOver() {
		return ErrGameOver
	}

	over, err := t.CheckOvertime()
	if err != nil {
		return err
	}
	if over {
		if t.state == Active || t.state == Paused {
			if err := t.finish(EndOvertime, hex.Empty); err != nil {
				return err
			}
		}
		return fmt.Errorf("%w: %s", ErrTimeout, t.CurrentPlayer())
	}

	if !m.HasTimestamp() {
		return ErrMissingTimestamp
	}
	return t.Game.MakeMove(m)
}

// Record adds the allotments to the game record.
func (t *TimedGame) Record() Record {
	rec := t.Game.Record()
	rec.Timed = true
	rec.BlueAllotment = t.allotment[hex.Blue]
	rec.RedAllotment = t.allotment[hex.Red]
	return rec
}
