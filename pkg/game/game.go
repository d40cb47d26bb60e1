// Package game implements the lifecycle of a Hex game on top of a board:
// turn order, the state machine, end reasons and wall-clock bookkeeping.
package game

import (
	"fmt"
	"time"

	"github.com/tecu23/hex-server/pkg/hex"
)

// Option configures a Game or a TimedGame.
type Option func(*Game)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(g *Game) {
		if now != nil {
			g.now = now
		}
	}
}

// Game is an untimed Hex game. It is not safe for concurrent use; the
// session manager serializes every mutation.
type Game struct {
	board hex.Board

	state  State
	reason EndReason
	winner hex.Color

	startTime  time.Time
	endTime    time.Time
	totalPause time.Duration
	pauseStart time.Time

	now func() time.Time
}

// NewGame creates a game in the NotStarted state on the given board.
func NewGame(board hex.Board, opts ...Option) *Game {
	g := &Game{
		board: board,
		state: NotStarted,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Board exposes the read side of the board.
func (g *Game) Board() hex.Reader { return g.board }

func (g *Game) State() State { return g.state }

func (g *Game) EndReason() EndReason { return g.reason }

// Winner is Empty unless the game ended by Victory or Resign.
func (g *Game) Winner() hex.Color { return g.winner }

func (g *Game) StartTime() time.Time { return g.startTime }

func (g *Game) EndTime() time.Time { return g.endTime }

// Now returns the current time of the game's clock.
func (g *Game) Now() time.Time { return g.now() }

// IsOver reports whether an end reason has been recorded.
func (g *Game) IsOver() bool { return g.reason != EndNotFinished }

// Timed reports whether the game keeps per-player clocks.
func (g *Game) Timed() bool { return false }

// CurrentPlayer derives the color on turn from the ledger length.
func (g *Game) CurrentPlayer() hex.Color {
	return hex.ColorAtPly(g.board.TotalMoves())
}

// TotalPauseDuration includes the running pause while the game is paused.
func (g *Game) TotalPauseDuration() time.Duration {
	if g.state == Paused && !g.pauseStart.IsZero() {
		return g.totalPause + g.now().Sub(g.pauseStart)
	}
	return g.totalPause
}

// Duration is the played time: from start to end (or now) minus pauses.
// It reports false if the game never started.
func (g *Game) Duration() (time.Duration, bool) {
	if g.startTime.IsZero() {
		return 0, false
	}
	end := g.endTime
	if end.IsZero() {
		end = g.now()
	}
	return end.Sub(g.startTime) - g.TotalPauseDuration(), true
}

// Start moves a NotStarted game to Active.
func (g *Game) Start() error {
	return g.start(g.now())
}

func (g *Game) start(at time.Time) error {
	next, err := g.state.Next(TransitionStart)
	if err != nil {
		return err
	}
	g.state = next
	g.startTime = at
	return nil
}

// Pause suspends an Active game.
func (g *Game) Pause() error {
	next, err := g.state.Next(TransitionPause)
	if err != nil {
		return err
	}
	g.state = next
	g.pauseStart = g.now()
	return nil
}

// Resume continues a Paused game and books the pause.
func (g *Game) Resume() error {
	next, err := g.state.Next(TransitionResume)
	if err != nil {
		return err
	}
	g.closePause()
	g.state = next
	return nil
}

func (g *Game) closePause() {
	if g.state != Paused || g.pauseStart.IsZero() {
		return
	}
	g.totalPause += g.now().Sub(g.pauseStart)
	g.pauseStart = time.Time{}
}

// End finishes the game for a reason that names no winner. Victory and
// Resign are reached through MakeMove and Resign.
func (g *Game) End(reason EndReason) error {
	if reason == EndNotFinished || !reason.Valid() || reason.HasWinner() {
		return fmt.Errorf("%w: %s", ErrInvalidEndReason, reason)
	}
	return g.finish(reason, hex.Empty)
}

func (g *Game) finish(reason EndReason, winner hex.Color) error {
	next, err := g.state.Next(TransitionEnd)
	if err != nil {
		return err
	}
	g.closePause()
	g.state = next
	g.reason = reason
	g.winner = winner
	g.endTime = g.now()
	return nil
}

// Corrupt moves the game into the terminal Corrupted state. It fails only
// when the game is already corrupted.
func (g *Game) Corrupt() error {
	next, err := g.state.Next(TransitionCorrupt)
	if err != nil {
		return err
	}
	g.closePause()
	g.state = next
	return nil
}

// Resign ends the game with the opponent of c as winner.
func (g *Game) Resign(c hex.Color) error {
	if !c.IsPlayer() {
		return fmt.Errorf("%w: %s", ErrInvalidPlayer, c)
	}
	return g.finish(EndResign, c.Opp())
}

// Draw ends the game without a winner.
func (g *Game) Draw() error {
	return g.finish(EndDraw, hex.Empty)
}

// MakeMove plays m for the color on turn. The first move of a NotStarted
// game starts it; a move that connects two edges finishes it.
func (g *Game) MakeMove(m hex.Move) error {
	if g.IsOver() {
		return ErrGameOver
	}
	if g.board.IsFull() {
		return hex.ErrBoardFull
	}
	if err := g.board.CheckMove(m.Cell()); err != nil {
		return err
	}
	if g.state != Active && g.state != NotStarted {
		return fmt.Errorf("%w: game is %s", ErrNotPlayerTurn, g.state)
	}

	if g.state == NotStarted {
		at := g.now()
		if m.HasTimestamp() && m.Timestamp().Before(at) {
			at = m.Timestamp()
		}
		if err := g.start(at); err != nil {
			return err
		}
	}

	if err := g.board.AddMove(m); err != nil {
		return err
	}

	if w := g.board.Winner(); w != hex.Empty {
		return g.finish(EndVictory, w)
	}
	return nil
}

// UpdateTimers is a no-op for an untimed game.
func (g *Game) UpdateTimers() error { return nil }

// RemainingTime always fails with ErrUntimed.
func (g *Game) RemainingTime(hex.Color) (time.Duration, error) { return 0, ErrUntimed }

// CheckOvertime is always false for an untimed game.
func (g *Game) CheckOvertime() (bool, error) { return false, nil }

// Record captures the scalar fields of the game. Together with the board
// ledger they are enough to rebuild it with RestoreGame.
func (g *Game) Record() Record {
	return Record{
		State:      g.state,
		EndReason:  g.reason,
		Winner:     g.winner,
		StartTime:  g.startTime,
		EndTime:    g.endTime,
		TotalPause: g.totalPause,
		PauseStart: g.pauseStart,
	}
}
