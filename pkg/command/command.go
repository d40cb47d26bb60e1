// Package command turns player intents into operations on a game. A
// command never fails outward: Execute always returns a Result.
package command

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
)

var (
	ErrCommandExecution = errors.New("command execution failed")
	ErrUnknownPlayer    = errors.New("unknown player")
)

// Kind labels a command in results and on the wire.
type Kind string

const (
	KindMove   Kind = "MOVE"
	KindPause  Kind = "PAUSE"
	KindResume Kind = "RESUME"
	KindResign Kind = "RESIGN"
)

// Command is one action attempted by a named player.
type Command interface {
	ID() uuid.UUID
	Kind() Kind
	Player() string
	Execute(m game.Match, players Players) Result
}

// Players holds the display names bound to each color.
type Players struct {
	Blue string
	Red  string
}

// NameOf returns the name playing c, or "" for Empty.
func (p Players) NameOf(c hex.Color) string {
	switch c {
	case hex.Blue:
		return p.Blue
	case hex.Red:
		return p.Red
	default:
		return ""
	}
}

// ColorOf resolves a name to its color. Blue wins if both names match.
func (p Players) ColorOf(name string) (hex.Color, bool) {
	switch name {
	case p.Blue:
		return hex.Blue, true
	case p.Red:
		return hex.Red, true
	default:
		return hex.Empty, false
	}
}

// Plays reports whether name is bound to c.
func (p Players) Plays(name string, c hex.Color) bool {
	return c.IsPlayer() && p.NameOf(c) == name
}

type base struct {
	id     uuid.UUID
	player string
}

func newBase(player string) base {
	return base{id: uuid.New(), player: player}
}

func (b base) ID() uuid.UUID { return b.id }

func (b base) Player() string { return b.player }

// run executes fn and folds its outcome, or a panic, into a Result.
func (b base) run(kind Kind, fn func() (string, error)) (res Result) {
	res = Result{CommandID: b.id, Kind: kind, Player: b.player}

	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Data = ""
			res.Err = fmt.Errorf("%w: panic: %v", ErrCommandExecution, r)
		}
	}()

	data, err := fn()
	if err != nil {
		if !errors.Is(err, ErrCommandExecution) {
			err = fmt.Errorf("%w: %w", ErrCommandExecution, err)
		}
		res.Err = err
		return res
	}

	res.Success = true
	res.Data = data
	return res
}

// Move places a stone at (x, y) for the acting player.
type Move struct {
	base
	x, y int
}

func NewMove(player string, x, y int) *Move {
	return &Move{base: newBase(player), x: x, y: y}
}

func (c *Move) Kind() Kind { return KindMove }

func (c *Move) X() int { return c.x }

func (c *Move) Y() int { return c.y }

// Execute plays the move only if the acting player is on turn. The move is
// stamped with the game's clock.
func (c *Move) Execute(m game.Match, players Players) Result {
	return c.run(KindMove, func() (string, error) {
		current := m.CurrentPlayer()
		if !players.Plays(c.player, current) {
			return "", fmt.Errorf("%w: Invalid player move turn (%s move but it's %s turn)",
				ErrCommandExecution, c.player, players.NameOf(current))
		}

		cell, err := hex.NewCell(c.x, c.y)
		if err != nil {
			return "", err
		}
		if err := m.MakeMove(hex.NewMove(cell, m.Now())); err != nil {
			return "", err
		}
		return fmt.Sprintf("Move made at position (%d, %d)", c.x, c.y), nil
	})
}

// Pause suspends the game.
type Pause struct{ base }

func NewPause(player string) *Pause { return &Pause{base: newBase(player)} }

func (c *Pause) Kind() Kind { return KindPause }

func (c *Pause) Execute(m game.Match, _ Players) Result {
	return c.run(KindPause, func() (string, error) {
		if err := m.Pause(); err != nil {
			return "", err
		}
		return "Game paused", nil
	})
}

// Resume continues a paused game.
type Resume struct{ base }

func NewResume(player string) *Resume { return &Resume{base: newBase(player)} }

func (c *Resume) Kind() Kind { return KindResume }

func (c *Resume) Execute(m game.Match, _ Players) Result {
	return c.run(KindResume, func() (string, error) {
		if err := m.Resume(); err != nil {
			return "", err
		}
		return "Game resumed", nil
	})
}

// Resign concedes the game for the acting player's color.
type Resign struct{ base }

func NewResign(player string) *Resign { return &Resign{base: newBase(player)} }

func (c *Resign) Kind() Kind { return KindResign }

func (c *Resign) Execute(m game.Match, players Players) Result {
	return c.run(KindResign, func() (string, error) {
		color, ok := players.ColorOf(c.player)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownPlayer, c.player)
		}
		if err := m.Resign(color); err != nil {
			return "", err
		}
		return fmt.Sprintf("%s has resigned from the game", c.player), nil
	})
}

var (
	_ Command = (*Move)(nil)
	_ Command = (*Pause)(nil)
	_ Command = (*Resume)(nil)
	_ Command = (*Resign)(nil)
)
