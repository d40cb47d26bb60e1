package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tecu23/hex-server/pkg/command"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
)

// Think times applied by NewPlayer and by Environment to bot players.
const (
	DefaultThinkTime = 100 * time.Millisecond
	BotThinkTime     = 500 * time.Millisecond
)

// Stats are counters a player keeps about its own play.
type Stats struct {
	MovesMade    int
	InvalidMoves int
	GamesWon     int
	GamesLost    int
	TimeSpent    time.Duration
}

// MoveRecord is one entry of the move history as seen by a player.
type MoveRecord struct {
	Player    string
	Cell      hex.Cell
	Timestamp time.Time
}

// GameResult is the outcome of a finished game. Winner is "" when the game
// ended without one.
type GameResult struct {
	Reason game.EndReason
	Winner string
}

// PlayerOption configures a Player.
type PlayerOption func(*Player)

// WithThinkTime sets the minimum delay between a notification and the next
// move the player submits.
func WithThinkTime(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d >= 0 {
			p.thinkTime = d
		}
	}
}

// WithNotify registers a callback run after every notification.
func WithNotify(fn func(cmd command.Command, res command.Result)) PlayerOption {
	return func(p *Player) { p.notify = fn }
}

// Player is an observer bound to one name. It submits commands on behalf
// of that name and answers read queries about the session it joined.
type Player struct {
	name      string
	thinkTime time.Duration
	notify    func(command.Command, command.Result)

	mu               sync.Mutex
	manager          *Manager
	observerID       ObserverID
	lastNotification time.Time
	stats            Stats
	counted          bool
}

func NewPlayer(name string, opts ...PlayerOption) *Player {
	p := &Player{name: name, thinkTime: DefaultThinkTime}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Name() string { return p.name }

func (p *Player) ThinkTime() time.Duration { return p.thinkTime }

func (p *Player) String() string {
	return fmt.Sprintf("Player(name=%s, attached=%t)", p.name, p.Attached())
}

// Attached reports whether the player has joined a session.
func (p *Player) Attached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager != nil
}

// Join attaches the player to m, leaving any previous session first.
func (p *Player) Join(m *Manager) {
	p.Leave()

	id := m.Attach(p)

	p.mu.Lock()
	p.manager = m
	p.observerID = id
	p.counted = false
	p.mu.Unlock()
}

// Leave detaches the player. It is a no-op when not attached.
func (p *Player) Leave() {
	p.mu.Lock()
	m, id := p.manager, p.observerID
	p.manager = nil
	p.mu.Unlock()

	if m != nil {
		m.Detach(id)
	}
}

func (p *Player) attached() (*Manager, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.manager == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotAttached, p.name)
	}
	return p.manager, nil
}

// Submit enqueues cmd. Move commands first wait out the think time since
// the last notification; the wait honours ctx.
func (p *Player) Submit(ctx context.Context, cmd command.Command) error {
	m, err := p.attached()
	if err != nil {
		return err
	}
	if cmd == nil {
		return ErrNilCommand
	}
	if cmd.Player() != p.name {
		return fmt.Errorf("%w: %q submitted by %q", ErrWrongPlayer, cmd.Player(), p.name)
	}

	if cmd.Kind() == command.KindMove {
		p.mu.Lock()
		last := p.lastNotification
		p.mu.Unlock()

		if wait := p.thinkTime - time.Since(last); !last.IsZero() && wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if !last.IsZero() {
			p.mu.Lock()
			p.stats.TimeSpent += time.Since(last)
			p.mu.Unlock()
		}
	}

	return m.Enqueue(ctx, cmd)
}

// Move, Pause, Resume and Resign build a command bound to the player and
// submit it.
func (p *Player) Move(ctx context.Context, x, y int) error {
	return p.Submit(ctx, command.NewMove(p.name, x, y))
}

func (p *Player) Pause(ctx context.Context) error {
	return p.Submit(ctx, command.NewPause(p.name))
}

func (p *Player) Resume(ctx context.Context) error {
	return p.Submit(ctx, command.NewResume(p.name))
}

func (p *Player) Resign(ctx context.Context) error {
	return p.Submit(ctx, command.NewResign(p.name))
}

// Update implements Observer.
func (p *Player) Update(cmd command.Command, res command.Result) {
	p.mu.Lock()
	m := p.manager
	p.lastNotification = time.Now()
	if res.Player == p.name && res.Kind == command.KindMove {
		if res.Success {
			p.stats.MovesMade++
		} else {
			p.stats.InvalidMoves++
		}
	}
	p.mu.Unlock()

	if m != nil {
		p.countResult(m.Snapshot())
	}
	if p.notify != nil {
		p.notify(cmd, res)
	}
}

func (p *Player) countResult(s Snapshot) {
	if !s.State.Terminal() || s.EndReason == game.EndNotFinished {
		return
	}
	color, ok := s.Players.ColorOf(p.name)
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.counted {
		return
	}
	p.counted = true
	switch s.Winner {
	case color:
		p.stats.GamesWon++
	case color.Opp():
		p.stats.GamesLost++
	}
}

// Stats returns a copy of the player's counters.
func (p *Player) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// LastNotification is the time of the most recent Update.
func (p *Player) LastNotification() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastNotification
}

func (p *Player) inspect(fn func(m *Manager, g game.Match) error) error {
	m, err := p.attached()
	if err != nil {
		return err
	}
	m.Inspect(func(g game.Match) { err = fn(m, g) })
	return err
}

// State returns the lifecycle state of the game.
func (p *Player) State() (game.State, error) {
	var s game.State
	err := p.inspect(func(_ *Manager, g game.Match) error {
		s = g.State()
		return nil
	})
	return s, err
}

// IsCurrentPlayer reports whether the player is on turn.
func (p *Player) IsCurrentPlayer() bool {
	m, err := p.attached()
	if err != nil {
		return false
	}
	return m.CurrentPlayerName() == p.name
}

// CurrentPlayer returns the name of the player on turn.
func (p *Player) CurrentPlayer() (string, error) {
	m, err := p.attached()
	if err != nil {
		return "", err
	}
	return m.CurrentPlayerName(), nil
}

func (p *Player) clock(m *Manager, g game.Match, opponent bool) (time.Duration, error) {
	color, ok := m.players.ColorOf(p.name)
	if !ok {
		return 0, fmt.Errorf("%w: %q has no clock", command.ErrUnknownPlayer, p.name)
	}
	if opponent {
		color = color.Opp()
	}
	return g.RemainingTime(color)
}

// RemainingTime returns the player's own clock. Untimed games fail with
// game.ErrUntimed.
func (p *Player) RemainingTime() (time.Duration, error) {
	var d time.Duration
	err := p.inspect(func(m *Manager, g game.Match) (err error) {
		d, err = p.clock(m, g, false)
		return err
	})
	return d, err
}

// OpponentRemainingTime returns the other color's clock.
func (p *Player) OpponentRemainingTime() (time.Duration, error) {
	var d time.Duration
	err := p.inspect(func(m *Manager, g game.Match) (err error) {
		d, err = p.clock(m, g, true)
		return err
	})
	return d, err
}

// Duration is the played time of the game, zero before it starts.
func (p *Player) Duration() (time.Duration, error) {
	var d time.Duration
	err := p.inspect(func(_ *Manager, g game.Match) error {
		d, _ = g.Duration()
		return nil
	})
	return d, err
}

// MoveHistory lists the moves in ply order with the name that played each.
func (p *Player) MoveHistory() ([]MoveRecord, error) {
	var history []MoveRecord
	err := p.inspect(func(m *Manager, g game.Match) error {
		moves := g.Board().Moves()
		history = make([]MoveRecord, len(moves))
		for i, mv := range moves {
			history[i] = MoveRecord{
				Player:    m.players.NameOf(hex.ColorAtPly(i)),
				Cell:      mv.Cell(),
				Timestamp: mv.Timestamp(),
			}
		}
		return nil
	})
	return history, err
}

// MovesCount returns the number of plies played.
func (p *Player) MovesCount() (int, error) {
	var n int
	err := p.inspect(func(_ *Manager, g game.Match) error {
		n = g.Board().TotalMoves()
		return nil
	})
	return n, err
}

// BoardSize returns the edge length of the board.
func (p *Player) BoardSize() (int, error) {
	var n int
	err := p.inspect(func(_ *Manager, g game.Match) error {
		n = g.Board().Size()
		return nil
	})
	return n, err
}

// Board returns the current grid.
func (p *Player) Board() (hex.Grid, error) {
	var grid hex.Grid
	err := p.inspect(func(_ *Manager, g game.Match) error {
		grid = g.Board().State()
		return nil
	})
	return grid, err
}

// BoardAt returns the grid after the first k plies.
func (p *Player) BoardAt(k int) (hex.Grid, error) {
	var grid hex.Grid
	err := p.inspect(func(_ *Manager, g game.Match) (err error) {
		grid, err = g.Board().StateAt(k)
		return err
	})
	return grid, err
}

// IsMoveValid reports whether (x, y) is a free cell on the board.
func (p *Player) IsMoveValid(x, y int) (bool, error) {
	var ok bool
	err := p.inspect(func(_ *Manager, g game.Match) error {
		cell, err := hex.NewCell(x, y)
		if err != nil {
			return nil
		}
		ok = g.Board().IsValidMove(cell)
		return nil
	})
	return ok, err
}

// Result returns the end reason and the winner's name.
func (p *Player) Result() (GameResult, error) {
	var r GameResult
	err := p.inspect(func(m *Manager, g game.Match) error {
		r = GameResult{Reason: g.EndReason(), Winner: m.players.NameOf(g.Winner())}
		return nil
	})
	return r, err
}

var _ Observer = (*Player)(nil)
