package session

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/command"
	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
)

// Names used by LoadDefault and for the spectator seat.
const (
	DefaultBlueDisplayName = "Blue Player"
	DefaultRedDisplayName  = "Red Player"
	SpectatorName          = "Spectator"
	DefaultBoardSize       = 11
)

// Environment holds the one active session of a process: its manager and
// its players. It is constructed explicitly and passed to whoever needs it.
type Environment struct {
	mu      sync.RWMutex
	manager *Manager
	players []*Player

	publisher *events.Publisher
	logger    *zap.Logger
	opts      []Option
}

// NewEnvironment creates an empty environment. opts are applied to every
// Manager it creates.
func NewEnvironment(publisher *events.Publisher, logger *zap.Logger, opts ...Option) *Environment {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewPublisher(logger)
	}
	return &Environment{
		publisher: publisher,
		logger:    logger,
		opts:      append([]Option{WithLogger(logger), WithPublisher(publisher)}, opts...),
	}
}

// NewNamedPlayer creates a player whose think time depends on its name:
// names containing "bot" think longer.
func NewNamedPlayer(name string) *Player {
	if strings.Contains(strings.ToLower(name), "bot") {
		return NewPlayer(name, WithThinkTime(BotThinkTime))
	}
	return NewPlayer(name)
}

// LoadDefault starts a fresh untimed session on a board of the given size,
// DefaultBoardSize when size is zero.
func (e *Environment) LoadDefault(size int) (*Manager, error) {
	if size == 0 {
		size = DefaultBoardSize
	}
	match, err := game.NewMatch(size, 0)
	if err != nil {
		return nil, err
	}
	return e.Load(match, DefaultBlueDisplayName, DefaultRedDisplayName), nil
}

// Load replaces the current session with one around match. It creates a
// blue, a red and a spectator player and attaches all three.
func (e *Environment) Load(match game.Match, blueName, redName string) *Manager {
	players := command.Players{Blue: blueName, Red: redName}
	if players.Blue == "" {
		players.Blue = DefaultBlueName
	}
	if players.Red == "" {
		players.Red = DefaultRedName
	}

	return e.load(match, players, []*Player{
		NewNamedPlayer(players.Blue),
		NewNamedPlayer(players.Red),
		NewNamedPlayer(SpectatorName),
	})
}

// LoadWithPlayers replaces the current session, seating the first player
// as Blue and the second as Red. A spectator is added unless one of the
// players is named like one.
func (e *Environment) LoadWithPlayers(match game.Match, players []*Player) (*Manager, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need two players, got %d", len(players))
	}

	seated := append([]*Player(nil), players...)
	hasSpectator := false
	for _, p := range seated {
		if strings.Contains(strings.ToLower(p.Name()), "spectator") {
			hasSpectator = true
			break
		}
	}
	if !hasSpectator {
		seated = append(seated, NewNamedPlayer(SpectatorName))
	}

	names := command.Players{Blue: players[0].Name(), Red: players[1].Name()}
	return e.load(match, names, seated), nil
}

func (e *Environment) load(match game.Match, names command.Players, players []*Player) *Manager {
	e.Reset()

	m := NewManager(match, names, e.opts...)
	for _, p := range players {
		p.Join(m)
	}

	e.mu.Lock()
	e.manager = m
	e.players = players
	e.mu.Unlock()

	e.logger.Info("session loaded",
		zap.String("session_id", m.ID().String()),
		zap.String("blue", names.Blue),
		zap.String("red", names.Red),
		zap.Int("board_size", match.Board().Size()),
		zap.Bool("timed", match.Timed()),
	)
	e.publisher.Publish(events.Event{
		Type:      events.EventSessionLoaded,
		SessionID: m.ID().String(),
		Payload:   m,
	})
	return m
}

// Reset stops the current manager and detaches its players.
func (e *Environment) Reset() {
	e.mu.Lock()
	m, players := e.manager, e.players
	e.manager, e.players = nil, nil
	e.mu.Unlock()

	if m == nil {
		return
	}
	m.Stop()
	for _, p := range players {
		p.Leave()
	}

	e.logger.Info("session reset", zap.String("session_id", m.ID().String()))
	e.publisher.Publish(events.Event{
		Type:      events.EventSessionReset,
		SessionID: m.ID().String(),
	})
}

// Active reports whether a session with players is loaded.
func (e *Environment) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.manager != nil && len(e.players) > 0
}

// Manager returns the current manager, or nil.
func (e *Environment) Manager() *Manager {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.manager
}

// Players returns the seated players, Blue and Red first.
func (e *Environment) Players() []*Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Player(nil), e.players...)
}

// Player looks up a seated player by name.
func (e *Environment) Player(name string) (*Player, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.players {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Export returns the live game and the names of the two players, for the
// persistence collaborator.
func (e *Environment) Export() (game.Match, string, string, error) {
	e.mu.RLock()
	m := e.manager
	e.mu.RUnlock()

	if m == nil {
		return nil, "", "", ErrNoEnvironment
	}
	names := m.Players()
	return m.currentMatch(), names.Blue, names.Red, nil
}
