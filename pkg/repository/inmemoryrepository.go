// Package repository keeps finished games in memory so they can be listed
// and restored into a new session.
package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
	"github.com/tecu23/hex-server/pkg/session"
)

var ErrGameNotFound = errors.New("game not found")

// SavedGame is everything needed to rebuild a game: its scalar record and
// its move ledger.
type SavedGame struct {
	ID        uuid.UUID
	BoardSize int
	Blue      string
	Red       string
	Record    game.Record
	Moves     []hex.Move
	SavedAt   time.Time
}

// InMemoryGameRepository in an in-memory store of saved games
type InMemoryGameRepository struct {
	games  map[uuid.UUID]SavedGame
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository(logger *zap.Logger) *InMemoryGameRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryGameRepository{
		games:  make(map[uuid.UUID]SavedGame),
		logger: logger,
	}
}

// SaveGame saves a game to the repository, replacing any game with the
// same ID.
func (r *InMemoryGameRepository) SaveGame(g SavedGame) error {
	if g.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", game.ErrInvalidRecord)
	}
	if g.SavedAt.IsZero() {
		g.SavedAt = time.Now()
	}
	g.Moves = append([]hex.Move(nil), g.Moves...)

	r.mu.Lock()
	r.games[g.ID] = g
	r.mu.Unlock()

	r.logger.Debug("game saved",
		zap.String("game_id", g.ID.String()),
		zap.Stringer("state", g.Record.State),
		zap.Int("moves", len(g.Moves)),
	)
	return nil
}

// SaveSession captures the current game of m.
func (r *InMemoryGameRepository) SaveSession(m *session.Manager) error {
	saved := SavedGame{ID: m.ID()}
	names := m.Players()
	saved.Blue, saved.Red = names.Blue, names.Red

	m.Inspect(func(g game.Match) {
		saved.BoardSize = g.Board().Size()
		saved.Record = g.Record()
		saved.Moves = g.Board().Moves()
	})
	return r.SaveGame(saved)
}

// GetGame retrieves a game by ID
func (r *InMemoryGameRepository) GetGame(id uuid.UUID) (SavedGame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	if !ok {
		return SavedGame{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	g.Moves = append([]hex.Move(nil), g.Moves...)
	return g, nil
}

// ListGames returns every saved game, oldest first.
func (r *InMemoryGameRepository) ListGames() []SavedGame {
	r.mu.RLock()
	out := make([]SavedGame, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	return out
}

// Len returns the number of saved games.
func (r *InMemoryGameRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// Restore replays the saved ledger onto a fresh board and rebuilds the
// game around it.
func (g SavedGame) Restore(opts ...game.Option) (game.Match, error) {
	board, err := hex.NewBoard(g.BoardSize)
	if err != nil {
		return nil, err
	}
	for i, m := range g.Moves {
		if err := board.AddMove(m); err != nil {
			return nil, fmt.Errorf("%w: move %d: %w", game.ErrInvalidRecord, i, err)
		}
	}
	return game.RestoreGame(board, g.Record, opts...)
}

// Watch saves the session's game every time it finishes. The returned
// function stops watching.
func (r *InMemoryGameRepository) Watch(env *session.Environment, publisher *events.Publisher) func() {
	id := publisher.Subscribe(events.EventGameFinished, func(e events.Event) {
		m := env.Manager()
		if m == nil || m.ID().String() != e.SessionID {
			return
		}
		if err := r.SaveSession(m); err != nil {
			r.logger.Error("saving finished game", zap.String("session_id", e.SessionID), zap.Error(err))
		}
	})
	return func() { publisher.Unsubscribe(id) }
}
