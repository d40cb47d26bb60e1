package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/events"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
	"github.com/tecu23/hex-server/pkg/session"
)

func TestRepository_SaveAndRestoreTimed(t *testing.T) {
	repo := NewInMemoryRepository(zap.NewNop())

	now := time.UnixMilli(1_700_000_000_000)
	clock := func() time.Time { return now }
	board, err := hex.NewBoard(4)
	require.NoError(t, err)
	g, err := game.NewTimedGame(board, time.Minute, game.WithClock(clock))
	require.NoError(t, err)

	require.NoError(t, g.MakeMove(hex.NewMove(hex.MustCell(0, 0), now)))
	now = now.Add(2 * time.Second)
	require.NoError(t, g.MakeMove(hex.NewMove(hex.MustCell(1, 1), now)))

	id := uuid.New()
	require.NoError(t, repo.SaveGame(SavedGame{
		ID:        id,
		BoardSize: 4,
		Blue:      "alice",
		Red:       "bob",
		Record:    g.Record(),
		Moves:     g.Board().Moves(),
	}))

	saved, err := repo.GetGame(id)
	require.NoError(t, err)
	assert.Equal(t, "alice", saved.Blue)
	assert.False(t, saved.SavedAt.IsZero())

	restored, err := saved.Restore(game.WithClock(clock))
	require.NoError(t, err)
	assert.True(t, restored.Timed())
	assert.Equal(t, game.Active, restored.State())
	assert.Equal(t, g.Board().State(), restored.Board().State())

	want, err := g.RemainingTime(hex.Red)
	require.NoError(t, err)
	got, err := restored.RemainingTime(hex.Red)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRepository_Errors(t *testing.T) {
	repo := NewInMemoryRepository(nil)

	_, err := repo.GetGame(uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)

	assert.ErrorIs(t, repo.SaveGame(SavedGame{}), game.ErrInvalidRecord)

	bad := SavedGame{
		ID:        uuid.New(),
		BoardSize: 3,
		Moves: []hex.Move{
			hex.NewMove(hex.MustCell(0, 0), time.Time{}),
			hex.NewMove(hex.MustCell(0, 0), time.Time{}),
		},
	}
	_, err = bad.Restore()
	assert.ErrorIs(t, err, game.ErrInvalidRecord)
	assert.ErrorIs(t, err, hex.ErrCellOccupied)
}

func TestRepository_ListGamesOrder(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	base := time.UnixMilli(1_700_000_000_000)

	second := SavedGame{ID: uuid.New(), BoardSize: 3, SavedAt: base.Add(time.Minute)}
	first := SavedGame{ID: uuid.New(), BoardSize: 3, SavedAt: base}
	require.NoError(t, repo.SaveGame(second))
	require.NoError(t, repo.SaveGame(first))

	list := repo.ListGames()
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestRepository_WatchSavesFinishedGames(t *testing.T) {
	logger := zap.NewNop()
	pub := events.NewPublisher(logger)
	env := session.NewEnvironment(pub, logger)
	repo := NewInMemoryRepository(logger)
	stop := repo.Watch(env, pub)
	defer stop()

	match, err := game.NewMatch(3, 0)
	require.NoError(t, err)
	m := env.Load(match, "alice", "bob")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = m.Run(ctx) }()

	alice, ok := env.Player("alice")
	require.True(t, ok)
	bob, ok := env.Player("bob")
	require.True(t, ok)

	require.NoError(t, alice.Move(ctx, 1, 1))
	require.NoError(t, bob.Resign(ctx))

	require.Eventually(t, func() bool { return repo.Len() == 1 }, 2*time.Second, 5*time.Millisecond)

	saved, err := repo.GetGame(m.ID())
	require.NoError(t, err)
	assert.Equal(t, "bob", saved.Red)
	assert.Len(t, saved.Moves, 1)

	restored, err := saved.Restore()
	require.NoError(t, err)
	assert.Equal(t, game.Finished, restored.State())
	assert.Equal(t, game.EndResign, restored.EndReason())
	assert.Equal(t, hex.Blue, restored.Winner())
}
