package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
)

var players = Players{Blue: "alice", Red: "bob"}

func newMatch(t *testing.T) *game.Game {
	t.Helper()
	board, err := hex.NewBoard(3)
	require.NoError(t, err)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return game.NewGame(board, game.WithClock(func() time.Time { return now }))
}

// panicMatch panics on every call it does not override.
type panicMatch struct {
	game.Match
}

func (panicMatch) CurrentPlayer() hex.Color { return hex.Blue }

func TestPlayers(t *testing.T) {
	c, ok := players.ColorOf("bob")
	require.True(t, ok)
	assert.Equal(t, hex.Red, c)

	_, ok = players.ColorOf("carol")
	assert.False(t, ok)

	assert.Equal(t, "alice", players.NameOf(hex.Blue))
	assert.Equal(t, "", players.NameOf(hex.Empty))
	assert.True(t, players.Plays("alice", hex.Blue))
	assert.False(t, players.Plays("alice", hex.Red))
}

func TestMove_Execute(t *testing.T) {
	m := newMatch(t)

	res := NewMove("alice", 1, 2).Execute(m, players)
	require.True(t, res.Success, res.ErrorText())
	assert.Equal(t, "Move made at position (1, 2)", res.Data)
	assert.Equal(t, KindMove, res.Kind)
	assert.Equal(t, "alice", res.Player)
	assert.Equal(t, "Command MOVE executed successfully: Move made at position (1, 2)", res.String())

	last, ok := m.Board().LastMove()
	require.True(t, ok)
	assert.Equal(t, m.Now(), last.Timestamp())
	assert.Equal(t, game.Active, m.State())
}

func TestMove_WrongTurn(t *testing.T) {
	tests := []struct {
		name   string
		player string
		want   string
	}{
		{name: "opponent", player: "bob", want: "Invalid player move turn (bob move but it's alice turn)"},
		{name: "stranger", player: "carol", want: "Invalid player move turn (carol move but it's alice turn)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatch(t)
			res := NewMove(tt.player, 0, 0).Execute(m, players)

			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, ErrCommandExecution)
			assert.Contains(t, res.ErrorText(), tt.want)
			assert.Equal(t, 0, m.Board().TotalMoves())
		})
	}
}

func TestMove_GameErrorsAreWrapped(t *testing.T) {
	m := newMatch(t)
	require.True(t, NewMove("alice", 0, 0).Execute(m, players).Success)

	res := NewMove("bob", 0, 0).Execute(m, players)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrCommandExecution)
	assert.ErrorIs(t, res.Err, hex.ErrCellOccupied)

	res = NewMove("bob", -1, 0).Execute(m, players)
	assert.ErrorIs(t, res.Err, hex.ErrCoordinateRange)

	res = NewMove("bob", 5, 0).Execute(m, players)
	assert.ErrorIs(t, res.Err, hex.ErrInvalidCell)
}

func TestPauseResume_Execute(t *testing.T) {
	m := newMatch(t)
	require.NoError(t, m.Start())

	res := NewPause("bob").Execute(m, players)
	require.True(t, res.Success)
	assert.Equal(t, "Game paused", res.Data)

	res = NewPause("alice").Execute(m, players)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, game.ErrInvalidStateTransition)
	assert.Equal(t, "Command PAUSE failed: "+res.ErrorText(), res.String())

	res = NewResume("alice").Execute(m, players)
	require.True(t, res.Success)
	assert.Equal(t, "Game resumed", res.Data)
	assert.Equal(t, game.Active, m.State())
}

func TestResign_Execute(t *testing.T) {
	m := newMatch(t)
	require.NoError(t, m.Start())

	res := NewResign("carol").Execute(m, players)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrUnknownPlayer)
	assert.False(t, m.IsOver())

	res = NewResign("bob").Execute(m, players)
	require.True(t, res.Success)
	assert.Equal(t, "bob has resigned from the game", res.Data)
	assert.Equal(t, hex.Blue, m.Winner())
	assert.Equal(t, game.EndResign, m.EndReason())
}

func TestExecute_RecoversPanics(t *testing.T) {
	var res Result
	require.NotPanics(t, func() {
		res = NewMove("alice", 0, 0).Execute(panicMatch{}, players)
	})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrCommandExecution)
	assert.Contains(t, res.ErrorText(), "panic")
}

func TestCommand_IDsAreUnique(t *testing.T) {
	a, b := NewPause("alice"), NewPause("alice")
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "alice", a.Player())
}
