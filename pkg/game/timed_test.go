package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/hex-server/pkg/hex"
)

func newTestTimedGame(t *testing.T, size int, blue, red time.Duration) (*TimedGame, *fakeClock) {
	t.Helper()
	board, err := hex.NewBoard(size)
	require.NoError(t, err)
	clock := newFakeClock()
	g, err := NewTimedGameWithAllotments(board, blue, red, WithClock(clock.Now))
	require.NoError(t, err)
	return g, clock
}

func remaining(t *testing.T, g Match, c hex.Color) time.Duration {
	t.Helper()
	d, err := g.RemainingTime(c)
	require.NoError(t, err)
	return d
}

func TestTimedGame_NegativeAllotment(t *testing.T) {
	board, err := hex.NewBoard(3)
	require.NoError(t, err)
	_, err = NewTimedGame(board, -time.Second)
	assert.ErrorIs(t, err, ErrInvalidAllotment)
}

func TestTimedGame_MoveChargesMover(t *testing.T) {
	g, clock := newTestTimedGame(t, 5, 300*time.Second, 300*time.Second)
	require.NoError(t, g.Start())

	clock.Advance(500 * time.Millisecond)
	require.NoError(t, g.MakeMove(move(clock, 2, 2)))

	blue := remaining(t, g, hex.Blue)
	red := remaining(t, g, hex.Red)
	assert.Less(t, blue, 300*time.Second)
	assert.Equal(t, 299500*time.Millisecond, blue)
	assert.Equal(t, 300*time.Second, red)
}

func TestTimedGame_LedgerReplay(t *testing.T) {
	g, clock := newTestTimedGame(t, 5, time.Minute, 2*time.Minute)
	require.NoError(t, g.Start())

	clock.Advance(3 * time.Second) // blue
	require.NoError(t, g.MakeMove(move(clock, 0, 0)))
	clock.Advance(5 * time.Second) // red
	require.NoError(t, g.MakeMove(move(clock, 4, 4)))
	clock.Advance(2 * time.Second) // blue
	require.NoError(t, g.MakeMove(move(clock, 2, 2)))
	clock.Advance(7 * time.Second) // red still thinking

	assert.Equal(t, 55*time.Second, remaining(t, g, hex.Blue))
	assert.Equal(t, 108*time.Second, remaining(t, g, hex.Red))
}

func TestTimedGame_PauseCreditSplitEvenly(t *testing.T) {
	g, clock := newTestTimedGame(t, 5, time.Minute, time.Minute)
	require.NoError(t, g.Start())

	clock.Advance(2 * time.Second)
	require.NoError(t, g.MakeMove(move(clock, 0, 0)))
	require.NoError(t, g.Pause())
	clock.Advance(10 * time.Second)
	require.NoError(t, g.Resume())
	clock.Advance(4 * time.Second)
	require.NoError(t, g.MakeMove(move(clock, 1, 1)))

	// Red was charged 14s including the 10s pause, and each color gets 5s back.
	assert.Equal(t, 63*time.Second, remaining(t, g, hex.Blue))
	assert.Equal(t, 51*time.Second, remaining(t, g, hex.Red))
}

func TestTimedGame_NoMovesChargesBlue(t *testing.T) {
	g, clock := newTestTimedGame(t, 3, 10*time.Second, 10*time.Second)
	require.NoError(t, g.Start())
	clock.Advance(4 * time.Second)

	assert.Equal(t, 6*time.Second, remaining(t, g, hex.Blue))
	assert.Equal(t, 10*time.Second, remaining(t, g, hex.Red))
}

func TestTimedGame_NeverNegative(t *testing.T) {
	g, clock := newTestTimedGame(t, 3, time.Second, time.Second)
	require.NoError(t, g.Start())
	clock.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), remaining(t, g, hex.Blue))
}

func TestTimedGame_OvertimeEndsGame(t *testing.T) {
	g, clock := newTestTimedGame(t, 3, 5*time.Second, 5*time.Second)
	require.NoError(t, g.Start())
	clock.Advance(6 * time.Second)

	over, err := g.CheckOvertime()
	require.NoError(t, err)
	assert.True(t, over)

	err = g.MakeMove(move(clock, 0, 0))
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, Finished, g.State())
	assert.Equal(t, EndOvertime, g.EndReason())
	assert.Equal(t, hex.Empty, g.Winner())
	assert.Equal(t, 0, g.Board().TotalMoves())

	assert.ErrorIs(t, g.MakeMove(move(clock, 0, 0)), ErrGameOver)
}

func TestTimedGame_RequiresTimestamp(t *testing.T) {
	g, _ := newTestTimedGame(t, 3, time.Minute, time.Minute)
	require.NoError(t, g.Start())
	err := g.MakeMove(hex.NewMove(hex.MustCell(0, 0), time.Time{}))
	assert.ErrorIs(t, err, ErrMissingTimestamp)
}

func TestTimedGame_InvalidTimestamps(t *testing.T) {
	t.Run("now before last move", func(t *testing.T) {
		g, clock := newTestTimedGame(t, 3, time.Minute, time.Minute)
		require.NoError(t, g.Start())
		future := hex.NewMove(hex.MustCell(0, 0), clock.Now().Add(time.Minute))
		require.NoError(t, g.Game.MakeMove(future))

		_, err := g.RemainingTime(hex.Blue)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("non monotonic ledger", func(t *testing.T) {
		g, clock := newTestTimedGame(t, 3, time.Minute, time.Minute)
		require.NoError(t, g.Start())
		clock.Advance(10 * time.Second)
		require.NoError(t, g.MakeMove(move(clock, 0, 0)))
		back := hex.NewMove(hex.MustCell(1, 1), clock.Now().Add(-5*time.Second))
		require.NoError(t, g.Game.MakeMove(back))

		_, err := g.RemainingTime(hex.Red)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})

	t.Run("first move before start", func(t *testing.T) {
		board, err := hex.NewBoard(3)
		require.NoError(t, err)
		clock := newFakeClock()
		require.NoError(t, board.AddMove(hex.NewMove(hex.MustCell(0, 0), clock.Now().Add(-time.Second))))

		restored, err := RestoreGame(board, Record{
			State:         Active,
			StartTime:     clock.Now(),
			Timed:         true,
			BlueAllotment: time.Minute,
			RedAllotment:  time.Minute,
		}, WithClock(clock.Now))
		require.NoError(t, err)

		_, err = restored.RemainingTime(hex.Blue)
		assert.ErrorIs(t, err, ErrInvalidTimestamp)
	})
}

func TestTimedGame_RemainingTimeRejectsEmpty(t *testing.T) {
	g, _ := newTestTimedGame(t, 3, time.Minute, time.Minute)
	_, err := g.RemainingTime(hex.Empty)
	assert.ErrorIs(t, err, ErrInvalidPlayer)
}

func TestTimedGame_UpdateTimersStoresClocks(t *testing.T) {
	g, clock := newTestTimedGame(t, 3, 30*time.Second, 20*time.Second)
	blue, red := g.Remaining()
	assert.Equal(t, 30*time.Second, blue)
	assert.Equal(t, 20*time.Second, red)

	require.NoError(t, g.Start())
	clock.Advance(5 * time.Second)
	require.NoError(t, g.UpdateTimers())

	clock.Advance(5 * time.Second)
	blue, _ = g.Remaining()
	assert.Equal(t, 25*time.Second, blue)
	assert.Equal(t, 20*time.Second, remaining(t, g, hex.Blue))
	assert.Equal(t, time.Minute/2, g.Allotment(hex.Blue))
}
