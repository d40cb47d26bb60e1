package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tecu23/hex-server/pkg/hex"
)

func TestRestoreGame_RoundTrip(t *testing.T) {
	g, clock := newTestTimedGame(t, 4, time.Minute, 2*time.Minute)
	require.NoError(t, g.Start())
	clock.Advance(time.Second)
	require.NoError(t, g.MakeMove(move(clock, 0, 0)))
	require.NoError(t, g.Pause())
	clock.Advance(time.Second)

	rec := g.Record()
	assert.True(t, rec.Timed)
	assert.Equal(t, time.Minute, rec.BlueAllotment)

	restored, err := RestoreGame(g.board.ToLedger(), rec, WithClock(clock.Now))
	require.NoError(t, err)

	assert.IsType(t, &TimedGame{}, restored)
	assert.Equal(t, Paused, restored.State())
	assert.Equal(t, g.TotalPauseDuration(), restored.TotalPauseDuration())
	assert.Equal(t, remaining(t, g, hex.Red), remaining(t, restored, hex.Red))
	assert.Equal(t, rec, restored.Record())
}

func TestRestoreGame_Untimed(t *testing.T) {
	g, clock := newTestGame(t, 3)
	for _, c := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}, {1, 2}} {
		require.NoError(t, g.MakeMove(move(clock, c[0], c[1])))
	}

	restored, err := RestoreGame(g.board, g.Record())
	require.NoError(t, err)
	assert.IsType(t, &Game{}, restored)
	assert.Equal(t, hex.Red, restored.Winner())
	assert.Equal(t, EndVictory, restored.EndReason())
}

func TestRestoreGame_Invalid(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		rec  Record
	}{
		{name: "unknown state", rec: Record{State: State(7)}},
		{name: "finished without reason", rec: Record{State: Finished, StartTime: now, EndTime: now}},
		{name: "active with reason", rec: Record{State: Active, StartTime: now, EndReason: EndDraw}},
		{name: "resign without winner", rec: Record{State: Finished, StartTime: now, EndTime: now, EndReason: EndResign}},
		{name: "draw with winner", rec: Record{State: Finished, StartTime: now, EndTime: now, EndReason: EndDraw, Winner: hex.Blue}},
		{name: "victory not on board", rec: Record{State: Finished, StartTime: now, EndTime: now, EndReason: EndVictory, Winner: hex.Red}},
		{name: "active without start", rec: Record{State: Active}},
		{name: "paused without pause start", rec: Record{State: Paused, StartTime: now}},
		{name: "negative pause", rec: Record{State: Active, StartTime: now, TotalPause: -time.Second}},
		{name: "negative allotment", rec: Record{Timed: true, BlueAllotment: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board, err := hex.NewBoard(3)
			require.NoError(t, err)
			_, err = RestoreGame(board, tt.rec)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{in: -time.Second, want: "0.0"},
		{in: 9*time.Second + 450*time.Millisecond, want: "9.4"},
		{in: 10 * time.Second, want: "0:10"},
		{in: 90 * time.Second, want: "1:30"},
		{in: 300 * time.Second, want: "5:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.in), tt.in.String())
	}
}

func TestNewMatch(t *testing.T) {
	m, err := NewMatch(11, 0)
	require.NoError(t, err)
	assert.False(t, m.Timed())
	assert.Equal(t, 11, m.Board().Size())

	m, err = NewMatch(7, time.Minute)
	require.NoError(t, err)
	assert.True(t, m.Timed())

	_, err = NewMatch(2, 0)
	assert.ErrorIs(t, err, hex.ErrBoardSize)

	_, err = NewMatch(5, -time.Second)
	assert.ErrorIs(t, err, ErrInvalidAllotment)
}
