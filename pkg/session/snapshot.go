package session

import (
	"time"

	"github.com/tecu23/hex-server/pkg/command"
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
)

// Snapshot is a copy of the observable state of a session's game.
type Snapshot struct {
	SessionID string
	Players   command.Players

	State      game.State
	EndReason  game.EndReason
	Winner     hex.Color
	WinnerName string

	CurrentPlayer     hex.Color
	CurrentPlayerName string

	Grid  hex.Grid
	Moves []hex.Move

	Started  bool
	Duration time.Duration

	Timed         bool
	BlueRemaining time.Duration
	RedRemaining  time.Duration
	// ClockErr is set when the clocks could not be derived from the ledger.
	ClockErr error
}

func (m *Manager) snapshotLocked() Snapshot {
	g := m.match
	board := g.Board()

	s := Snapshot{
		SessionID:     m.id.String(),
		Players:       m.players,
		State:         g.State(),
		EndReason:     g.EndReason(),
		Winner:        g.Winner(),
		WinnerName:    m.players.NameOf(g.Winner()),
		CurrentPlayer: g.CurrentPlayer(),
		Grid:          board.State(),
		Moves:         board.Moves(),
		Timed:         g.Timed(),
	}
	s.CurrentPlayerName = m.players.NameOf(s.CurrentPlayer)
	s.Duration, s.Started = g.Duration()

	if s.Timed {
		var err error
		if s.BlueRemaining, err = g.RemainingTime(hex.Blue); err != nil {
			s.ClockErr = err
		} else if s.RedRemaining, err = g.RemainingTime(hex.Red); err != nil {
			s.ClockErr = err
		}
	}
	return s
}
