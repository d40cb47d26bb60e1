// Package messages defines the JSON envelopes exchanged over the websocket.
package messages

import (
	"github.com/tecu23/hex-server/pkg/game"
	"github.com/tecu23/hex-server/pkg/hex"
	"github.com/tecu23/hex-server/pkg/session"
)

// Outbound events.
const (
	EventConnected     = "CONNECTED"
	EventCommandResult = "COMMAND_RESULT"
	EventGameState     = "GAME_STATE"
	EventClockUpdate   = "CLOCK_UPDATE"
	EventGameOver      = "GAME_OVER"
	EventError         = "ERROR"
)

// OutboundMessage is how we wrap responses before sending
// them to the client
type OutboundMessage struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
	Player       string `json:"player"`
	SessionID    string `json:"session_id,omitempty"`
}

// MovePayload is one entry of the move history.
type MovePayload struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Player    string `json:"player"`
	Timestamp int64  `json:"timestamp_ms,omitempty"`
}

// GameStatePayload represents the full observable state of the game
type GameStatePayload struct {
	SessionID     string        `json:"session_id"`
	State         string        `json:"state"`
	BoardSize     int           `json:"board_size"`
	Board         [][]int       `json:"board"`
	Moves         []MovePayload `json:"moves"`
	CurrentTurn   string        `json:"current_turn"`
	CurrentPlayer string        `json:"current_player"`
	BluePlayer    string        `json:"blue_player"`
	RedPlayer     string        `json:"red_player"`
	Timed         bool          `json:"timed"`
	BlueTime      int64         `json:"blue_time_ms,omitempty"`
	RedTime       int64         `json:"red_time_ms,omitempty"`
	Duration      int64         `json:"duration_ms"`
	EndReason     string        `json:"end_reason,omitempty"`
	Winner        string        `json:"winner,omitempty"`
}

// CommandResultPayload reports the outcome of one command to every client
type CommandResultPayload struct {
	CommandID string           `json:"command_id"`
	Kind      string           `json:"kind"`
	Player    string           `json:"player"`
	Success   bool             `json:"success"`
	Data      string           `json:"data,omitempty"`
	Error     string           `json:"error,omitempty"`
	State     GameStatePayload `json:"state"`
}

type GameOverPayload struct {
	Reason string `json:"reason"`
	Winner string `json:"winner,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// ClockUpdatePayload contains information about the current state of the clock
type ClockUpdatePayload struct {
	BlueTime    int64  `json:"blueTimeMs"` // Blue's remaining time in milliseconds
	RedTime     int64  `json:"redTimeMs"`  // Red's remaining time in milliseconds
	BlueClock   string `json:"blueClock"`
	RedClock    string `json:"redClock"`
	ActiveColor string `json:"activeColor"`
}

// NewGameState converts a session snapshot to its wire form.
func NewGameState(s session.Snapshot) GameStatePayload {
	moves := make([]MovePayload, len(s.Moves))
	for i, m := range s.Moves {
		mp := MovePayload{
			X:      m.Cell().X(),
			Y:      m.Cell().Y(),
			Player: s.Players.NameOf(hex.ColorAtPly(i)),
		}
		if m.HasTimestamp() {
			mp.Timestamp = m.Timestamp().UnixMilli()
		}
		moves[i] = mp
	}

	p := GameStatePayload{
		SessionID:     s.SessionID,
		State:         s.State.String(),
		BoardSize:     s.Grid.Size(),
		Board:         s.Grid.Rows(),
		Moves:         moves,
		CurrentTurn:   s.CurrentPlayer.String(),
		CurrentPlayer: s.CurrentPlayerName,
		BluePlayer:    s.Players.Blue,
		RedPlayer:     s.Players.Red,
		Timed:         s.Timed,
		Duration:      s.Duration.Milliseconds(),
		Winner:        s.WinnerName,
	}
	if s.Timed {
		p.BlueTime = s.BlueRemaining.Milliseconds()
		p.RedTime = s.RedRemaining.Milliseconds()
	}
	if s.EndReason != game.EndNotFinished {
		p.EndReason = s.EndReason.String()
	}
	return p
}

// NewCommandResult converts a notification to its wire form.
func NewCommandResult(n session.Notification) CommandResultPayload {
	return CommandResultPayload{
		CommandID: n.Result.CommandID.String(),
		Kind:      string(n.Result.Kind),
		Player:    n.Result.Player,
		Success:   n.Result.Success,
		Data:      n.Result.Data,
		Error:     n.Result.ErrorText(),
		State:     NewGameState(n.Snapshot),
	}
}

// NewClockUpdate renders both clocks of a timed snapshot.
func NewClockUpdate(s session.Snapshot) ClockUpdatePayload {
	return ClockUpdatePayload{
		BlueTime:    s.BlueRemaining.Milliseconds(),
		RedTime:     s.RedRemaining.Milliseconds(),
		BlueClock:   game.FormatClock(s.BlueRemaining),
		RedClock:    game.FormatClock(s.RedRemaining),
		ActiveColor: s.CurrentPlayer.String(),
	}
}
