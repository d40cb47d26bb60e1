package main

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/command"
)

type gameSummary struct {
	ID        string    `json:"id"`
	Blue      string    `json:"blue"`
	Red       string    `json:"red"`
	BoardSize int       `json:"board_size"`
	Moves     int       `json:"moves"`
	State     string    `json:"state"`
	EndReason string    `json:"end_reason"`
	Winner    string    `json:"winner,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// handleListGames handles GET /games, the archive of saved games.
func (app *application) handleListGames(w http.ResponseWriter, _ *http.Request) {
	saved := app.Repo.ListGames()
	out := make([]gameSummary, 0, len(saved))
	for _, g := range saved {
		s := gameSummary{
			ID:        g.ID.String(),
			Blue:      g.Blue,
			Red:       g.Red,
			BoardSize: g.BoardSize,
			Moves:     len(g.Moves),
			State:     g.Record.State.String(),
			EndReason: g.Record.EndReason.String(),
			SavedAt:   g.SavedAt,
		}
		if g.Record.EndReason.HasWinner() {
			s.Winner = command.Players{Blue: g.Blue, Red: g.Red}.NameOf(g.Record.Winner)
		}
		out = append(out, s)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		app.Logger.Debug("writing games response", zap.Error(err))
	}
}
