package main

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type healthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	SessionID string `json:"session_id,omitempty"`
	GameState string `json:"game_state,omitempty"`
}

// handleHealth handles the GET /health endpoint
func (app *application) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(app.StartTime).Round(time.Second).String(),
	}
	if m := app.Env.Manager(); m != nil {
		snap := m.Snapshot()
		resp.SessionID = snap.SessionID
		resp.GameState = snap.State.String()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		app.Logger.Debug("writing health response", zap.Error(err))
	}
}
