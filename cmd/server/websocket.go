package main

import (
	"net/http"

	"go.uber.org/zap"
)

// handleWebSocket upgrades the request and hands the socket to the hub
// under the authenticated player.
func (app *application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	player := playerFrom(r)

	// Upgrade HTTP connection to WebSocket
	ws, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	conn := app.Hub.Serve(ws, player)

	app.Logger.Info("WebSocket connection established",
		zap.String("connection_id", conn.ID.String()),
		zap.String("player", player),
		zap.String("remote_addr", r.RemoteAddr))
}
