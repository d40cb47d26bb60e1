package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", app.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /games", app.authenticate(app.handleListGames))
	mux.HandleFunc("GET /ws", app.authenticate(app.handleWebSocket))

	return mux
}
