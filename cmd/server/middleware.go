package main

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/tecu23/hex-server/pkg/session"
)

type contextKey string

const playerContextKey = contextKey("player")

func withPlayer(r *http.Request, name string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), playerContextKey, name))
}

func playerFrom(r *http.Request) string {
	name, ok := r.Context().Value(playerContextKey).(string)
	if !ok || name == "" {
		return session.SpectatorName
	}
	return name
}

// authenticate resolves the player behind a request. With keys configured
// the key comes from the X-Api-Key header, or the api_key query parameter
// for browsers that cannot set headers on a websocket handshake. Without
// keys the player query parameter is trusted.
func (app *application) authenticate(next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.Auth.Enabled() {
			next.ServeHTTP(w, withPlayer(r, r.URL.Query().Get("player")))
			return
		}

		apiKey := r.Header.Get("X-Api-Key")
		if apiKey == "" {
			apiKey = r.URL.Query().Get("api_key")
		}

		if name, ok := app.Auth.PlayerFor(apiKey); ok {
			next.ServeHTTP(w, withPlayer(r, name))
			return
		}

		app.Logger.Warn(
			"Authentication failed",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		w.Header().Set("WWW-Authenticate", "APIKey")
		http.Error(w, "Unauthorized: invalid API key", http.StatusUnauthorized)
	})
}
