// Package auth maps API keys to the player names they authenticate.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrMalformedKey = errors.New("malformed api key")

// APIKeyAuth provides a simple API key authentication
type APIKeyAuth struct {
	mu        sync.RWMutex
	validKeys map[string]string // key -> player name
}

// NewAPIKeyAuth builds the key table from "KEY:name" pairs.
func NewAPIKeyAuth(pairs []string) (*APIKeyAuth, error) {
	a := &APIKeyAuth{validKeys: make(map[string]string, len(pairs))}
	for _, pair := range pairs {
		key, name, ok := strings.Cut(pair, ":")
		key, name = strings.TrimSpace(key), strings.TrimSpace(name)
		if !ok || key == "" || name == "" {
			return nil, fmt.Errorf("%w: %q, want KEY:name", ErrMalformedKey, pair)
		}
		a.validKeys[key] = name
	}
	return a, nil
}

// Enabled reports whether any key is configured. With no keys every
// request is accepted anonymously.
func (a *APIKeyAuth) Enabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.validKeys) > 0
}

// AddKey adds a new valid API key for the named player
func (a *APIKeyAuth) AddKey(key, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.validKeys[key] = name
}

// RemoveKey removes a valid API key
func (a *APIKeyAuth) RemoveKey(key string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.validKeys, key)
}

// IsValidKey checks if a key is valid
func (a *APIKeyAuth) IsValidKey(key string) bool {
	_, ok := a.PlayerFor(key)
	return ok
}

// PlayerFor returns the player name bound to key.
func (a *APIKeyAuth) PlayerFor(key string) (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	name, ok := a.validKeys[key]
	return name, ok
}
