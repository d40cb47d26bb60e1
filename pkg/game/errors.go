package game

import "errors"

var (
	ErrGameOver         = errors.New("the game is over")
	ErrNotPlayerTurn    = errors.New("game state is not active for moves")
	ErrMissingTimestamp = errors.New("move timestamp is required in a timed game")
	ErrInvalidTimestamp = errors.New("invalid move timestamp")
	ErrTimeout          = errors.New("a player has run out of time")
	ErrUntimed          = errors.New("game has no clock")
	ErrInvalidPlayer    = errors.New("invalid player color")
	ErrInvalidEndReason = errors.New("invalid end reason")
	ErrInvalidRecord    = errors.New("invalid game record")
	ErrInvalidAllotment = errors.New("time allotment cannot be negative")
)
