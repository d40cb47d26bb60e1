package game

import (
	"time"

	"github.com/tecu23/hex-server/pkg/hex"
)

// NewMatch builds a game on a fresh materialized board. A positive
// allotment gives both colors a clock; zero means untimed.
func NewMatch(size int, allotment time.Duration, opts ...Option) (Match, error) {
	board, err := hex.NewBoard(size)
	if err != nil {
		return nil, err
	}
	if allotment == 0 {
		return NewGame(board, opts...), nil
	}
	timed, err := NewTimedGame(board, allotment, opts...)
	if err != nil {
		return nil, err
	}
	return timed, nil
}
