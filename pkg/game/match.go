package game

import (
	"time"

	"github.com/tecu23/hex-server/pkg/hex"
)

// Match is what the layers above the rules engine see of a game. Both
// *Game and *TimedGame implement it.
type Match interface {
	Board() hex.Reader
	State() State
	EndReason() EndReason
	Winner() hex.Color
	StartTime() time.Time
	EndTime() time.Time
	Now() time.Time
	IsOver() bool
	Timed() bool

	CurrentPlayer() hex.Color
	TotalPauseDuration() time.Duration
	Duration() (time.Duration, bool)

	MakeMove(m hex.Move) error
	Start() error
	Pause() error
	Resume() error
	End(reason EndReason) error
	Corrupt() error
	Resign(c hex.Color) error
	Draw() error

	UpdateTimers() error
	RemainingTime(c hex.Color) (time.Duration, error)
	CheckOvertime() (bool, error)

	Record() Record
}

var (
	_ Match = (*Game)(nil)
	_ Match = (*TimedGame)(nil)
)
