package game

import (
	"fmt"
	"time"
)

// FormatClock renders a remaining time as "m:ss", or "s.t" under ten
// seconds. Negative values render as zero.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	ms := d.Milliseconds()
	totalSeconds := ms / 1000

	if ms < 10000 {
		tenths := (ms % 1000) / 100
		return fmt.Sprintf("%d.%d", totalSeconds, tenths)
	}

	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
