package clock

import (
	"time"
)

// Clock is an interface around some of the standard library functions
// that provide time handling. It allows tests to control when
// snapshots are written and progress is reported.
type Clock interface {
	// Return the current time of day. Equivalent to time.Now().
	Now() time.Time

	// Create a channel that will publish the time of day at a regular
	// interval.
	NewTicker(d time.Duration) (Ticker, <-chan time.Time)
}

// Ticker is an interface around time.Ticker.
type Ticker interface {
	Stop()
}
