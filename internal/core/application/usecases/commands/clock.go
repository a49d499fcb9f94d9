package commands

import "time"

// Clock abstracts time for handlers, so tests can pin transition and
// movement timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current wall time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
