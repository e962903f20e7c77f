package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Every engine entry point that needs "now" reads it from here or takes an
// explicit reference timestamp; nothing consults the wall clock ambiently.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
