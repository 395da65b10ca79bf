// Package biztime centralizes how the service reads the wall clock.
// All storage and transport use UTC; timestamps are truncated to microseconds
// so values survive a round trip through MySQL DATETIME(6) unchanged.
package biztime

import "time"

// Clock returns the current instant. Components take a Clock so tests can pin
// time.
type Clock func() time.Time

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SystemClock is the production Clock.
var SystemClock Clock = NowUTC

// Fixed returns a Clock that always reports t.
func Fixed(t time.Time) Clock {
	t = t.UTC().Truncate(time.Microsecond)
	return func() time.Time { return t }
}
