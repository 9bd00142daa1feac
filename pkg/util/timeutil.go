package util

import "time"

// Clock lets services swap time.Now in tests.
type Clock func() time.Time

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}
