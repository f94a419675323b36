package utils

import "time"

// Clock returns the current time. Injected wherever deadline arithmetic
// happens so tests can pin "now".
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time {
	return time.Now().UTC()
}

// Remaining converts an absolute deadline into the duration left at "now".
// Never negative; a passed deadline yields zero.
func Remaining(deadline, now time.Time) time.Duration {
	if !now.Before(deadline) {
		return 0
	}
	return deadline.Sub(now)
}

// IsLive reports whether an offer with the given deadline can still be accepted.
// The deadline instant itself counts as expired.
func IsLive(deadline, now time.Time) bool {
	return now.Before(deadline)
}
