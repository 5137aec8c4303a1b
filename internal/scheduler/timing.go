package scheduler

import "time"

// UntilHour returns how long from now until the clock next reads hour:00 in
// now's location: later today if that is still ahead, otherwise tomorrow.
// Hours outside 0-23 return 0.
func UntilHour(now time.Time, hour int) time.Duration {
	if hour < 0 || hour > 23 {
		return 0
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if next.Before(now) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, now.Location())
	}

	return next.Sub(now)
}

// MillisecondsUntil is UntilHour in whole milliseconds
func MillisecondsUntil(now time.Time, hour int) int64 {
	return UntilHour(now, hour).Milliseconds()
}
