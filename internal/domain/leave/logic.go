package leave

import "time"

// InclusiveDays returns the inclusive day count between start and end. Both
// dates are normalized to a UTC calendar day first so timestamps submitted in
// different zones cannot shift the count. Returns 0 when end precedes start;
// callers reject that range.
func InclusiveDays(start, end time.Time) int {
	s := dateOnly(start)
	e := dateOnly(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// capEarned reduces the two earned buckets until their sum fits the combined
// ceiling. Non-encashable gives way first; overflow is discarded, never moved
// to another bucket.
func capEarned(encashable, nonEncashable, ceiling int) (int, int) {
	total := encashable + nonEncashable
	if total <= ceiling {
		return encashable, nonEncashable
	}
	over := total - ceiling
	if nonEncashable >= over {
		return encashable, nonEncashable - over
	}
	over -= nonEncashable
	return encashable - over, 0
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
