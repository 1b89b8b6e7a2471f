package domain

import "time"

// Clock returns the current time. Repositories take one so tests can pin "today".
type Clock func() time.Time

// EndOfDay returns 23:59:59.999 of the day containing t, in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
