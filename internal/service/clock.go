package service

import "time"

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

func UTCNow() time.Time {
	return time.Now().UTC()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b.
func daysBetween(a, b time.Time) int {
	a = startOfDay(a.In(b.Location()))
	b = startOfDay(b)
	return int(b.Sub(a).Hours() / 24)
}
