package service

import (
	"time"

	"ea-licensing-be/internal/entity"
)

// XPWindow is an inclusive range of calendar days with double XP.
type XPWindow struct {
	Start time.Time
	End   time.Time
}

// XPMultiplier is 2 on Saturdays, Sundays and inside any window, otherwise 1.
func XPMultiplier(t time.Time, windows []XPWindow) int {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return 2
	}
	day := startOfDay(t)
	for _, w := range windows {
		if !day.Before(startOfDay(w.Start.In(t.Location()))) && !day.After(startOfDay(w.End.In(t.Location()))) {
			return 2
		}
	}
	return 1
}

// NextStreak advances a daily activity streak to now.
func NextStreak(last *time.Time, now time.Time, streak int) int {
	if last == nil {
		return 1
	}
	switch gap := daysBetween(*last, now); {
	case gap <= 0:
		if streak < 1 {
			return 1
		}
		return streak
	case gap == 1:
		return streak + 1
	default:
		return 1
	}
}

// ApplyXP adds gained to xp and levels up while xp covers 100 x level. It returns every
// level reached on the way.
func ApplyXP(level, xp, gained int) (int, int, []int) {
	if level < 1 {
		level = 1
	}
	xp += gained
	if xp < 0 {
		xp = 0
	}
	var reached []int
	for xp >= entity.XPPerLevel*level {
		xp -= entity.XPPerLevel * level
		level++
		reached = append(reached, level)
	}
	return level, xp, reached
}
