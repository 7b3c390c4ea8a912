package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestXPMultiplier(t *testing.T) {
	promo := []XPWindow{{
		Start: time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.April, 28, 0, 0, 0, 0, time.UTC),
	}}

	tests := []struct {
		name string
		at   time.Time
		want int
	}{
		{"weekday", time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC), 1},
		{"saturday", time.Date(2025, time.June, 14, 10, 0, 0, 0, time.UTC), 2},
		{"sunday", time.Date(2025, time.June, 15, 23, 59, 0, 0, time.UTC), 2},
		{"first promo day", time.Date(2025, time.April, 21, 0, 0, 0, 0, time.UTC), 2},
		{"last promo day evening", time.Date(2025, time.April, 28, 22, 0, 0, 0, time.UTC), 2},
		{"day after promo", time.Date(2025, time.April, 29, 9, 0, 0, 0, time.UTC), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, XPMultiplier(tt.at, promo))
		})
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, time.June, 11, 10, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name   string
		last   *time.Time
		streak int
		want   int
	}{
		{"first activity", nil, 0, 1},
		{"same day keeps streak", at(-2 * time.Hour), 4, 4},
		{"same day repairs zero", at(-time.Hour), 0, 1},
		{"yesterday extends", at(-24 * time.Hour), 4, 5},
		{"late yesterday extends", at(-11 * time.Hour), 2, 3},
		{"gap resets", at(-72 * time.Hour), 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.last, now, tt.streak))
		})
	}
}

func TestApplyXP(t *testing.T) {
	tests := []struct {
		name      string
		level     int
		xp        int
		gained    int
		wantLevel int
		wantXP    int
		reached   []int
	}{
		{"below threshold", 1, 20, 50, 1, 70, nil},
		{"single level up", 1, 20, 90, 2, 10, []int{2}},
		{"exact threshold", 1, 0, 100, 2, 0, []int{2}},
		{"several levels", 1, 0, 350, 3, 50, []int{2, 3}},
		{"negative floors at zero", 2, 10, -50, 2, 0, nil},
		{"level zero treated as one", 0, 0, 10, 1, 10, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, xp, reached := ApplyXP(tt.level, tt.xp, tt.gained)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantXP, xp)
			assert.Equal(t, tt.reached, reached)
		})
	}
}
