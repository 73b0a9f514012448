package achievements

import (
	"testing"
	"time"
)

func TestNextStreakGoal(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 3},
		{2, 3},
		{3, 7},
		{6, 7},
		{7, 0},
		{30, 0},
	}

	for _, tt := range tests {
		got := NextStreakGoal(tt.current)
		if got != tt.want {
			t.Errorf("NextStreakGoal(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func days(s ...string) []time.Time {
	out := make([]time.Time, len(s))
	for i, d := range s {
		out[i] = day(d)
	}
	return out
}

func TestDayStreak(t *testing.T) {
	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"none", nil, 0},
		{"single", days("2026-03-01"), 1},
		{"consecutive", days("2026-03-03", "2026-03-02", "2026-03-01"), 3},
		{"gap breaks", days("2026-03-05", "2026-03-04", "2026-03-01"), 2},
		{"gap at newest", days("2026-03-05", "2026-03-03", "2026-03-02"), 1},
		{"month boundary", days("2026-03-01", "2026-02-28", "2026-02-27"), 3},
	}

	for _, tt := range tests {
		got := DayStreak(tt.days)
		if got != tt.want {
			t.Errorf("DayStreak(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}
