package achievements

import "time"

// streakGoals are the day streaks that award an achievement.
var streakGoals = []int{3, 7}

// NextStreakGoal returns the next streak milestone above current, or 0
// once every milestone is reached.
func NextStreakGoal(current int) int {
	for _, g := range streakGoals {
		if g > current {
			return g
		}
	}
	return 0
}

// DayStreak counts consecutive calendar days ending at the newest of days.
// days must be distinct and sorted newest first.
func DayStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			break
		}
		streak++
	}
	return streak
}
