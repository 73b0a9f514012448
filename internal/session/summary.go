package session

import (
	"time"

	"github.com/abhisek/brainrush/internal/stats"
)

// RoundSummary holds the per-round data displayed on the summary screen.
type RoundSummary struct {
	Number        int
	Name          string
	Score         float64
	LocalScore    float64
	Authoritative bool
	Flagged       bool
	Correct       int
	Wrong         int
	TimedOut      int
	AvgTimeMs     float64
	FastestMs     *int64
	Breakdown     map[string]stats.CategoryBreakdown
	Duration      time.Duration

	// Categories lists the Breakdown keys in name order.
	Categories []string
}

// Summary holds the data displayed at the end of a session.
type Summary struct {
	Game          string
	Rounds        []RoundSummary
	Combined      float64
	Authoritative bool
	Flagged       bool
	Questions     int
	Correct       int
	Accuracy      float64
}

// BuildSummary creates a Summary from a session state. names maps round
// numbers to display names.
func BuildSummary(st State, names map[int]string) Summary {
	sum := Summary{
		Game:          st.Game,
		Combined:      st.Combined,
		Authoritative: st.CombinedAuthoritative,
		Flagged:       st.AnyFlagged(),
	}
	for _, n := range st.Rounds() {
		o := st.Outcomes[n]
		snap := st.Snapshots[n]
		rs := RoundSummary{
			Number:        n,
			Name:          names[n],
			Score:         o.Score,
			LocalScore:    o.LocalScore,
			Authoritative: o.Authoritative,
			Flagged:       o.Flagged,
			Correct:       snap.Correct,
			Wrong:         snap.Wrong,
			TimedOut:      snap.TimedOut,
			AvgTimeMs:     stats.AverageTime(snap),
			FastestMs:     stats.Fastest(snap),
			Breakdown:     map[string]stats.CategoryBreakdown{},
			Duration:      snap.RunDuration,
		}
		breakdown := stats.Breakdown(snap)
		for _, cat := range snap.SortedCategories() {
			if b, ok := breakdown[cat]; ok {
				rs.Breakdown[string(cat)] = b
				rs.Categories = append(rs.Categories, string(cat))
			}
		}
		sum.Rounds = append(sum.Rounds, rs)
		sum.Questions += snap.Questions()
		sum.Correct += snap.Correct
	}
	if sum.Questions > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Questions)
	}
	return sum
}
