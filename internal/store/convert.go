package store

import (
	"github.com/abhisek/brainrush/internal/session"
)

// FromSummary converts a finished session into history records.
func FromSummary(st session.State, sum session.Summary) (SessionRecord, []RoundRecord) {
	sess := SessionRecord{
		ID:              st.ID,
		Game:            st.Game,
		Combined:        sum.Combined,
		Authoritative:   sum.Authoritative,
		Flagged:         sum.Flagged,
		ServerSessionID: st.SessionID,
		Rounds:          len(sum.Rounds),
		Questions:       sum.Questions,
		Correct:         sum.Correct,
	}
	rounds := make([]RoundRecord, 0, len(sum.Rounds))
	for _, r := range sum.Rounds {
		var cats []CategoryTime
		for _, name := range r.Categories {
			b := r.Breakdown[name]
			cats = append(cats, CategoryTime{Category: name, Count: b.Count, AvgTimeMs: b.AvgTimeMs})
		}
		rounds = append(rounds, RoundRecord{
			SessionID:     st.ID,
			Game:          st.Game,
			Round:         r.Number,
			Name:          r.Name,
			Score:         r.Score,
			LocalScore:    r.LocalScore,
			Authoritative: r.Authoritative,
			Flagged:       r.Flagged,
			ScoreID:       st.ScoreIDs[r.Number],
			Correct:       r.Correct,
			Wrong:         r.Wrong,
			TimedOut:      r.TimedOut,
			AvgTimeMs:     r.AvgTimeMs,
			MinTimeMs:     r.FastestMs,
			Duration:      r.Duration,
			Categories:    cats,
		})
	}
	return sess, rounds
}
