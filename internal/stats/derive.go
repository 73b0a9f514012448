package stats

import (
	"math"

	"github.com/abhisek/brainrush/internal/problemgen"
)

// AverageTime returns the mean correct-answer time in milliseconds, or 0
// without correct answers.
func AverageTime(s Snapshot) float64 {
	if s.Correct == 0 {
		return 0
	}
	return float64(s.TotalMs) / float64(s.Correct)
}

// SpeedBonus returns floor(3000 / average), or 0 when the average is 0.
func SpeedBonus(avgMs float64) int {
	if avgMs <= 0 {
		return 0
	}
	return int(math.Floor(3000 / avgMs))
}

// LocalScore is the client-side estimate used when no server score is
// available.
func LocalScore(s Snapshot) int {
	return s.Correct*10 - s.Wrong*2 + SpeedBonus(AverageTime(s))
}

// CategoryBreakdown is the per-category summary of correct answers.
type CategoryBreakdown struct {
	Count     int     `json:"count"`
	AvgTimeMs float64 `json:"avg_time_ms"`
}

// Breakdown returns the average time per category with count > 0.
func Breakdown(s Snapshot) map[problemgen.Category]CategoryBreakdown {
	out := make(map[problemgen.Category]CategoryBreakdown, len(s.Categories))
	for cat, agg := range s.Categories {
		if agg.Count == 0 {
			continue
		}
		out[cat] = CategoryBreakdown{
			Count:     agg.Count,
			AvgTimeMs: float64(agg.TotalMs) / float64(agg.Count),
		}
	}
	return out
}

// Fastest returns the minimum correct-answer time, or nil.
func Fastest(s Snapshot) *int64 {
	if s.MinMs == nil {
		return nil
	}
	v := *s.MinMs
	return &v
}

// MemoryScore scores a memory round: +2 for a first-try correct pattern,
// +1 for a correct pattern after retries, -1 for a timed out or missed
// one. The round total is floored at 0.
func MemoryScore(s Snapshot) int {
	score := 0
	for _, r := range s.Records {
		switch {
		case !r.Correct():
			score--
		case r.WrongAttempts == 0:
			score += 2
		default:
			score++
		}
	}
	return max(score, 0)
}

// Reaction times are clamped to this range before scoring.
const (
	MinReactionMs = 80
	MaxReactionMs = 5000
)

// ReactionResult is the scored breakdown of a reaction round.
type ReactionResult struct {
	Score          float64
	Correct        int
	Incorrect      int
	AvgTimeMs      float64 // all reaction time over correct presses
	FastestMs      int64
	SlowestMs      int64
	SpeedBonus     float64
	FastestBonus   float64
	SlowestPenalty float64
	StreakPenalty  int
	Accuracy       float64 // percent
}

// Reaction scores a reaction round from its records:
//
//	correct - incorrect + speed bonus + fastest bonus - slowest penalty - streak penalty
//
// The speed bonus is (correct-incorrect)*1000/average, the fastest bonus
// 300/fastest under 300ms, the slowest penalty slowest/500 over 500ms and
// the streak penalty the longest run of misses when it exceeds one. Values
// are rounded to two decimals.
func Reaction(s Snapshot) ReactionResult {
	var (
		res     ReactionResult
		totalMs int64
		streak  int
		longest int
	)
	for i, r := range s.Records {
		ms := min(max(r.TimeMs, MinReactionMs), MaxReactionMs)
		totalMs += ms
		if i == 0 || ms < res.FastestMs {
			res.FastestMs = ms
		}
		res.SlowestMs = max(res.SlowestMs, ms)

		if r.Correct() {
			res.Correct++
			streak = 0
			continue
		}
		res.Incorrect++
		streak++
		longest = max(longest, streak)
	}

	net := float64(res.Correct - res.Incorrect)
	if res.Correct > 0 {
		res.AvgTimeMs = float64(totalMs) / float64(res.Correct)
		res.SpeedBonus = net * 1000 / res.AvgTimeMs
	}
	if res.FastestMs > 0 && res.FastestMs < 300 {
		res.FastestBonus = 300 / float64(res.FastestMs)
	}
	if res.SlowestMs > 500 {
		res.SlowestPenalty = float64(res.SlowestMs) / 500
	}
	if longest > 1 {
		res.StreakPenalty = longest
	}
	if n := len(s.Records); n > 0 {
		res.Accuracy = round2(float64(res.Correct) / float64(n) * 100)
	}

	res.Score = round2(net + res.SpeedBonus + res.FastestBonus - res.SlowestPenalty - float64(res.StreakPenalty))
	res.AvgTimeMs = round2(res.AvgTimeMs)
	res.SpeedBonus = round2(res.SpeedBonus)
	res.FastestBonus = round2(res.FastestBonus)
	res.SlowestPenalty = round2(res.SlowestPenalty)
	return res
}

// ReactionScore is Reaction(s).Score.
func ReactionScore(s Snapshot) float64 {
	return Reaction(s).Score
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CombinedScore sums per-round scores.
func CombinedScore(scores ...float64) float64 {
	var total float64
	for _, s := range scores {
		total += s
	}
	return total
}
