package achievements

import (
	"time"

	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/store"
)

// Thresholds.
const (
	reactionFastMs    = 300
	reactionFasterMs  = 250
	reactionAccuracy  = 0.99
	mathQPM           = 50
	tiltMisses        = 5
	comebackFactor    = 1.2
	memoryPointsGoal  = 1000
	mathQuestionsGoal = 100
)

// History is the play history achievements are judged against.
type History struct {
	Totals []store.GameTotal

	// Days are the distinct UTC play days, newest first.
	Days []time.Time

	// Kinds maps game names to their kind (see games.Definition.Kind).
	// Games missing from it are ignored by the per-kind rules.
	Kinds map[string]string
}

// Latest is the session that was just saved.
type Latest struct {
	Session store.SessionRecord
	Rounds  []store.RoundRecord

	// Previous is the game's session before this one, if any.
	Previous *store.SessionRecord
}

// Evaluate returns every achievement the history qualifies for. latest
// may be nil, in which case only the totals are judged.
func Evaluate(h History, latest *Latest) []Code {
	var out []Code
	award := func(ok bool, c Code) {
		if ok {
			out = append(out, c)
		}
	}

	var rounds, mathQs int
	var memoryPoints float64
	played := map[string]bool{}
	for _, t := range h.Totals {
		rounds += t.Rounds
		kind, ok := h.Kinds[t.Game]
		if !ok {
			continue
		}
		if t.Sessions > 0 {
			played[kind] = true
		}
		switch kind {
		case games.ScoringArithmetic:
			mathQs += t.Questions
		case games.ScoringMemory:
			memoryPoints += t.Points
		}
	}

	award(rounds >= 10, Play10)
	award(rounds >= 50, Play50)
	award(rounds >= 100, Play100)
	award(mathQs >= mathQuestionsGoal, Math100)
	award(mathQs >= 10*mathQuestionsGoal, Math1000)
	award(memoryPoints >= memoryPointsGoal, Memory1K)
	award(playedAll(h.Kinds, played), PlayedAll)

	streak := DayStreak(h.Days)
	award(streak >= 3, Streak3)
	award(streak >= 7, Streak7)

	if latest != nil {
		out = append(out, evaluateLatest(h.Kinds[latest.Session.Game], latest)...)
	}
	return out
}

func playedAll(kinds map[string]string, played map[string]bool) bool {
	if len(kinds) == 0 {
		return false
	}
	for _, k := range kinds {
		if !played[k] {
			return false
		}
	}
	return true
}

func evaluateLatest(kind string, l *Latest) []Code {
	seen := map[Code]bool{}
	var out []Code
	award := func(ok bool, c Code) {
		if ok && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, r := range l.Rounds {
		answered := r.Correct + r.Wrong
		switch kind {
		case games.ScoringReaction:
			award(r.AvgTimeMs > 0 && r.AvgTimeMs < reactionFastMs, ReactionSub300)
			award(r.AvgTimeMs > 0 && r.AvgTimeMs < reactionFasterMs, ReactionSub250)
			award(answered > 0 && float64(r.Correct)/float64(answered) >= reactionAccuracy, ReactionPerfect)
		case games.ScoringArithmetic:
			award(r.Wrong == 0 && r.Correct > 0, MathPerfect)
			award(r.AvgTimeMs > 0 && 60000/r.AvgTimeMs >= mathQPM, Math50QPM)
			award(r.Wrong >= tiltMisses, TiltProof)
		}
	}

	if kind == games.ScoringArithmetic && l.Previous != nil {
		prev := l.Previous.Combined
		award(prev > 0 && l.Session.Combined > prev*comebackFactor, Comeback)
	}

	hour := l.Session.CreatedAt.UTC().Hour()
	award(hour >= 1 && hour < 4, NightOwl)
	award(hour < 6, EarlyBird)
	return out
}
