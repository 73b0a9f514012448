package session

import (
	"maps"
	"slices"

	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/submit"
)

// Phase is where the session currently is.
type Phase int

const (
	PhaseIdle     Phase = iota // Not started or restarted
	PhaseRound                 // A round is running
	PhaseSubmit                // Waiting on a round or link submission
	PhaseBreather              // Counting down to the next round
	PhaseFinished              // All rounds done
)

// State is a copy of the session's cross-round state.
type State struct {
	ID    string
	Game  string
	Phase Phase

	// Round is the current or last round number, 0 before the first.
	Round int

	Snapshots map[int]stats.Snapshot
	Outcomes  map[int]submit.Outcome
	ScoreIDs  map[int]string

	Combined              float64
	CombinedAuthoritative bool
	SessionID             string // server-assigned by the link request
}

// Active reports whether a round is running.
func (s State) Active() bool { return s.Phase == PhaseRound }

// Rounds returns the numbers of the rounds with an outcome, in order.
func (s State) Rounds() []int {
	return slices.Sorted(maps.Keys(s.Outcomes))
}

// AllAuthoritative reports whether every finished round has a server
// score.
func (s State) AllAuthoritative() bool {
	for _, o := range s.Outcomes {
		if !o.Authoritative {
			return false
		}
	}
	return len(s.Outcomes) > 0
}

// AnyFlagged reports whether the server flagged any round.
func (s State) AnyFlagged() bool {
	for _, o := range s.Outcomes {
		if o.Flagged {
			return true
		}
	}
	return false
}

func newState(id, game string) State {
	return State{
		ID:        id,
		Game:      game,
		Snapshots: map[int]stats.Snapshot{},
		Outcomes:  map[int]submit.Outcome{},
		ScoreIDs:  map[int]string{},
	}
}

func (s State) clone() State {
	c := s
	c.Snapshots = maps.Clone(s.Snapshots)
	c.Outcomes = maps.Clone(s.Outcomes)
	c.ScoreIDs = maps.Clone(s.ScoreIDs)
	return c
}
