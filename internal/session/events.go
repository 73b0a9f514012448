package session

import (
	"time"

	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/submit"
)

// Observer receives session events and the events of every round, in
// order. Round events arrive with the round locked, so Observe must not
// block or call back into the session.
type Observer interface {
	Observe(ev any)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev any)

func (f ObserverFunc) Observe(ev any) { f(ev) }

// RoundStarted is emitted just before a round shows its first question.
type RoundStarted struct {
	Number   int
	Total    int
	Name     string
	Duration time.Duration
}

// RoundSubmitted is emitted once a round's outcome is known.
type RoundSubmitted struct {
	Number   int
	Snapshot stats.Snapshot
	Outcome  submit.Outcome
}

// BreatherStarted is emitted when the inter-round countdown begins.
type BreatherStarted struct {
	NextRound int
	Duration  time.Duration
}

// BreatherTick carries the remaining breather time.
type BreatherTick struct {
	NextRound int
	Remaining time.Duration
}

// Linked is emitted after the final request, whether or not it
// succeeded. Skipped is set when it was never sent.
type Linked struct {
	Outcome submit.Outcome
	Skipped bool
}

// Finished is emitted at the end of a run with the final state.
type Finished struct {
	State State
}

// Restarted is emitted when the session is reset.
type Restarted struct{}
