package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/submit"
)

var (
	// ErrNoGenerator is returned by New when a round has no generator.
	ErrNoGenerator = errors.New("session: round has no question generator")

	// ErrNoRounds is returned by New for an empty round list.
	ErrNoRounds = errors.New("session: no rounds configured")

	// ErrRoundActive is returned by Restart while a round is running.
	ErrRoundActive = errors.New("session: a round is active")

	// ErrRunning is returned by Run while another run is in progress.
	ErrRunning = errors.New("session: already running")
)

// Scoring derives a round's local score from its frozen stats.
type Scoring func(stats.Snapshot) float64

// ArithmeticScoring is the default local estimate.
func ArithmeticScoring(s stats.Snapshot) float64 { return float64(stats.LocalScore(s)) }

// MemoryScoring scores pattern rounds.
func MemoryScoring(s stats.Snapshot) float64 { return float64(stats.MemoryScore(s)) }

// ReactionScoring scores reaction rounds.
func ReactionScoring(s stats.Snapshot) float64 { return stats.ReactionScore(s) }

// PayloadFunc builds the body posted for round n.
type PayloadFunc func(sessionID, game string, n int, snap stats.Snapshot) any

func roundPayload(sessionID, game string, n int, snap stats.Snapshot) any {
	return submit.NewRoundPayload(sessionID, game, n, snap)
}

// RoundSpec describes one round of a session.
type RoundSpec struct {
	Name string

	// Options are passed to the round. Number is filled in from the
	// spec's position.
	Options round.Options

	Generator problemgen.Generator

	// Endpoint receives the round payload. Empty means the round is
	// scored locally and never submitted on its own.
	Endpoint string

	// Fields locate the score and score ID in the response.
	Fields submit.Fields

	// Scoring computes the local score. Defaults to ArithmeticScoring.
	Scoring Scoring

	// Payload builds the body sent to Endpoint. Defaults to
	// submit.NewRoundPayload.
	Payload PayloadFunc
}

// LinkKind selects what happens after the last round.
type LinkKind int

const (
	// LinkNone ends the session after the last round.
	LinkNone LinkKind = iota

	// LinkScoreIDs posts every round's score ID with the combined score.
	// Skipped unless every round obtained an ID.
	LinkScoreIDs

	// LinkQuestionLog posts all rounds' records as one log and takes
	// the server's total as the combined score.
	LinkQuestionLog
)

// LinkSpec configures the final request.
type LinkSpec struct {
	Kind     LinkKind
	Endpoint string

	// Fields locate the combined score and session ID in the response.
	Fields submit.Fields

	// RoundScore is a fmt pattern like "round%dScore" locating per-round
	// scores in a question-log response.
	RoundScore string
}

// Config is the full description of a game session.
type Config struct {
	Game   string
	Rounds []RoundSpec

	// Breather is the countdown between rounds. Zero starts the next
	// round immediately.
	Breather time.Duration

	// BreatherTick is the breather's tick period. Defaults to one second.
	BreatherTick time.Duration

	Link LinkSpec
}

func (c Config) validate() error {
	if len(c.Rounds) == 0 {
		return ErrNoRounds
	}
	for i, r := range c.Rounds {
		if r.Generator == nil {
			return fmt.Errorf("round %d (%s): %w", i+1, r.Name, ErrNoGenerator)
		}
	}
	return nil
}
