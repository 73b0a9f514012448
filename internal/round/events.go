package round

import (
	"time"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/stats"
)

// Listener receives round events in order. It is called with the round
// locked and must not call back into the round.
type Listener func(ev Event)

// Event is one of QuestionShown, AnswerJudged, QuestionTimedOut, Ticked
// or Ended.
type Event interface {
	round() int
}

// QuestionShown is emitted when a new question becomes current.
type QuestionShown struct {
	Round    int
	Index    int // 1-based position of the question in the round
	Question problemgen.Question
	Tier     int
	Limit    time.Duration // per-question limit, 0 when untimed
}

// AnswerJudged is emitted for every correct or wrong submission.
type AnswerJudged struct {
	Round     int
	Judgement problemgen.Judgement
	Attempts  int                   // wrong attempts on the current question so far
	Record    *stats.QuestionRecord // set when the question reached a verdict
}

// QuestionTimedOut is emitted when the per-question deadline expires.
type QuestionTimedOut struct {
	Round  int
	Record stats.QuestionRecord
}

// Ticked carries the round's remaining time.
type Ticked struct {
	Round     int
	Remaining time.Duration
}

// Ended is emitted once, after the round's stats are frozen.
type Ended struct {
	Round    int
	Reason   EndReason
	Snapshot stats.Snapshot
}

func (e QuestionShown) round() int    { return e.Round }
func (e AnswerJudged) round() int     { return e.Round }
func (e QuestionTimedOut) round() int { return e.Round }
func (e Ticked) round() int           { return e.Round }
func (e Ended) round() int            { return e.Round }

// RoundOf returns the round number an event belongs to.
func RoundOf(ev Event) int { return ev.round() }
