// Package stats accumulates per-question outcomes for one round and
// derives the summaries reported to the player and the server.
package stats

import (
	"maps"
	"slices"
	"time"

	"github.com/abhisek/brainrush/internal/problemgen"
)

// QuestionRecord is one judged question. Records are append-only.
type QuestionRecord struct {
	Index         int                 `json:"index"`
	Category      problemgen.Category `json:"category"`
	Expression    string              `json:"expression"`
	Operands      []float64           `json:"operands,omitempty"`
	TimeMs        int64               `json:"time_ms"`
	WrongAttempts int                 `json:"wrong_attempts"`
	TimedOut      bool                `json:"timed_out"`

	// Missed is set when the question ended on a wrong answer because
	// the round allows no further attempts.
	Missed bool `json:"missed,omitempty"`

	// Targets are the pattern cells for memory questions.
	Targets []problemgen.Cell `json:"-"`
}

// Correct reports whether the question was eventually answered correctly.
func (r QuestionRecord) Correct() bool {
	return !r.TimedOut && !r.Missed
}

// CategoryAggregate sums correct answer times for one category.
type CategoryAggregate struct {
	Count   int
	TotalMs int64
}

// RoundStats is the mutable accumulator owned by a running round.
// It is not safe for concurrent use; the round serializes access.
type RoundStats struct {
	correct       int
	wrong         int
	timedOut      int
	wrongAttempts int
	totalMs       int64
	minMs         int64
	hasMin        bool
	records       []QuestionRecord
	categories    map[problemgen.Category]*CategoryAggregate
	frozen        bool
}

// NewRoundStats returns an empty accumulator.
func NewRoundStats() *RoundStats {
	return &RoundStats{categories: make(map[problemgen.Category]*CategoryAggregate)}
}

// Reset clears the accumulator for a new round.
func (s *RoundStats) Reset() {
	*s = RoundStats{categories: make(map[problemgen.Category]*CategoryAggregate)}
}

func (s *RoundStats) mutate() {
	if s.frozen {
		panic("stats: mutation of frozen round stats")
	}
}

// RecordCorrect appends a record for a correctly answered question.
// Negative elapsed times are floored at zero.
func (s *RoundStats) RecordCorrect(q problemgen.Question, elapsed time.Duration, wrongAttempts int) QuestionRecord {
	s.mutate()
	ms := max(elapsed.Milliseconds(), 0)

	s.correct++
	s.totalMs += ms
	if !s.hasMin || ms < s.minMs {
		s.minMs, s.hasMin = ms, true
	}
	agg := s.categories[q.Category]
	if agg == nil {
		agg = &CategoryAggregate{}
		s.categories[q.Category] = agg
	}
	agg.Count++
	agg.TotalMs += ms

	return s.appendRecord(q, ms, wrongAttempts, false, false)
}

// RecordWrong counts a wrong submission. The question stays current, so
// no record is appended.
func (s *RoundStats) RecordWrong() {
	s.mutate()
	s.wrongAttempts++
}

// RecordTimeout appends a record for a question whose deadline expired.
// The recorded time is clamped to limit.
func (s *RoundStats) RecordTimeout(q problemgen.Question, elapsed, limit time.Duration, wrongAttempts int) QuestionRecord {
	s.mutate()
	ms := max(elapsed.Milliseconds(), 0)
	if limit > 0 {
		ms = min(ms, limit.Milliseconds())
	}
	s.wrong++
	s.timedOut++
	return s.appendRecord(q, ms, wrongAttempts, true, false)
}

// RecordMiss appends a record for a question that ended on a wrong answer
// because no attempts remain.
func (s *RoundStats) RecordMiss(q problemgen.Question, elapsed time.Duration, wrongAttempts int) QuestionRecord {
	s.mutate()
	s.wrong++
	return s.appendRecord(q, max(elapsed.Milliseconds(), 0), wrongAttempts, false, true)
}

func (s *RoundStats) appendRecord(q problemgen.Question, ms int64, wrongAttempts int, timedOut, missed bool) QuestionRecord {
	rec := QuestionRecord{
		Index:         len(s.records) + 1,
		Category:      q.Category,
		Expression:    q.Expression,
		Operands:      slices.Clone(q.Operands),
		TimeMs:        ms,
		WrongAttempts: wrongAttempts,
		TimedOut:      timedOut,
		Missed:        missed,
		Targets:       slices.Clone(q.Pattern),
	}
	s.records = append(s.records, rec)
	return rec
}

// Correct returns the running correct count.
func (s *RoundStats) Correct() int { return s.correct }

// Wrong returns the running count of failed questions.
func (s *RoundStats) Wrong() int { return s.wrong }

// WrongAttempts returns the running count of wrong submissions.
func (s *RoundStats) WrongAttempts() int { return s.wrongAttempts }

// Len returns the number of records so far.
func (s *RoundStats) Len() int { return len(s.records) }

// Freeze marks the accumulator read-only and returns its snapshot.
// Freezing twice returns an equal snapshot.
func (s *RoundStats) Freeze(runDuration time.Duration, endedByTimeout bool) Snapshot {
	s.frozen = true

	snap := Snapshot{
		Correct:        s.correct,
		Wrong:          s.wrong,
		TimedOut:       s.timedOut,
		WrongAttempts:  s.wrongAttempts,
		TotalMs:        s.totalMs,
		Records:        slices.Clone(s.records),
		Categories:     make(map[problemgen.Category]CategoryAggregate, len(s.categories)),
		RunDuration:    runDuration,
		EndedByTimeout: endedByTimeout,
	}
	if s.hasMin {
		m := s.minMs
		snap.MinMs = &m
	}
	for k, v := range s.categories {
		snap.Categories[k] = *v
	}
	return snap
}

// Frozen reports whether Freeze has been called.
func (s *RoundStats) Frozen() bool { return s.frozen }

// Snapshot is the immutable view of a finished round.
type Snapshot struct {
	Correct        int
	Wrong          int
	TimedOut       int
	WrongAttempts  int
	TotalMs        int64
	MinMs          *int64
	Records        []QuestionRecord
	Categories     map[problemgen.Category]CategoryAggregate
	RunDuration    time.Duration
	EndedByTimeout bool
}

// Questions returns the number of questions that reached a verdict.
func (s Snapshot) Questions() int {
	return len(s.Records)
}

// SortedCategories returns the categories with at least one correct
// answer, in name order.
func (s Snapshot) SortedCategories() []problemgen.Category {
	return slices.Sorted(maps.Keys(s.Categories))
}
