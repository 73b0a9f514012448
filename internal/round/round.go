// Package round drives a single timed round: it shows questions, judges
// input, records outcomes and ends on the round deadline, a question
// budget or an explicit request.
package round

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/timer"
)

// State is the round's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateShowing
	StateAccepting
	StateJudging
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowing:
		return "showing_question"
	case StateAccepting:
		return "accepting_input"
	case StateJudging:
		return "judging"
	case StateEnded:
		return "round_ended"
	default:
		return "unknown"
	}
}

// EndReason records why a round ended.
type EndReason string

const (
	ReasonDeadline  EndReason = "deadline"  // round clock ran out
	ReasonQuestions EndReason = "questions" // question budget used up
	ReasonRequested EndReason = "requested" // player or session asked
)

var (
	// ErrNoGenerator is returned by New without a question generator.
	ErrNoGenerator = errors.New("round: no question generator")

	// ErrAlreadyStarted is returned by Start on a round that left idle.
	ErrAlreadyStarted = errors.New("round: already started")
)

// Options parameterize one round.
type Options struct {
	// Number is the round's 1-based position in its session.
	Number int

	// Duration is the wall-clock budget. Zero leaves the round untimed.
	Duration time.Duration

	// QuestionLimit is the per-question deadline. Zero disables it.
	QuestionLimit time.Duration

	// MaxQuestions ends the round after this many verdicts. Zero means
	// unlimited.
	MaxQuestions int

	// MaxAttempts ends a question as missed after this many wrong
	// answers. Zero allows unlimited retries.
	MaxAttempts int

	// TickInterval and Grace tune the round countdown.
	TickInterval time.Duration
	Grace        time.Duration
}

// Verdict is the result of one Answer call.
type Verdict struct {
	Judgement problemgen.Judgement
	Attempts  int
	Record    *stats.QuestionRecord
	Ended     bool // the round ended as a result of this answer
	Inactive  bool // the round was not accepting input
}

// Round is one bounded gameplay segment. All methods are safe for
// concurrent use; every transition runs under the round's lock.
type Round struct {
	gen      problemgen.Generator
	clock    clockwork.Clock
	opts     Options
	listener Listener
	logger   zerolog.Logger

	countdown *timer.Countdown
	qtimer    *timer.OneShot

	mu        sync.Mutex
	state     State
	stats     *stats.RoundStats
	current   *problemgen.Question
	qStart    time.Time
	attempts  int
	seq       uint64
	startedAt time.Time
	reason    EndReason
	snapshot  stats.Snapshot
	done      chan struct{}
}

// Option configures a Round.
type Option func(*Round)

// WithListener registers the event listener.
func WithListener(l Listener) Option {
	return func(r *Round) { r.listener = l }
}

// WithLogger sets the round logger.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Round) { r.logger = l }
}

// New returns an idle round.
func New(gen problemgen.Generator, clock clockwork.Clock, opts Options, o ...Option) (*Round, error) {
	if gen == nil {
		return nil, ErrNoGenerator
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	r := &Round{
		gen:    gen,
		clock:  clock,
		opts:   opts,
		logger: zerolog.Nop(),
		stats:  stats.NewRoundStats(),
		done:   make(chan struct{}),
	}
	for _, fn := range o {
		fn(r)
	}

	var copts []timer.CountdownOption
	if opts.TickInterval > 0 {
		copts = append(copts, timer.WithInterval(opts.TickInterval))
	}
	if opts.Grace > 0 {
		copts = append(copts, timer.WithGrace(opts.Grace))
	}
	r.countdown = timer.NewCountdown(clock, copts...)
	r.qtimer = timer.NewOneShot(clock)
	return r, nil
}

// Start arms the round timer and shows the first question.
func (r *Round) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return ErrAlreadyStarted
	}
	r.stats.Reset()
	r.startedAt = r.clock.Now()
	if r.opts.Duration > 0 {
		r.countdown.Start(r.opts.Duration, r.onTick, r.onDeadline)
	}
	r.logger.Debug().Int("round", r.opts.Number).Dur("duration", r.opts.Duration).Msg("round started")
	r.showNextLocked()
	return nil
}

// Answer judges the player's input against the current question. Empty
// or unparseable input is ignored without any state change, as is any
// input while the round is not accepting answers.
func (r *Round) Answer(input string) Verdict {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateAccepting {
		return Verdict{Judgement: problemgen.Ignored, Inactive: true}
	}
	if r.current == nil {
		panic("round: judging with no current question")
	}
	q := *r.current

	j := problemgen.CheckAnswer(input, q)
	if j == problemgen.Ignored {
		return Verdict{Judgement: j, Attempts: r.attempts}
	}

	r.state = StateJudging
	elapsed := max(r.clock.Since(r.qStart), 0)

	switch j {
	case problemgen.Correct:
		r.qtimer.Cancel()
		rec := r.stats.RecordCorrect(q, elapsed, r.attempts)
		v := Verdict{Judgement: j, Attempts: r.attempts, Record: &rec}
		r.emit(AnswerJudged{Round: r.opts.Number, Judgement: j, Attempts: r.attempts, Record: &rec})
		v.Ended = r.advanceLocked()
		return v

	default:
		r.stats.RecordWrong()
		r.attempts++
		if r.opts.MaxAttempts > 0 && r.attempts >= r.opts.MaxAttempts {
			r.qtimer.Cancel()
			rec := r.stats.RecordMiss(q, elapsed, r.attempts)
			v := Verdict{Judgement: j, Attempts: r.attempts, Record: &rec}
			r.emit(AnswerJudged{Round: r.opts.Number, Judgement: j, Attempts: r.attempts, Record: &rec})
			v.Ended = r.advanceLocked()
			return v
		}
		// Retry: the same question stays current under its original
		// deadline.
		r.state = StateAccepting
		r.emit(AnswerJudged{Round: r.opts.Number, Judgement: j, Attempts: r.attempts})
		return Verdict{Judgement: j, Attempts: r.attempts}
	}
}

// End stops the round, freezes its stats and releases Done. It returns
// false if the round had already ended.
func (r *Round) End(reason EndReason) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.endLocked(reason)
}

// Done is closed once the round has ended and its snapshot is frozen.
func (r *Round) Done() <-chan struct{} {
	return r.done
}

// Snapshot returns the frozen stats and true once the round has ended.
func (r *Round) Snapshot() (stats.Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateEnded {
		return stats.Snapshot{}, false
	}
	return r.snapshot, true
}

// State returns the current lifecycle state.
func (r *Round) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reason returns why the round ended, or "" while it runs.
func (r *Round) Reason() EndReason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// Current returns the current question, if any.
func (r *Round) Current() (problemgen.Question, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return problemgen.Question{}, false
	}
	return *r.current, true
}

// Number returns the round's position in its session.
func (r *Round) Number() int { return r.opts.Number }

func (r *Round) showNextLocked() {
	r.state = StateShowing
	tier := problemgen.Tier(r.stats.Correct())
	q := r.gen.Generate(tier)
	r.current = &q
	r.qStart = r.clock.Now()
	r.attempts = 0
	r.seq++

	if r.opts.QuestionLimit > 0 {
		seq := r.seq
		r.qtimer.Start(r.opts.QuestionLimit, func() { r.onQuestionTimeout(seq) })
	}
	r.emit(QuestionShown{
		Round:    r.opts.Number,
		Index:    r.stats.Len() + 1,
		Question: q,
		Tier:     tier,
		Limit:    r.opts.QuestionLimit,
	})
	r.state = StateAccepting
}

// advanceLocked shows the next question or ends the round when the
// question budget is used up. Reports whether the round ended.
func (r *Round) advanceLocked() bool {
	if r.opts.MaxQuestions > 0 && r.stats.Len() >= r.opts.MaxQuestions {
		return r.endLocked(ReasonQuestions)
	}
	r.showNextLocked()
	return false
}

func (r *Round) endLocked(reason EndReason) bool {
	if r.state == StateEnded {
		return false
	}
	r.countdown.Cancel()
	r.qtimer.Cancel()

	var run time.Duration
	if !r.startedAt.IsZero() {
		run = max(r.clock.Since(r.startedAt), 0)
	}
	r.state = StateEnded
	r.reason = reason
	r.current = nil
	r.snapshot = r.stats.Freeze(run, reason == ReasonDeadline)

	r.logger.Debug().
		Int("round", r.opts.Number).
		Str("reason", string(reason)).
		Int("correct", r.snapshot.Correct).
		Int("wrong", r.snapshot.Wrong).
		Msg("round ended")
	r.emit(Ended{Round: r.opts.Number, Reason: reason, Snapshot: r.snapshot})
	close(r.done)
	return true
}

func (r *Round) onTick(remaining time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateEnded {
		return
	}
	r.emit(Ticked{Round: r.opts.Number, Remaining: remaining})
}

func (r *Round) onDeadline() {
	r.End(ReasonDeadline)
}

func (r *Round) onQuestionTimeout(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Stale if the question was answered or the round ended meanwhile.
	if r.state != StateAccepting || seq != r.seq || r.current == nil {
		return
	}
	r.state = StateJudging
	q := *r.current
	rec := r.stats.RecordTimeout(q, r.clock.Since(r.qStart), r.opts.QuestionLimit, r.attempts)
	r.emit(QuestionTimedOut{Round: r.opts.Number, Record: rec})
	r.advanceLocked()
}

func (r *Round) emit(ev Event) {
	if r.listener != nil {
		r.listener(ev)
	}
}
