// Package session sequences the rounds of one game, submits each frozen
// round and links the results once every round is done.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/submit"
	"github.com/abhisek/brainrush/internal/timer"
)

// Session owns the state of one game session. Run drives it; Answer,
// EndRound, Restart and State may be called from any goroutine.
type Session struct {
	cfg       Config
	submitter submit.Submitter
	clock     clockwork.Clock
	observer  Observer
	logger    zerolog.Logger
	newID     func() string

	mu      sync.Mutex
	gen     uint64 // bumped by Run and Restart; stale runs stop writing
	state   State
	current *round.Round
	running bool
	cancel  context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used by rounds and the breather.
func WithClock(c clockwork.Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithObserver sets the event observer.
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithIDGenerator overrides how session IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// New validates cfg and returns an idle session. A nil submitter scores
// every round locally.
func New(cfg Config, sub submit.Submitter, opts ...Option) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if sub == nil {
		sub = submit.Offline{}
	}
	if cfg.BreatherTick <= 0 {
		cfg.BreatherTick = time.Second
	}
	s := &Session{
		cfg:       cfg,
		submitter: sub,
		clock:     clockwork.NewRealClock(),
		observer:  ObserverFunc(func(any) {}),
		logger:    zerolog.Nop(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = newState("", cfg.Game)
	return s, nil
}

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Run plays every round in order and returns the final state. It returns
// early with the context's error if ctx is cancelled or the session is
// restarted.
func (s *Session) Run(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return State{}, ErrRunning
	}
	s.gen++
	gen := s.gen
	s.state = newState(s.newID(), s.cfg.Game)
	s.running = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	id := s.state.ID
	s.mu.Unlock()

	defer func() {
		cancel()
		s.update(gen, func() {
			s.running = false
			s.cancel = nil
			s.current = nil
		})
	}()

	log := s.logger.With().Str("session", id).Str("game", s.cfg.Game).Logger()
	log.Info().Int("rounds", len(s.cfg.Rounds)).Msg("session started")

	for i, spec := range s.cfg.Rounds {
		n := i + 1
		if i > 0 && s.cfg.Breather > 0 {
			if err := s.breathe(ctx, gen, n); err != nil {
				return s.State(), err
			}
		}

		snap, err := s.playRound(ctx, gen, n, spec)
		if err != nil {
			return s.State(), err
		}

		// The snapshot is frozen; only now may it leave the round.
		outcome := s.submitRound(ctx, log, n, spec, snap)
		ok := s.update(gen, func() {
			s.state.Outcomes[n] = outcome
			if outcome.ScoreID != "" {
				s.state.ScoreIDs[n] = outcome.ScoreID
			}
		})
		if !ok {
			return s.State(), context.Canceled
		}
		s.observer.Observe(RoundSubmitted{Number: n, Snapshot: snap, Outcome: outcome})
	}

	s.link(ctx, log, gen)
	if !s.update(gen, func() { s.state.Phase = PhaseFinished }) {
		return s.State(), context.Canceled
	}
	st := s.State()
	log.Info().Float64("combined", st.Combined).Bool("authoritative", st.CombinedAuthoritative).Msg("session finished")
	s.observer.Observe(Finished{State: st})
	return st, nil
}

func (s *Session) playRound(ctx context.Context, gen uint64, n int, spec RoundSpec) (stats.Snapshot, error) {
	opts := spec.Options
	opts.Number = n
	r, err := round.New(spec.Generator, s.clock, opts,
		round.WithListener(func(ev round.Event) { s.observer.Observe(ev) }),
		round.WithLogger(s.logger),
	)
	if err != nil {
		return stats.Snapshot{}, fmt.Errorf("round %d: %w", n, err)
	}

	ok := s.update(gen, func() {
		s.current = r
		s.state.Round = n
		s.state.Phase = PhaseRound
	})
	if !ok {
		return stats.Snapshot{}, context.Canceled
	}
	s.observer.Observe(RoundStarted{Number: n, Total: len(s.cfg.Rounds), Name: spec.Name, Duration: opts.Duration})
	if err := r.Start(); err != nil {
		return stats.Snapshot{}, fmt.Errorf("round %d: %w", n, err)
	}

	select {
	case <-r.Done():
	case <-ctx.Done():
		r.End(round.ReasonRequested)
		s.update(gen, func() {
			s.current = nil
			s.state.Phase = PhaseIdle
		})
		return stats.Snapshot{}, ctx.Err()
	}

	snap, _ := r.Snapshot()
	s.update(gen, func() {
		s.current = nil
		s.state.Snapshots[n] = snap
		s.state.Phase = PhaseSubmit
	})
	return snap, nil
}

func (s *Session) submitRound(ctx context.Context, log zerolog.Logger, n int, spec RoundSpec, snap stats.Snapshot) submit.Outcome {
	scoring := spec.Scoring
	if scoring == nil {
		scoring = ArithmeticScoring
	}
	local := scoring(snap)
	if spec.Endpoint == "" {
		return submit.Local(local, nil)
	}

	build := spec.Payload
	if build == nil {
		build = roundPayload
	}
	st := s.State()
	res, err := s.submitter.Submit(ctx, spec.Endpoint, build(st.ID, s.cfg.Game, n, snap))
	outcome := submit.Reconcile(res, err, spec.Fields, local)

	ev := log.Info()
	if outcome.Err != nil {
		ev = log.Warn().Err(outcome.Err)
	}
	ev.Int("round", n).
		Float64("score", outcome.Score).
		Bool("authoritative", outcome.Authoritative).
		Bool("flagged", outcome.Flagged).
		Msg("round submitted")
	return outcome
}

// breathe runs the countdown before round next. The countdown carries its
// own safety deadline, so a stalled tick cannot hold the next round back.
func (s *Session) breathe(ctx context.Context, gen uint64, next int) error {
	if !s.update(gen, func() { s.state.Phase = PhaseBreather }) {
		return context.Canceled
	}

	done := make(chan struct{})
	cd := timer.NewCountdown(s.clock, timer.WithInterval(s.cfg.BreatherTick))
	cd.Start(s.cfg.Breather,
		func(rem time.Duration) { s.observer.Observe(BreatherTick{NextRound: next, Remaining: rem}) },
		func() { close(done) },
	)
	s.observer.Observe(BreatherStarted{NextRound: next, Duration: s.cfg.Breather})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cd.Cancel()
		return ctx.Err()
	}
}

// link computes the combined score and sends the final request. Its
// failure never fails the session.
func (s *Session) link(ctx context.Context, log zerolog.Logger, gen uint64) {
	st := s.State()
	var scores []float64
	for _, n := range st.Rounds() {
		scores = append(scores, st.Outcomes[n].Score)
	}
	combined := stats.CombinedScore(scores...)
	if !s.update(gen, func() {
		s.state.Combined = combined
		s.state.CombinedAuthoritative = st.AllAuthoritative()
		s.state.Phase = PhaseSubmit
	}) {
		return
	}

	spec := s.cfg.Link
	switch spec.Kind {
	case LinkScoreIDs:
		ids := make(map[int]string, len(s.cfg.Rounds))
		for n := 1; n <= len(s.cfg.Rounds); n++ {
			id, ok := st.ScoreIDs[n]
			if !ok {
				log.Info().Int("round", n).Msg("no score id, skipping session link")
				if s.live(gen) {
					s.observer.Observe(Linked{Outcome: submit.Local(combined, nil), Skipped: true})
				}
				return
			}
			ids[n] = id
		}
		res, err := s.submitter.Submit(ctx, spec.Endpoint, submit.LinkPayload(st.ID, ids, combined))
		o := submit.Reconcile(res, err, spec.Fields, combined)
		if err != nil {
			log.Warn().Err(err).Msg("session link failed")
		}
		if s.update(gen, func() { s.state.SessionID = o.ScoreID }) {
			s.observer.Observe(Linked{Outcome: o})
		}

	case LinkQuestionLog:
		payload := submit.NewMemoryPayload(st.ID, s.cfg.Game, st.Snapshots)
		res, err := s.submitter.Submit(ctx, spec.Endpoint, payload)
		o := submit.Reconcile(res, err, spec.Fields, combined)
		if o.Err != nil {
			log.Warn().Err(o.Err).Msg("question log submission failed, keeping local scores")
		}
		fresh := s.update(gen, func() {
			if !o.Authoritative {
				return
			}
			s.state.Combined = o.Score
			s.state.CombinedAuthoritative = true
			if spec.RoundScore == "" {
				return
			}
			for n, out := range s.state.Outcomes {
				if v, ok := res.Number(fmt.Sprintf(spec.RoundScore, n)); ok {
					out.Score = v
					out.Authoritative = true
					out.Flagged = o.Flagged
					s.state.Outcomes[n] = out
				}
			}
		})
		if fresh {
			s.observer.Observe(Linked{Outcome: o})
		}
	}
}

// Answer forwards input to the active round. Without one the input is
// ignored.
func (s *Session) Answer(input string) round.Verdict {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()

	if r == nil {
		return round.Verdict{Judgement: problemgen.Ignored, Inactive: true}
	}
	return r.Answer(input)
}

// EndRound ends the active round early. It reports whether a round was
// ended.
func (s *Session) EndRound() bool {
	s.mu.Lock()
	r := s.current
	s.mu.Unlock()

	if r == nil {
		return false
	}
	return r.End(round.ReasonRequested)
}

// Restart abandons the current run and resets all state. It is refused
// while a round is active.
func (s *Session) Restart() error {
	s.mu.Lock()
	if s.state.Phase == PhaseRound {
		s.mu.Unlock()
		return ErrRoundActive
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.running = false
	s.cancel = nil
	s.current = nil
	s.state = newState("", s.cfg.Game)
	s.mu.Unlock()

	s.observer.Observe(Restarted{})
	return nil
}

// Stop cancels the current run, ending any active round.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// State returns a copy of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// update runs fn under the lock if gen is still the current run.
func (s *Session) live(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

func (s *Session) update(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false
	}
	fn()
	return true
}
