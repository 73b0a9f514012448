package achievements

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/store"
)

// streakWindow bounds how many play days are read to compute a streak.
const streakWindow = 60

// Repo is the slice of the store achievements need.
type Repo interface {
	GameTotals(ctx context.Context) ([]store.GameTotal, error)
	PlayDays(ctx context.Context, limit int) ([]time.Time, error)
	RecentSessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionRecord, error)
	EarnedAchievements(ctx context.Context) ([]store.EarnedAchievement, error)
	AwardAchievements(ctx context.Context, sessionID string, codes []string) error
}

// Progress is a snapshot for the home screen.
type Progress struct {
	Earned   int
	Total    int
	Streak   int // consecutive play days ending at the last one
	NextGoal int // next streak milestone, 0 when all are reached
}

// Service awards achievements after each saved session.
type Service struct {
	repo  Repo
	kinds map[string]string
	clock clockwork.Clock
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to stamp awards.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// NewService creates a Service over repo. defs is the game catalog; it
// decides which kind each game name belongs to.
func NewService(repo Repo, defs []games.Definition, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		kinds: make(map[string]string, len(defs)),
		clock: clockwork.NewRealClock(),
	}
	for _, d := range defs {
		s.kinds[d.Name] = d.Kind()
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Check evaluates history after sess was saved and records the
// achievements it newly unlocked, in catalog order.
func (s *Service) Check(ctx context.Context, sess store.SessionRecord, rounds []store.RoundRecord) ([]Award, error) {
	h, err := s.history(ctx)
	if err != nil {
		return nil, err
	}
	latest := &Latest{Session: sess, Rounds: rounds}
	prev, err := s.repo.RecentSessions(ctx, store.QueryOpts{Game: sess.Game, Limit: 2})
	if err != nil {
		return nil, fmt.Errorf("loading previous session: %w", err)
	}
	for i := range prev {
		if prev[i].ID != sess.ID {
			latest.Previous = &prev[i]
			break
		}
	}

	earned, err := s.earnedSet(ctx)
	if err != nil {
		return nil, err
	}
	qualified := map[Code]bool{}
	for _, c := range Evaluate(h, latest) {
		qualified[c] = true
	}

	now := s.clock.Now()
	var awards []Award
	var codes []string
	for _, a := range catalog {
		if !qualified[a.Code] || earned[a.Code] {
			continue
		}
		awards = append(awards, Award{Achievement: a, SessionID: sess.ID, EarnedAt: now})
		codes = append(codes, string(a.Code))
	}
	if err := s.repo.AwardAchievements(ctx, sess.ID, codes); err != nil {
		return nil, fmt.Errorf("recording achievements: %w", err)
	}
	return awards, nil
}

// Earned returns the unlocked achievements, newest first. Codes no
// longer in the catalog are skipped.
func (s *Service) Earned(ctx context.Context) ([]Award, error) {
	rows, err := s.repo.EarnedAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	out := make([]Award, 0, len(rows))
	for _, r := range rows {
		a, ok := Lookup(Code(r.Code))
		if !ok {
			continue
		}
		out = append(out, Award{Achievement: a, SessionID: r.SessionID, EarnedAt: r.EarnedAt})
	}
	return out, nil
}

// Progress reports earned counts and the current play-day streak.
func (s *Service) Progress(ctx context.Context) (Progress, error) {
	earned, err := s.Earned(ctx)
	if err != nil {
		return Progress{}, err
	}
	days, err := s.repo.PlayDays(ctx, streakWindow)
	if err != nil {
		return Progress{}, fmt.Errorf("loading play days: %w", err)
	}
	streak := DayStreak(days)
	return Progress{
		Earned:   len(earned),
		Total:    len(catalog),
		Streak:   streak,
		NextGoal: NextStreakGoal(streak),
	}, nil
}

func (s *Service) history(ctx context.Context) (History, error) {
	totals, err := s.repo.GameTotals(ctx)
	if err != nil {
		return History{}, fmt.Errorf("loading game totals: %w", err)
	}
	days, err := s.repo.PlayDays(ctx, streakWindow)
	if err != nil {
		return History{}, fmt.Errorf("loading play days: %w", err)
	}
	return History{Totals: totals, Days: days, Kinds: s.kinds}, nil
}

func (s *Service) earnedSet(ctx context.Context) (map[Code]bool, error) {
	rows, err := s.repo.EarnedAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	set := make(map[Code]bool, len(rows))
	for _, r := range rows {
		set[Code(r.Code)] = true
	}
	return set, nil
}
