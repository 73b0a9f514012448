package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/store"
)

type fakeSource struct {
	sessions []store.SessionRecord
	rounds   map[string][]store.RoundRecord
	best     []store.BestScore
	cats     []store.CategoryAverage
	catOpts  store.QueryOpts
	err      error
	queried  []string
}

func (f *fakeSource) RecentSessions(_ context.Context, _ store.QueryOpts) ([]store.SessionRecord, error) {
	return f.sessions, f.err
}

func (f *fakeSource) RecentRounds(_ context.Context, opts store.QueryOpts) ([]store.RoundRecord, error) {
	f.queried = append(f.queried, opts.Session)
	return f.rounds[opts.Session], nil
}

func (f *fakeSource) BestScores(context.Context) ([]store.BestScore, error) {
	return f.best, nil
}

func (f *fakeSource) RecentCategoryAverages(_ context.Context, opts store.QueryOpts) ([]store.CategoryAverage, error) {
	f.catOpts = opts
	return f.cats, nil
}

func testSource() *fakeSource {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &fakeSource{
		sessions: []store.SessionRecord{
			{ID: "s2", Game: "gauntlet", Combined: 120, Authoritative: true, Questions: 20, Correct: 15, CreatedAt: at},
			{ID: "s1", Game: "sprint", Combined: 40, Questions: 10, Correct: 8, CreatedAt: at.Add(-time.Hour)},
		},
		rounds: map[string][]store.RoundRecord{
			"s2": {
				{SessionID: "s2", Round: 2, Name: "Mixed", Score: 70, Authoritative: true},
				{SessionID: "s2", Round: 1, Name: "Basic", Score: 50},
			},
		},
		best: []store.BestScore{{Game: "gauntlet", Best: 120, Sessions: 1}},
	}
}

func load(t *testing.T, s *HistoryScreen) {
	t.Helper()
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	s.Update(cmd())
}

func TestHistoryScreen_Loads(t *testing.T) {
	s := New(testSource())
	if !strings.Contains(s.View(100, 30), "Loading") {
		t.Error("expected loading view before data arrives")
	}
	load(t, s)

	view := s.View(120, 30)
	for _, want := range []string{"gauntlet ★ 120", "sprint", "80% accuracy", "local"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := New(&fakeSource{})
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No games yet") {
		t.Error("expected empty state")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := New(&fakeSource{err: errors.New("disk gone")})
	load(t, s)
	if !strings.Contains(s.View(100, 30), "disk gone") {
		t.Error("expected error message")
	}
}

func TestHistoryScreen_ExpandLoadsRounds(t *testing.T) {
	src := testSource()
	s := New(src)
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected rounds to load on first expand")
	}
	if !strings.Contains(s.View(120, 30), "Loading rounds") {
		t.Error("expected rounds loading note")
	}
	s.Update(cmd())

	view := s.View(120, 30)
	basic := strings.Index(view, "1. Basic")
	mixed := strings.Index(view, "2. Mixed")
	if basic < 0 || mixed < 0 || basic > mixed {
		t.Errorf("expected rounds in play order, view:\n%s", view)
	}
	if !strings.Contains(view, "saved locally") {
		t.Error("expected local marker on unsynced round")
	}

	// Collapse and expand again without another query.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("rounds should be cached")
	}
	if len(src.queried) != 1 || src.queried[0] != "s2" {
		t.Errorf("queried = %v", src.queried)
	}
}

func TestHistoryScreen_Navigation(t *testing.T) {
	s := New(testSource())
	load(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.selected != 1 {
		t.Errorf("selected = %d, want clamp at 1", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 0 {
		t.Errorf("selected = %d, want 0", s.selected)
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected pop on Esc")
	}
}

func TestHistoryScreen_CategoryAverages(t *testing.T) {
	src := testSource()
	src.cats = []store.CategoryAverage{
		{Category: "addition", Count: 9, AvgTimeMs: 1400},
		{Category: "division", Count: 2, AvgTimeMs: 3600},
	}
	s := New(src)
	load(t, s)

	if src.catOpts.Limit != store.DefaultInsightRounds {
		t.Errorf("category window = %d rounds, want %d", src.catOpts.Limit, store.DefaultInsightRounds)
	}
	view := s.View(120, 30)
	if !strings.Contains(view, "addition 1.4s  division 3.6s") {
		t.Errorf("view missing category averages:\n%s", view)
	}
}
