package summary

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/router"
	"github.com/abhisek/brainrush/internal/screen"
	"github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/stats"
)

func testSummary() session.Summary {
	return session.Summary{
		Game:          "gauntlet",
		Combined:      75,
		Authoritative: false,
		Questions:     14,
		Correct:       11,
		Accuracy:      float64(11) / float64(14),
		Rounds: []session.RoundSummary{
			{Number: 1, Name: "Basic", Score: 40, Authoritative: true, Correct: 6, Wrong: 1, AvgTimeMs: 2100},
			{Number: 2, Name: "Mixed", Score: 35, LocalScore: 35, Correct: 5, Wrong: 2},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), WithTitle("Gauntlet"))
	if s.Title() != "Gauntlet Results" {
		t.Errorf("Title = %q, want %q", s.Title(), "Gauntlet Results")
	}
	if New(testSummary()).Title() != "Results" {
		t.Error("expected default title")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), WithNotice("Session not linked"))
	view := s.View(100, 30)

	for _, want := range []string{"Combined score: 75", "(unofficial)", "Session not linked", "Basic", "Mixed", "2.1s avg"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_FlaggedWinsOverUnofficial(t *testing.T) {
	sum := testSummary()
	sum.Flagged = true
	view := New(sum).View(100, 30)
	if !strings.Contains(view, "(flagged)") {
		t.Error("expected flagged marker")
	}
	if strings.Contains(view, "(unofficial)") {
		t.Error("flagged combined score should not also be marked unofficial")
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("expected PopToRootMsg on Enter")
	}
}

func TestSummaryScreen_Navigation_Esc(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Error("expected a command on Esc")
	}
}

func TestSummaryScreen_Restart(t *testing.T) {
	s := New(testSummary())
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"}); cmd != nil {
		t.Error("restart should be disabled without WithRestart")
	}

	s = New(testSummary(), WithRestart())
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	if cmd == nil {
		t.Fatal("expected a restart command")
	}
}

func TestSummaryScreen_HistorySaved(t *testing.T) {
	s := New(testSummary())
	s.Update(screen.HistorySavedMsg{})
	if !strings.Contains(s.View(100, 30), "Saved to history") {
		t.Error("expected saved note")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if got := len(New(testSummary()).KeyHints()); got != 2 {
		t.Errorf("KeyHints length = %d, want 2", got)
	}
	if got := len(New(testSummary(), WithRestart()).KeyHints()); got != 3 {
		t.Errorf("KeyHints length with restart = %d, want 3", got)
	}
}

func TestSummaryScreen_CategoryLine(t *testing.T) {
	sum := testSummary()
	sum.Rounds[0].Breakdown = map[string]stats.CategoryBreakdown{
		"addition":    {Count: 4, AvgTimeMs: 1500},
		"subtraction": {Count: 2, AvgTimeMs: 3300},
	}
	sum.Rounds[0].Categories = []string{"addition", "subtraction"}

	view := New(sum).View(100, 30)
	if !strings.Contains(view, "addition 1.5s · subtraction 3.3s") {
		t.Errorf("view missing category line:\n%s", view)
	}
}

func TestSummaryScreen_ShowsUnlockedAchievements(t *testing.T) {
	s := New(testSummary())
	s.Update(screen.HistorySavedMsg{Earned: []string{"Flawless Maths", "Night Owl"}})

	view := s.View(100, 30)
	if !strings.Contains(view, "Unlocked: Flawless Maths, Night Owl") {
		t.Errorf("view missing unlocked achievements:\n%s", view)
	}
	if !strings.Contains(view, "Saved to history") {
		t.Error("expected saved note")
	}
}
