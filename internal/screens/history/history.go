package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/router"
	"github.com/abhisek/brainrush/internal/screen"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/ui/layout"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

// Source is the slice of the history store this screen reads.
type Source interface {
	RecentSessions(ctx context.Context, opts store.QueryOpts) ([]store.SessionRecord, error)
	RecentRounds(ctx context.Context, opts store.QueryOpts) ([]store.RoundRecord, error)
	BestScores(ctx context.Context) ([]store.BestScore, error)
	RecentCategoryAverages(ctx context.Context, opts store.QueryOpts) ([]store.CategoryAverage, error)
}

type historyLoadedMsg struct {
	Sessions   []store.SessionRecord
	Best       []store.BestScore
	Categories []store.CategoryAverage
	Err        error
}

type roundsLoadedMsg struct {
	Session string
	Rounds  []store.RoundRecord
	Err     error
}

// HistoryScreen displays past sessions and each game's best score.
type HistoryScreen struct {
	source   Source
	sessions []store.SessionRecord
	best     []store.BestScore
	cats     []store.CategoryAverage
	rounds   map[string][]store.RoundRecord // session ID → rounds
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{
		source:   source,
		rounds:   make(map[string][]store.RoundRecord),
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source := s.source
	return func() tea.Msg {
		ctx := context.Background()

		sessions, err := source.RecentSessions(ctx, store.QueryOpts{Limit: 50})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		msg := historyLoadedMsg{Sessions: sessions}
		// The headline rows are optional; a failure leaves them out.
		if best, err := source.BestScores(ctx); err == nil {
			msg.Best = best
		}
		if cats, err := source.RecentCategoryAverages(ctx, store.QueryOpts{Limit: store.DefaultInsightRounds}); err == nil {
			msg.Categories = cats
		}
		return msg
	}
}

func (s *HistoryScreen) loadRounds(id string) tea.Cmd {
	source := s.source
	return func() tea.Msg {
		rounds, err := source.RecentRounds(context.Background(), store.QueryOpts{Session: id})
		return roundsLoadedMsg{Session: id, Rounds: rounds, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Rounds"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
			s.best = msg.Best
			s.cats = msg.Categories
		}
		s.loaded = true
		return s, nil

	case roundsLoadedMsg:
		if msg.Err == nil {
			s.rounds[msg.Session] = msg.Rounds
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) {
				return s, nil
			}
			s.expanded[s.selected] = !s.expanded[s.selected]
			id := s.sessions[s.selected].ID
			if _, ok := s.rounds[id]; s.expanded[s.selected] && !ok {
				return s, s.loadRounds(id)
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No games yet. Go play one!")
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.best) > 0 {
		var parts []string
		for _, bs := range s.best {
			parts = append(parts, fmt.Sprintf("%s ★ %s", bs.Game, formatScore(bs.Best)))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true).Render(strings.Join(parts, "    "))))
		b.WriteString("\n\n")
	}

	if len(s.cats) > 0 {
		parts := make([]string, 0, len(s.cats))
		for _, c := range s.cats {
			parts = append(parts, fmt.Sprintf("%s %.1fs", c.Category, c.AvgTimeMs/1000))
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render("avg per category: "+strings.Join(parts, "  "))))
		b.WriteString("\n\n")
	}

	for i, sess := range s.sessions {
		dateStr := sess.CreatedAt.Format("Jan 02 15:04")

		var accuracy float64
		if sess.Questions > 0 {
			accuracy = float64(sess.Correct) / float64(sess.Questions) * 100
		}

		marker := ""
		switch {
		case sess.Flagged:
			marker = "  flagged"
		case !sess.Authoritative:
			marker = "  local"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-10s %6s  %d questions  %.0f%% accuracy%s",
			prefix, dateStr, sess.Game, formatScore(sess.Combined), sess.Questions, accuracy, marker)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderRounds(sess.ID, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) renderRounds(id string, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	rounds, ok := s.rounds[id]
	if !ok {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    Loading rounds...")) + "\n"
	}
	if len(rounds) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No rounds recorded")) + "\n"
	}

	var b strings.Builder
	// Newest first from the store; show in play order.
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		note := ""
		switch {
		case r.Flagged:
			style = theme.Flagged
			note = " flagged"
		case !r.Authoritative:
			style = theme.Unofficial
			note = " saved locally"
		}
		line := fmt.Sprintf("    %d. %-10s %6s  %d ✓ %d ✗%s",
			r.Round, r.Name, formatScore(r.Score), r.Correct, r.Wrong, note)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
