package summary

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/router"
	"github.com/abhisek/brainrush/internal/screen"
	"github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/ui/layout"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

// SummaryScreen displays the result of a finished session.
type SummaryScreen struct {
	summary session.Summary
	title   string
	restart bool
	notice  string
	saved   string
	earned  []string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// Option configures a SummaryScreen.
type Option func(*SummaryScreen)

// WithRestart enables "play again". The screen below must handle
// screen.RestartMsg.
func WithRestart() Option {
	return func(s *SummaryScreen) { s.restart = true }
}

// WithNotice shows a one-line note under the combined score.
func WithNotice(n string) Option {
	return func(s *SummaryScreen) { s.notice = n }
}

// WithTitle sets the game title shown in the header.
func WithTitle(t string) Option {
	return func(s *SummaryScreen) { s.title = t }
}

// New creates a new SummaryScreen.
func New(sum session.Summary, opts ...Option) *SummaryScreen {
	s := &SummaryScreen{summary: sum}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.title != "" {
		return s.title + " Results"
	}
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Home"}}
	if s.restart {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Play again"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.HistorySavedMsg:
		if msg.Err != nil {
			s.saved = "History not saved: " + msg.Err.Error()
		} else {
			s.saved = "Saved to history"
		}
		s.earned = msg.Earned
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			// Skip the finished play screen on the way back.
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "r", "R":
			if s.restart {
				return s, tea.Sequence(
					func() tea.Msg { return router.PopScreenMsg{} },
					func() tea.Msg { return screen.RestartMsg{} },
				)
			}
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(line(width, theme.Title, "Game over!"))
	b.WriteString("\n\n")

	// Combined score.
	combined := "Combined score: " + formatScore(sum.Combined)
	style := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	switch {
	case sum.Flagged:
		combined += "  (flagged)"
		style = theme.Flagged
	case !sum.Authoritative:
		combined += "  (unofficial)"
		style = theme.Unofficial
	}
	b.WriteString(line(width, style, combined))
	b.WriteString("\n")
	if s.notice != "" {
		b.WriteString(line(width, theme.Hint, s.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Stats line.
	statsLine := fmt.Sprintf("Questions: %d        Correct: %d        Accuracy: %.0f%%",
		sum.Questions, sum.Correct, sum.Accuracy*100)
	b.WriteString(line(width, theme.Body, statsLine))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(min(width-8, 60), 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Rounds")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, r := range sum.Rounds {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, roundLine(r)))
		b.WriteString("\n")
		if cats := categoryLine(r); cats != "" {
			b.WriteString(line(width, theme.Hint, cats))
			b.WriteString("\n")
		}
	}

	if len(s.earned) > 0 {
		b.WriteString("\n")
		b.WriteString(line(width, lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true),
			"🏆 Unlocked: "+strings.Join(s.earned, ", ")))
		b.WriteString("\n")
	}

	if s.saved != "" {
		b.WriteString("\n")
		b.WriteString(line(width, theme.Hint, s.saved))
	}
	return b.String()
}

// roundLine renders one round as "name  score  correct/failed  avg".
func roundLine(r session.RoundSummary) string {
	name := r.Name
	if name == "" {
		name = fmt.Sprintf("Round %d", r.Number)
	}

	score := formatScore(r.Score)
	style := theme.Body
	var marker string
	switch {
	case r.Flagged:
		marker = " flagged"
		style = theme.Flagged
	case !r.Authoritative:
		marker = " unofficial"
		style = theme.Unofficial
	}

	avg := "-"
	if r.AvgTimeMs > 0 {
		avg = fmt.Sprintf("%.1fs avg", r.AvgTimeMs/1000)
	}

	return fmt.Sprintf("  %-12s %s  %s  %s",
		name,
		style.Render(fmt.Sprintf("%6s%s", score, marker)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d ✓ %d ✗", r.Correct, r.Wrong)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(avg),
	)
}

// categoryLine renders the round's per-category average times.
func categoryLine(r session.RoundSummary) string {
	parts := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		bd, ok := r.Breakdown[c]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.1fs", c, bd.AvgTimeMs/1000))
	}
	return strings.Join(parts, " · ")
}

func line(width int, style lipgloss.Style, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
