package play

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/ui/components"
	"github.com/abhisek/brainrush/internal/ui/layout"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

func (p *PlayScreen) View(width, height int) string {
	if p.confirm {
		return p.renderConfirm(width)
	}
	switch p.phase {
	case phaseError:
		return renderError(width, p.errMsg)
	case phaseLoading:
		return centered(width, theme.Hint, "\n\n\n  Get ready...")
	case phaseScoring:
		return centered(width, theme.Hint, fmt.Sprintf("\n\n\n  Scoring round %d...", p.roundNum))
	case phaseBreather:
		return p.renderBreather(width)
	case phaseDone:
		return centered(width, theme.Hint, "\n\n\n  Game over!")
	}
	return p.renderRound(width)
}

func (p *PlayScreen) renderRound(width int) string {
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Round %d/%d  %s", p.roundNum, p.roundTotal, p.roundName))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d  %s %d  %s %d",
			p.qIndex,
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"),
			p.correct,
			lipgloss.NewStyle().Foreground(theme.Error).Render("✗"),
			p.failed,
		))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	barWidth := min(width-8, 60)
	if p.roundDur > 0 {
		bar := components.NewTimerBar(p.remaining, p.roundDur, barWidth)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	} else {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	}
	b.WriteString("\n\n")

	q := p.question
	if q == nil {
		b.WriteString(centered(width, theme.Hint, "..."))
		return b.String()
	}

	if q.Kind == problemgen.KindPattern {
		grid := components.Grid(q.GridSize, q.Pattern, p.revealing)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, grid))
		b.WriteString("\n\n")
		if p.revealing {
			b.WriteString(centered(width, theme.Expression, fmt.Sprintf("Memorize %d cells", len(q.Pattern))))
			return b.String()
		}
		b.WriteString(centered(width, theme.Expression, q.Expression))
	} else if q.Kind == problemgen.KindKey {
		keycap := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ArcadeYellow).
			Foreground(theme.ArcadeYellow).
			Bold(true).
			Padding(1, 3).
			Render(q.Target)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, keycap))
	} else {
		b.WriteString(centered(width, theme.Expression, q.Expression))
	}
	b.WriteString("\n")

	if p.qLimit > 0 {
		left := p.qDeadline.Sub(p.deps.clock().Now())
		bar := components.NewTimerBar(left, p.qLimit, min(barWidth, 30))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if q.Kind != problemgen.KindKey {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+p.input.View()))
		b.WriteString("\n\n")
	}

	if p.feedback != "" {
		style := theme.Incorrect
		if p.goodNews {
			style = theme.Correct
		}
		b.WriteString(centered(width, style, p.feedback))
	}
	return b.String()
}

func (p *PlayScreen) renderBreather(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width, theme.Title, fmt.Sprintf("Round %d complete", p.nextRound-1)))
	b.WriteString("\n\n")

	for n := 1; n < p.nextRound; n++ {
		o, ok := p.outcomes[n]
		if !ok {
			continue
		}
		line := fmt.Sprintf("Round %d: %s", n, formatScore(o.Score))
		style := theme.Body
		switch {
		case o.Flagged:
			line += "  (flagged)"
			style = theme.Flagged
		case !o.Authoritative:
			line += "  (saved locally)"
			style = theme.Unofficial
		}
		b.WriteString(centered(width, style, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centered(width, theme.Subtitle,
		fmt.Sprintf("Round %d starts in %s", p.nextRound, layout.FormatClock(p.breather))))
	return b.String()
}

func (p *PlayScreen) renderConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Body.Bold(true), "Quit this game?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Hint, "Unfinished rounds are not scored."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Error), "[Y] Yes, quit"))
	b.WriteString("\n")
	if p.phase == phaseRound {
		b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Accent), "[E] End this round now"))
		b.WriteString("\n")
	}
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}

func centered(width int, style lipgloss.Style, s string) string {
	return style.Width(width).Align(lipgloss.Center).Render(s)
}

// answerText renders the expected answer of q.
func answerText(q problemgen.Question) string {
	if q.Kind == problemgen.KindKey {
		return q.Target
	}
	if q.Kind == problemgen.KindPattern {
		cells := make([]string, len(q.Pattern))
		for i, c := range q.Pattern {
			cells[i] = c.String()
		}
		return strings.Join(cells, " ")
	}
	return strconv.FormatFloat(q.Answer, 'f', -1, 64)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
