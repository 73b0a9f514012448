package components

import (
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/ui/layout"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

// TimerBar displays the time left in a round as a draining bar.
type TimerBar struct {
	Remaining time.Duration
	Total     time.Duration
	Width     int

	// Low switches the bar to the warning color once the remaining
	// share drops below it.
	Low float64
}

// NewTimerBar creates a timer bar that turns red in the last fifth.
func NewTimerBar(remaining, total time.Duration, width int) TimerBar {
	return TimerBar{
		Remaining: remaining,
		Total:     total,
		Width:     width,
		Low:       0.2,
	}
}

// Fraction is the remaining share of the total, clamped to [0, 1].
func (p TimerBar) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Remaining) / float64(p.Total)
	return min(max(f, 0), 1)
}

// View renders the bar followed by the m:ss clock.
func (p TimerBar) View() string {
	clock := "  " + layout.FormatClock(p.Remaining)
	barWidth := p.Width - lipgloss.Width(clock)
	if barWidth < 4 {
		barWidth = 4
	}

	frac := p.Fraction()
	filled := int(float64(barWidth) * frac)
	empty := barWidth - filled

	fill := theme.ProgressFilled
	if frac < p.Low {
		fill = theme.ProgressLow
	}

	return fill.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(clock)
}
