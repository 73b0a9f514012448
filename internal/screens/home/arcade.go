package home

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/achievements"
	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

// Block-letter title.
const arcadeTitleFull = `█▄▄ █▀█ ▄▀█ █ █▄ █ █▀█ █ █ █▀ █ █
█▄█ █▀▄ █▀█ █ █ ▀█ █▀▄ █▄█ ▄█ █▀█`

const arcadeTitleCompact = "B · R · A · I · N · R · U · S · H"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	if compact || lipgloss.Width(arcadeTitleFull) > cw {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(style.Render(arcadeTitleCompact))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(arcadeTitleFull))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(best store.BestScore, played, unsynced int, progress *achievements.Progress, cw int, compact bool) string {
	bestStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	playedStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	localStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	bestScore := strconv.FormatFloat(best.Best, 'f', -1, 64)
	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			bestStyle.Render("★"+bestScore),
			playedStyle.Render(fmt.Sprintf("▶%d", played)),
			localText(unsynced, true, localStyle, dimStyle),
		)
		if progress != nil {
			stats += " " + bestStyle.Render(fmt.Sprintf("🏆%d/%d", progress.Earned, progress.Total))
		}
	} else {
		bestText := "★ NO BEST YET"
		if best.Game != "" {
			bestText = fmt.Sprintf("★ BEST %s %s", bestScore, strings.ToUpper(best.Game))
		}
		stats = fmt.Sprintf("%s  %s  %s",
			bestStyle.Render(bestText),
			playedStyle.Render(fmt.Sprintf("▶ %d PLAYED", played)),
			localText(unsynced, false, localStyle, dimStyle),
		)
		if progress != nil {
			stats += "\n" + achievementText(*progress, bestStyle, dimStyle)
		}
	}

	// Wrap in a double-border box at the same content width
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2). // account for border chars
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// achievementText shows earned badges and the play-day streak.
func achievementText(p achievements.Progress, active, dim lipgloss.Style) string {
	text := active.Render(fmt.Sprintf("🏆 %d/%d UNLOCKED", p.Earned, p.Total))
	switch {
	case p.Streak == 0:
	case p.NextGoal > 0:
		text += "  " + dim.Render(fmt.Sprintf("🔥 %d DAY STREAK (NEXT %d)", p.Streak, p.NextGoal))
	default:
		text += "  " + active.Render(fmt.Sprintf("🔥 %d DAY STREAK", p.Streak))
	}
	return text
}

func localText(unsynced int, compact bool, active, dim lipgloss.Style) string {
	if unsynced == 0 {
		if compact {
			return dim.Render("⇅0")
		}
		return dim.Render("⇅ ALL SYNCED")
	}
	if compact {
		return active.Render(fmt.Sprintf("⇅%d", unsynced))
	}
	return active.Render(fmt.Sprintf("⇅ %d LOCAL", unsynced))
}

// renderDescription renders a dim line describing a game.
func renderDescription(d games.Definition, cw int) string {
	text := d.Description
	if text == "" {
		text = fmt.Sprintf("%d rounds", len(d.Rounds))
	}
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
