package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/ui/theme"
)

// buttonWidth is the fixed width of a menu button.
const buttonWidth = 24

// ContentWidth returns the inner width shared by every section inside the
// cabinet frame: the frame minus its border and padding, clamped to 20..60.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// CabinetFrame wraps content in a double border and centers it in the
// given area.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func hotkey(item MenuItem) string {
	if item.Key == "" {
		return ""
	}
	return "[" + item.Key + "] "
}

// MenuButton renders a menu item as a rounded button. The selected item is
// highlighted; a disabled one is dimmed and never highlighted.
func MenuButton(item MenuItem, selected bool, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	label := hotkey(item) + item.Label
	switch {
	case item.Disabled:
		return style.Foreground(theme.TextDim).Render(item.Label)
	case selected:
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	}
	return style.Foreground(theme.Text).Render(label)
}

// MenuLine renders a menu item as a single borderless line for small
// terminals.
func MenuLine(item MenuItem, selected bool) string {
	label := hotkey(item) + item.Label
	switch {
	case item.Disabled:
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + item.Label)
	case selected:
		return lipgloss.NewStyle().
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			Bold(true).
			Render(" ▸ " + label + " ")
	}
	return lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
}
