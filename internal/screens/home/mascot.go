package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: last session was a best
	MascotAlert                            // Orange, exclamation: rounds waiting to sync
)

const mascotIdle = `╭─────╮
│ ◉ ◉ │
│  ▽  │
│ +÷? │
╰─────╯`

const mascotCelebrating = `╭─────╮
│ ★ ★ │
│  ▿  │
│ +÷? │
╰─╥═╥─╯
  ╚═╝`

const mascotAlert = `╭─────╮
│ ◉ ◉ │ !
│  ▽  │
│ +÷? │
╰─────╯`

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
