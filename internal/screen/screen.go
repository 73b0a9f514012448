package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler is implemented by screens that handle Esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	CapturesEscape() bool
}

// ResumedMsg is delivered to a screen that becomes active again after
// the screens above it were popped.
type ResumedMsg struct{}

// RestartMsg asks the screen below the summary to play the same game
// again.
type RestartMsg struct{}

// UnsyncedMsg reports how many stored rounds never reached the server.
// The app shows the count in the header.
type UnsyncedMsg struct {
	Count int
}

// HistorySavedMsg reports whether a finished session was written to the
// local history.
type HistorySavedMsg struct {
	Err error

	// Earned names the achievements the session unlocked.
	Earned []string
}
