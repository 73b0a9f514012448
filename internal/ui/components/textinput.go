package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/ui/theme"
)

// InputMode restricts which printable keys an AnswerInput accepts.
type InputMode int

const (
	// InputNumeric accepts digits, a sign, a decimal point and '%'.
	InputNumeric InputMode = iota
	// InputCells accepts board coordinates like "A1 B3".
	InputCells
	// InputKeys accepts a single letter or digit.
	InputKeys
)

// AnswerInput wraps bubbles/textinput with brainrush styling and a
// verdict marker shown after each submission.
type AnswerInput struct {
	Model    textinput.Model
	Mode     InputMode
	MaxWidth int

	marked bool
	ok     bool
}

// NewAnswerInput creates a focused answer input.
func NewAnswerInput(placeholder string, mode InputMode, maxWidth int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.Focus()

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return AnswerInput{
		Model:    ti,
		Mode:     mode,
		MaxWidth: maxWidth,
	}
}

// Init returns the initial command.
func (t AnswerInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Printable keys the mode does not allow are
// dropped before they reach the model.
func (t AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		key := kmsg.String()
		if len([]rune(key)) == 1 && !t.allows([]rune(key)[0]) {
			return t, nil
		}
		if key == "space" && !t.allows(' ') {
			return t, nil
		}
		if key != "enter" {
			t.marked = false
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t AnswerInput) allows(r rune) bool {
	switch t.Mode {
	case InputKeys:
		return (r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	case InputCells:
		return r == ' ' || r == ',' ||
			(r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	default:
		return (r >= '0' && r <= '9') || strings.ContainsRune("-.%", r)
	}
}

// View renders the text input.
func (t AnswerInput) View() string {
	view := t.Model.View()
	if t.marked {
		if t.ok {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the current input value.
func (t AnswerInput) Value() string {
	return t.Model.Value()
}

// Mark shows a verdict after a submission.
func (t *AnswerInput) Mark(ok bool) {
	t.marked = true
	t.ok = ok
}

// Clear empties the input and hides the verdict.
func (t *AnswerInput) Clear() {
	t.Model.SetValue("")
	t.marked = false
}
