package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// MenuItem is one entry of a Menu. Key is an optional hotkey that selects
// and activates the item in one press.
type MenuItem struct {
	Label    string
	Key      string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu with arrow, vim-style and hotkey navigation.
// Disabled items are skipped.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu returns a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Select moves the cursor to i if that item is enabled.
func (m *Menu) Select(i int) bool {
	if i < 0 || i >= len(m.Items) || m.Items[i].Disabled {
		return false
	}
	m.Selected = i
	return true
}

func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if m.Select(i) {
			return
		}
	}
}

func (m Menu) activate() tea.Cmd {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return nil
	}
	item := m.Items[m.Selected]
	if item.Disabled || item.Action == nil {
		return nil
	}
	return item.Action()
}

// Update handles navigation keys.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		m.step(-1)
		return m, nil
	case "down", "j":
		m.step(1)
		return m, nil
	case "enter":
		return m, m.activate()
	}

	for i, item := range m.Items {
		if item.Key != "" && strings.EqualFold(item.Key, key) && m.Select(i) {
			return m, m.activate()
		}
	}
	return m, nil
}

// View renders the items as bordered buttons centered in cw, or as plain
// lines when compact.
func (m Menu) View(cw int, compact bool) string {
	var rows []string
	for i, item := range m.Items {
		if compact {
			rows = append(rows, MenuLine(item, i == m.Selected))
		} else {
			rows = append(rows, MenuButton(item, i == m.Selected, buttonWidth))
		}
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}
