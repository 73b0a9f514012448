package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/ui/theme"
)

// Grid renders a memory board with column letters and row numbers.
// Lit cells are highlighted only when Reveal is set.
func Grid(size int, lit []problemgen.Cell, reveal bool) string {
	on := make(map[problemgen.Cell]bool, len(lit))
	for _, c := range lit {
		on[c] = true
	}

	var b strings.Builder
	b.WriteString("   ")
	for col := 0; col < size; col++ {
		b.WriteString(fmt.Sprintf(" %c ", 'A'+rune(col)))
	}
	b.WriteString("\n")

	label := lipgloss.NewStyle().Foreground(theme.TextDim)
	for row := 0; row < size; row++ {
		b.WriteString(label.Render(fmt.Sprintf("%2d ", row+1)))
		for col := 0; col < size; col++ {
			if reveal && on[problemgen.Cell{Row: row, Col: col}] {
				b.WriteString(theme.CellLit.Render(" ■ "))
			} else {
				b.WriteString(theme.CellDark.Render(" · "))
			}
		}
		if row < size-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
