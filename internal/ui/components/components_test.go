package components

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/problemgen"
)

func TestTimerBar_Fraction(t *testing.T) {
	tests := []struct {
		remaining, total time.Duration
		want             float64
	}{
		{30 * time.Second, 60 * time.Second, 0.5},
		{0, 60 * time.Second, 0},
		{-time.Second, 60 * time.Second, 0},
		{90 * time.Second, 60 * time.Second, 1},
		{5 * time.Second, 0, 0},
	}
	for _, tc := range tests {
		if got := NewTimerBar(tc.remaining, tc.total, 40).Fraction(); got != tc.want {
			t.Errorf("Fraction(%v/%v) = %v, want %v", tc.remaining, tc.total, got, tc.want)
		}
	}
}

func TestTimerBar_ShowsClock(t *testing.T) {
	out := NewTimerBar(75*time.Second, 90*time.Second, 40).View()
	if !strings.Contains(out, "1:15") {
		t.Errorf("expected clock in %q", out)
	}
}

func TestGrid_RevealsOnlyWhenAsked(t *testing.T) {
	lit := []problemgen.Cell{{Row: 0, Col: 1}, {Row: 2, Col: 2}}

	shown := Grid(3, lit, true)
	if got := strings.Count(shown, "■"); got != 2 {
		t.Errorf("revealed grid has %d lit cells, want 2", got)
	}
	if !strings.Contains(shown, " A ") || !strings.Contains(shown, " C ") {
		t.Error("expected column letters")
	}

	hidden := Grid(3, lit, false)
	if strings.Contains(hidden, "■") {
		t.Error("hidden grid should not show lit cells")
	}
	if got := strings.Count(hidden, "·"); got != 9 {
		t.Errorf("hidden grid has %d cells, want 9", got)
	}
}

func TestAnswerInput_Allows(t *testing.T) {
	num := AnswerInput{Mode: InputNumeric}
	for _, r := range "0123456789-.%" {
		if !num.allows(r) {
			t.Errorf("numeric input should allow %q", r)
		}
	}
	if num.allows('a') || num.allows(' ') {
		t.Error("numeric input should reject letters and spaces")
	}

	cells := AnswerInput{Mode: InputCells}
	for _, r := range "aZ9 ," {
		if !cells.allows(r) {
			t.Errorf("cell input should allow %q", r)
		}
	}
	if cells.allows('%') {
		t.Error("cell input should reject '%'")
	}
}

func TestAnswerInputMarkAndClear(t *testing.T) {
	in := NewAnswerInput("answer", InputNumeric, 10)
	in.Model.SetValue("12")
	in.Clear()
	in.Mark(false)
	if in.Value() != "" {
		t.Errorf("Value = %q, want empty", in.Value())
	}
	if !strings.Contains(in.View(), "✗") {
		t.Error("expected wrong marker after Mark(false)")
	}

	in, _ = in.Update(tea.KeyPressMsg{Code: '4', Text: "4"})
	if strings.Contains(in.View(), "✗") {
		t.Error("typing should hide the marker")
	}
}

func TestAnswerInputNumericDropsSpace(t *testing.T) {
	in := NewAnswerInput("answer", InputNumeric, 10)
	in, _ = in.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if in.Value() != "" {
		t.Errorf("Value = %q, want space dropped", in.Value())
	}
}
