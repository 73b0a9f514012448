package problemgen

import "testing"

func TestPattern_GrowsWithTier(t *testing.T) {
	p := NewPattern(NewRand(1))
	prevCells, prevGrid := 0, 0
	for tier := 0; tier <= 40; tier++ {
		q := p.Generate(tier)
		if q.Kind != KindPattern || q.Category != CategoryPattern {
			t.Fatalf("tier %d: kind/category = %s/%s", tier, q.Kind, q.Category)
		}
		if len(q.Pattern) < prevCells || q.GridSize < prevGrid {
			t.Fatalf("tier %d: pattern shrank (%d cells on %d grid)", tier, len(q.Pattern), q.GridSize)
		}
		if len(q.Pattern) >= q.GridSize*q.GridSize {
			t.Fatalf("tier %d: pattern fills the whole grid", tier)
		}
		if q.Answer != float64(len(q.Pattern)) {
			t.Fatalf("tier %d: answer %v, want %d", tier, q.Answer, len(q.Pattern))
		}
		seen := map[Cell]bool{}
		for _, c := range q.Pattern {
			if seen[c] {
				t.Fatalf("tier %d: duplicate cell %s", tier, c)
			}
			seen[c] = true
		}
		prevCells, prevGrid = len(q.Pattern), q.GridSize
	}
	if got := len(p.Generate(0).Pattern); got != 3 {
		t.Errorf("tier 0 pattern has %d cells, want 3", got)
	}
}

func TestCheckAnswer_Pattern(t *testing.T) {
	q := Question{
		Kind:     KindPattern,
		GridSize: 4,
		Pattern:  []Cell{{0, 0}, {2, 1}, {3, 3}},
		Answer:   3,
	}

	tests := []struct {
		input string
		want  Judgement
	}{
		{"A1 B3 D4", Correct},
		{"d4, a1, b3", Correct},
		{"a1 b3 d4 a1", Correct},
		{"A1 B3", Wrong},
		{"A1 B3 C4", Wrong},
		{"A1 B3 D4 C1", Wrong},
		{"", Ignored},
		{"A1 Z9 D4", Ignored},
		{"hello", Ignored},
		{"A0", Ignored},
	}
	for _, tc := range tests {
		if got := CheckAnswer(tc.input, q); got != tc.want {
			t.Errorf("CheckAnswer(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestCell_String(t *testing.T) {
	if got := (Cell{Row: 2, Col: 1}).String(); got != "B3" {
		t.Errorf("String() = %q, want B3", got)
	}
}
