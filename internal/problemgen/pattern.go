package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"unicode"
)

// Pattern generates memory-grid questions. The grid widens every third
// tier and the pattern grows by one cell per tier.
type Pattern struct {
	rnd     *rand.Rand
	minGrid int
	maxGrid int
}

// NewPattern returns a pattern generator drawing from rnd.
func NewPattern(rnd *rand.Rand) *Pattern {
	return &Pattern{rnd: rnd, minGrid: 4, maxGrid: 6}
}

// GridSize returns the grid side length for a tier.
func (p *Pattern) GridSize(tier int) int {
	if tier < 0 {
		tier = 0
	}
	return min(p.minGrid+tier/3, p.maxGrid)
}

// Generate draws a fresh pattern of 3+tier distinct cells.
func (p *Pattern) Generate(tier int) Question {
	size := p.GridSize(tier)
	n := min(3+max(tier, 0), size*size-1)

	perm := p.rnd.Perm(size * size)[:n]
	cells := make([]Cell, n)
	for i, idx := range perm {
		cells[i] = Cell{Row: idx / size, Col: idx % size}
	}
	return Question{
		Expression: fmt.Sprintf("Recall %d cells", n),
		Answer:     float64(n),
		Kind:       KindPattern,
		Category:   CategoryPattern,
		Pattern:    cells,
		GridSize:   size,
	}
}

// ParseCells parses coordinates like "a1 B3,c2" against a grid of the given
// size.
func ParseCells(input string, size int) ([]Cell, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("no cells in %q", input)
	}

	seen := make(map[Cell]bool, len(fields))
	var cells []Cell
	for _, f := range fields {
		f = strings.ToUpper(f)
		if len(f) < 2 || f[0] < 'A' || f[0] > 'Z' {
			return nil, fmt.Errorf("bad cell %q", f)
		}
		row, err := strconv.Atoi(f[1:])
		if err != nil {
			return nil, fmt.Errorf("bad cell %q: %w", f, err)
		}
		c := Cell{Row: row - 1, Col: int(f[0] - 'A')}
		if c.Row < 0 || c.Row >= size || c.Col >= size {
			return nil, fmt.Errorf("cell %q outside %dx%d grid", f, size, size)
		}
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	return cells, nil
}

func checkPattern(input string, q Question) Judgement {
	cells, err := ParseCells(input, q.GridSize)
	if err != nil {
		return Ignored
	}
	if len(cells) != len(q.Pattern) {
		return Wrong
	}
	want := make(map[Cell]bool, len(q.Pattern))
	for _, c := range q.Pattern {
		want[c] = true
	}
	for _, c := range cells {
		if !want[c] {
			return Wrong
		}
	}
	return Correct
}
