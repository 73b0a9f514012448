package problemgen

import "fmt"

// Question represents a generated question ready for display.
type Question struct {
	// Expression is the prompt displayed to the player.
	// e.g. "7 + 5", "? × 6 = 42", "25% of 80" or "Recall 4 cells".
	Expression string

	// Answer is the numeric answer. For pattern questions it holds the
	// number of target cells.
	Answer float64

	// Kind describes how the answer is represented and judged.
	Kind Kind

	// Category is the generator that produced this question.
	Category Category

	// Operands are the numbers the expression was built from, in display
	// order. Empty for pattern questions.
	Operands []float64

	// Pattern is the set of target cells for memory questions.
	Pattern []Cell

	// GridSize is the side length of the grid the pattern lives on.
	GridSize int

	// Target is the key to press for reaction questions.
	Target string
}

// Kind describes the answer representation of a question.
type Kind string

const (
	KindInteger Kind = "integer" // exact match
	KindDecimal Kind = "decimal" // absolute tolerance
	KindPattern Kind = "pattern" // exact cell set match
	KindKey     Kind = "key"     // single key, case-insensitive
)

// Category tags which generator produced a question.
type Category string

const (
	CategoryAdd            Category = "addition"
	CategorySub            Category = "subtraction"
	CategoryMul            Category = "multiplication"
	CategoryDiv            Category = "division"
	CategoryDecimalDiv     Category = "decimal_division"
	CategoryMissingOperand Category = "missing_operand"
	CategoryPercentOf      Category = "percent_of"
	CategoryPattern        Category = "pattern"
	CategoryReaction       Category = "reaction"

	// CategoryMixed is a pool entry only. Drawing it triggers a second
	// weighted draw over the mixed categories; no question carries it.
	CategoryMixed Category = "mixed"
)

// Cell is a zero-based grid coordinate.
type Cell struct {
	Row int
	Col int
}

// String renders the cell as a board coordinate like "B3".
func (c Cell) String() string {
	return fmt.Sprintf("%c%d", 'A'+rune(c.Col), c.Row+1)
}

// Tier returns the difficulty tier for a correct-answer count.
func Tier(correct int) int {
	if correct < 0 {
		return 0
	}
	return correct / 10
}
