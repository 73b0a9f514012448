package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
)

// buildFunc produces one candidate question for a tier and ceiling.
type buildFunc func(rnd *rand.Rand, tier, ceiling int) Question

var builders = map[Category]buildFunc{
	CategoryAdd:            buildAdd,
	CategorySub:            buildSub,
	CategoryMul:            buildMul,
	CategoryDiv:            buildDiv,
	CategoryDecimalDiv:     buildDecimalDiv,
	CategoryMissingOperand: buildMissingOperand,
	CategoryPercentOf:      buildPercentOf,
}

func buildAdd(rnd *rand.Rand, tier, ceiling int) Question {
	r := OperandRange(tier, ceiling)
	a, b := r.draw(rnd), r.draw(rnd)
	return binary(CategoryAdd, a, "+", b, a+b)
}

// buildSub draws the second operand from [2, first] so the result is never
// negative.
func buildSub(rnd *rand.Rand, tier, ceiling int) Question {
	r := OperandRange(tier, ceiling)
	a := max(r.draw(rnd), 2)
	b := between(rnd, 2, a)
	return binary(CategorySub, a, "-", b, a-b)
}

func buildMul(rnd *rand.Rand, tier, ceiling int) Question {
	r := FactorRange(tier, ceiling)
	a, b := r.draw(rnd), r.draw(rnd)
	return binary(CategoryMul, a, "×", b, a*b)
}

// buildDiv builds the dividend from a multiplication pair so the quotient
// is always exact.
func buildDiv(rnd *rand.Rand, tier, ceiling int) Question {
	r := FactorRange(tier, ceiling)
	divisor, quotient := r.draw(rnd), r.draw(rnd)
	return binary(CategoryDiv, divisor*quotient, "÷", divisor, quotient)
}

func binary(cat Category, a int, op string, b int, answer int) Question {
	return Question{
		Expression: fmt.Sprintf("%d %s %d", a, op, b),
		Answer:     float64(answer),
		Kind:       KindInteger,
		Category:   cat,
		Operands:   []float64{float64(a), float64(b)},
	}
}

// formatNumber renders a value with the fewest digits that round-trip.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
