package problemgen

import (
	"fmt"
	"math/rand/v2"
)

// Divisors that give a terminating decimal for any integer dividend.
var decimalDivisors = []int{4, 5, 8}

// Percentages offered by percent-of questions. The default validators
// reject 100.
var percentages = []int{5, 10, 15, 20, 25, 40, 50, 75, 100}

func buildDecimalDiv(rnd *rand.Rand, tier, ceiling int) Question {
	r := OperandRange(tier, ceiling)
	var dividend, divisor int
	switch rnd.IntN(2) {
	case 0:
		dividend, divisor = r.draw(rnd), pick(rnd, decimalDivisors)
	default:
		dividend, divisor = r.draw(rnd), 10
	}
	return Question{
		Expression: fmt.Sprintf("%d ÷ %d", dividend, divisor),
		Answer:     float64(dividend) / float64(divisor),
		Kind:       KindDecimal,
		Category:   CategoryDecimalDiv,
		Operands:   []float64{float64(dividend), float64(divisor)},
	}
}

// buildMissingOperand hides one operand of an integer equation behind "?".
func buildMissingOperand(rnd *rand.Rand, tier, ceiling int) Question {
	r := OperandRange(tier, ceiling)
	f := FactorRange(tier, ceiling)
	q := Question{Kind: KindInteger, Category: CategoryMissingOperand}

	switch rnd.IntN(4) {
	case 0:
		x, b := r.draw(rnd), r.draw(rnd)
		q.Expression = fmt.Sprintf("? + %d = %d", b, x+b)
		q.Answer = float64(x)
		q.Operands = []float64{float64(b), float64(x + b)}
	case 1:
		a := max(r.draw(rnd), 2)
		x := between(rnd, 2, a)
		q.Expression = fmt.Sprintf("%d - ? = %d", a, a-x)
		q.Answer = float64(x)
		q.Operands = []float64{float64(a), float64(a - x)}
	case 2:
		x, b := f.draw(rnd), f.draw(rnd)
		q.Expression = fmt.Sprintf("? × %d = %d", b, x*b)
		q.Answer = float64(x)
		q.Operands = []float64{float64(b), float64(x * b)}
	default:
		x, c := f.draw(rnd), f.draw(rnd)
		q.Expression = fmt.Sprintf("%d ÷ ? = %d", x*c, c)
		q.Answer = float64(x)
		q.Operands = []float64{float64(x * c), float64(c)}
	}
	return q
}

func buildPercentOf(rnd *rand.Rand, tier, ceiling int) Question {
	p := pick(rnd, percentages)
	n := OperandRange(tier, ceiling).draw(rnd)
	if rnd.IntN(2) == 0 {
		// Round bases keep most answers whole.
		n = max(n-n%10, 10)
	}
	return Question{
		Expression: fmt.Sprintf("%d%% of %d", p, n),
		Answer:     float64(p) * float64(n) / 100,
		Kind:       KindDecimal,
		Category:   CategoryPercentOf,
		Operands:   []float64{float64(p), float64(n)},
	}
}
