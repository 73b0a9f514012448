package problemgen

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotComputable is returned by Evaluate for expressions it cannot parse.
var ErrNotComputable = errors.New("expression not computable")

// MathCheckValidator independently recomputes the answer from the
// expression. Non-computable expressions pass through silently.
type MathCheckValidator struct{}

func (v *MathCheckValidator) Name() string { return "math-check" }

func (v *MathCheckValidator) Validate(q Question) *ValidationError {
	computed, err := Evaluate(q.Expression)
	if err != nil {
		return nil
	}
	if !withinTolerance(computed, q.Answer, q.Kind) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("computed %s but generator claimed %s", formatNumber(computed), formatNumber(q.Answer)),
			Retryable: true,
		}
	}
	return nil
}

var (
	// "a + b", "a - b", "a × b", "a ÷ b" and their ASCII spellings.
	binaryRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*([+\-*×/÷])\s*(-?\d+(?:\.\d+)?)$`)

	// "? + b = c" or "a - ? = c".
	equationRe = regexp.MustCompile(`^(\?|-?\d+(?:\.\d+)?)\s*([+\-*×/÷])\s*(\?|-?\d+(?:\.\d+)?)\s*=\s*(-?\d+(?:\.\d+)?)$`)

	// "25% of 80".
	percentRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*%\s*of\s+(-?\d+(?:\.\d+)?)$`)
)

// Evaluate computes the value of a generated expression. For equations
// with a "?" placeholder it returns the value that satisfies the equation.
func Evaluate(expression string) (float64, error) {
	expr := strings.TrimSpace(expression)

	if m := percentRe.FindStringSubmatch(expr); m != nil {
		p, _ := strconv.ParseFloat(m[1], 64)
		n, _ := strconv.ParseFloat(m[2], 64)
		return p * n / 100, nil
	}
	if m := binaryRe.FindStringSubmatch(expr); m != nil {
		a, _ := strconv.ParseFloat(m[1], 64)
		b, _ := strconv.ParseFloat(m[3], 64)
		return computeOp(a, normalizeOp(m[2]), b)
	}
	if m := equationRe.FindStringSubmatch(expr); m != nil {
		return solveEquation(m[1], normalizeOp(m[2]), m[3], m[4])
	}
	return 0, fmt.Errorf("%w: %q", ErrNotComputable, expression)
}

func solveEquation(left, op, right, result string) (float64, error) {
	c, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return 0, err
	}
	switch {
	case left == "?" && right != "?":
		b, _ := strconv.ParseFloat(right, 64)
		// x op b = c
		switch op {
		case "+":
			return c - b, nil
		case "-":
			return c + b, nil
		case "*":
			return computeOp(c, "/", b)
		case "/":
			return c * b, nil
		}
	case right == "?" && left != "?":
		a, _ := strconv.ParseFloat(left, 64)
		// a op x = c
		switch op {
		case "+":
			return c - a, nil
		case "-":
			return a - c, nil
		case "*":
			return computeOp(c, "/", a)
		case "/":
			return computeOp(a, "/", c)
		}
	}
	return 0, fmt.Errorf("%w: need exactly one placeholder", ErrNotComputable)
}

// computeOp evaluates a binary arithmetic operation.
func computeOp(a float64, op string, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, errors.New("division by zero")
		}
		return a / b, nil
	default:
		return 0, fmt.Errorf("unsupported operator: %s", op)
	}
}

// normalizeOp normalizes multiplication and division symbols.
func normalizeOp(op string) string {
	switch op {
	case "×":
		return "*"
	case "÷":
		return "/"
	default:
		return op
	}
}
