package problemgen

import (
	"math"
	"strconv"
	"strings"
)

// Judgement is the outcome of checking one submitted answer.
type Judgement int

const (
	// Ignored means the input was empty or unparseable. No penalty.
	Ignored Judgement = iota
	Correct
	Wrong
)

func (j Judgement) String() string {
	switch j {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "ignored"
	}
}

// CheckAnswer compares the player's input against the question's answer.
// Input is trimmed. Integer answers match exactly, decimal answers within
// Tolerance, pattern answers by exact cell set and key answers by a single
// case-insensitive character.
func CheckAnswer(input string, q Question) Judgement {
	input = strings.TrimSpace(input)
	if input == "" {
		return Ignored
	}
	switch q.Kind {
	case KindPattern:
		return checkPattern(input, q)
	case KindKey:
		return checkKey(input, q)
	}

	v, ok := parseNumber(input)
	if !ok {
		return Ignored
	}
	if withinTolerance(v, q.Answer, q.Kind) {
		return Correct
	}
	return Wrong
}

// Tolerance returns the absolute tolerance used for decimal answers.
func Tolerance(answer float64) float64 {
	if math.Abs(answer) < 1 {
		return 1e-6
	}
	return 0.01
}

func withinTolerance(got, want float64, kind Kind) bool {
	if kind == KindDecimal {
		return math.Abs(got-want) <= Tolerance(want)
	}
	return got == want
}

// parseNumber accepts plain numbers with an optional sign and a trailing
// percent sign, which "50%"-style answers tend to carry.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
