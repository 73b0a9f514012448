package problemgen

import (
	"fmt"
	"math"
	"slices"
)

// Validator checks a candidate question and rejects degenerate ones.
// Implementations should be safe for use from a single generator.
type Validator interface {
	// Name returns a short identifier for this validator, e.g. "math-check".
	Name() string

	// Validate returns nil if the question passes.
	Validate(q Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// TrivialAnswerValidator rejects answers of 0 or 1 for the listed
// categories.
type TrivialAnswerValidator struct {
	Categories []Category
}

func (v *TrivialAnswerValidator) Name() string { return "trivial-answer" }

func (v *TrivialAnswerValidator) Validate(q Question) *ValidationError {
	if !slices.Contains(v.Categories, q.Category) {
		return nil
	}
	if q.Answer == 0 || q.Answer == 1 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("trivial answer %s for %q", formatNumber(q.Answer), q.Expression),
			Retryable: true,
		}
	}
	return nil
}

// ExcludedOperandValidator rejects questions of a category whose operand at
// Index is one of Values.
type ExcludedOperandValidator struct {
	Category Category
	Index    int
	Values   []float64
}

func (v *ExcludedOperandValidator) Name() string { return "excluded-operand" }

func (v *ExcludedOperandValidator) Validate(q Question) *ValidationError {
	if q.Category != v.Category || v.Index < 0 || v.Index >= len(q.Operands) {
		return nil
	}
	if op := q.Operands[v.Index]; slices.Contains(v.Values, op) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("operand %s is excluded for %s", formatNumber(op), q.Category),
			Retryable: true,
		}
	}
	return nil
}

// MagnitudeValidator rejects answers smaller than Min in absolute value.
type MagnitudeValidator struct {
	Categories []Category
	Min        float64
}

func (v *MagnitudeValidator) Name() string { return "magnitude" }

func (v *MagnitudeValidator) Validate(q Question) *ValidationError {
	if !slices.Contains(v.Categories, q.Category) {
		return nil
	}
	if math.Abs(q.Answer) < v.Min {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %s below minimum magnitude %s", formatNumber(q.Answer), formatNumber(v.Min)),
			Retryable: true,
		}
	}
	return nil
}

// FractionalAnswerValidator rejects whole-number answers for a decimal
// category.
type FractionalAnswerValidator struct {
	Category Category
}

func (v *FractionalAnswerValidator) Name() string { return "fractional-answer" }

func (v *FractionalAnswerValidator) Validate(q Question) *ValidationError {
	if q.Category != v.Category {
		return nil
	}
	if q.Answer == math.Trunc(q.Answer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("%q has a whole answer", q.Expression),
			Retryable: true,
		}
	}
	return nil
}
