package problemgen

// Config controls the behavior of the Arithmetic generator.
type Config struct {
	// Weights is the first-level category table per tier.
	Weights WeightFunc

	// Mixed is the second-level table drawn when Weights picks
	// CategoryMixed.
	Mixed WeightFunc

	// Ceiling caps every operand.
	Ceiling int

	// MaxAttempts bounds rejection sampling. When every attempt is
	// rejected the last candidate is returned.
	MaxAttempts int

	// Validators run in order on every candidate; the first failure
	// rejects it.
	Validators []Validator

	// RepeatWindow is how many recent expressions may not be repeated.
	// Zero disables the check.
	RepeatWindow int
}

// DefaultConfig returns a Config with the standard validator chain and
// the basic operator weights.
func DefaultConfig() Config {
	return Config{
		Weights:      BasicWeights(DefaultScaling),
		Mixed:        MixedWeights(DefaultScaling),
		Ceiling:      DefaultCeiling,
		MaxAttempts:  50,
		Validators:   DefaultValidators(),
		RepeatWindow: 5,
	}
}

// DefaultValidators rejects trivial answers, 100%, percent results below
// one and whole decimal-division answers, after checking the arithmetic.
func DefaultValidators() []Validator {
	return []Validator{
		&MathCheckValidator{},
		&TrivialAnswerValidator{Categories: []Category{CategoryMissingOperand, CategoryPercentOf, CategoryDecimalDiv}},
		&ExcludedOperandValidator{Category: CategoryPercentOf, Index: 0, Values: []float64{100}},
		&MagnitudeValidator{Categories: []Category{CategoryPercentOf}, Min: 1},
		&FractionalAnswerValidator{Category: CategoryDecimalDiv},
	}
}

// Buildable reports whether the generator knows how to build c.
func Buildable(c Category) bool {
	if c == CategoryMixed {
		return true
	}
	_, ok := builders[c]
	return ok
}
