package problemgen

import "testing"

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"math-check", "trivial-answer", "excluded-operand", "magnitude", "fractional-answer"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
	if cfg.MaxAttempts != 50 {
		t.Errorf("MaxAttempts = %d, want 50", cfg.MaxAttempts)
	}
	if cfg.Ceiling != 100 {
		t.Errorf("Ceiling = %d, want 100", cfg.Ceiling)
	}
}

func TestDegenerateValidators(t *testing.T) {
	tests := []struct {
		name   string
		v      Validator
		q      Question
		reject bool
	}{
		{"trivial zero", &TrivialAnswerValidator{Categories: []Category{CategoryMissingOperand}},
			Question{Category: CategoryMissingOperand, Answer: 0}, true},
		{"trivial other category", &TrivialAnswerValidator{Categories: []Category{CategoryMissingOperand}},
			Question{Category: CategoryAdd, Answer: 1}, false},
		{"excluded 100%", &ExcludedOperandValidator{Category: CategoryPercentOf, Values: []float64{100}},
			Question{Category: CategoryPercentOf, Operands: []float64{100, 30}, Answer: 30}, true},
		{"excluded checks index only", &ExcludedOperandValidator{Category: CategoryPercentOf, Values: []float64{100}},
			Question{Category: CategoryPercentOf, Operands: []float64{25, 100}, Answer: 25}, false},
		{"magnitude small", &MagnitudeValidator{Categories: []Category{CategoryPercentOf}, Min: 1},
			Question{Category: CategoryPercentOf, Answer: 0.6}, true},
		{"magnitude ok", &MagnitudeValidator{Categories: []Category{CategoryPercentOf}, Min: 1},
			Question{Category: CategoryPercentOf, Answer: 1.8}, false},
		{"fractional whole", &FractionalAnswerValidator{Category: CategoryDecimalDiv},
			Question{Category: CategoryDecimalDiv, Answer: 3}, true},
		{"fractional ok", &FractionalAnswerValidator{Category: CategoryDecimalDiv},
			Question{Category: CategoryDecimalDiv, Answer: 3.25}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.v.Validate(tc.q)
			if (err != nil) != tc.reject {
				t.Errorf("Validate() = %v, reject want %v", err, tc.reject)
			}
		})
	}
}

func TestRepeatValidator(t *testing.T) {
	v := &RepeatValidator{Window: 2}
	a := Question{Expression: "1 + 2"}
	b := Question{Expression: "3 + 4"}
	c := Question{Expression: "5 + 6"}

	v.Remember(a)
	if v.Validate(a) == nil {
		t.Error("expected repeat of a to be rejected")
	}
	v.Remember(b)
	v.Remember(c)
	if v.Validate(a) != nil {
		t.Error("a fell out of the window and should pass")
	}
	if v.Validate(c) == nil {
		t.Error("expected repeat of c to be rejected")
	}
}
