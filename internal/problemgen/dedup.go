package problemgen

import "fmt"

// RepeatValidator rejects a candidate whose expression is among the most
// recently accepted ones. Call Remember for every accepted question.
type RepeatValidator struct {
	Window int
	recent []string
}

func (v *RepeatValidator) Name() string { return "repeat" }

func (v *RepeatValidator) Validate(q Question) *ValidationError {
	for _, e := range v.recent {
		if e == q.Expression {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%q was asked recently", q.Expression),
				Retryable: true,
			}
		}
	}
	return nil
}

// Remember records an accepted question, keeping only the last Window.
func (v *RepeatValidator) Remember(q Question) {
	if v.Window <= 0 {
		return
	}
	v.recent = append(v.recent, q.Expression)
	if len(v.recent) > v.Window {
		v.recent = v.recent[len(v.recent)-v.Window:]
	}
}
