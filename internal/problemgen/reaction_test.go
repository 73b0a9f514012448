package problemgen

import (
	"strings"
	"testing"
)

func TestReaction_PoolGrowsAndNoRepeats(t *testing.T) {
	r := NewReaction(NewRand(7))
	if got := r.Pool(0); got != "FJDK" {
		t.Errorf("tier 0 pool = %q, want FJDK", got)
	}
	if got := r.Pool(100); got != reactionKeys {
		t.Errorf("pool is capped at every key, got %q", got)
	}

	prev := ""
	for i := range 200 {
		tier := i / 20
		q := r.Generate(tier)
		if q.Kind != KindKey || q.Category != CategoryReaction {
			t.Fatalf("kind/category = %s/%s", q.Kind, q.Category)
		}
		if !strings.Contains(r.Pool(tier), q.Target) {
			t.Fatalf("tier %d: key %q outside pool %q", tier, q.Target, r.Pool(tier))
		}
		if q.Target == prev {
			t.Fatalf("key %q repeated back to back", q.Target)
		}
		if q.Expression != "Press "+q.Target {
			t.Fatalf("expression = %q", q.Expression)
		}
		prev = q.Target
	}
}

func TestCheckAnswer_Key(t *testing.T) {
	q := Question{Kind: KindKey, Target: "F"}
	tests := []struct {
		input string
		want  Judgement
	}{
		{"F", Correct},
		{"f", Correct},
		{" f ", Correct},
		{"j", Wrong},
		{"7", Wrong},
		{"fj", Ignored},
		{"", Ignored},
	}
	for _, tc := range tests {
		if got := CheckAnswer(tc.input, q); got != tc.want {
			t.Errorf("CheckAnswer(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}
