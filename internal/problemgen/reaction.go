package problemgen

import (
	"math/rand/v2"
	"strings"
	"unicode/utf8"
)

// reactionKeys are the keys a reaction question can ask for, easiest
// first. Tier 0 stays on the home row.
const reactionKeys = "FJDKSLAGHEIRUWO"

// Reaction generates press-the-key questions. Each tier adds two keys to
// the pool, and a key never repeats back to back.
type Reaction struct {
	rnd  *rand.Rand
	last byte
}

// NewReaction returns a reaction generator drawing from rnd.
func NewReaction(rnd *rand.Rand) *Reaction {
	return &Reaction{rnd: rnd}
}

// Pool returns the keys in play at tier.
func (r *Reaction) Pool(tier int) string {
	n := min(4+2*max(tier, 0), len(reactionKeys))
	return reactionKeys[:n]
}

// Generate draws the next key.
func (r *Reaction) Generate(tier int) Question {
	pool := r.Pool(tier)
	k := pool[r.rnd.IntN(len(pool))]
	if k == r.last {
		k = pool[(strings.IndexByte(pool, k)+1)%len(pool)]
	}
	r.last = k
	return Question{
		Expression: "Press " + string(k),
		Kind:       KindKey,
		Category:   CategoryReaction,
		Target:     string(k),
	}
}

func checkKey(input string, q Question) Judgement {
	if utf8.RuneCountInString(input) != 1 {
		return Ignored
	}
	if strings.EqualFold(input, q.Target) {
		return Correct
	}
	return Wrong
}
