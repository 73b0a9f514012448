package problemgen

import "math/rand/v2"

// DefaultCeiling bounds every operand a generator draws.
const DefaultCeiling = 100

// Range is an inclusive operand interval.
type Range struct {
	Lo int
	Hi int
}

// OperandRange returns the addend range for a tier. The floor rises by two
// per tier and the top by eight, both capped by ceiling.
func OperandRange(tier, ceiling int) Range {
	if tier < 0 {
		tier = 0
	}
	if ceiling < 4 {
		ceiling = 4
	}
	r := Range{Lo: 2 + 2*tier, Hi: 12 + 8*tier}
	return clampRange(r, ceiling)
}

// FactorRange returns the multiplier range for a tier. The minimum
// multiplier rises by one per tier until 9.
func FactorRange(tier, ceiling int) Range {
	if tier < 0 {
		tier = 0
	}
	if ceiling < 4 {
		ceiling = 4
	}
	r := Range{Lo: min(2+tier, 9), Hi: 10 + 2*tier}
	if r.Hi > 20 {
		r.Hi = 20
	}
	return clampRange(r, ceiling)
}

func clampRange(r Range, ceiling int) Range {
	if r.Hi > ceiling {
		r.Hi = ceiling
	}
	if r.Lo > ceiling/2 {
		r.Lo = ceiling / 2
	}
	if r.Lo > r.Hi {
		r.Lo = r.Hi
	}
	return r
}

// between returns a uniform integer in [lo, hi].
func between(rnd *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.IntN(hi-lo+1)
}

// draw returns a uniform integer in r.
func (r Range) draw(rnd *rand.Rand) int {
	return between(rnd, r.Lo, r.Hi)
}

func pick[T any](rnd *rand.Rand, xs []T) T {
	return xs[rnd.IntN(len(xs))]
}
