package problemgen

import "math/rand/v2"

// Weight pairs a category with its relative draw weight.
type Weight struct {
	Category Category
	Weight   float64
}

// WeightFunc returns the weight table for a difficulty tier.
type WeightFunc func(tier int) []Weight

// WeightedPick draws one entry proportionally to its weight. Entries with a
// non-positive weight are never picked. Returns the first entry when every
// weight is zero, and "" for an empty table.
func WeightedPick(rnd *rand.Rand, entries []Weight) Category {
	if len(entries) == 0 {
		return ""
	}
	var total float64
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return entries[0].Category
	}

	roll := rnd.Float64() * total
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		if roll < e.Weight {
			return e.Category
		}
		roll -= e.Weight
	}
	// Float rounding can leave a sliver past the last entry.
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Weight > 0 {
			return entries[i].Category
		}
	}
	return entries[0].Category
}

// Scaled returns the weight of a hard category at a tier: 1 + tier*step.
func Scaled(tier int, step float64) float64 {
	if tier < 0 {
		tier = 0
	}
	return 1 + float64(tier)*step
}

// DefaultScaling is the per-tier weight growth of hard categories.
const DefaultScaling = 0.3

// BasicWeights keeps addition and subtraction at weight 1 while
// multiplication and division grow with tier.
func BasicWeights(step float64) WeightFunc {
	return func(tier int) []Weight {
		return []Weight{
			{CategoryAdd, 1},
			{CategorySub, 1},
			{CategoryMul, Scaled(tier, step)},
			{CategoryDiv, Scaled(tier, step)},
		}
	}
}

// MixedWeights is the second-level draw used when CategoryMixed is picked.
func MixedWeights(step float64) WeightFunc {
	return func(tier int) []Weight {
		return []Weight{
			{CategoryMissingOperand, 1},
			{CategoryDecimalDiv, Scaled(tier, step)},
			{CategoryPercentOf, Scaled(tier, step)},
		}
	}
}

// GauntletWeights blends the basic operators with the mixed pool, the
// mixed share growing with tier.
func GauntletWeights(step float64) WeightFunc {
	return func(tier int) []Weight {
		return append(BasicWeights(step)(tier), Weight{CategoryMixed, Scaled(tier, step)})
	}
}

// StaticWeights returns the same table at every tier.
func StaticWeights(entries ...Weight) WeightFunc {
	return func(int) []Weight { return entries }
}
