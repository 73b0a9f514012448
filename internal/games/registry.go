package games

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/abhisek/brainrush/internal/problemgen"
)

// Built-in generator names.
const (
	GeneratorBasic    = "basic"
	GeneratorMixed    = "mixed"
	GeneratorGauntlet = "gauntlet"
	GeneratorPattern  = "pattern"
	GeneratorWeighted = "weighted"
	GeneratorReaction = "reaction"
)

// Factory builds the question generator for one round.
type Factory func(rnd *rand.Rand, rd RoundDef, logger zerolog.Logger) (problemgen.Generator, error)

// Registry maps generator names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry holding the built-in generators.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register(GeneratorBasic, arithmeticFactory(func(rd RoundDef) (problemgen.WeightFunc, error) {
		return problemgen.BasicWeights(rd.Scaling), nil
	}))
	r.Register(GeneratorMixed, arithmeticFactory(func(RoundDef) (problemgen.WeightFunc, error) {
		return problemgen.StaticWeights(problemgen.Weight{Category: problemgen.CategoryMixed, Weight: 1}), nil
	}))
	r.Register(GeneratorGauntlet, arithmeticFactory(func(rd RoundDef) (problemgen.WeightFunc, error) {
		return problemgen.GauntletWeights(rd.Scaling), nil
	}))
	r.Register(GeneratorWeighted, arithmeticFactory(staticTable))
	r.Register(GeneratorPattern, func(rnd *rand.Rand, _ RoundDef, _ zerolog.Logger) (problemgen.Generator, error) {
		return problemgen.NewPattern(rnd), nil
	})
	r.Register(GeneratorReaction, func(rnd *rand.Rand, _ RoundDef, _ zerolog.Logger) (problemgen.Generator, error) {
		return problemgen.NewReaction(rnd), nil
	})
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// New builds the generator for rd, applying its tier offset.
func (r *Registry) New(rnd *rand.Rand, rd RoundDef, logger zerolog.Logger) (problemgen.Generator, error) {
	r.mu.RLock()
	f, ok := r.factories[rd.Generator]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown generator %q", rd.Generator)
	}
	gen, err := f(rnd, rd, logger)
	if err != nil {
		return nil, fmt.Errorf("generator %q: %w", rd.Generator, err)
	}
	if rd.TierOffset > 0 {
		gen = shifted{gen: gen, offset: rd.TierOffset}
	}
	return gen, nil
}

func arithmeticFactory(weights func(RoundDef) (problemgen.WeightFunc, error)) Factory {
	return func(rnd *rand.Rand, rd RoundDef, logger zerolog.Logger) (problemgen.Generator, error) {
		if rd.Scaling == 0 {
			rd.Scaling = problemgen.DefaultScaling
		}
		w, err := weights(rd)
		if err != nil {
			return nil, err
		}
		cfg := problemgen.DefaultConfig()
		cfg.Weights = w
		cfg.Mixed = problemgen.MixedWeights(rd.Scaling)
		if rd.Ceiling > 0 {
			cfg.Ceiling = rd.Ceiling
		}
		return problemgen.NewArithmetic(rnd, cfg, problemgen.WithLogger(logger)), nil
	}
}

func staticTable(rd RoundDef) (problemgen.WeightFunc, error) {
	if len(rd.Weights) == 0 {
		return nil, fmt.Errorf("weights are required")
	}
	var table []problemgen.Weight
	for _, name := range slices.Sorted(maps.Keys(rd.Weights)) {
		cat := problemgen.Category(name)
		if !problemgen.Buildable(cat) {
			return nil, fmt.Errorf("unknown category %q", name)
		}
		table = append(table, problemgen.Weight{Category: cat, Weight: rd.Weights[name]})
	}
	return problemgen.StaticWeights(table...), nil
}

// shifted starts its generator TierOffset tiers higher.
type shifted struct {
	gen    problemgen.Generator
	offset int
}

func (s shifted) Generate(tier int) problemgen.Question {
	return s.gen.Generate(tier + s.offset)
}
