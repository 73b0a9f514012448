package problemgen

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Generator produces the next question for a difficulty tier.
// Implementations are deterministic for a seeded random source and are
// not safe for concurrent use.
type Generator interface {
	Generate(tier int) Question
}

// Arithmetic generates procedural arithmetic questions by weighted
// category draw followed by rejection sampling.
type Arithmetic struct {
	rnd       *rand.Rand
	cfg       Config
	repeat    *RepeatValidator
	logger    zerolog.Logger
	exhausted int
}

// Option configures an Arithmetic generator.
type Option func(*Arithmetic)

// WithLogger sets the logger used for rejection-sampling diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Arithmetic) { g.logger = l }
}

// NewArithmetic returns a generator drawing from rnd. Zero-valued config
// fields take their DefaultConfig values.
func NewArithmetic(rnd *rand.Rand, cfg Config, opts ...Option) *Arithmetic {
	def := DefaultConfig()
	if cfg.Weights == nil {
		cfg.Weights = def.Weights
	}
	if cfg.Mixed == nil {
		cfg.Mixed = def.Mixed
	}
	if cfg.Ceiling <= 0 {
		cfg.Ceiling = def.Ceiling
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	g := &Arithmetic{
		rnd:    rnd,
		cfg:    cfg,
		repeat: &RepeatValidator{Window: cfg.RepeatWindow},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate draws a question using the configured weight table for tier.
func (g *Arithmetic) Generate(tier int) Question {
	return g.GenerateWeighted(tier, g.cfg.Weights(tier))
}

// GenerateWeighted draws a question using an explicit weight table.
func (g *Arithmetic) GenerateWeighted(tier int, weights []Weight) Question {
	var (
		last   Question
		reject *ValidationError
	)
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		last = g.candidate(tier, weights)
		reject = g.validate(last)
		if reject == nil {
			g.repeat.Remember(last)
			return last
		}
		if !reject.Retryable {
			break
		}
	}

	g.exhausted++
	g.logger.Warn().
		Str("category", string(last.Category)).
		Str("expression", last.Expression).
		Int("tier", tier).
		Str("reason", reject.Error()).
		Msg("rejection sampling exhausted, accepting last candidate")
	g.repeat.Remember(last)
	return last
}

// Exhausted returns how many times rejection sampling ran out of attempts.
func (g *Arithmetic) Exhausted() int {
	return g.exhausted
}

func (g *Arithmetic) candidate(tier int, weights []Weight) Question {
	cat := WeightedPick(g.rnd, weights)
	if cat == CategoryMixed {
		cat = WeightedPick(g.rnd, g.cfg.Mixed(tier))
	}
	build, ok := builders[cat]
	if !ok {
		build = buildAdd
	}
	return build(g.rnd, tier, g.cfg.Ceiling)
}

func (g *Arithmetic) validate(q Question) *ValidationError {
	for _, v := range g.cfg.Validators {
		if err := v.Validate(q); err != nil {
			return err
		}
	}
	if g.repeat.Window > 0 {
		return g.repeat.Validate(q)
	}
	return nil
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
