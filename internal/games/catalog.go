package games

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	"github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/submit"
)

// gameFile is the YAML form of a Definition.
type gameFile struct {
	Name        string      `yaml:"name"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Breather    string      `yaml:"breather"`
	Rounds      []roundFile `yaml:"rounds"`
	Link        linkFile    `yaml:"link"`
}

type roundFile struct {
	Name          string             `yaml:"name"`
	Generator     string             `yaml:"generator"`
	Duration      string             `yaml:"duration"`
	QuestionLimit string             `yaml:"question_limit"`
	MaxQuestions  int                `yaml:"max_questions"`
	MaxAttempts   int                `yaml:"max_attempts"`
	Scaling       float64            `yaml:"scaling"`
	TierOffset    int                `yaml:"tier_offset"`
	Weights       map[string]float64 `yaml:"weights"`
	Ceiling       int                `yaml:"ceiling"`
	Endpoint      string             `yaml:"endpoint"`
	ScoreField    string             `yaml:"score_field"`
	IDField       string             `yaml:"id_field"`
	Scoring       string             `yaml:"scoring"`
}

type linkFile struct {
	Kind       string `yaml:"kind"`
	Endpoint   string `yaml:"endpoint"`
	ScoreField string `yaml:"score_field"`
	IDField    string `yaml:"id_field"`
	RoundScore string `yaml:"round_score"`
}

// Catalog holds the games that can be played, built-in presets first.
type Catalog struct {
	registry *Registry
	logger   zerolog.Logger

	mu    sync.RWMutex
	games map[string]Definition
	order []string
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithRegistry sets the generator registry.
func WithRegistry(r *Registry) CatalogOption {
	return func(c *Catalog) { c.registry = r }
}

// WithLogger sets the logger passed to generators.
func WithLogger(l zerolog.Logger) CatalogOption {
	return func(c *Catalog) { c.logger = l }
}

// NewCatalog returns a catalog of the built-in games.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		registry: NewRegistry(),
		logger:   zerolog.Nop(),
		games:    map[string]Definition{},
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, d := range Builtin() {
		c.add(d)
	}
	return c
}

// Add validates and adds a definition. A custom game may not replace a
// built-in one.
func (c *Catalog) Add(d Definition) error {
	if err := d.Validate(c.registry); err != nil {
		return err
	}
	c.mu.RLock()
	existing, ok := c.games[d.Name]
	c.mu.RUnlock()
	if ok && existing.Builtin {
		return fmt.Errorf("game %q: cannot replace a built-in game", d.Name)
	}
	d.Builtin = false
	c.add(d)
	return nil
}

func (c *Catalog) add(d Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.games[d.Name]; !ok {
		c.order = append(c.order, d.Name)
	}
	c.games[d.Name] = d
}

// LoadFromDir loads every *.yaml and *.yml file in dir. A missing
// directory is not an error; invalid files are logged and skipped.
func (c *Catalog) LoadFromDir(dir string) (int, error) {
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return 0, fmt.Errorf("glob %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	loaded := 0
	for _, file := range files {
		n, err := c.LoadFromFile(file)
		if err != nil {
			c.logger.Warn().Err(err).Str("file", file).Msg("failed to load game")
			continue
		}
		loaded += n
	}
	c.logger.Debug().Str("dir", dir).Int("count", loaded).Msg("custom games loaded")
	return loaded, nil
}

// LoadFromFile loads the game definitions in a YAML file. A file may hold
// several documents, one game each.
func (c *Catalog) LoadFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}
	defs, err := Parse(data)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	for _, d := range defs {
		if err := c.Add(d); err != nil {
			return 0, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return len(defs), nil
}

// Parse decodes YAML game definitions without validating generators.
func Parse(data []byte) ([]Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var defs []Definition
	for {
		var f gameFile
		err := dec.Decode(&f)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
		d, err := f.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no game definitions")
	}
	return defs, nil
}

func (f gameFile) definition() (Definition, error) {
	d := Definition{
		Name:        f.Name,
		Title:       f.Title,
		Description: f.Description,
		Link: LinkDef{
			Kind:       f.Link.Kind,
			Endpoint:   f.Link.Endpoint,
			ScoreField: f.Link.ScoreField,
			IDField:    f.Link.IDField,
			RoundScore: f.Link.RoundScore,
		},
	}
	if d.Title == "" {
		d.Title = d.Name
	}
	var err error
	if d.Breather, err = parseDuration("breather", f.Breather); err != nil {
		return Definition{}, err
	}
	for i, r := range f.Rounds {
		rd := RoundDef{
			Name:         r.Name,
			Generator:    r.Generator,
			MaxQuestions: r.MaxQuestions,
			MaxAttempts:  r.MaxAttempts,
			Scaling:      r.Scaling,
			TierOffset:   r.TierOffset,
			Weights:      r.Weights,
			Ceiling:      r.Ceiling,
			Endpoint:     r.Endpoint,
			ScoreField:   r.ScoreField,
			IDField:      r.IDField,
			Scoring:      r.Scoring,
		}
		if rd.Name == "" {
			rd.Name = fmt.Sprintf("Round %d", i+1)
		}
		if rd.Duration, err = parseDuration("duration", r.Duration); err != nil {
			return Definition{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		if rd.QuestionLimit, err = parseDuration("question_limit", r.QuestionLimit); err != nil {
			return Definition{}, fmt.Errorf("round %d: %w", i+1, err)
		}
		d.Rounds = append(d.Rounds, rd)
	}
	return d, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

// Get returns the named game.
func (c *Catalog) Get(name string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.games[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownGame, name)
	}
	return d, nil
}

// List returns all games in catalog order.
func (c *Catalog) List() []Definition {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Definition, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.games[name])
	}
	return out
}

// Registry returns the catalog's generator registry.
func (c *Catalog) Registry() *Registry { return c.registry }

// Build turns the named game into a session configuration. A zero seed
// draws a random one; otherwise round i uses seed+i.
func (c *Catalog) Build(name string, seed uint64) (session.Config, error) {
	d, err := c.Get(name)
	if err != nil {
		return session.Config{}, err
	}
	return c.BuildDefinition(d, seed)
}

// BuildDefinition is Build for a definition not necessarily in the
// catalog.
func (c *Catalog) BuildDefinition(d Definition, seed uint64) (session.Config, error) {
	if err := d.Validate(c.registry); err != nil {
		return session.Config{}, err
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	cfg := session.Config{
		Game:     d.Name,
		Breather: d.Breather,
		Link: session.LinkSpec{
			Endpoint:   d.Link.Endpoint,
			Fields:     submit.Fields{Score: d.Link.ScoreField, ID: d.Link.IDField},
			RoundScore: d.Link.RoundScore,
		},
	}
	switch d.Link.Kind {
	case LinkScoreIDs:
		cfg.Link.Kind = session.LinkScoreIDs
	case LinkQuestionLog:
		cfg.Link.Kind = session.LinkQuestionLog
	}

	for i, rd := range d.Rounds {
		gen, err := c.registry.New(problemgen.NewRand(seed+uint64(i)), rd, c.logger)
		if err != nil {
			return session.Config{}, fmt.Errorf("game %q round %d: %w", d.Name, i+1, err)
		}
		spec := session.RoundSpec{
			Name: rd.Name,
			Options: round.Options{
				Duration:      rd.Duration,
				QuestionLimit: rd.QuestionLimit,
				MaxQuestions:  rd.MaxQuestions,
				MaxAttempts:   rd.MaxAttempts,
			},
			Generator: gen,
			Endpoint:  rd.Endpoint,
			Fields:    submit.Fields{Score: rd.ScoreField, ID: rd.IDField},
			Scoring:   session.ArithmeticScoring,
		}
		switch rd.Scoring {
		case ScoringMemory:
			spec.Scoring = session.MemoryScoring
		case ScoringReaction:
			spec.Scoring = session.ReactionScoring
			spec.Payload = submit.NewReactionPayload
		}
		cfg.Rounds = append(cfg.Rounds, spec)
	}
	return cfg, nil
}
