// Package games defines the playable games: the built-in presets and
// custom definitions loaded from YAML. A Definition is turned into a
// session.Config by Catalog.Build.
package games

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownGame is returned when a game name is not in the catalog.
var ErrUnknownGame = errors.New("games: unknown game")

// Link kinds as written in definitions.
const (
	LinkNone        = ""
	LinkScoreIDs    = "score_ids"
	LinkQuestionLog = "question_log"
)

// Scoring names as written in definitions.
const (
	ScoringArithmetic = "arithmetic"
	ScoringMemory     = "memory"
	ScoringReaction   = "reaction"
)

// Definition describes a game.
type Definition struct {
	Name        string
	Title       string
	Description string
	Breather    time.Duration
	Rounds      []RoundDef
	Link        LinkDef
	Builtin     bool
}

// RoundDef describes one round of a game.
type RoundDef struct {
	Name      string
	Generator string // registry name

	Duration      time.Duration // zero: no round deadline
	QuestionLimit time.Duration // zero: no per-question deadline
	MaxQuestions  int
	MaxAttempts   int

	// Scaling is the per-tier weight growth of hard categories.
	Scaling float64

	// TierOffset is added to the round's tier. It lets later rounds of a
	// short game start harder.
	TierOffset int

	// Weights is the category table for the "weighted" generator.
	Weights map[string]float64
	Ceiling int

	Endpoint   string
	ScoreField string
	IDField    string
	Scoring    string
}

// LinkDef describes the request sent after the last round.
type LinkDef struct {
	Kind       string
	Endpoint   string
	ScoreField string
	IDField    string
	RoundScore string
}

// Timed reports whether any round has a deadline.
func (d Definition) Timed() bool {
	for _, r := range d.Rounds {
		if r.Duration > 0 || r.QuestionLimit > 0 {
			return true
		}
	}
	return false
}

// Kind returns the scoring of the game's first round, which names the
// family the game belongs to: arithmetic, memory or reaction.
func (d Definition) Kind() string {
	if len(d.Rounds) == 0 || d.Rounds[0].Scoring == "" {
		return ScoringArithmetic
	}
	return d.Rounds[0].Scoring
}

// RoundNames maps round numbers to display names.
func (d Definition) RoundNames() map[int]string {
	names := make(map[int]string, len(d.Rounds))
	for i, r := range d.Rounds {
		names[i+1] = r.Name
	}
	return names
}

// Validate checks a definition against the generators in reg.
func (d Definition) Validate(reg *Registry) error {
	if d.Name == "" {
		return fmt.Errorf("game name is required")
	}
	if len(d.Rounds) == 0 {
		return fmt.Errorf("game %q: at least one round is required", d.Name)
	}
	if d.Breather < 0 {
		return fmt.Errorf("game %q: negative breather", d.Name)
	}
	for i, r := range d.Rounds {
		if !reg.Has(r.Generator) {
			return fmt.Errorf("game %q round %d: unknown generator %q", d.Name, i+1, r.Generator)
		}
		if r.Duration < 0 || r.QuestionLimit < 0 || r.MaxQuestions < 0 || r.MaxAttempts < 0 {
			return fmt.Errorf("game %q round %d: negative limit", d.Name, i+1)
		}
		if r.Duration == 0 && r.MaxQuestions == 0 {
			return fmt.Errorf("game %q round %d: needs a duration or a question budget", d.Name, i+1)
		}
		switch r.Scoring {
		case "", ScoringArithmetic, ScoringMemory, ScoringReaction:
		default:
			return fmt.Errorf("game %q round %d: unknown scoring %q", d.Name, i+1, r.Scoring)
		}
		if r.Endpoint != "" && r.ScoreField == "" {
			return fmt.Errorf("game %q round %d: endpoint without score field", d.Name, i+1)
		}
	}
	switch d.Link.Kind {
	case LinkNone:
	case LinkScoreIDs, LinkQuestionLog:
		if d.Link.Endpoint == "" {
			return fmt.Errorf("game %q: link %s needs an endpoint", d.Name, d.Link.Kind)
		}
	default:
		return fmt.Errorf("game %q: unknown link kind %q", d.Name, d.Link.Kind)
	}
	return nil
}
