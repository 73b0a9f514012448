package play

import (
	tea "charm.land/bubbletea/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/abhisek/brainrush/internal/achievements"
	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/submit"
)

// Deps are the collaborators a play screen needs. Store may be nil, in
// which case finished sessions are not kept.
type Deps struct {
	Catalog   *games.Catalog
	Submitter submit.Submitter
	Store     *store.Store
	Clock     clockwork.Clock
	Logger    zerolog.Logger

	// Achievements are checked after each saved session when set.
	Achievements *achievements.Service

	// Seed fixes question generation. Zero picks a random seed per game.
	Seed uint64

	// Send delivers a message to the running program. It must not block.
	Send func(tea.Msg)
}

func (d Deps) clock() clockwork.Clock {
	if d.Clock == nil {
		return clockwork.NewRealClock()
	}
	return d.Clock
}
