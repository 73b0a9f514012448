package home

import (
	"context"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/achievements"
	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/router"
	"github.com/abhisek/brainrush/internal/screen"
	"github.com/abhisek/brainrush/internal/screens/history"
	"github.com/abhisek/brainrush/internal/screens/play"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/ui/components"
)

// statsLoadedMsg carries the dashboard numbers read from history.
type statsLoadedMsg struct {
	Best     []store.BestScore
	Latest   *store.SessionRecord
	Unsynced int
	Err      error

	// UnsyncedErr reports a failed unsynced count; the rest still applies.
	UnsyncedErr error

	// Progress is nil without an achievements service or when it failed.
	Progress *achievements.Progress
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	deps  play.Deps
	games []games.Definition
	menu  components.Menu

	best          store.BestScore
	played        int
	unsynced      int
	progress      *achievements.Progress
	mascotVariant MascotVariant
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen listing the catalog's games. The cursor
// starts on defaultGame when it is in the catalog.
func New(deps play.Deps, defaultGame string) *HomeScreen {
	var defs []games.Definition
	if deps.Catalog != nil {
		defs = deps.Catalog.List()
	}

	var items []components.MenuItem
	selected := 0
	for i, d := range defs {
		name := d.Name
		label := strings.ToUpper(d.Title)
		if label == "" {
			label = strings.ToUpper(name)
		}
		if name == defaultGame {
			selected = i
		}
		var key string
		if i < 9 {
			key = strconv.Itoa(i + 1)
		}
		items = append(items, components.MenuItem{Label: label, Key: key, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: play.New(deps, name)}
			}
		}})
	}

	items = append(items, components.MenuItem{Label: "HISTORY", Key: "h", Disabled: deps.Store == nil, Action: func() tea.Cmd {
		return func() tea.Msg {
			return router.PushScreenMsg{Screen: history.New(deps.Store)}
		}
	}})

	items = append(items, components.MenuItem{Label: "EXIT", Key: "q", Action: func() tea.Cmd {
		return tea.Quit
	}})

	menu := components.NewMenu(items)
	if len(defs) > 0 {
		menu.Selected = selected
	}
	return &HomeScreen{
		deps:  deps,
		games: defs,
		menu:  menu,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	db := h.deps.Store
	if db == nil {
		return nil
	}
	ach := h.deps.Achievements
	logger := h.deps.Logger
	return func() tea.Msg {
		ctx := context.Background()
		best, err := db.BestScores(ctx)
		if err != nil {
			return statsLoadedMsg{Err: err}
		}
		msg := statsLoadedMsg{Best: best}
		if latest, err := db.RecentSessions(ctx, store.QueryOpts{Limit: 1}); err == nil && len(latest) > 0 {
			msg.Latest = &latest[0]
		}
		msg.Unsynced, msg.UnsyncedErr = db.UnsyncedRounds(ctx)
		if ach != nil {
			if p, err := ach.Progress(ctx); err != nil {
				logger.Warn().Err(err).Msg("loading achievement progress failed")
			} else {
				msg.Progress = &p
			}
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.Err != nil {
			h.deps.Logger.Warn().Err(msg.Err).Msg("loading home stats failed")
			return h, nil
		}
		h.applyStats(msg)
		if msg.UnsyncedErr != nil {
			h.deps.Logger.Warn().Err(msg.UnsyncedErr).Msg("counting unsynced rounds failed")
			return h, nil
		}
		count := h.unsynced
		return h, func() tea.Msg { return screen.UnsyncedMsg{Count: count} }

	case screen.ResumedMsg:
		return h, h.loadStats()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) applyStats(msg statsLoadedMsg) {
	h.best = store.BestScore{}
	h.played = 0
	for _, bs := range msg.Best {
		h.played += bs.Sessions
		if bs.Best > h.best.Best {
			h.best = bs
		}
	}
	h.unsynced = msg.Unsynced
	h.progress = msg.Progress

	h.mascotVariant = MascotIdle
	switch {
	case msg.Unsynced > 0:
		h.mascotVariant = MascotAlert
	case msg.Latest != nil && isBest(*msg.Latest, msg.Best):
		h.mascotVariant = MascotCelebrating
	}
}

// isBest reports whether the session holds its game's best score.
func isBest(s store.SessionRecord, best []store.BestScore) bool {
	for _, bs := range best {
		if bs.Game == s.Game {
			return s.Combined > 0 && s.Combined >= bs.Best
		}
	}
	return false
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 30 || width < 100

	// All sections share a uniform content width so they line up.
	cw := components.ContentWidth(width)

	var sections []string

	// 1. Title
	sections = append(sections, renderTitle(cw, compact))

	// 2. Mascot (full mode only)
	if !compact {
		sections = append(sections, renderMascotBox(h.mascotVariant, cw))
	}

	// 3. Stats bar (double-bordered, same width)
	sections = append(sections, renderStatsBar(h.best, h.played, h.unsynced, h.progress, cw, compact))

	// 4. Menu (same width box)
	sections = append(sections, h.menu.View(cw, compact || len(h.menu.Items) > 5))

	// 5. Description of the highlighted game
	if h.menu.Selected < len(h.games) {
		sections = append(sections, renderDescription(h.games[h.menu.Selected], cw))
	}

	content := strings.Join(sections, "\n\n")

	// Wrap in cabinet frame, centered in the full area
	return components.CabinetFrame(content, width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
