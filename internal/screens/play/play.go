package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	"github.com/abhisek/brainrush/internal/router"
	"github.com/abhisek/brainrush/internal/screen"
	"github.com/abhisek/brainrush/internal/screens/summary"
	sess "github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/store"
	"github.com/abhisek/brainrush/internal/submit"
	"github.com/abhisek/brainrush/internal/ui/components"
	"github.com/abhisek/brainrush/internal/ui/layout"
)

// phase is what the play screen is showing.
type phase int

const (
	phaseLoading phase = iota
	phaseRound
	phaseScoring
	phaseBreather
	phaseDone
	phaseError
)

// frameInterval refreshes the per-question clock.
const frameInterval = 200 * time.Millisecond

// PlayScreen runs one game session and renders its rounds.
type PlayScreen struct {
	deps    Deps
	game    string
	def     games.Definition
	session *sess.Session
	input   components.AnswerInput
	errMsg  string

	run     uint64
	waiting bool // dropping events of a restarted run

	phase      phase
	confirm    bool
	roundNum   int
	roundTotal int
	roundName  string
	roundDur   time.Duration
	remaining  time.Duration

	question  *problemgen.Question
	seq       uint64
	qIndex    int
	qLimit    time.Duration
	qDeadline time.Time
	revealing bool

	correct  int
	failed   int
	feedback string
	goodNews bool

	breather  time.Duration
	nextRound int
	outcomes  map[int]submit.Outcome
	notice    string

	summary *sess.Summary
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.EscapeHandler = (*PlayScreen)(nil)

// New creates a play screen for the named game.
func New(deps Deps, game string) *PlayScreen {
	return &PlayScreen{
		deps:     deps,
		game:     game,
		input:    components.NewAnswerInput("answer", components.InputNumeric, 24),
		outcomes: map[int]submit.Outcome{},
	}
}

func (p *PlayScreen) Init() tea.Cmd {
	if err := p.prepare(); err != nil {
		p.fail(err)
		return nil
	}
	return tea.Batch(p.input.Init(), p.start())
}

// prepare builds the session for the screen's game.
func (p *PlayScreen) prepare() error {
	if p.deps.Catalog == nil {
		return errors.New("no game catalog")
	}
	def, err := p.deps.Catalog.Get(p.game)
	if err != nil {
		return err
	}
	cfg, err := p.deps.Catalog.BuildDefinition(def, p.deps.Seed)
	if err != nil {
		return err
	}

	send := p.deps.Send
	s, err := sess.New(cfg, p.deps.Submitter,
		sess.WithClock(p.deps.clock()),
		sess.WithLogger(p.deps.Logger),
		sess.WithObserver(sess.ObserverFunc(func(ev any) {
			if send != nil {
				send(EventMsg{Event: ev})
			}
		})),
	)
	if err != nil {
		return err
	}
	p.def = def
	p.session = s
	return nil
}

// start runs the session in a command. The result carries the run
// number so a restarted screen ignores the old run's return.
func (p *PlayScreen) start() tea.Cmd {
	p.run++
	run := p.run
	s := p.session
	p.phase = phaseLoading
	return func() tea.Msg {
		st, err := s.Run(context.Background())
		return runDoneMsg{Run: run, State: st, Err: err}
	}
}

func (p *PlayScreen) fail(err error) {
	p.phase = phaseError
	p.errMsg = err.Error()
	p.deps.Logger.Error().Err(err).Str("game", p.game).Msg("play failed")
}

func (p *PlayScreen) Title() string {
	if p.def.Title != "" {
		return p.def.Title
	}
	return "Play"
}

// CapturesEscape keeps Esc on the screen while a session is running so
// it can ask before quitting.
func (p *PlayScreen) CapturesEscape() bool {
	return p.phase != phaseDone && p.phase != phaseError
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case p.phase == phaseError || p.phase == phaseDone:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case p.confirm:
		hints := []layout.KeyHint{{Key: "Y", Description: "Quit game"}}
		if p.phase == phaseRound {
			hints = append(hints, layout.KeyHint{Key: "E", Description: "End round"})
		}
		return append(hints, layout.KeyHint{Key: "N", Description: "Keep going"})
	case p.revealing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Hide pattern"},
			{Key: "Esc", Description: "Quit"},
		}
	case p.phase == phaseRound:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return p, p.handleEvent(msg.Event)

	case runDoneMsg:
		return p, p.handleRunDone(msg)

	case verdictMsg:
		p.handleVerdict(msg)
		return p, nil

	case hideMsg:
		if msg.Seq == p.seq {
			p.revealing = false
		}
		return p, nil

	case frameMsg:
		if msg.Seq == p.seq && p.phase == phaseRound && p.qLimit > 0 {
			return p, frameCmd(p.seq)
		}
		return p, nil

	case screen.RestartMsg:
		return p, p.restart()

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}

	if p.phase == phaseRound {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PlayScreen) handleEvent(ev any) tea.Cmd {
	if p.waiting {
		rs, ok := ev.(sess.RoundStarted)
		if !ok || rs.Number != 1 {
			return nil
		}
		p.waiting = false
	}
	if rev, ok := ev.(round.Event); ok && round.RoundOf(rev) != p.roundNum {
		return nil
	}

	switch ev := ev.(type) {
	case sess.RoundStarted:
		p.phase = phaseRound
		p.roundNum = ev.Number
		p.roundTotal = ev.Total
		p.roundName = ev.Name
		p.roundDur = ev.Duration
		p.remaining = ev.Duration
		p.correct, p.failed = 0, 0
		p.feedback = ""

	case round.QuestionShown:
		return p.showQuestion(ev)

	case round.AnswerJudged:
		if ev.Record != nil {
			if ev.Record.Correct() {
				p.correct++
			} else {
				p.failed++
			}
		}

	case round.QuestionTimedOut:
		p.failed++
		p.goodNews = false
		if p.question != nil {
			p.feedback = "Time's up! Answer: " + answerText(*p.question)
		}

	case round.Ticked:
		p.remaining = ev.Remaining

	case round.Ended:
		p.phase = phaseScoring
		p.question = nil
		p.revealing = false
		p.confirm = false

	case sess.RoundSubmitted:
		p.outcomes[ev.Number] = ev.Outcome

	case sess.BreatherStarted:
		p.phase = phaseBreather
		p.nextRound = ev.NextRound
		p.breather = ev.Duration

	case sess.BreatherTick:
		p.breather = ev.Remaining

	case sess.Linked:
		p.notice = linkNotice(ev)
	}
	return nil
}

func (p *PlayScreen) showQuestion(ev round.QuestionShown) tea.Cmd {
	q := ev.Question
	p.question = &q
	p.seq++
	p.qIndex = ev.Index
	p.qLimit = ev.Limit
	p.qDeadline = p.deps.clock().Now().Add(ev.Limit)

	mode := components.InputNumeric
	placeholder := "answer"
	switch q.Kind {
	case problemgen.KindPattern:
		mode = components.InputCells
		placeholder = "cells, e.g. A1 B3"
	case problemgen.KindKey:
		mode = components.InputKeys
		placeholder = "press the key"
	}
	p.input = components.NewAnswerInput(placeholder, mode, 48)

	cmds := []tea.Cmd{p.input.Init()}
	if q.Kind == problemgen.KindPattern {
		p.revealing = true
		seq := p.seq
		cmds = append(cmds, tea.Tick(revealTime(len(q.Pattern)), func(time.Time) tea.Msg {
			return hideMsg{Seq: seq}
		}))
	}
	if ev.Limit > 0 {
		cmds = append(cmds, frameCmd(p.seq))
	}
	return tea.Batch(cmds...)
}

func (p *PlayScreen) handleVerdict(msg verdictMsg) {
	v := msg.Verdict
	if v.Inactive {
		return
	}
	current := msg.Seq == p.seq

	switch v.Judgement {
	case problemgen.Ignored:
		p.goodNews = false
		switch {
		case p.question == nil:
		case p.question.Kind == problemgen.KindPattern:
			p.feedback = "Enter cells like A1 B3"
		case p.question.Kind == problemgen.KindKey:
			p.feedback = "Press " + p.question.Target
		default:
			p.feedback = "Enter a number"
		}
		return
	case problemgen.Correct:
		p.goodNews = true
		p.feedback = "Correct!"
	case problemgen.Wrong:
		p.goodNews = false
		switch {
		case v.Record != nil && v.Record.Missed:
			p.feedback = "Missed. Answer: " + answerText(msg.Question)
		case v.Attempts > 1:
			p.feedback = fmt.Sprintf("Not quite, try again (%d wrong)", v.Attempts)
		default:
			p.feedback = "Not quite, try again"
		}
	}
	if current && v.Record == nil {
		p.input.Clear()
		p.input.Mark(false)
	}
}

func (p *PlayScreen) handleRunDone(msg runDoneMsg) tea.Cmd {
	if msg.Run != p.run {
		return nil
	}
	if msg.Err != nil {
		if errors.Is(msg.Err, context.Canceled) {
			return nil
		}
		p.fail(msg.Err)
		return nil
	}

	p.phase = phaseDone
	p.question = nil
	sum := sess.BuildSummary(msg.State, p.def.RoundNames())
	p.summary = &sum

	opts := []summary.Option{summary.WithRestart(), summary.WithTitle(p.Title())}
	if p.notice != "" {
		opts = append(opts, summary.WithNotice(p.notice))
	}
	next := summary.New(sum, opts...)
	return tea.Sequence(
		func() tea.Msg { return router.PushScreenMsg{Screen: next} },
		p.save(msg.State, sum),
	)
}

// save writes the finished session to history.
func (p *PlayScreen) save(st sess.State, sum sess.Summary) tea.Cmd {
	db := p.deps.Store
	if db == nil {
		return nil
	}
	logger := p.deps.Logger
	ach := p.deps.Achievements
	return func() tea.Msg {
		ctx := context.Background()
		rec, rounds := store.FromSummary(st, sum)
		if err := db.SaveSession(ctx, rec, rounds); err != nil {
			logger.Error().Err(err).Str("session", rec.ID).Msg("saving session failed")
			return screen.HistorySavedMsg{Err: err}
		}
		if ach == nil {
			return screen.HistorySavedMsg{}
		}
		awards, err := ach.Check(ctx, rec, rounds)
		if err != nil {
			logger.Warn().Err(err).Str("session", rec.ID).Msg("checking achievements failed")
		}
		var earned []string
		for _, a := range awards {
			earned = append(earned, a.Name)
		}
		if len(earned) > 0 {
			logger.Info().Strs("achievements", earned).Str("session", rec.ID).Msg("achievements unlocked")
		}
		return screen.HistorySavedMsg{Earned: earned}
	}
}

func (p *PlayScreen) restart() tea.Cmd {
	if p.session == nil {
		return nil
	}
	if err := p.session.Restart(); err != nil {
		p.deps.Logger.Warn().Err(err).Msg("restart refused")
		return nil
	}
	p.waiting = true
	p.confirm = false
	p.question = nil
	p.revealing = false
	p.feedback = ""
	p.notice = ""
	p.summary = nil
	p.outcomes = map[int]submit.Outcome{}
	return tea.Batch(p.input.Init(), p.start())
}

func (p *PlayScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if p.phase == phaseError {
		return p, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if p.phase == phaseDone {
		if key == "esc" || key == "enter" {
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return p, nil
	}

	if p.confirm {
		switch key {
		case "y", "Y":
			p.confirm = false
			p.session.Stop()
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		case "e", "E":
			p.confirm = false
			s := p.session
			return p, func() tea.Msg {
				s.EndRound()
				return nil
			}
		case "n", "N", "esc":
			p.confirm = false
		}
		return p, nil
	}

	switch key {
	case "esc":
		p.confirm = true
		return p, nil
	case "enter":
		if p.revealing {
			p.revealing = false
			return p, nil
		}
		return p, p.answer()
	}

	if p.phase == phaseRound && !p.revealing {
		// Reaction questions are answered by the keypress itself.
		if p.question != nil && p.question.Kind == problemgen.KindKey && len([]rune(key)) == 1 {
			return p, p.submit(key)
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

// answer submits the input from a command so the update loop never
// waits on the round's lock.
func (p *PlayScreen) answer() tea.Cmd {
	return p.submit(p.input.Value())
}

func (p *PlayScreen) submit(input string) tea.Cmd {
	if p.phase != phaseRound || p.question == nil {
		return nil
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	s := p.session
	seq := p.seq
	q := *p.question
	return func() tea.Msg {
		return verdictMsg{Seq: seq, Question: q, Verdict: s.Answer(input)}
	}
}

// frameMsg redraws the per-question clock of question Seq.
type frameMsg struct {
	Seq uint64
}

func frameCmd(seq uint64) tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{Seq: seq} })
}

// revealTime is how long a pattern of n cells stays lit.
func revealTime(n int) time.Duration {
	d := time.Second + time.Duration(n)*300*time.Millisecond
	return min(d, 4*time.Second)
}

func linkNotice(ev sess.Linked) string {
	switch {
	case ev.Skipped:
		return "Session not linked: a round has no server score"
	case ev.Outcome.Err != nil:
		return "Session link failed, scores kept locally"
	case ev.Outcome.Message != "":
		return ev.Outcome.Message
	}
	return ""
}
