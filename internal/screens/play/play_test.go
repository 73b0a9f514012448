package play

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	"github.com/abhisek/brainrush/internal/screen"
	sess "github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/submit"
	"github.com/abhisek/brainrush/internal/ui/components"
)

func testDeps(t *testing.T) (Deps, chan tea.Msg) {
	t.Helper()
	catalog := games.NewCatalog()
	err := catalog.Add(games.Definition{
		Name:  "quick",
		Title: "Quick",
		Rounds: []games.RoundDef{
			{Name: "Warmup", Generator: games.GeneratorBasic, Duration: 30 * time.Second, MaxQuestions: 2},
		},
	})
	if err != nil {
		t.Fatalf("adding test game: %v", err)
	}
	err = catalog.Add(games.Definition{
		Name:  "keys",
		Title: "Keys",
		Rounds: []games.RoundDef{{
			Name: "Keys", Generator: games.GeneratorReaction, QuestionLimit: 2 * time.Second,
			MaxQuestions: 2, MaxAttempts: 1, Scoring: games.ScoringReaction,
		}},
	})
	if err != nil {
		t.Fatalf("adding reaction game: %v", err)
	}

	msgs := make(chan tea.Msg, 1024)
	return Deps{
		Catalog:   catalog,
		Submitter: submit.Offline{},
		Clock:     clockwork.NewFakeClock(),
		Logger:    zerolog.Nop(),
		Seed:      7,
		Send:      func(m tea.Msg) { msgs <- m },
	}, msgs
}

// pumpUntil feeds relayed events to the screen until cond holds.
func pumpUntil(t *testing.T, p *PlayScreen, msgs <-chan tea.Msg, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case m := <-msgs:
			p.Update(m)
		case <-deadline:
			t.Fatal("timed out waiting for play screen state")
		}
	}
}

func startRun(t *testing.T, p *PlayScreen) <-chan tea.Msg {
	t.Helper()
	if err := p.prepare(); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	run := p.start()
	done := make(chan tea.Msg, 1)
	go func() { done <- run() }()
	return done
}

func waitDone(t *testing.T, done <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case m := <-done:
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
		return nil
	}
}

func submitAnswer(t *testing.T, p *PlayScreen, input string) verdictMsg {
	t.Helper()
	p.input.Model.SetValue(input)
	cmd := p.answer()
	if cmd == nil {
		t.Fatal("expected an answer command")
	}
	msg, ok := cmd().(verdictMsg)
	if !ok {
		t.Fatal("expected a verdict")
	}
	p.Update(msg)
	return msg
}

func TestPlayScreen_FullGame(t *testing.T) {
	deps, msgs := testDeps(t)
	p := New(deps, "quick")
	done := startRun(t, p)

	pumpUntil(t, p, msgs, func() bool { return p.phase == phaseRound && p.seq == 1 })
	if p.roundName != "Warmup" || p.roundTotal != 1 {
		t.Errorf("round header = %q of %d", p.roundName, p.roundTotal)
	}

	v := submitAnswer(t, p, answerText(*p.question))
	if v.Verdict.Judgement != problemgen.Correct {
		t.Fatalf("first answer judged %v", v.Verdict.Judgement)
	}
	if p.feedback != "Correct!" {
		t.Errorf("feedback = %q", p.feedback)
	}

	pumpUntil(t, p, msgs, func() bool { return p.seq == 2 })
	submitAnswer(t, p, answerText(*p.question))

	_, cmd := p.Update(waitDone(t, done))
	if cmd == nil {
		t.Fatal("expected summary navigation")
	}
	if p.phase != phaseDone {
		t.Fatalf("phase = %v, want done", p.phase)
	}
	if p.summary == nil || p.summary.Correct != 2 || len(p.summary.Rounds) != 1 {
		t.Fatalf("summary = %+v", p.summary)
	}
	if p.summary.Rounds[0].Authoritative {
		t.Error("offline round should not be authoritative")
	}
	if p.summary.Rounds[0].Name != "Warmup" {
		t.Errorf("round name = %q", p.summary.Rounds[0].Name)
	}
	if p.CapturesEscape() {
		t.Error("a finished screen should let Esc pop it")
	}
}

func pressKey(t *testing.T, p *PlayScreen, key string) verdictMsg {
	t.Helper()
	r := []rune(strings.ToLower(key))[0]
	_, cmd := p.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	if cmd == nil {
		t.Fatalf("key %q did not submit", key)
	}
	msg, ok := cmd().(verdictMsg)
	if !ok {
		t.Fatal("expected a verdict")
	}
	p.Update(msg)
	return msg
}

func TestPlayScreen_ReactionKeys(t *testing.T) {
	deps, msgs := testDeps(t)
	p := New(deps, "keys")
	done := startRun(t, p)

	pumpUntil(t, p, msgs, func() bool { return p.phase == phaseRound && p.seq == 1 })
	if p.input.Mode != components.InputKeys {
		t.Error("reaction questions take key input")
	}
	target := p.question.Target
	if !strings.Contains(p.View(100, 30), target) {
		t.Error("expected the key on screen")
	}
	if v := pressKey(t, p, target); v.Verdict.Judgement != problemgen.Correct {
		t.Fatalf("pressing %q judged %v", target, v.Verdict.Judgement)
	}

	pumpUntil(t, p, msgs, func() bool { return p.seq == 2 })
	wrong := "F"
	if p.question.Target == "F" {
		wrong = "J"
	}
	v := pressKey(t, p, wrong)
	if v.Verdict.Judgement != problemgen.Wrong || v.Verdict.Record == nil || !v.Verdict.Record.Missed {
		t.Fatalf("wrong key verdict = %+v", v.Verdict)
	}
	if !strings.HasPrefix(p.feedback, "Missed. Answer: ") {
		t.Errorf("feedback = %q", p.feedback)
	}

	p.Update(waitDone(t, done))
	if p.summary == nil || p.summary.Correct != 1 || p.summary.Questions != 2 {
		t.Fatalf("summary = %+v", p.summary)
	}
}

func TestPlayScreen_DropsOtherRoundEvents(t *testing.T) {
	deps, _ := testDeps(t)
	p := New(deps, "quick")
	p.handleEvent(sess.RoundStarted{Number: 2, Total: 3, Name: "Mixed", Duration: time.Minute})
	p.handleEvent(round.Ticked{Round: 1, Remaining: time.Second})
	if p.remaining != time.Minute {
		t.Errorf("a tick of round 1 changed round 2's clock to %v", p.remaining)
	}
	p.handleEvent(round.Ticked{Round: 2, Remaining: 30 * time.Second})
	if p.remaining != 30*time.Second {
		t.Errorf("remaining = %v, want 30s", p.remaining)
	}
}

func TestPlayScreen_WrongAnswerRetries(t *testing.T) {
	deps, msgs := testDeps(t)
	p := New(deps, "quick")
	done := startRun(t, p)
	defer func() {
		p.session.Stop()
		waitDone(t, done)
	}()

	pumpUntil(t, p, msgs, func() bool { return p.seq == 1 })
	want := p.question.Answer

	v := submitAnswer(t, p, "987654")
	if v.Verdict.Judgement != problemgen.Wrong || v.Verdict.Record != nil {
		t.Fatalf("verdict = %+v, want a retryable wrong", v.Verdict)
	}
	if p.feedback != "Not quite, try again" {
		t.Errorf("feedback = %q", p.feedback)
	}
	if p.input.Value() != "" {
		t.Error("input should be cleared after a wrong answer")
	}
	if p.seq != 1 || p.question.Answer != want {
		t.Error("question should stay current after a wrong answer")
	}

	submitAnswer(t, p, "-")
	if p.feedback != "Enter a number" {
		t.Errorf("ignored input feedback = %q", p.feedback)
	}
}

func TestPlayScreen_QuitConfirm(t *testing.T) {
	deps, msgs := testDeps(t)
	p := New(deps, "quick")
	done := startRun(t, p)

	pumpUntil(t, p, msgs, func() bool { return p.seq == 1 })

	p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !p.confirm {
		t.Fatal("Esc should ask before quitting")
	}
	if !p.CapturesEscape() {
		t.Error("a running screen should capture Esc")
	}
	p.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if p.confirm {
		t.Fatal("N should dismiss the dialog")
	}

	p.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := p.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if cmd == nil {
		t.Fatal("expected pop after quitting")
	}

	if _, cmd := p.Update(waitDone(t, done)); cmd != nil {
		t.Error("a cancelled run should not navigate")
	}
	if p.phase == phaseError {
		t.Errorf("cancelled run reported an error: %s", p.errMsg)
	}
}

func TestPlayScreen_Restart(t *testing.T) {
	deps, msgs := testDeps(t)
	p := New(deps, "quick")
	done := startRun(t, p)

	for i := 1; i <= 2; i++ {
		pumpUntil(t, p, msgs, func() bool { return p.seq == uint64(i) })
		submitAnswer(t, p, answerText(*p.question))
	}
	p.Update(waitDone(t, done))

	_, cmd := p.Update(screen.RestartMsg{})
	if cmd == nil {
		t.Fatal("expected a new run")
	}
	if !p.waiting || p.run != 2 || p.phase != phaseLoading {
		t.Errorf("after restart: waiting=%v run=%d phase=%v", p.waiting, p.run, p.phase)
	}

	// Events of the old run are dropped until the new one starts.
	p.Update(EventMsg{Event: sess.Restarted{}})
	p.Update(EventMsg{Event: round.Ticked{Round: 1, Remaining: time.Second}})
	if p.remaining == time.Second {
		t.Error("stale tick should be dropped")
	}
	p.Update(EventMsg{Event: sess.RoundStarted{Number: 1, Total: 1, Name: "Warmup", Duration: 30 * time.Second}})
	if p.waiting || p.phase != phaseRound {
		t.Error("first round of the new run should be shown")
	}

	// Stale run results are ignored.
	if _, cmd := p.Update(runDoneMsg{Run: 1}); cmd != nil {
		t.Error("stale run result should be ignored")
	}
}

func TestPlayScreen_UnknownGame(t *testing.T) {
	deps, _ := testDeps(t)
	p := New(deps, "nope")
	if cmd := p.Init(); cmd != nil {
		t.Error("expected no command for an unknown game")
	}
	if p.phase != phaseError {
		t.Fatal("expected error phase")
	}
	if !strings.Contains(p.View(80, 20), "unknown game") {
		t.Errorf("view = %q", p.View(80, 20))
	}
}

func TestPlayScreen_BreatherShowsLocalScores(t *testing.T) {
	deps, _ := testDeps(t)
	p := New(deps, "quick")

	p.handleEvent(sess.RoundSubmitted{Number: 1, Outcome: submit.Local(12, nil)})
	p.handleEvent(sess.BreatherStarted{NextRound: 2, Duration: 3 * time.Second})

	view := p.View(100, 30)
	for _, want := range []string{"Round 1: 12", "saved locally", "0:03"} {
		if !strings.Contains(view, want) {
			t.Errorf("breather view missing %q", want)
		}
	}

	p.handleEvent(sess.BreatherTick{NextRound: 2, Remaining: time.Second})
	if !strings.Contains(p.View(100, 30), "0:01") {
		t.Error("expected breather countdown to update")
	}
}

func TestPlayScreen_PatternReveal(t *testing.T) {
	deps, _ := testDeps(t)
	p := New(deps, "quick")
	p.handleEvent(sess.RoundStarted{Number: 1, Total: 3, Name: "Pattern"})

	q := problemgen.Question{
		Expression: "Recall 2 cells",
		Answer:     2,
		Kind:       problemgen.KindPattern,
		Category:   problemgen.CategoryPattern,
		Pattern:    []problemgen.Cell{{Row: 0, Col: 0}, {Row: 1, Col: 2}},
		GridSize:   3,
	}
	if cmd := p.handleEvent(round.QuestionShown{Round: 1, Index: 1, Question: q, Limit: 10 * time.Second}); cmd == nil {
		t.Fatal("expected reveal timer")
	}
	if !p.revealing {
		t.Fatal("pattern should be revealed first")
	}
	if p.input.Mode != components.InputCells {
		t.Error("pattern questions take cell input")
	}
	if !strings.Contains(p.View(100, 30), "Memorize 2 cells") {
		t.Error("expected memorize prompt")
	}

	p.Update(hideMsg{Seq: p.seq - 1})
	if !p.revealing {
		t.Error("a stale hide should be ignored")
	}
	p.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if p.revealing {
		t.Error("Enter should hide the pattern early")
	}
	if !strings.Contains(p.View(100, 30), "Recall 2 cells") {
		t.Error("expected recall prompt after hiding")
	}

	p.handleEvent(round.QuestionTimedOut{Round: 1})
	if p.feedback != "Time's up! Answer: A1 C2" {
		t.Errorf("feedback = %q", p.feedback)
	}
}

func TestLinkNotice(t *testing.T) {
	if got := linkNotice(sess.Linked{Skipped: true}); !strings.Contains(got, "not linked") {
		t.Errorf("skipped notice = %q", got)
	}
	if got := linkNotice(sess.Linked{Outcome: submit.Outcome{Message: "Playing as guest"}}); got != "Playing as guest" {
		t.Errorf("message notice = %q", got)
	}
	if got := linkNotice(sess.Linked{Outcome: submit.Outcome{Authoritative: true}}); got != "" {
		t.Errorf("clean link notice = %q", got)
	}
}

func TestRevealTime(t *testing.T) {
	if got := revealTime(3); got != 1900*time.Millisecond {
		t.Errorf("revealTime(3) = %v", got)
	}
	if got := revealTime(40); got != 4*time.Second {
		t.Errorf("revealTime(40) = %v, want cap", got)
	}
}
