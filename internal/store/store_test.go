package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/session"
	"github.com/abhisek/brainrush/internal/stats"
	"github.com/abhisek/brainrush/internal/submit"
)

func openTestStore(t *testing.T) (*Store, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s, err := OpenPath(filepath.Join(t.TempDir(), "data", "brainrush.db"), WithClock(fc))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, fc
}

func TestPragmasApplied(t *testing.T) {
	s, _ := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brainrush.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.SaveRound(context.Background(), RoundRecord{SessionID: "a", Game: "sprint", Round: 1, Score: 5}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rounds, err := s.RecentRounds(context.Background(), QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("rounds after reopen = %d, want 1", len(rounds))
	}
}

func TestSaveRoundAndRecent(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	fastest := int64(800)
	for i := 1; i <= 3; i++ {
		_, err := s.SaveRound(ctx, RoundRecord{
			SessionID:     "sess",
			Game:          "gauntlet",
			Round:         i,
			Name:          "Round",
			Score:         float64(10 * i),
			LocalScore:    float64(9 * i),
			Authoritative: i != 2,
			Correct:       i,
			MinTimeMs:     &fastest,
			Duration:      time.Minute,
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		fc.Advance(time.Second)
	}
	if _, err := s.SaveRound(ctx, RoundRecord{SessionID: "other", Game: "sprint", Round: 1}); err != nil {
		t.Fatalf("save sprint: %v", err)
	}

	rounds, err := s.RecentRounds(ctx, QueryOpts{Game: "gauntlet", Limit: 2})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("len = %d, want 2", len(rounds))
	}
	if rounds[0].Round != 3 || rounds[1].Round != 2 {
		t.Errorf("order = %d,%d, want 3,2", rounds[0].Round, rounds[1].Round)
	}
	if rounds[1].Authoritative {
		t.Error("round 2 should be unauthoritative")
	}
	if rounds[0].MinTimeMs == nil || *rounds[0].MinTimeMs != 800 {
		t.Errorf("min time = %v, want 800", rounds[0].MinTimeMs)
	}
	if rounds[0].Duration != time.Minute {
		t.Errorf("duration = %v, want 1m", rounds[0].Duration)
	}

	all, err := s.RecentRounds(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("all rounds = %d, want 4", len(all))
	}
	if all[0].MinTimeMs != nil {
		t.Error("round without a correct answer should have nil min time")
	}

	n, err := s.UnsyncedRounds(ctx)
	if err != nil {
		t.Fatalf("unsynced: %v", err)
	}
	if n != 2 {
		t.Errorf("unsynced = %d, want 2", n)
	}
}

func TestSaveSessionAndBestScores(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	save := func(id, game string, combined float64) {
		t.Helper()
		err := s.SaveSession(ctx, SessionRecord{ID: id, Game: game, Combined: combined, Rounds: 1},
			[]RoundRecord{{Round: 1, Score: combined}})
		if err != nil {
			t.Fatalf("save session %s: %v", id, err)
		}
		fc.Advance(time.Minute)
	}
	save("s1", "sprint", 40)
	save("s2", "sprint", 55)
	save("s3", "gauntlet", 120)

	best, err := s.BestScores(ctx)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("games = %d, want 2", len(best))
	}
	if best[0].Game != "gauntlet" || best[0].Best != 120 {
		t.Errorf("best[0] = %+v", best[0])
	}
	if best[1].Best != 55 || best[1].Sessions != 2 {
		t.Errorf("best[1] = %+v, want best 55 over 2 sessions", best[1])
	}

	rounds, err := s.RecentRounds(ctx, QueryOpts{Game: "sprint"})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 2 || rounds[0].SessionID != "s2" {
		t.Errorf("rounds = %+v, want session rounds inherited from s2 first", rounds)
	}

	rounds, err = s.RecentRounds(ctx, QueryOpts{Session: "s1"})
	if err != nil {
		t.Fatalf("session rounds: %v", err)
	}
	if len(rounds) != 1 || rounds[0].Score != 40 {
		t.Errorf("rounds of s1 = %+v", rounds)
	}

	sessions, err := s.RecentSessions(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "s3" {
		t.Errorf("latest session = %+v, want s3", sessions)
	}
}

func TestSaveSessionDuplicateRollsBack(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	rec := SessionRecord{ID: "dup", Game: "sprint"}
	if err := s.SaveSession(ctx, rec, []RoundRecord{{Round: 1}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.SaveSession(ctx, rec, []RoundRecord{{Round: 1}}); err == nil {
		t.Fatal("expected duplicate session id to fail")
	}
	rounds, err := s.RecentRounds(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(rounds) != 1 {
		t.Errorf("rounds = %d, want 1 after rollback", len(rounds))
	}
}

func TestRecordSubmission(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	attempts := []submit.Attempt{
		{Endpoint: "/api/math-game/round1/submit", Payload: json.RawMessage(`{"correct_count":2}`), Status: 200,
			Response: json.RawMessage(`{"score":21}`), LatencyMs: 40, Success: true},
		{Endpoint: "/api/math-game/round2/submit", LatencyMs: 20, Error: "server unavailable"},
	}
	for _, a := range attempts {
		if err := s.RecordSubmission(ctx, a); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	st, err := s.Submissions(ctx)
	if err != nil {
		t.Fatalf("submissions: %v", err)
	}
	if st.Total != 2 || st.Failed != 1 {
		t.Errorf("stats = %+v, want 2 total 1 failed", st)
	}
	if st.AvgMs != 30 {
		t.Errorf("avg = %v, want 30", st.AvgMs)
	}
}

func TestFromSummary(t *testing.T) {
	fastest := int64(700)
	st := session.State{
		ID:        "sess",
		Game:      "gauntlet",
		SessionID: "srv-1",
		ScoreIDs:  map[int]string{1: "r1"},
		Outcomes:  map[int]submit.Outcome{1: {Score: 30, LocalScore: 28, Authoritative: true}},
		Snapshots: map[int]stats.Snapshot{1: {
			Correct: 3, Wrong: 1, TotalMs: 2100, MinMs: &fastest,
			Records: []stats.QuestionRecord{{Index: 1}, {Index: 2}, {Index: 3}, {Index: 4, TimedOut: true}},
		}},
		Combined:  30,
	}
	sum := session.BuildSummary(st, map[int]string{1: "Basic"})
	sess, rounds := FromSummary(st, sum)

	if sess.ID != "sess" || sess.ServerSessionID != "srv-1" || sess.Rounds != 1 {
		t.Errorf("session = %+v", sess)
	}
	if sess.Questions != 4 || sess.Correct != 3 {
		t.Errorf("questions/correct = %d/%d, want 4/3", sess.Questions, sess.Correct)
	}
	if len(rounds) != 1 {
		t.Fatalf("rounds = %d, want 1", len(rounds))
	}
	r := rounds[0]
	if r.Name != "Basic" || r.ScoreID != "r1" || r.Score != 30 || !r.Authoritative {
		t.Errorf("round = %+v", r)
	}
	if r.MinTimeMs == nil || *r.MinTimeMs != 700 {
		t.Errorf("min time = %v, want 700", r.MinTimeMs)
	}
	if len(r.Categories) != 0 {
		t.Errorf("categories = %+v, want none without category aggregates", r.Categories)
	}
}

func categoryState(id string, answers ...func(*stats.RoundStats)) session.State {
	rs := stats.NewRoundStats()
	for _, a := range answers {
		a(rs)
	}
	return session.State{
		ID:        id,
		Game:      "sprint",
		Outcomes:  map[int]submit.Outcome{1: {Score: 10}},
		Snapshots: map[int]stats.Snapshot{1: rs.Freeze(time.Minute, true)},
	}
}

func correct(cat problemgen.Category, ms int) func(*stats.RoundStats) {
	return func(rs *stats.RoundStats) {
		rs.RecordCorrect(problemgen.Question{Category: cat}, time.Duration(ms)*time.Millisecond, 0)
	}
}

func timeout(cat problemgen.Category, ms int) func(*stats.RoundStats) {
	return func(rs *stats.RoundStats) {
		rs.RecordTimeout(problemgen.Question{Category: cat}, time.Duration(ms)*time.Millisecond, 0, 0)
	}
}

func TestRecentCategoryAverages(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	save := func(st session.State) {
		t.Helper()
		sess, rounds := FromSummary(st, session.BuildSummary(st, map[int]string{1: "Sprint"}))
		if err := s.SaveSession(ctx, sess, rounds); err != nil {
			t.Fatalf("save %s: %v", st.ID, err)
		}
		fc.Advance(time.Minute)
	}
	save(categoryState("old", correct(problemgen.CategoryAdd, 4000)))
	save(categoryState("new",
		correct(problemgen.CategoryAdd, 1000),
		correct(problemgen.CategoryAdd, 2000),
		timeout(problemgen.CategorySub, 30000),
		correct(problemgen.CategoryMul, 500),
	))

	got, err := s.RecentCategoryAverages(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("averages: %v", err)
	}
	want := []CategoryAverage{
		{Category: "addition", Count: 3, AvgTimeMs: 7000.0 / 3},
		{Category: "multiplication", Count: 1, AvgTimeMs: 500},
	}
	if len(got) != len(want) {
		t.Fatalf("averages = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Category != want[i].Category || got[i].Count != want[i].Count {
			t.Errorf("average %d = %+v, want %+v", i, got[i], want[i])
		}
		if diff := got[i].AvgTimeMs - want[i].AvgTimeMs; diff > 0.001 || diff < -0.001 {
			t.Errorf("%s avg = %v, want %v", got[i].Category, got[i].AvgTimeMs, want[i].AvgTimeMs)
		}
	}

	latest, err := s.RecentCategoryAverages(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("latest averages: %v", err)
	}
	if len(latest) != 2 || latest[0].Count != 2 || latest[0].AvgTimeMs != 1500 {
		t.Errorf("latest round averages = %+v, want addition 2 @ 1500", latest)
	}

	other, err := s.RecentCategoryAverages(ctx, QueryOpts{Game: "memory"})
	if err != nil {
		t.Fatalf("memory averages: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("memory averages = %+v, want none", other)
	}
}
