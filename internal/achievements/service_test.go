package achievements

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abhisek/brainrush/internal/games"
	"github.com/abhisek/brainrush/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store, *clockwork.FakeClock) {
	t.Helper()
	fc := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	db, err := store.OpenPath(filepath.Join(t.TempDir(), "brainrush.db"), store.WithClock(fc))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewService(db, games.Builtin(), WithClock(fc)), db, fc
}

func save(t *testing.T, db *store.Store, sess store.SessionRecord, rounds ...store.RoundRecord) {
	t.Helper()
	if err := db.SaveSession(context.Background(), sess, rounds); err != nil {
		t.Fatalf("save %s: %v", sess.ID, err)
	}
}

func codes(awards []Award) []Code {
	out := make([]Code, len(awards))
	for i, a := range awards {
		out[i] = a.Code
	}
	return out
}

func TestServiceCheckAwardsOnce(t *testing.T) {
	svc, db, fc := newTestService(t)
	ctx := context.Background()

	sess := store.SessionRecord{ID: "s1", Game: "sprint", Combined: 50}
	round := store.RoundRecord{Round: 1, Correct: 12, AvgTimeMs: 2000}
	save(t, db, sess, round)

	got, err := svc.Check(ctx, sess, []store.RoundRecord{round})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(got) != 1 || got[0].Code != MathPerfect {
		t.Fatalf("awards = %v, want [%s]", codes(got), MathPerfect)
	}
	if got[0].SessionID != "s1" || !got[0].EarnedAt.Equal(fc.Now()) {
		t.Errorf("award = %+v", got[0])
	}

	fc.Advance(time.Hour)
	sess2 := store.SessionRecord{ID: "s2", Game: "sprint", Combined: 70}
	save(t, db, sess2, round)
	got, err = svc.Check(ctx, sess2, []store.RoundRecord{round})
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if len(got) != 1 || got[0].Code != Comeback {
		t.Errorf("second awards = %v, want only %s", codes(got), Comeback)
	}

	earned, err := svc.Earned(ctx)
	if err != nil {
		t.Fatalf("earned: %v", err)
	}
	if len(earned) != 2 || earned[0].Code != Comeback {
		t.Errorf("earned = %v, want Comeback newest", codes(earned))
	}
}

func TestServiceProgress(t *testing.T) {
	svc, db, fc := newTestService(t)
	ctx := context.Background()

	for i, id := range []string{"a", "b", "c"} {
		if i > 0 {
			fc.Advance(24 * time.Hour)
		}
		save(t, db, store.SessionRecord{ID: id, Game: "memory", Combined: 10})
	}
	if err := db.AwardAchievements(ctx, "c", []string{string(Streak3), "RETIRED_CODE"}); err != nil {
		t.Fatalf("award: %v", err)
	}

	got, err := svc.Progress(ctx)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	want := Progress{Earned: 1, Total: len(All()), Streak: 3, NextGoal: 7}
	if got != want {
		t.Errorf("Progress() = %+v, want %+v", got, want)
	}
}
