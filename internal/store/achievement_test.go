package store

import (
	"context"
	"testing"
	"time"
)

func TestAwardAchievementsKeepsFirstEarn(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	if err := s.AwardAchievements(ctx, "s1", []string{"PLAY_10_GAMES"}); err != nil {
		t.Fatalf("award: %v", err)
	}
	fc.Advance(time.Hour)
	if err := s.AwardAchievements(ctx, "s2", []string{"PLAY_10_GAMES", "NIGHT_OWL"}); err != nil {
		t.Fatalf("award again: %v", err)
	}
	if err := s.AwardAchievements(ctx, "s3", nil); err != nil {
		t.Fatalf("award nothing: %v", err)
	}

	got, err := s.EarnedAchievements(ctx)
	if err != nil {
		t.Fatalf("earned: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("earned = %+v, want 2", got)
	}
	if got[0].Code != "NIGHT_OWL" || got[0].SessionID != "s2" {
		t.Errorf("newest = %+v, want NIGHT_OWL from s2", got[0])
	}
	if got[1].Code != "PLAY_10_GAMES" || got[1].SessionID != "s1" {
		t.Errorf("oldest = %+v, want PLAY_10_GAMES kept on s1", got[1])
	}
}

func TestGameTotals(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	save := func(id, game string, combined float64, rounds ...RoundRecord) {
		t.Helper()
		if err := s.SaveSession(ctx, SessionRecord{ID: id, Game: game, Combined: combined}, rounds); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	save("s1", "sprint", 40, RoundRecord{Round: 1, Correct: 8, Wrong: 2}, RoundRecord{Round: 2, Correct: 5})
	save("s2", "sprint", 60, RoundRecord{Round: 1, Correct: 10, TimedOut: 3})
	save("s3", "memory", 300)

	got, err := s.GameTotals(ctx)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	want := []GameTotal{
		{Game: "memory", Sessions: 1, Points: 300},
		{Game: "sprint", Sessions: 2, Rounds: 3, Questions: 25, Points: 100},
	}
	if len(got) != len(want) {
		t.Fatalf("totals = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("totals[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPlayDays(t *testing.T) {
	s, fc := openTestStore(t)
	ctx := context.Background()

	for i, step := range []time.Duration{0, time.Hour, 24 * time.Hour, 48 * time.Hour} {
		fc.Advance(step)
		id := string(rune('a' + i))
		if err := s.SaveSession(ctx, SessionRecord{ID: id, Game: "sprint"}, nil); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	days, err := s.PlayDays(ctx, 0)
	if err != nil {
		t.Fatalf("play days: %v", err)
	}
	want := []string{"2026-03-04", "2026-03-02", "2026-03-01"}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i, w := range want {
		if got := days[i].Format(time.DateOnly); got != w {
			t.Errorf("days[%d] = %s, want %s", i, got, w)
		}
	}

	days, err = s.PlayDays(ctx, 1)
	if err != nil {
		t.Fatalf("play days limit: %v", err)
	}
	if len(days) != 1 {
		t.Errorf("limited days = %d, want 1", len(days))
	}
}
