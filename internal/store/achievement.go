package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// EarnedAchievement is an achievement unlocked by a session.
type EarnedAchievement struct {
	Code      string
	SessionID string
	EarnedAt  time.Time
}

// GameTotal sums a game's history.
type GameTotal struct {
	Game      string
	Sessions  int
	Rounds    int
	Questions int     // correct + wrong over all rounds
	Points    float64 // sum of combined session scores
}

// AwardAchievements records codes as earned by sessionID. Codes already
// earned keep their original session and time.
func (s *Store) AwardAchievements(ctx context.Context, sessionID string, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	at := s.clock.Now().UnixMilli()
	ins := builder().Insert("achievements").
		Columns("code", "session_id", "earned_at").
		OnConflict(entsql.ConflictColumns("code"), entsql.DoNothing())
	for _, c := range codes {
		ins.Values(c, sessionID, at)
	}
	query, args := ins.Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("award achievements: %w", err)
	}
	return nil
}

// EarnedAchievements returns every earned achievement, newest first.
func (s *Store) EarnedAchievements(ctx context.Context) ([]EarnedAchievement, error) {
	b := builder()
	query, args := b.Select("code", "session_id", "earned_at").
		From(b.Table("achievements")).
		OrderBy(entsql.Desc("earned_at"), "code").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []EarnedAchievement
	for rows.Next() {
		var (
			a  EarnedAchievement
			at int64
		)
		if err := rows.Scan(&a.Code, &a.SessionID, &at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		a.EarnedAt = time.UnixMilli(at)
		out = append(out, a)
	}
	return out, rows.Err()
}

// GameTotals sums sessions and rounds per game, in game name order.
func (s *Store) GameTotals(ctx context.Context) ([]GameTotal, error) {
	b := builder()
	query, args := b.Select(
		"game",
		entsql.As(entsql.Count("*"), "sessions"),
		entsql.As(entsql.Sum("combined"), "points"),
	).
		From(b.Table("sessions")).
		GroupBy("game").
		OrderBy("game").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session totals: %w", err)
	}
	var out []GameTotal
	index := map[string]int{}
	for rows.Next() {
		var t GameTotal
		if err := rows.Scan(&t.Game, &t.Sessions, &t.Points); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session totals: %w", err)
		}
		index[t.Game] = len(out)
		out = append(out, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query, args = b.Select(
		"game",
		entsql.As(entsql.Count("*"), "rounds"),
		entsql.As("SUM(correct + wrong)", "questions"),
	).
		From(b.Table("rounds")).
		GroupBy("game").
		Query()
	var roundRows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &roundRows); err != nil {
		return nil, fmt.Errorf("query round totals: %w", err)
	}
	defer roundRows.Close()
	for roundRows.Next() {
		var (
			game              string
			rounds, questions int
		)
		if err := roundRows.Scan(&game, &rounds, &questions); err != nil {
			return nil, fmt.Errorf("scan round totals: %w", err)
		}
		i, ok := index[game]
		if !ok {
			// Rounds saved without a session.
			i = len(out)
			index[game] = i
			out = append(out, GameTotal{Game: game})
		}
		out[i].Rounds = rounds
		out[i].Questions = questions
	}
	return out, roundRows.Err()
}

// PlayDays returns up to limit distinct UTC days with a saved session,
// newest first.
func (s *Store) PlayDays(ctx context.Context, limit int) ([]time.Time, error) {
	b := builder()
	sel := b.Select(entsql.As("date(created_at / 1000, 'unixepoch')", "day")).
		Distinct().
		From(b.Table("sessions")).
		OrderBy(entsql.Desc("day"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query play days: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan play day: %w", err)
		}
		t, err := time.Parse(time.DateOnly, day)
		if err != nil {
			return nil, fmt.Errorf("parse play day %q: %w", day, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
