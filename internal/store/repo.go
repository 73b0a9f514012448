package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts filters history queries.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	Game  string    // only this game when set
	From  time.Time // created_at >= From

	// Session keeps only the rounds of one session.
	Session string
}

// RoundRecord is one finished round.
type RoundRecord struct {
	ID            int64
	SessionID     string
	Game          string
	Round         int
	Name          string
	Score         float64
	LocalScore    float64
	Authoritative bool
	Flagged       bool
	ScoreID       string
	Correct       int
	Wrong         int
	TimedOut      int
	AvgTimeMs     float64
	MinTimeMs     *int64
	Duration      time.Duration
	CreatedAt     time.Time

	// Categories is written with the round but not read back by
	// RecentRounds; RecentCategoryAverages aggregates it.
	Categories []CategoryTime
}

// CategoryTime is the correct-answer timing of one category in a round.
// Timed out and missed questions never contribute.
type CategoryTime struct {
	Category  string
	Count     int
	AvgTimeMs float64
}

// SessionRecord is one finished session.
type SessionRecord struct {
	ID              string
	Game            string
	Combined        float64
	Authoritative   bool
	Flagged         bool
	ServerSessionID string
	Rounds          int
	Questions       int
	Correct         int
	CreatedAt       time.Time
}

// BestScore is the best combined score of a game.
type BestScore struct {
	Game     string
	Best     float64
	Sessions int
	Last     time.Time
}

var roundColumns = []string{
	"session_id", "game", "round", "name", "score", "local_score", "authoritative", "flagged",
	"score_id", "correct", "wrong", "timed_out", "avg_time_ms", "min_time_ms", "duration_ms", "created_at",
}

var sessionColumns = []string{
	"id", "game", "combined", "authoritative", "flagged", "server_session_id",
	"rounds", "questions", "correct", "created_at",
}

type execer interface {
	Exec(ctx context.Context, query string, args, v any) error
}

// SaveRound stores a finished round and its category timings and returns
// the round's row ID. Without a transaction a failed category insert
// leaves the round row behind; SaveSession does not.
func (s *Store) SaveRound(ctx context.Context, r RoundRecord) (int64, error) {
	return s.insertRound(ctx, s.drv, r)
}

func (s *Store) insertRound(ctx context.Context, ex execer, r RoundRecord) (int64, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.clock.Now()
	}
	var minMs any
	if r.MinTimeMs != nil {
		minMs = *r.MinTimeMs
	}
	query, args := builder().Insert("rounds").
		Columns(roundColumns...).
		Values(r.SessionID, r.Game, r.Round, r.Name, r.Score, r.LocalScore, r.Authoritative, r.Flagged,
			r.ScoreID, r.Correct, r.Wrong, r.TimedOut, r.AvgTimeMs, minMs, r.Duration.Milliseconds(),
			r.CreatedAt.UnixMilli()).
		Query()

	var res sql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("save round: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save round: %w", err)
	}
	if err := insertCategories(ctx, ex, id, r.Categories); err != nil {
		return 0, err
	}
	return id, nil
}

func insertCategories(ctx context.Context, ex execer, roundID int64, cats []CategoryTime) error {
	if len(cats) == 0 {
		return nil
	}
	ins := builder().Insert("round_categories").Columns("round_id", "category", "answers", "total_ms")
	for _, c := range cats {
		ins.Values(roundID, c.Category, c.Count, c.AvgTimeMs*float64(c.Count))
	}
	query, args := ins.Query()
	if err := ex.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save round categories: %w", err)
	}
	return nil
}

// SaveSession stores a session and its rounds in one transaction.
func (s *Store) SaveSession(ctx context.Context, sess SessionRecord, rounds []RoundRecord) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = s.clock.Now()
	}
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	query, args := builder().Insert("sessions").
		Columns(sessionColumns...).
		Values(sess.ID, sess.Game, sess.Combined, sess.Authoritative, sess.Flagged, sess.ServerSessionID,
			sess.Rounds, sess.Questions, sess.Correct, sess.CreatedAt.UnixMilli()).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("save session: %w", err)
	}

	for _, r := range rounds {
		r.SessionID = sess.ID
		if r.Game == "" {
			r.Game = sess.Game
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = sess.CreatedAt
		}
		if _, err := s.insertRound(ctx, tx, r); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RecentRounds returns rounds newest first.
func (s *Store) RecentRounds(ctx context.Context, opts QueryOpts) ([]RoundRecord, error) {
	b := builder()
	sel := b.Select(append([]string{"id"}, roundColumns...)...).
		From(b.Table("rounds")).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	applyOpts(sel, opts)
	if opts.Session != "" {
		sel.Where(entsql.EQ("session_id", opts.Session))
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer rows.Close()

	var out []RoundRecord
	for rows.Next() {
		var (
			r          RoundRecord
			minMs      sql.NullInt64
			durationMs int64
			createdAt  int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Game, &r.Round, &r.Name, &r.Score, &r.LocalScore,
			&r.Authoritative, &r.Flagged, &r.ScoreID, &r.Correct, &r.Wrong, &r.TimedOut, &r.AvgTimeMs,
			&minMs, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		if minMs.Valid {
			v := minMs.Int64
			r.MinTimeMs = &v
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		r.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentSessions returns sessions newest first.
func (s *Store) RecentSessions(ctx context.Context, opts QueryOpts) ([]SessionRecord, error) {
	b := builder()
	sel := b.Select(sessionColumns...).
		From(b.Table("sessions")).
		OrderBy(entsql.Desc("created_at"))
	applyOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			r         SessionRecord
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.Game, &r.Combined, &r.Authoritative, &r.Flagged, &r.ServerSessionID,
			&r.Rounds, &r.Questions, &r.Correct, &createdAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DefaultInsightRounds is how many recent rounds RecentCategoryAverages
// looks at when opts.Limit is unset.
const DefaultInsightRounds = 50

// CategoryAverage is the average correct-answer time of a category over
// recent rounds.
type CategoryAverage struct {
	Category  string
	Count     int
	AvgTimeMs float64
}

// RecentCategoryAverages averages correct-answer times per category over
// the most recent rounds matching opts, opts.Limit rounds at most
// (DefaultInsightRounds when unset). Categories come back in name order.
func (s *Store) RecentCategoryAverages(ctx context.Context, opts QueryOpts) ([]CategoryAverage, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultInsightRounds
	}
	b := builder()
	recent := b.Select("id").
		From(b.Table("rounds")).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	applyOpts(recent, opts)
	if opts.Session != "" {
		recent.Where(entsql.EQ("session_id", opts.Session))
	}

	query, args := b.Select(
		"category",
		entsql.As(entsql.Sum("answers"), "answers"),
		entsql.As(entsql.Sum("total_ms"), "total_ms"),
	).
		From(b.Table("round_categories")).
		Where(entsql.In("round_id", recent)).
		GroupBy("category").
		OrderBy("category").
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query category averages: %w", err)
	}
	defer rows.Close()

	var out []CategoryAverage
	for rows.Next() {
		var (
			c       CategoryAverage
			totalMs float64
		)
		if err := rows.Scan(&c.Category, &c.Count, &totalMs); err != nil {
			return nil, fmt.Errorf("scan category average: %w", err)
		}
		if c.Count > 0 {
			c.AvgTimeMs = totalMs / float64(c.Count)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// BestScores returns each game's best combined score, best first.
func (s *Store) BestScores(ctx context.Context) ([]BestScore, error) {
	b := builder()
	query, args := b.Select(
		"game",
		entsql.As(entsql.Max("combined"), "best"),
		entsql.As(entsql.Count("*"), "sessions"),
		entsql.As(entsql.Max("created_at"), "last"),
	).
		From(b.Table("sessions")).
		GroupBy("game").
		OrderBy(entsql.Desc("best")).
		Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query best scores: %w", err)
	}
	defer rows.Close()

	var out []BestScore
	for rows.Next() {
		var (
			bs   BestScore
			last int64
		)
		if err := rows.Scan(&bs.Game, &bs.Best, &bs.Sessions, &last); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		bs.Last = time.UnixMilli(last)
		out = append(out, bs)
	}
	return out, rows.Err()
}

// UnsyncedRounds counts rounds whose score never reached the server.
func (s *Store) UnsyncedRounds(ctx context.Context) (int, error) {
	b := builder()
	query, args := b.Select(entsql.Count("*")).
		From(b.Table("rounds")).
		Where(entsql.EQ("authoritative", false)).
		Query()
	return s.count(ctx, query, args)
}

func (s *Store) count(ctx context.Context, query string, args []any) (int, error) {
	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	defer rows.Close()
	n := 0
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("count: %w", err)
		}
	}
	return n, rows.Err()
}

func applyOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Game != "" {
		sel.Where(entsql.EQ("game", opts.Game))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("created_at", opts.From.UnixMilli()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
