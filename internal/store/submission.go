package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/brainrush/internal/submit"
)

// RecordSubmission stores one submission attempt. It lets the Store
// serve as a submit.Recorder.
func (s *Store) RecordSubmission(ctx context.Context, a submit.Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.clock.Now()
	}
	query, args := builder().Insert("submissions").
		Columns("endpoint", "payload", "status", "response", "latency_ms", "success", "error", "created_at").
		Values(a.Endpoint, string(a.Payload), a.Status, string(a.Response), a.LatencyMs, a.Success, a.Error,
			a.CreatedAt.UnixMilli()).
		Query()
	if err := s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// SubmissionStats summarizes recorded submissions.
type SubmissionStats struct {
	Total  int
	Failed int
	AvgMs  float64
}

// Submissions returns counts over all recorded submissions.
func (s *Store) Submissions(ctx context.Context) (SubmissionStats, error) {
	b := builder()
	query, args := b.Select(
		entsql.Count("*"),
		"COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0)",
		"COALESCE(AVG(latency_ms), 0)",
	).From(b.Table("submissions")).Query()

	var rows entsql.Rows
	if err := s.drv.Query(ctx, query, args, &rows); err != nil {
		return SubmissionStats{}, fmt.Errorf("query submissions: %w", err)
	}
	defer rows.Close()

	var st SubmissionStats
	if rows.Next() {
		if err := rows.Scan(&st.Total, &st.Failed, &st.AvgMs); err != nil {
			return SubmissionStats{}, fmt.Errorf("scan submissions: %w", err)
		}
	}
	return st, rows.Err()
}

var _ submit.Recorder = (*Store)(nil)
