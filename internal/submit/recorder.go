package submit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Attempt describes one submission for the local history.
type Attempt struct {
	Endpoint  string
	Payload   json.RawMessage
	Status    int
	Response  json.RawMessage
	LatencyMs int64
	Success   bool
	Error     string
	CreatedAt time.Time
}

// Recorder persists submission attempts.
type Recorder interface {
	RecordSubmission(ctx context.Context, a Attempt) error
}

// RecordingSubmitter is a decorator that records every submission.
type RecordingSubmitter struct {
	inner    Submitter
	recorder Recorder
	logger   zerolog.Logger
}

// WithRecorder wraps a Submitter so every call is recorded. Recording
// failures are logged and never fail the submission.
func WithRecorder(s Submitter, rec Recorder, logger zerolog.Logger) Submitter {
	return &RecordingSubmitter{inner: s, recorder: rec, logger: logger}
}

func (r *RecordingSubmitter) Submit(ctx context.Context, endpoint string, payload any) (*Result, error) {
	start := time.Now()
	res, err := r.inner.Submit(ctx, endpoint, payload)

	a := Attempt{
		Endpoint:  endpoint,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		CreatedAt: start,
	}
	if b, mErr := json.Marshal(payload); mErr == nil {
		a.Payload = b
	}
	if res != nil {
		a.Status = res.Status
		a.Response = res.Body
	}
	if err != nil {
		a.Error = err.Error()
		r.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("submission failed, using local score")
	}

	if recErr := r.recorder.RecordSubmission(ctx, a); recErr != nil {
		r.logger.Warn().Err(recErr).Msg("failed to record submission")
	}
	return res, err
}
