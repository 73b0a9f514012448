// Package submit posts round and session results to the leaderboard
// backend and reconciles its authoritative score with the local estimate.
package submit

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// Submitter is the abstraction over the backend. Implementations return a
// non-nil Result only on a 2xx response.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, payload any) (*Result, error)
}

// Result is a successful backend response.
type Result struct {
	Endpoint string
	Status   int
	Body     json.RawMessage
}

// Get looks up a gjson path in the response body.
func (r *Result) Get(path string) gjson.Result {
	if r == nil || path == "" {
		return gjson.Result{}
	}
	return gjson.GetBytes(r.Body, path)
}

// Number returns the numeric value at path.
func (r *Result) Number(path string) (float64, bool) {
	v := r.Get(path)
	if v.Type != gjson.Number {
		return 0, false
	}
	return v.Float(), true
}

// ID returns the identifier at path. Numbers and strings are accepted;
// null, empty and missing values are not.
func (r *Result) ID(path string) (string, bool) {
	v := r.Get(path)
	switch v.Type {
	case gjson.Number:
		return v.Raw, true
	case gjson.String:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	default:
		return "", false
	}
}

// Fields names where outcome values live in a response.
type Fields struct {
	Score   string // e.g. "score", "round2_score", "finalScore"
	ID      string // e.g. "round1_score_id", "round_mixed_score_id"
	Valid   string // defaults to "is_valid"
	Message string // defaults to "message"
}

// Outcome is the reconciled score of one submission.
type Outcome struct {
	Score         float64
	LocalScore    float64
	Authoritative bool   // Score came from the server
	Flagged       bool   // the server judged the payload implausible
	ScoreID       string // server identifier, empty if none was assigned
	Message       string // server message, if any
	Err           error  // why the local fallback was used
}

// Local returns an unauthoritative outcome carrying the local score.
func Local(score float64, err error) Outcome {
	return Outcome{Score: score, LocalScore: score, Err: err}
}

// Reconcile turns a submission result into an Outcome. Any error, a nil
// result or a response without a numeric score falls back to local.
func Reconcile(res *Result, err error, f Fields, local float64) Outcome {
	if err != nil {
		return Local(local, err)
	}
	if res == nil {
		return Local(local, &ErrInvalidResponse{Err: errNoResult})
	}

	out := Outcome{LocalScore: local}
	validPath := f.Valid
	if validPath == "" {
		validPath = "is_valid"
	}
	if v := res.Get(validPath); v.Exists() && v.Type == gjson.False {
		out.Flagged = true
	}
	msgPath := f.Message
	if msgPath == "" {
		msgPath = "message"
	}
	out.Message = res.Get(msgPath).String()
	if id, ok := res.ID(f.ID); ok {
		out.ScoreID = id
	}

	score, ok := res.Number(f.Score)
	if !ok {
		out.Score = local
		out.Err = &ErrInvalidResponse{Content: res.Body, Err: errMissingScore(f.Score)}
		return out
	}
	out.Score = score
	out.Authoritative = true
	return out
}
