package submit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func result(body string) *Result {
	return &Result{Status: 200, Body: json.RawMessage(body)}
}

func TestReconcile(t *testing.T) {
	round1 := Fields{Score: "score", ID: "round1_score_id"}
	mixed := Fields{Score: "round2_score", ID: "round_mixed_score_id"}

	tests := []struct {
		name   string
		res    *Result
		err    error
		fields Fields
		want   Outcome
	}{
		{
			name:   "authoritative",
			res:    result(`{"score":40,"is_valid":true,"round1_score_id":12}`),
			fields: round1,
			want:   Outcome{Score: 40, LocalScore: 21, Authoritative: true, ScoreID: "12"},
		},
		{
			name:   "flagged keeps server score",
			res:    result(`{"score":55,"is_valid":false,"round1_score_id":13}`),
			fields: round1,
			want:   Outcome{Score: 55, LocalScore: 21, Authoritative: true, Flagged: true, ScoreID: "13"},
		},
		{
			name:   "per round score key",
			res:    result(`{"round2_score":30,"round_mixed_score_id":"abc"}`),
			fields: mixed,
			want:   Outcome{Score: 30, LocalScore: 21, Authoritative: true, ScoreID: "abc"},
		},
		{
			name:   "guest without id",
			res:    result(`{"round2_score":30,"round_mixed_score_id":null,"message":"Login to save your Round 2 score"}`),
			fields: mixed,
			want:   Outcome{Score: 30, LocalScore: 21, Authoritative: true, Message: "Login to save your Round 2 score"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(tt.res, tt.err, tt.fields, 21)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcile_FallsBackToLocal(t *testing.T) {
	netErr := &ErrUnavailable{Endpoint: "x", Err: errors.New("connection refused")}

	got := Reconcile(nil, netErr, Fields{Score: "score"}, 21)
	assert.Equal(t, 21.0, got.Score)
	assert.False(t, got.Authoritative)
	assert.ErrorIs(t, got.Err, netErr)

	got = Reconcile(nil, nil, Fields{Score: "score"}, -4)
	assert.Equal(t, -4.0, got.Score)
	assert.False(t, got.Authoritative)

	got = Reconcile(result(`{"status":"success"}`), nil, Fields{Score: "score"}, 9)
	assert.Equal(t, 9.0, got.Score)
	assert.False(t, got.Authoritative)
	var inv *ErrInvalidResponse
	assert.ErrorAs(t, got.Err, &inv)
}
