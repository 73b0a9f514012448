package submit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/stats"
)

func TestNewRoundPayload_Fields(t *testing.T) {
	s := stats.NewRoundStats()
	s.RecordCorrect(problemgen.Question{Expression: "7 + 5", Category: problemgen.CategoryAdd, Operands: []float64{7, 5}}, 1200*time.Millisecond, 0)
	s.RecordTimeout(problemgen.Question{Expression: "6 × 4", Category: problemgen.CategoryMul}, 6*time.Second, 5*time.Second, 1)
	snap := s.Freeze(30*time.Second, true)

	b, err := json.Marshal(NewRoundPayload("sess", "gauntlet", 2, snap))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	for _, key := range []string{
		"correct_count", "wrong_count", "avg_time_ms", "min_time_ms", "per_question_times",
		"avg_time_by_category", "total_time_ms", "run_duration_ms", "ended_by_timeout",
		"timed_out_count", "round_index", "total_questions", "session_id", "game",
	} {
		assert.Contains(t, got, key)
	}
	assert.Equal(t, 1.0, got["correct_count"])
	assert.Equal(t, 1.0, got["wrong_count"])
	assert.Equal(t, 2.0, got["total_questions"])
	assert.Equal(t, 30000.0, got["run_duration_ms"])
	assert.Equal(t, true, got["ended_by_timeout"])

	records := got["per_question_times"].([]any)
	require.Len(t, records, 2)
	second := records[1].(map[string]any)
	assert.Equal(t, 5000.0, second["time_ms"])
	assert.Equal(t, true, second["timed_out"])
	assert.Equal(t, 1.0, second["wrong_attempts"])

	byCat := got["avg_time_by_category"].(map[string]any)
	assert.Equal(t, map[string]any{"count": 1.0, "avg_time_ms": 1200.0}, byCat["addition"])
}

func TestNewRoundPayload_EmptyRound(t *testing.T) {
	snap := stats.NewRoundStats().Freeze(0, false)
	b, err := json.Marshal(NewRoundPayload("s", "sprint", 1, snap))
	require.NoError(t, err)
	assert.Contains(t, string(b), `"min_time_ms":null`)
	assert.Contains(t, string(b), `"per_question_times":[]`)
}

func TestLinkPayload(t *testing.T) {
	body := LinkPayload("s", map[int]string{1: "10", 2: "11", 3: "12"}, 75)
	assert.Equal(t, "10", body["round1_score_id"])
	assert.Equal(t, "12", body["round3_score_id"])
	assert.Equal(t, 75.0, body["combined_score"])
}

func TestNewMemoryPayload(t *testing.T) {
	q := problemgen.Question{
		Expression: "Recall 2 cells",
		Category:   problemgen.CategoryPattern,
		Kind:       problemgen.KindPattern,
		Pattern:    []problemgen.Cell{{Row: 0, Col: 1}, {Row: 2, Col: 3}},
		GridSize:   4,
	}
	r1 := stats.NewRoundStats()
	r1.RecordCorrect(q, time.Second, 1)
	r2 := stats.NewRoundStats()
	r2.RecordMiss(q, time.Second, 1)

	p := NewMemoryPayload("s", "memory", map[int]stats.Snapshot{
		2: r2.Freeze(0, false),
		1: r1.Freeze(0, false),
	})
	require.Len(t, p.QuestionLog, 2)
	assert.Equal(t, MemoryEntry{Round: 1, SequenceLength: 2, Attempts: 2, WasCorrect: true,
		Targets: [][2]int{{1, 0}, {3, 2}}, TimeMs: 1000}, p.QuestionLog[0])
	assert.Equal(t, 2, p.QuestionLog[1].Round)
	assert.False(t, p.QuestionLog[1].WasCorrect)
}

func TestNewReactionPayload(t *testing.T) {
	snap := stats.Snapshot{Records: []stats.QuestionRecord{
		{TimeMs: 40},
		{TimeMs: 320, Missed: true},
		{TimeMs: 9000, TimedOut: true},
	}}
	b, err := json.Marshal(NewReactionPayload("s", "reaction", 1, snap))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"session_id": "s",
		"game": "reaction",
		"scoreData": {"answerRecord": [
			{"reactionTime": 80, "isCorrect": true},
			{"reactionTime": 320, "isCorrect": false},
			{"reactionTime": 5000, "isCorrect": false}
		]}
	}`, string(b))
}
