package submit

import (
	"fmt"
	"maps"
	"slices"

	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/stats"
)

// RoundPayload is the body posted when a round ends. per_question and
// avg_time_by_operator mirror per_question_times and avg_time_by_category
// for backends that use the older names.
type RoundPayload struct {
	SessionID         string                                           `json:"session_id"`
	Game              string                                           `json:"game"`
	RoundIndex        int                                              `json:"round_index"`
	CorrectCount      int                                              `json:"correct_count"`
	WrongCount        int                                              `json:"wrong_count"`
	AvgTimeMs         float64                                          `json:"avg_time_ms"`
	MinTimeMs         *int64                                           `json:"min_time_ms"`
	TotalQuestions    int                                              `json:"total_questions"`
	PerQuestionTimes  []stats.QuestionRecord                           `json:"per_question_times"`
	PerQuestion       []stats.QuestionRecord                           `json:"per_question"`
	AvgTimeByCategory map[problemgen.Category]stats.CategoryBreakdown `json:"avg_time_by_category"`
	AvgTimeByOperator map[problemgen.Category]stats.CategoryBreakdown `json:"avg_time_by_operator"`
	TotalTimeMs       int64                                            `json:"total_time_ms"`
	RunDurationMs     int64                                            `json:"run_duration_ms"`
	EndedByTimeout    bool                                             `json:"ended_by_timeout"`
	TimedOutCount     int                                              `json:"timed_out_count"`
}

// NewRoundPayload builds the round body from a frozen snapshot.
func NewRoundPayload(sessionID, game string, round int, snap stats.Snapshot) RoundPayload {
	records := snap.Records
	if records == nil {
		records = []stats.QuestionRecord{}
	}
	breakdown := stats.Breakdown(snap)
	return RoundPayload{
		SessionID:         sessionID,
		Game:              game,
		RoundIndex:        round,
		CorrectCount:      snap.Correct,
		WrongCount:        snap.Wrong,
		AvgTimeMs:         stats.AverageTime(snap),
		MinTimeMs:         stats.Fastest(snap),
		TotalQuestions:    snap.Questions(),
		PerQuestionTimes:  records,
		PerQuestion:       records,
		AvgTimeByCategory: breakdown,
		AvgTimeByOperator: breakdown,
		TotalTimeMs:       snap.TotalMs,
		RunDurationMs:     snap.RunDuration.Milliseconds(),
		EndedByTimeout:    snap.EndedByTimeout,
		TimedOutCount:     snap.TimedOut,
	}
}

// LinkPayload builds the session-link body: one round<N>_score_id per
// round plus the combined score.
func LinkPayload(sessionID string, ids map[int]string, combined float64) map[string]any {
	body := map[string]any{
		"session_id":     sessionID,
		"combined_score": combined,
	}
	for n, id := range ids {
		body[fmt.Sprintf("round%d_score_id", n)] = id
	}
	return body
}

// MemoryEntry is one question of the memory game log.
type MemoryEntry struct {
	Round          int      `json:"round"`
	SequenceLength int      `json:"sequenceLength"`
	Attempts       int      `json:"attempts"`
	WasCorrect     bool     `json:"wasCorrect"`
	Targets        [][2]int `json:"targets"`
	TimeMs         int64    `json:"timeMs"`
}

// MemoryPayload is the body posted once at the end of a memory session.
type MemoryPayload struct {
	SessionID   string        `json:"session_id"`
	Game        string        `json:"game"`
	QuestionLog []MemoryEntry `json:"questionLog"`
}

// NewMemoryPayload flattens the rounds' records into a question log.
// Targets are (x, y) pairs: column then row.
func NewMemoryPayload(sessionID, game string, rounds map[int]stats.Snapshot) MemoryPayload {
	p := MemoryPayload{SessionID: sessionID, Game: game, QuestionLog: []MemoryEntry{}}
	for _, n := range slices.Sorted(maps.Keys(rounds)) {
		snap := rounds[n]
		for _, r := range snap.Records {
			targets := make([][2]int, len(r.Targets))
			for i, c := range r.Targets {
				targets[i] = [2]int{c.Col, c.Row}
			}
			p.QuestionLog = append(p.QuestionLog, MemoryEntry{
				Round:          n,
				SequenceLength: len(r.Targets),
				Attempts:       r.WrongAttempts + 1,
				WasCorrect:     r.Correct(),
				Targets:        targets,
				TimeMs:         r.TimeMs,
			})
		}
	}
	return p
}

// ReactionAnswer is one press of a reaction round.
type ReactionAnswer struct {
	ReactionTime int64 `json:"reactionTime"`
	IsCorrect    bool  `json:"isCorrect"`
}

// ReactionPayload is the body posted when a reaction round ends.
type ReactionPayload struct {
	SessionID string `json:"session_id"`
	Game      string `json:"game"`
	ScoreData struct {
		AnswerRecord []ReactionAnswer `json:"answerRecord"`
	} `json:"scoreData"`
}

// NewReactionPayload builds the reaction body. Times are clamped to the
// range the backend accepts.
func NewReactionPayload(sessionID, game string, _ int, snap stats.Snapshot) any {
	p := ReactionPayload{SessionID: sessionID, Game: game}
	p.ScoreData.AnswerRecord = make([]ReactionAnswer, 0, len(snap.Records))
	for _, r := range snap.Records {
		p.ScoreData.AnswerRecord = append(p.ScoreData.AnswerRecord, ReactionAnswer{
			ReactionTime: min(max(r.TimeMs, stats.MinReactionMs), stats.MaxReactionMs),
			IsCorrect:    r.Correct(),
		})
	}
	return p
}
