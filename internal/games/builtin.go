package games

import "time"

// Default backend endpoints.
const (
	EndpointRound1   = "/api/math-game/round1/submit"
	EndpointRound2   = "/api/math-game/round2/submit"
	EndpointRound3   = "/api/math-game/round3/submit"
	EndpointSession  = "/api/math-game/session/submit"
	EndpointMemory   = "/memory-game/submit_score"
	EndpointReaction = "/reaction-game/submit_score"
)

// Sprint is a single sixty-second round of basic operators.
func Sprint() Definition {
	return Definition{
		Name:        "sprint",
		Title:       "Arithmetic Sprint",
		Description: "One minute of addition, subtraction, multiplication and division.",
		Builtin:     true,
		Rounds: []RoundDef{{
			Name:       "Sprint",
			Generator:  GeneratorBasic,
			Duration:   60 * time.Second,
			Scaling:    0.3,
			Endpoint:   EndpointRound1,
			ScoreField: "score",
			IDField:    "round1_score_id",
		}},
	}
}

// Gauntlet is three rounds of growing difficulty with a per-question
// deadline, linked into one session score.
func Gauntlet() Definition {
	return Definition{
		Name:        "gauntlet",
		Title:       "Arithmetic Gauntlet",
		Description: "Three rounds: basic operators, mixed problems, then everything at once.",
		Builtin:     true,
		Breather:    6 * time.Second,
		Rounds: []RoundDef{
			{
				Name:          "Basic",
				Generator:     GeneratorBasic,
				Duration:      60 * time.Second,
				QuestionLimit: 5 * time.Second,
				Scaling:       0.3,
				Endpoint:      EndpointRound1,
				ScoreField:    "score",
				IDField:       "round1_score_id",
			},
			{
				Name:          "Mixed",
				Generator:     GeneratorMixed,
				Duration:      60 * time.Second,
				QuestionLimit: 8 * time.Second,
				Scaling:       0.3,
				Endpoint:      EndpointRound2,
				ScoreField:    "round2_score",
				IDField:       "round_mixed_score_id",
			},
			{
				Name:          "Gauntlet",
				Generator:     GeneratorGauntlet,
				Duration:      60 * time.Second,
				QuestionLimit: 6 * time.Second,
				Scaling:       0.4,
				Endpoint:      EndpointRound3,
				ScoreField:    "round3_score",
				IDField:       "round_mixed_score_id",
			},
		},
		Link: LinkDef{
			Kind:       LinkScoreIDs,
			Endpoint:   EndpointSession,
			ScoreField: "combined_score",
			IDField:    "session_id",
		},
	}
}

// Memory shows a grid pattern to recall. Rounds are scored on the server
// from the full question log sent at the end.
func Memory() Definition {
	round := func(name string, offset int) RoundDef {
		return RoundDef{
			Name:          name,
			Generator:     GeneratorPattern,
			QuestionLimit: 10 * time.Second,
			MaxQuestions:  5,
			MaxAttempts:   2,
			TierOffset:    offset,
			Scoring:       ScoringMemory,
		}
	}
	return Definition{
		Name:        "memory",
		Title:       "Memory Grid",
		Description: "Recall the highlighted cells. Patterns grow each round.",
		Builtin:     true,
		Breather:    3 * time.Second,
		Rounds:      []RoundDef{round("Round 1", 0), round("Round 2", 3), round("Round 3", 6)},
		Link: LinkDef{
			Kind:       LinkQuestionLog,
			Endpoint:   EndpointMemory,
			ScoreField: "finalScore",
			RoundScore: "round%dScore",
		},
	}
}

// Reaction flashes one key at a time. A wrong key ends the question, and
// the round is scored on speed as much as accuracy.
func Reaction() Definition {
	return Definition{
		Name:        "reaction",
		Title:       "Reaction Keys",
		Description: "Press the key on screen as fast as you can. One try per key.",
		Builtin:     true,
		Rounds: []RoundDef{{
			Name:          "Reaction",
			Generator:     GeneratorReaction,
			QuestionLimit: 2 * time.Second,
			MaxQuestions:  20,
			MaxAttempts:   1,
			Scoring:       ScoringReaction,
			Endpoint:      EndpointReaction,
			ScoreField:    "scoreResult.finalScore",
		}},
	}
}

// Builtin returns the preset games in menu order.
func Builtin() []Definition {
	return []Definition{Sprint(), Gauntlet(), Memory(), Reaction()}
}
