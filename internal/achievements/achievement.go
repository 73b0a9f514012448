// Package achievements awards badges from the local play history.
package achievements

import "time"

// Code identifies an achievement. Codes are stored, so they never change.
type Code string

const (
	Play10          Code = "PLAY_10_GAMES"
	Play50          Code = "PLAY_50_GAMES"
	Play100         Code = "PLAY_100_GAMES"
	Math100         Code = "MATH_100_QS"
	Math1000        Code = "MATH_1000_QS"
	ReactionSub300  Code = "REACTION_SUB_300_MS"
	ReactionSub250  Code = "REACTION_SUB_250_MS"
	ReactionPerfect Code = "REACTION_PERFECT_ROUND"
	Memory1K        Code = "MEMORY_1K_TOTAL"
	Math50QPM       Code = "MATH_50_QPM"
	MathPerfect     Code = "MATH_PERFECT_ROUND"
	Streak3         Code = "STREAK_3_DAYS"
	Streak7         Code = "STREAK_7_DAYS"
	PlayedAll       Code = "PLAYED_ALL_GAMES"
	NightOwl        Code = "NIGHT_OWL"
	EarlyBird       Code = "EARLY_BIRD"
	TiltProof       Code = "TILT_5_WRONG"
	Comeback        Code = "COMEBACK"
)

// Category groups achievements for display.
type Category string

const (
	CategoryVolume      Category = "Volume"
	CategorySkill       Category = "Skill"
	CategoryConsistency Category = "Consistency"
	CategoryExploration Category = "Exploration"
	CategoryEasterEgg   Category = "Easter Egg"
)

// Achievement describes one badge.
type Achievement struct {
	Code        Code
	Name        string
	Description string
	Category    Category
}

// Award is an achievement earned by a session.
type Award struct {
	Achievement
	SessionID string
	EarnedAt  time.Time
}

var catalog = []Achievement{
	{Play10, "Getting Started", "Play 10 rounds across any game.", CategoryVolume},
	{Play50, "On a Roll", "Play 50 rounds across any game.", CategoryVolume},
	{Play100, "Centurion", "Play 100 rounds across any game.", CategoryVolume},
	{Math100, "Mathlete", "Answer 100 arithmetic questions in total.", CategoryVolume},
	{Math1000, "Number Cruncher", "Answer 1000 arithmetic questions in total.", CategoryVolume},
	{ReactionSub300, "Quick Reflexes", "Average under 300ms in a reaction round.", CategorySkill},
	{ReactionSub250, "Lightning Fast", "Average under 250ms in a reaction round.", CategorySkill},
	{ReactionPerfect, "Perfect Response", "Hit 99% or better in a reaction round.", CategorySkill},
	{Memory1K, "Memory Master", "Collect 1000 memory points in total.", CategorySkill},
	{Math50QPM, "Mental Velocity", "Average 50 answers a minute in an arithmetic round.", CategorySkill},
	{MathPerfect, "Flawless Maths", "Finish an arithmetic round without a miss.", CategorySkill},
	{Streak3, "Three Day Streak", "Play on three consecutive days.", CategoryConsistency},
	{Streak7, "Seven Day Streak", "Play on seven consecutive days.", CategoryConsistency},
	{PlayedAll, "Explorer", "Try every kind of game at least once.", CategoryExploration},
	{NightOwl, "Night Owl", "Play between 01:00 and 04:00 UTC.", CategoryEasterEgg},
	{EarlyBird, "Early Bird", "Play before 06:00 UTC.", CategoryEasterEgg},
	{TiltProof, "Tilt-Proof", "Keep going despite 5 misses in an arithmetic round.", CategoryEasterEgg},
	{Comeback, "Comeback Kid", "Beat your previous score in a game by more than 20%.", CategoryEasterEgg},
}

// All returns every achievement in display order.
func All() []Achievement {
	return append([]Achievement(nil), catalog...)
}

// Lookup returns the achievement for code.
func Lookup(code Code) (Achievement, bool) {
	for _, a := range catalog {
		if a.Code == code {
			return a, true
		}
	}
	return Achievement{}, false
}
