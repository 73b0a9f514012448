package play

import (
	"github.com/abhisek/brainrush/internal/problemgen"
	"github.com/abhisek/brainrush/internal/round"
	sess "github.com/abhisek/brainrush/internal/session"
)

// EventMsg carries one session or round event into the update loop.
type EventMsg struct {
	Event any
}

// runDoneMsg is sent when Session.Run returns.
type runDoneMsg struct {
	Run   uint64
	State sess.State
	Err   error
}

// verdictMsg is the result of an answer submitted from a command.
type verdictMsg struct {
	Seq      uint64
	Question problemgen.Question
	Verdict  round.Verdict
}

// hideMsg ends the pattern preview of question Seq.
type hideMsg struct {
	Seq uint64
}
