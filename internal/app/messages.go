package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/tutor"
)

// chunkMsg carries one streamed piece of the tutor reply.
type chunkMsg string

// replyDoneMsg ends a streamed exchange.
type replyDoneMsg struct {
	outcome *learner.Outcome
	err     error
}

// quizReadyMsg carries a generated quiz.
type quizReadyMsg struct {
	quiz *tutor.Quiz
	err  error
}

// waitFor reads the next message of a running stream.
func waitFor(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
