package tutor

import (
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/router"
)

// allHistory means the route keeps the whole conversation.
const allHistory = -1

var historyWindows = map[router.Route]int{
	router.RouteConversation: 10,
	router.RouteGrammar:      6,
	router.RouteAssessment:   allHistory,
	router.RouteCurriculum:   12,
	router.RouteVocabulary:   10,
	router.RouteCulture:      8,
	router.RouteGeneral:      10,
}

// Window returns how many trailing history messages a route keeps, or -1
// for all of them.
func Window(r router.Route) int {
	if w, ok := historyWindows[r]; ok {
		return w
	}
	return 10
}

// buildMessages trims history to the route's window and appends the new
// learner message.
func buildMessages(r router.Route, history []Turn, message string) []llm.Message {
	if w := Window(r); w != allHistory && len(history) > w {
		history = history[len(history)-w:]
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleAssistant
		if t.Role == string(llm.RoleUser) {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}
