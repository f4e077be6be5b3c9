package router

import (
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/lang"
)

// Route labels the prompt handler a message is dispatched to.
type Route string

const (
	RouteConversation Route = "conversation"
	RouteGrammar      Route = "grammar"
	RouteAssessment   Route = "assessment"
	RouteCurriculum   Route = "curriculum"
	RouteVocabulary   Route = "vocabulary"
	RouteCulture      Route = "culture"
	RouteGeneral      Route = "general"
)

// Routes returns every route label.
func Routes() []Route {
	return []Route{
		RouteConversation, RouteGrammar, RouteAssessment, RouteCurriculum,
		RouteVocabulary, RouteCulture, RouteGeneral,
	}
}

// Valid reports whether r is a known route label.
func (r Route) Valid() bool {
	for _, known := range Routes() {
		if r == known {
			return true
		}
	}
	return false
}

// ParseRoute parses a route label.
func ParseRoute(s string) (Route, error) {
	r := Route(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown route %q", s)
	}
	return r, nil
}

// Classify picks the handler for a message.
//
// Assessment and exercise sessions are pinned to a fixed handler and the
// message content is ignored. Otherwise the lower-cased message is checked
// against each keyword list in priority order and the first list with a
// substring hit wins. Lesson sessions fall back to curriculum, everything
// else to conversation. RouteGeneral is never returned here; it is only
// reachable by explicit request.
func Classify(message string, sessionType lang.SessionType) Route {
	switch sessionType {
	case lang.SessionAssessment:
		return RouteAssessment
	case lang.SessionExercise:
		return RouteGrammar
	}

	lower := strings.ToLower(message)
	for _, rule := range rules {
		if containsAny(lower, rule.keywords) {
			return rule.route
		}
	}

	if sessionType == lang.SessionLesson {
		return RouteCurriculum
	}
	return RouteConversation
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
