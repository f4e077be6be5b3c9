package tutor

import "github.com/abhisek/lingua/internal/router"

// Default OpenRouter models per handler.
const (
	ModelMistral = "mistralai/mistral-7b-instruct:free"
	ModelLlama   = "meta-llama/llama-3.1-8b-instruct:free"
	ModelGemma   = "google/gemma-2-9b-it:free"
)

// Config holds tutor generation settings.
type Config struct {
	// Models maps each route to a model ID. Only applied when RouteModels
	// is set, since the IDs are OpenRouter-specific.
	Models      map[router.Route]string
	RouteModels bool

	Temperature float64
	MaxTokens   int

	// QuizMaxTokens bounds structured quiz generation.
	QuizMaxTokens int
}

// DefaultConfig returns the per-route model table at temperature 0.7.
func DefaultConfig() Config {
	return Config{
		Models: map[router.Route]string{
			router.RouteConversation: ModelMistral,
			router.RouteGrammar:      ModelMistral,
			router.RouteVocabulary:   ModelMistral,
			router.RouteGeneral:      ModelMistral,
			router.RouteAssessment:   ModelLlama,
			router.RouteCurriculum:   ModelLlama,
			router.RouteCulture:      ModelGemma,
		},
		Temperature:   0.7,
		MaxTokens:     1024,
		QuizMaxTokens: 1536,
	}
}

// modelFor returns the configured model for a route, or "" to use the
// provider default.
func (c Config) modelFor(r router.Route) string {
	if !c.RouteModels {
		return ""
	}
	return c.Models[r]
}
