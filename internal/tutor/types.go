package tutor

import (
	"strings"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
)

// Turn is one prior message in a conversation. Role "user" is the
// learner; any other role is treated as the tutor.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Input is a single learner message plus its session context.
type Input struct {
	Message     string
	Language    lang.Language
	Level       lang.Level
	SessionType lang.SessionType
	History     []Turn

	KnownWords      []string
	ReviewWords     []string
	CompletedTopics []string

	Mode     prompts.Mode
	Scenario string
	Topic    string

	// Route forces a handler. Empty means classify the message.
	Route router.Route

	// Review, when set, runs a dedicated spaced-repetition review of these
	// words on the vocabulary route.
	Review []prompts.ReviewWord
}

func (in Input) params() prompts.Params {
	return prompts.Params{
		Language:        in.Language,
		Level:           in.Level,
		SessionType:     in.SessionType,
		Mode:            in.Mode,
		Scenario:        in.Scenario,
		CompletedTopics: in.CompletedTopics,
		KnownWords:      in.KnownWords,
		ReviewWords:     in.ReviewWords,
		Topic:           in.Topic,
	}
}

// QuizInput selects the quiz topic and difficulty.
type QuizInput struct {
	Language lang.Language
	Level    lang.Level
	Topic    string
}

// Quiz is a generated comprehension quiz.
type Quiz struct {
	Title     string         `json:"title"`
	Topic     string         `json:"topic"`
	Language  lang.Language  `json:"language"`
	Level     lang.Level     `json:"level"`
	Questions []QuizQuestion `json:"questions"`
}

// QuizQuestion is one quiz item.
type QuizQuestion struct {
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
}

// CorrectIndex returns the index of the correct option, or -1 for
// questions without options.
func (q QuizQuestion) CorrectIndex() int {
	for i, o := range q.Options {
		if normalizeAnswer(o) == normalizeAnswer(q.Correct) {
			return i
		}
	}
	return -1
}

// Check reports whether answer matches the correct answer, ignoring case,
// surrounding space and punctuation.
func (q QuizQuestion) Check(answer string) bool {
	return normalizeAnswer(answer) != "" && normalizeAnswer(answer) == normalizeAnswer(q.Correct)
}

func normalizeAnswer(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, ".!?¡¿ ")
}
