// Package tutor dispatches learner messages to the prompt handlers and
// streams the replies from the chat-completion provider.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
)

// ErrEmptyMessage is returned when the learner message is blank.
var ErrEmptyMessage = errors.New("message is empty")

// Service generates tutor replies.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Route returns the handler a message would be sent to.
func (s *Service) Route(in Input) router.Route {
	if in.Route != "" {
		return in.Route
	}
	return router.Classify(in.Message, in.SessionType)
}

// Request builds the provider request for an input without sending it.
func (s *Service) Request(in Input) (router.Route, llm.Request, error) {
	if strings.TrimSpace(in.Message) == "" {
		return "", llm.Request{}, ErrEmptyMessage
	}
	if !in.Language.Valid() {
		return "", llm.Request{}, fmt.Errorf("unsupported language %q", in.Language)
	}
	if in.Level == "" {
		in.Level = lang.A1
	}
	if !in.Level.Valid() {
		return "", llm.Request{}, fmt.Errorf("unsupported CEFR level %q", in.Level)
	}

	route := s.Route(in)
	system := prompts.For(route, in.params())
	if len(in.Review) > 0 {
		route = router.RouteVocabulary
		system = prompts.Review(in.Language, in.Level, in.Review)
	}
	return route, llm.Request{
		System:      system,
		Messages:    buildMessages(route, in.History, in.Message),
		Model:       s.cfg.modelFor(route),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}, nil
}

// Stream routes the message and calls onText with each reply fragment.
// It returns the route that handled the message.
func (s *Service) Stream(ctx context.Context, in Input, onText func(string) error) (router.Route, error) {
	route, req, err := s.Request(in)
	if err != nil {
		return "", err
	}

	ctx = llm.WithPurpose(ctx, string(route))
	if _, err := s.provider.Stream(ctx, req, onText); err != nil {
		return route, fmt.Errorf("%s reply: %w", route, err)
	}
	return route, nil
}

// Reply runs Stream and returns the collected text. On error the text
// delivered before the failure is still returned.
func (s *Service) Reply(ctx context.Context, in Input) (string, router.Route, error) {
	var b strings.Builder
	route, err := s.Stream(ctx, in, func(chunk string) error {
		b.WriteString(chunk)
		return nil
	})
	return b.String(), route, err
}

// Quiz generates a short structured quiz on a topic.
func (s *Service) Quiz(ctx context.Context, in QuizInput) (*Quiz, error) {
	if strings.TrimSpace(in.Topic) == "" {
		return nil, errors.New("quiz topic is required")
	}
	if !in.Language.Valid() {
		return nil, fmt.Errorf("unsupported language %q", in.Language)
	}
	if !in.Level.Valid() {
		return nil, fmt.Errorf("unsupported CEFR level %q", in.Level)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)

	req := llm.Request{
		System: prompts.Quiz(in.Language, in.Level, in.Topic),
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf("Create the %d-question quiz about %q now.", prompts.QuizQuestions, in.Topic)},
		},
		Model:       s.cfg.modelFor(router.RouteAssessment),
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.QuizMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation: %w", err)
	}

	var quiz Quiz
	if err := json.Unmarshal(resp.Content, &quiz); err != nil {
		return nil, fmt.Errorf("parse quiz response: %w", err)
	}
	quiz.Topic = in.Topic
	quiz.Language = in.Language
	quiz.Level = in.Level
	for i := range quiz.Questions {
		if quiz.Questions[i].Options == nil {
			quiz.Questions[i].Options = []string{}
		}
	}
	return &quiz, nil
}
