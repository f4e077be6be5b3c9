// Package learner ties the tutor to the learner's persisted state: it
// records each exchange, awards XP and skill progress, harvests tagged
// blocks from replies and unlocks achievements.
package learner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lingua/internal/achievements"
	"github.com/abhisek/lingua/internal/chat"
	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/store"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/vocab"
)

const (
	// ExchangeXP is awarded for every completed exchange.
	ExchangeXP = 5

	// ExchangeSkillDelta is added to the session type's skill per exchange.
	ExchangeSkillDelta = 2

	// PlacementXP is awarded for finishing a placement test.
	PlacementXP = 50

	// ReviewLimit caps how many due words go into a prompt.
	ReviewLimit = 10
)

// ErrNothingToReview is returned when a review is requested but no word
// is due.
var ErrNothingToReview = errors.New("no words due for review")

// Tutor streams tutor replies.
type Tutor interface {
	Route(in tutor.Input) router.Route
	Stream(ctx context.Context, in tutor.Input, onText func(string) error) (router.Route, error)
}

// Service owns every learner-state store and runs exchanges against them.
type Service struct {
	Profiles     *progress.Service
	Daily        *progress.DailyTracker
	Chat         *chat.Service
	Vocab        *vocab.Service
	Achievements *achievements.Service

	tutor Tutor
}

// New loads every learner-state store from repo. t may be nil for
// callers that only read or import state.
func New(ctx context.Context, repo store.StateRepo, t Tutor) (*Service, error) {
	s := &Service{tutor: t}
	var err error
	if s.Profiles, err = progress.NewService(ctx, repo); err != nil {
		return nil, err
	}
	if s.Daily, err = progress.NewDailyTracker(ctx, repo); err != nil {
		return nil, err
	}
	if s.Chat, err = chat.NewService(ctx, repo); err != nil {
		return nil, err
	}
	if s.Vocab, err = vocab.NewService(ctx, repo); err != nil {
		return nil, err
	}
	if s.Achievements, err = achievements.NewService(ctx, repo); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads every store, e.g. after a backup import.
func (s *Service) Reload(ctx context.Context) error {
	for _, r := range []interface{ Reload(context.Context) error }{
		s.Profiles, s.Daily, s.Chat, s.Vocab, s.Achievements,
	} {
		if err := r.Reload(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset clears every store.
func (s *Service) Reset(ctx context.Context) error {
	for _, r := range []interface{ Reset(context.Context) error }{
		s.Profiles, s.Daily, s.Chat, s.Vocab, s.Achievements,
	} {
		if err := r.Reset(ctx); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	return nil
}

// Message is one learner message sent through Send.
type Message struct {
	Text        string
	SessionType lang.SessionType
	Mode        prompts.Mode
	Scenario    string
	Topic       string

	// Route forces a handler.
	Route router.Route

	// Review runs a spaced-repetition review of the due words.
	Review bool
}

// Send runs one exchange in the active language: it picks or creates a
// session, streams the tutor reply through onText, records both messages
// and applies the exchange bookkeeping. When the stream fails the reply
// is stored with an error marker and no XP is awarded.
func (s *Service) Send(ctx context.Context, m Message, onText func(string) error) (*Outcome, error) {
	if s.tutor == nil {
		return nil, errors.New("send: no tutor configured")
	}
	profile, err := s.Profiles.ActiveProfile()
	if err != nil {
		return nil, err
	}
	l := profile.TargetLanguage
	if m.SessionType == "" {
		m.SessionType = lang.SessionConversation
	}

	in := tutor.Input{
		Message:         m.Text,
		Language:        l,
		Level:           profile.CEFRLevel,
		SessionType:     m.SessionType,
		KnownWords:      tail(s.Vocab.KnownWords(l), prompts.KnownWordsTail),
		CompletedTopics: profile.CompletedTopics,
		Mode:            m.Mode,
		Scenario:        m.Scenario,
		Topic:           m.Topic,
		Route:           m.Route,
	}
	due := s.Vocab.WordsForReview(l, ReviewLimit)
	for _, e := range due {
		in.ReviewWords = append(in.ReviewWords, e.Word)
	}
	if m.Review {
		if len(due) == 0 {
			return nil, ErrNothingToReview
		}
		for _, e := range due {
			in.Review = append(in.Review, prompts.ReviewWord{Word: e.Word, Translation: e.Translation, Mastery: e.Mastery})
		}
		in.Route = router.RouteVocabulary
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, tutor.ErrEmptyMessage
	}

	sess, err := s.sessionFor(ctx, l, m.SessionType, m.Topic)
	if err != nil {
		return nil, err
	}
	in.History = turns(sess.Messages)

	route := s.tutor.Route(in)
	if _, err := s.Chat.AddMessage(ctx, sess.ID, chat.RoleUser, in.Message, ""); err != nil {
		return nil, err
	}
	if _, err := s.Chat.AddMessage(ctx, sess.ID, chat.RoleAssistant, "", route); err != nil {
		return nil, err
	}

	var reply strings.Builder
	_, streamErr := s.tutor.Stream(ctx, in, func(chunk string) error {
		reply.WriteString(chunk)
		if onText != nil {
			return onText(chunk)
		}
		return nil
	})

	if streamErr != nil {
		text := reply.String() + fmt.Sprintf("\n\n*Error: %s*", streamErr)
		if _, err := s.Chat.UpdateLastAssistantMessage(context.WithoutCancel(ctx), sess.ID, text); err != nil {
			return nil, errors.Join(streamErr, err)
		}
		return &Outcome{SessionID: sess.ID, Route: route, Reply: reply.String()}, streamErr
	}

	if _, err := s.Chat.UpdateLastAssistantMessage(ctx, sess.ID, reply.String()); err != nil {
		return nil, err
	}
	out, err := s.RecordExchange(ctx, l, m.SessionType, reply.String())
	if out != nil {
		out.SessionID = sess.ID
		out.Route = route
	}
	return out, err
}

// sessionFor returns the active session when it matches l and t, or
// starts a new one.
func (s *Service) sessionFor(ctx context.Context, l lang.Language, t lang.SessionType, topic string) (chat.Session, error) {
	if sess, ok := s.Chat.ActiveSession(); ok && sess.Language == l && sess.Type == t {
		return sess, nil
	}
	return s.Chat.CreateSession(ctx, t, l, topic)
}

func turns(msgs []chat.Message) []tutor.Turn {
	out := make([]tutor.Turn, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		out = append(out, tutor.Turn{Role: string(m.Role), Content: m.Content})
	}
	return out
}

func tail(words []string, n int) []string {
	if len(words) > n {
		return words[len(words)-n:]
	}
	return words
}
