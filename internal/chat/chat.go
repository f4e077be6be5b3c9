// Package chat stores tutoring sessions and their message history.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/router"
	"github.com/abhisek/lingua/internal/store"
)

// StateKey is the state entry chat sessions are persisted under.
const StateKey = "lingua-agents-chat"

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// Role identifies who wrote a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Message is one chat turn.
type Message struct {
	ID        string       `json:"id"`
	Role      Role         `json:"role"`
	Content   string       `json:"content"`
	Agent     router.Route `json:"agentType,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Session is a conversation of one type in one language.
type Session struct {
	ID        string           `json:"id"`
	Type      lang.SessionType `json:"type"`
	Language  lang.Language    `json:"language,omitempty"`
	Topic     string           `json:"topic,omitempty"`
	Messages  []Message        `json:"messages"`
	StartedAt time.Time        `json:"startedAt"`
}

// UserMessages counts the learner's messages in the session.
func (s Session) UserMessages() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			n++
		}
	}
	return n
}

func (s Session) clone() Session {
	s.Messages = append([]Message{}, s.Messages...)
	return s
}

type state struct {
	Sessions        map[string]*Session `json:"sessions"`
	ActiveSessionID string              `json:"activeSessionId,omitempty"`
}

// Service owns chat sessions and persists them after each mutation.
type Service struct {
	mu   sync.Mutex
	repo store.StateRepo
	st   state
	now  func() time.Time
}

// NewService creates a chat service, loading persisted state.
func NewService(ctx context.Context, repo store.StateRepo) (*Service, error) {
	s := &Service{repo: repo, now: time.Now}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces in-memory state with the persisted entry.
func (s *Service) Reload(ctx context.Context) error {
	var st state
	if _, err := store.LoadJSON(ctx, s.repo, StateKey, &st); err != nil {
		return fmt.Errorf("load chat: %w", err)
	}
	if st.Sessions == nil {
		st.Sessions = make(map[string]*Session)
	}
	for _, sess := range st.Sessions {
		if sess.Messages == nil {
			sess.Messages = []Message{}
		}
	}

	s.mu.Lock()
	s.st = st
	s.mu.Unlock()
	return nil
}

func (s *Service) persist(ctx context.Context) error {
	if err := store.SaveJSON(ctx, s.repo, StateKey, s.st, 0); err != nil {
		return fmt.Errorf("save chat: %w", err)
	}
	return nil
}

// CreateSession starts a session and makes it active.
func (s *Service) CreateSession(ctx context.Context, t lang.SessionType, l lang.Language, topic string) (Session, error) {
	if !t.Valid() {
		return Session{}, fmt.Errorf("create session: unsupported session type %q", t)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.NewString(),
		Type:      t,
		Language:  l,
		Topic:     topic,
		Messages:  []Message{},
		StartedAt: s.now(),
	}
	s.st.Sessions[sess.ID] = sess
	s.st.ActiveSessionID = sess.ID
	return sess.clone(), s.persist(ctx)
}

// AddMessage appends a message to a session.
func (s *Service) AddMessage(ctx context.Context, sessionID string, role Role, content string, agent router.Route) (Message, error) {
	if !role.Valid() {
		return Message{}, fmt.Errorf("add message: unknown role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.st.Sessions[sessionID]
	if !ok {
		return Message{}, fmt.Errorf("add message to %s: %w", sessionID, ErrSessionNotFound)
	}
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: s.now(),
	}
	sess.Messages = append(sess.Messages, m)
	return m, s.persist(ctx)
}

// UpdateLastAssistantMessage rewrites the content of the session's last
// message if it was written by the assistant. The returned bool reports
// whether anything changed.
func (s *Service) UpdateLastAssistantMessage(ctx context.Context, sessionID, content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.st.Sessions[sessionID]
	if !ok {
		return false, fmt.Errorf("update %s: %w", sessionID, ErrSessionNotFound)
	}
	last := len(sess.Messages) - 1
	if last < 0 || sess.Messages[last].Role != RoleAssistant {
		return false, nil
	}
	sess.Messages[last].Content = content
	return true, s.persist(ctx)
}

// Session returns a session by id.
func (s *Service) Session(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.st.Sessions[id]
	if !ok {
		return Session{}, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return sess.clone(), nil
}

// ActiveSession returns the active session. The bool is false when none
// is active.
func (s *Service) ActiveSession() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.st.Sessions[s.st.ActiveSessionID]
	if !ok {
		return Session{}, false
	}
	return sess.clone(), true
}

// SetActiveSession makes id the active session.
func (s *Service) SetActiveSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.Sessions[id]; !ok {
		return fmt.Errorf("activate %s: %w", id, ErrSessionNotFound)
	}
	s.st.ActiveSessionID = id
	return s.persist(ctx)
}

// SessionMessages returns a session's messages, or nil for unknown ids.
func (s *Service) SessionMessages(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.st.Sessions[id]
	if !ok {
		return nil
	}
	return append([]Message(nil), sess.Messages...)
}

// ClearSession deletes a session, deactivating it if it was active.
func (s *Service) ClearSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.st.Sessions[id]; !ok {
		return fmt.Errorf("clear %s: %w", id, ErrSessionNotFound)
	}
	delete(s.st.Sessions, id)
	if s.st.ActiveSessionID == id {
		s.st.ActiveSessionID = ""
	}
	return s.persist(ctx)
}

// Sessions returns every session, newest first.
func (s *Service) Sessions() []Session {
	s.mu.Lock()
	out := make([]Session, 0, len(s.st.Sessions))
	for _, sess := range s.st.Sessions {
		out = append(out, sess.clone())
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}

// Reset deletes every session.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.st = state{Sessions: make(map[string]*Session)}
	return s.persist(ctx)
}
