// Package app is the interactive terminal tutor: a streaming chat with a
// progress panel and generated quizzes.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/ui/components"
)

// InputLimit caps a single learner message.
const InputLimit = 2000

// Quizzer generates quizzes.
type Quizzer interface {
	Quiz(ctx context.Context, in tutor.QuizInput) (*tutor.Quiz, error)
}

// Options configures the chat.
type Options struct {
	Learner     *learner.Service
	Quizzer     Quizzer
	SessionType lang.SessionType
	Mode        prompts.Mode
}

type panel int

const (
	panelChat panel = iota
	panelProgress
)

type entryKind int

const (
	entryLearner entryKind = iota
	entryTutor
	entryNotice
	entryError
)

type entry struct {
	kind entryKind
	text string
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx         context.Context
	learner     *learner.Service
	quizzer     Quizzer
	sessionType lang.SessionType
	mode        prompts.Mode

	input   components.TextInput
	entries []entry
	pending string
	stream  <-chan tea.Msg
	busy    bool
	panel   panel
	quiz    *quizState

	width  int
	height int
}

// New creates the chat model.
func New(ctx context.Context, opts Options) Model {
	if opts.SessionType == "" {
		opts.SessionType = lang.SessionConversation
	}
	m := Model{
		ctx:         ctx,
		learner:     opts.Learner,
		quizzer:     opts.Quizzer,
		sessionType: opts.SessionType,
		mode:        opts.Mode,
		input:       components.NewTextInput("Write to your tutor, or /help", InputLimit),
	}
	if _, err := m.learner.Profiles.ActiveProfile(); err != nil {
		m.notice("No profile yet. Pick a language with /lang es, /lang de or /lang en.")
	}
	return m
}

// Run starts the Bubble Tea program and blocks until the learner quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run chat: %w", err)
	}
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 6)
		return m, nil

	case chunkMsg:
		m.pending += string(msg)
		return m, waitFor(m.stream)

	case replyDoneMsg:
		return m.finishReply(msg), nil

	case quizReadyMsg:
		return m.startQuiz(msg), nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.quiz != nil {
				m.quiz = nil
				m.notice("Quiz abandoned.")
			}
			m.panel = panelChat
			return m, nil
		case "tab":
			if m.quiz == nil {
				m.togglePanel()
			}
			return m, nil
		}
		if m.quiz != nil {
			return m.updateQuiz(msg)
		}
		if msg.String() == "enter" {
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) togglePanel() {
	if m.panel == panelChat {
		m.panel = panelProgress
	} else {
		m.panel = panelChat
	}
}

func (m *Model) notice(format string, args ...any) {
	m.entries = append(m.entries, entry{kind: entryNotice, text: fmt.Sprintf(format, args...)})
}

func (m *Model) fail(err error) {
	m.entries = append(m.entries, entry{kind: entryError, text: err.Error()})
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	text := m.input.Take()
	if text == "" {
		return m, nil
	}
	if strings.HasPrefix(text, "/") {
		return m.command(text)
	}
	m.entries = append(m.entries, entry{kind: entryLearner, text: text})
	return m.send(learner.Message{Text: text, SessionType: m.sessionType, Mode: m.mode})
}

// send streams one exchange in the background, delivering chunks as
// chunkMsg and the result as replyDoneMsg.
func (m Model) send(msg learner.Message) (tea.Model, tea.Cmd) {
	ch := make(chan tea.Msg, 16)
	m.stream = ch
	m.busy = true
	m.pending = ""
	m.panel = panelChat

	ctx, svc := m.ctx, m.learner
	go func() {
		defer close(ch)
		out, err := svc.Send(ctx, msg, func(s string) error {
			select {
			case ch <- chunkMsg(s):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		select {
		case ch <- replyDoneMsg{outcome: out, err: err}:
		case <-ctx.Done():
		}
	}()
	return m, waitFor(ch)
}

func (m Model) finishReply(msg replyDoneMsg) Model {
	m.busy = false
	reply := m.pending
	m.pending = ""

	if strings.TrimSpace(reply) != "" {
		m.entries = append(m.entries, entry{kind: entryTutor, text: reply})
	}
	switch {
	case errors.Is(msg.err, progress.ErrNoProfile):
		m.notice("No profile yet. Pick a language with /lang es, /lang de or /lang en.")
	case errors.Is(msg.err, learner.ErrNothingToReview):
		m.notice("Nothing is due for review right now.")
	case msg.err != nil:
		m.fail(fmt.Errorf("tutor unavailable: %w", msg.err))
	case msg.outcome != nil:
		if s := outcomeNotice(msg.outcome); s != "" {
			m.notice("%s", s)
		}
	}
	return m
}

// outcomeNotice summarises what an exchange changed on one line.
func outcomeNotice(out *learner.Outcome) string {
	var parts []string
	if out.XPGained > 0 {
		parts = append(parts, fmt.Sprintf("+%d XP", out.XPGained))
	}
	if out.WordsAdded > 0 {
		parts = append(parts, fmt.Sprintf("%d new %s", out.WordsAdded, plural(out.WordsAdded, "word", "words")))
	}
	if out.WordsReviewed > 0 {
		parts = append(parts, fmt.Sprintf("%d reviewed", out.WordsReviewed))
	}
	for _, t := range out.TopicsCompleted {
		parts = append(parts, fmt.Sprintf("lesson %q done", t))
	}
	if out.LevelChange != nil {
		parts = append(parts, fmt.Sprintf("level %s → %s", out.LevelChange.From, out.LevelChange.To))
	}
	for _, a := range out.Unlocked {
		parts = append(parts, fmt.Sprintf("unlocked %s %s", a.Icon, a.Title))
	}
	return strings.Join(parts, " · ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
