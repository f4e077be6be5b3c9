package app

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/learner"
	"github.com/abhisek/lingua/internal/prompts"
	"github.com/abhisek/lingua/internal/tutor"
)

const helpText = `Commands:
  /lang <es|de|en>   switch language, creating a profile at A1
  /level <A1..C2>    set your CEFR level
  /mode <type>       conversation, lesson, exercise, vocabulary, culture, assessment
  /style <style>     supportive or immersion corrections
  /review            practise the words due for review
  /quiz <topic>      take a short quiz
  /progress          show skills and vocabulary (or press tab)`

// reviewPrompt opens a review exchange.
const reviewPrompt = "Let's review my words."

func (m Model) command(text string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "help":
		m.notice("%s", helpText)

	case "lang":
		l, err := lang.ParseLanguage(arg)
		if err != nil {
			m.fail(err)
			break
		}
		p, err := m.learner.Profiles.CreateProfile(m.ctx, l, "")
		if err != nil {
			m.fail(err)
			break
		}
		m.notice("Now learning %s at %s with %s.", l.Name(), p.CEFRLevel, l.TutorName())

	case "level":
		p, err := m.learner.Profiles.ActiveProfile()
		if err != nil {
			m.fail(err)
			break
		}
		level, err := lang.ParseLevel(arg)
		if err != nil {
			m.fail(err)
			break
		}
		if _, err := m.learner.Profiles.UpdateLevel(m.ctx, p.TargetLanguage, level); err != nil {
			m.fail(err)
			break
		}
		m.notice("Level set to %s (%s).", level, level.Description())

	case "mode":
		t, err := lang.ParseSessionType(arg)
		if err != nil {
			m.fail(err)
			break
		}
		m.sessionType = t
		m.notice("Session type: %s.", t)

	case "style":
		mode, err := prompts.ParseMode(arg)
		if err != nil {
			m.fail(err)
			break
		}
		m.mode = mode
		m.notice("Correction style: %s.", mode)

	case "review":
		m.notice("Reviewing due words.")
		return m.send(learner.Message{
			Text:        reviewPrompt,
			SessionType: lang.SessionVocabulary,
			Mode:        m.mode,
			Review:      true,
		})

	case "quiz":
		return m.requestQuiz(arg)

	case "progress":
		m.togglePanel()

	default:
		m.fail(fmt.Errorf("unknown command /%s, try /help", name))
	}
	return m, nil
}

func (m Model) requestQuiz(topic string) (tea.Model, tea.Cmd) {
	if topic == "" {
		m.fail(errors.New("usage: /quiz <topic>"))
		return m, nil
	}
	if m.quizzer == nil {
		m.fail(errors.New("quizzes are not available"))
		return m, nil
	}
	p, err := m.learner.Profiles.ActiveProfile()
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.busy = true
	m.notice("Preparing a quiz on %q.", topic)

	ctx, q := m.ctx, m.quizzer
	in := tutor.QuizInput{Language: p.TargetLanguage, Level: p.CEFRLevel, Topic: topic}
	return m, func() tea.Msg {
		quiz, err := q.Quiz(ctx, in)
		return quizReadyMsg{quiz: quiz, err: err}
	}
}
