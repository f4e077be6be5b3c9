package app

import (
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/lang"
	"github.com/abhisek/lingua/internal/tutor"
	"github.com/abhisek/lingua/internal/ui/components"
)

type quizState struct {
	quiz     *tutor.Quiz
	language lang.Language
	index    int
	correct  int

	choice      components.MultiChoice
	answered    bool
	lastCorrect bool
	lastAnswer  string
}

func (q *quizState) current() tutor.QuizQuestion {
	return q.quiz.Questions[q.index]
}

// prepare sets up the selector for the current question.
func (q *quizState) prepare() {
	cur := q.current()
	q.answered = false
	q.lastAnswer = ""
	if len(cur.Options) > 0 {
		q.choice = components.NewMultiChoice(cur.Question, cur.Options, cur.CorrectIndex())
	}
}

func (m Model) startQuiz(msg quizReadyMsg) Model {
	m.busy = false
	if msg.err != nil {
		m.fail(fmt.Errorf("quiz unavailable: %w", msg.err))
		return m
	}
	if msg.quiz == nil || len(msg.quiz.Questions) == 0 {
		m.fail(errors.New("the quiz came back empty"))
		return m
	}
	m.quiz = &quizState{quiz: msg.quiz, language: msg.quiz.Language}
	m.quiz.prepare()
	m.input.Take()
	return m
}

func (m Model) updateQuiz(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	q := m.quiz
	cur := q.current()

	if q.answered {
		if msg.String() != "enter" {
			return m, nil
		}
		q.index++
		if q.index >= len(q.quiz.Questions) {
			return m.finishQuiz(), nil
		}
		q.prepare()
		return m, nil
	}

	if len(cur.Options) > 0 {
		q.choice = q.choice.Update(msg)
		if q.choice.Submitted {
			q.answer(cur, cur.Options[q.choice.ChosenIndex])
		}
		return m, nil
	}

	if msg.String() == "enter" {
		if ans := m.input.Take(); ans != "" {
			q.answer(cur, ans)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (q *quizState) answer(cur tutor.QuizQuestion, ans string) {
	q.answered = true
	q.lastAnswer = ans
	q.lastCorrect = cur.Check(ans)
	if q.lastCorrect {
		q.correct++
	}
}

func (m Model) finishQuiz() Model {
	q := m.quiz
	m.quiz = nil
	total := len(q.quiz.Questions)
	out, err := m.learner.RecordQuiz(m.ctx, q.language, q.correct, total)
	if err != nil {
		m.fail(err)
		return m
	}
	msg := fmt.Sprintf("Quiz complete: %d/%d correct.", q.correct, total)
	if s := outcomeNotice(out); s != "" {
		msg += " " + s
	}
	m.notice("%s", msg)
	return m
}
