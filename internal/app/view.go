package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/markup"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/ui/components"
	"github.com/abhisek/lingua/internal/ui/layout"
	"github.com/abhisek/lingua/internal/ui/theme"
)

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.hints(), m.width)
	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	var content string
	switch {
	case m.quiz != nil:
		content = m.quizView()
	case m.panel == panelProgress:
		content = m.progressView()
	default:
		content = m.chatView(contentHeight)
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

func (m Model) title() string {
	p, err := m.learner.Profiles.ActiveProfile()
	if err != nil {
		return "Welcome"
	}
	l := p.TargetLanguage
	return fmt.Sprintf("%s %s with %s · %s", l.Info().Flag, l.Name(), l.TutorName(), m.sessionType)
}

func (m Model) status() layout.Status {
	p, err := m.learner.Profiles.ActiveProfile()
	if err != nil {
		return layout.Status{}
	}
	return layout.Status{XP: p.TotalXP, Streak: p.Streak, Level: string(p.CEFRLevel)}
}

func (m Model) hints() []layout.KeyHint {
	switch {
	case m.quiz != nil:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Leave quiz"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case m.panel == panelProgress:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Chat"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: "Progress"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m Model) chatView(height int) string {
	width := max(20, m.width-4)
	wrap := lipgloss.NewStyle().Width(width)

	tutorName := "Tutor"
	if p, err := m.learner.Profiles.ActiveProfile(); err == nil {
		tutorName = p.TargetLanguage.TutorName()
	}

	var blocks []string
	for _, e := range m.entries {
		switch e.kind {
		case entryLearner:
			blocks = append(blocks, theme.LearnerName.Render("You")+"\n"+wrap.Render(theme.Body.Render(e.text)))
		case entryTutor:
			blocks = append(blocks, theme.TutorName.Render(tutorName)+"\n"+wrap.Render(theme.Body.Render(markup.Render(e.text))))
		case entryNotice:
			blocks = append(blocks, wrap.Render(theme.Notice.Render(e.text)))
		case entryError:
			blocks = append(blocks, wrap.Render(theme.ErrorText.Render(e.text)))
		}
	}
	if m.busy {
		text := markup.Render(m.pending)
		if text == "" {
			text = "…"
		}
		blocks = append(blocks, theme.TutorName.Render(tutorName)+"\n"+wrap.Render(theme.Hint.Render(text)))
	}

	input := m.input.View()
	transcript := layout.Tail(strings.Join(blocks, "\n\n"), height-lipgloss.Height(input)-1)
	return transcript + "\n\n" + input
}

func (m Model) progressView() string {
	p, err := m.learner.Profiles.ActiveProfile()
	if err != nil {
		return theme.Hint.Render("No profile yet. Pick a language with /lang.")
	}
	width := min(m.width-4, 72)

	var b strings.Builder
	b.WriteString(theme.Title.Render("Skills"))
	b.WriteString("\n\n")
	for _, s := range progress.Skills() {
		bar := components.ProgressBar{
			Label:      string(s),
			LabelWidth: 14,
			Percent:    float64(p.SkillScores[s]) / progress.MaxSkill,
			Width:      width,
		}
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	st := m.learner.Vocab.Stats(p.TargetLanguage)
	b.WriteString("\n")
	b.WriteString(theme.Title.Render("Vocabulary"))
	b.WriteString("\n\n")
	mastered := 0.0
	if st.Total > 0 {
		mastered = float64(st.Mastered) / float64(st.Total)
	}
	b.WriteString(components.ProgressBar{Label: "mastered", LabelWidth: 14, Percent: mastered, Width: width}.View())
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(fmt.Sprintf("%d words · %d learning · %d due", st.Total, st.Learning, st.DueForReview)))
	b.WriteString("\n\n")

	today := m.learner.Daily.Today()
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Today: %d messages, %d words reviewed · %d lessons completed",
		today.MessagesSent, today.WordsReviewed, len(p.CompletedTopics))))
	return b.String()
}

func (m Model) quizView() string {
	q := m.quiz
	cur := q.current()

	var b strings.Builder
	b.WriteString(theme.Title.Render(q.quiz.Title))
	b.WriteString(theme.Hint.Render(fmt.Sprintf("  question %d of %d", q.index+1, len(q.quiz.Questions))))
	b.WriteString("\n\n")

	if len(cur.Options) > 0 {
		b.WriteString(q.choice.View())
	} else {
		b.WriteString(theme.Body.Bold(true).Render(cur.Question))
		b.WriteString("\n\n")
		if !q.answered {
			b.WriteString(m.input.View())
		} else {
			b.WriteString(theme.Body.Render("> " + q.lastAnswer))
		}
		b.WriteString("\n")
	}

	if q.answered {
		b.WriteString("\n")
		if q.lastCorrect {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite. Answer: " + cur.Correct))
		}
		if cur.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(max(20, m.width-4)).Render(theme.Hint.Render(cur.Explanation)))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Press enter to continue."))
	}
	return b.String()
}
