package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	ChosenIndex  int
	Submitted    bool
}

// NewMultiChoice creates a selector. correctIndex may be -1 when no
// option is known to be right.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Update moves the cursor and submits on enter.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	if m.Submitted {
		return m
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m
	}
	switch kmsg.String() {
	case "up", "k":
		m.Selected = max(0, m.Selected-1)
	case "down", "j":
		m.Selected = min(len(m.Options)-1, m.Selected+1)
	case "enter":
		m.Submitted = true
		m.ChosenIndex = m.Selected
	}
	return m
}

// View renders the question and options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+i, opt)

		switch {
		case m.Submitted && i == m.CorrectIndex:
			line = theme.Correct.Render(line)
		case m.Submitted && i == m.ChosenIndex:
			line = theme.Incorrect.Render(line)
		case m.Submitted:
			line = theme.Hint.Render(line)
		case i == m.Selected:
			line = theme.Selected.Render(line)
		default:
			line = theme.Body.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// IsCorrect returns true if the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
