package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput is the single-line message box.
type TextInput struct {
	Model textinput.Model
}

// NewTextInput creates a focused input.
func NewTextInput(placeholder string, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	ti.Focus()
	return TextInput{Model: ti}
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the input.
func (t TextInput) View() string {
	return t.Model.View()
}

// SetWidth sets the visible width.
func (t *TextInput) SetWidth(w int) {
	t.Model.SetWidth(max(10, w))
}

// Take returns the trimmed value and clears the input.
func (t *TextInput) Take() string {
	v := strings.TrimSpace(t.Model.Value())
	t.Model.Reset()
	return v
}
