package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Status is the learner summary shown on the right of the header.
type Status struct {
	XP     int
	Streak int
	Level  string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small.\n\nResize to at least %d x %d\n(current %d x %d)",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the top bar: app name, title and learner status.
func RenderHeader(title string, st Status, width int) string {
	left := theme.Title.Render("Lingua")
	center := theme.Body.Render(title)

	var right string
	if st.Level != "" {
		right = theme.Notice.Render(fmt.Sprintf("%s  %d XP  %d day streak", st.Level, st.XP, st.Streak))
	}

	inner := max(0, width-4)
	leftGap := max(1, (inner-lipgloss.Width(center))/2-lipgloss.Width(left))
	rightGap := max(1, inner-lipgloss.Width(left)-leftGap-lipgloss.Width(center)-lipgloss.Width(right))

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFooter renders the key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
			" "+theme.Hint.Render(h.Description))
	}
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(0, height-lipgloss.Height(header)-lipgloss.Height(footer))
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}

// Tail returns the last n lines of s.
func Tail(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
