package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingua/internal/ui/theme"
)

// ProgressBar is a labelled horizontal bar.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Percent    float64
	Width      int
}

// View renders the bar followed by the percentage.
func (p ProgressBar) View() string {
	label := theme.Body.Width(p.LabelWidth).Render(p.Label)
	barWidth := max(4, p.Width-lipgloss.Width(label)-6)

	filled := min(barWidth, max(0, int(float64(barWidth)*p.Percent)))
	bar := lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	return label + bar + theme.Hint.Render(fmt.Sprintf(" %3d%%", int(p.Percent*100)))
}
