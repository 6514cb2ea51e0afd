package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizfeed/internal/ui/theme"
)

// ProgressBar is a horizontal bar with an optional label and trailing text.
type ProgressBar struct {
	Label   string
	Percent float64
	Trail   string
	Width   int
	// LowAt switches the bar to the warning color at or below this fraction.
	LowAt float64
}

// View renders the bar.
func (p ProgressBar) View() string {
	var out string
	if p.Label != "" {
		out = theme.Body.Render(p.Label) + "  "
	}
	trail := ""
	if p.Trail != "" {
		trail = "  " + theme.Subtitle.Render(p.Trail)
	}

	barWidth := max(p.Width-lipgloss.Width(out)-lipgloss.Width(trail), 4)
	pct := min(max(p.Percent, 0), 1)
	filled := int(float64(barWidth) * pct)

	fill := theme.ProgressFilled
	if p.LowAt > 0 && pct <= p.LowAt {
		fill = theme.ProgressLow
	}
	out += fill.Render(strings.Repeat(" ", filled))
	out += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	return out + trail
}
