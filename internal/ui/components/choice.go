package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizfeed/internal/ui/theme"
)

// Choice renders one question with its options. Cursor is the option under
// the keyboard cursor (-1 when the card is not focused); Chosen is the
// selected option index (-1 when unanswered).
type Choice struct {
	Number   int
	Question string
	Options  []string
	Cursor   int
	Chosen   int
	Focused  bool
	Width    int
}

// View renders the card.
func (c Choice) View() string {
	inner := max(c.Width-4, 10)
	var b strings.Builder

	head := fmt.Sprintf("%d. %s", c.Number, c.Question)
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).Render(head))
	b.WriteString("\n")

	if len(c.Options) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(inner).Render("  No options could be read for this question."))
	}
	for i, opt := range c.Options {
		mark := "( )"
		if i == c.Chosen {
			mark = "(•)"
		}
		prefix := "  "
		if c.Focused && i == c.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s", prefix, mark, opt)

		style := theme.Unselected
		switch {
		case c.Focused && i == c.Cursor:
			style = theme.Cursor
		case i == c.Chosen:
			style = theme.Chosen
		}
		b.WriteString("\n")
		b.WriteString(style.Width(inner).Render(line))
	}

	card := theme.Card
	if c.Focused {
		card = theme.FocusedCard
	}
	return card.Width(c.Width).Render(b.String())
}
