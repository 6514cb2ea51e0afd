package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizfeed/internal/textfmt"
	"github.com/abhisek/quizfeed/internal/ui/components"
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.mode {
	case modeLoading:
		return s.renderLoading(width, height)
	case modeEmpty:
		return renderMessage(width, height, "No questions available",
			"The feed did not contain any usable question.", "Press R to try again.")
	case modeFailed:
		return renderMessage(width, height, "Could not load questions",
			s.loadErr.Error(), "Press R to try again.")
	}
	return s.renderQuestions(width, height)
}

func (s *Screen) renderLoading(width, height int) string {
	source := ""
	if s.deps.Loader != nil {
		source = s.deps.Loader.Source()
	}
	body := s.spinner.View() + " " + theme.Body.Render("Loading questions")
	if source != "" {
		body += "\n\n" + theme.Hint.Render(source)
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func renderMessage(width, height int, title string, lines ...string) string {
	parts := []string{theme.Title.Render(title), ""}
	for _, l := range lines {
		parts = append(parts, theme.Body.Width(min(width-8, 70)).Align(lipgloss.Center).Render(l))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}

func (s *Screen) renderQuestions(width, height int) string {
	cw := min(width-4, 100)

	submit := components.Button{Label: " Submit (S) ", Active: len(s.state.Unanswered()) == 0}
	top := []string{s.renderProgress(cw), submit.View()}
	if s.batch != nil && s.batch.Payload != nil && s.batch.Payload.FromCache {
		top = append(top, theme.Warning.Render("Offline: showing the last cached feed"))
	}
	if s.notice != "" {
		top = append(top, theme.Warning.Render(s.notice))
	}
	head := strings.Join(top, "\n")

	cards := make([]string, len(s.state.Questions))
	for i := range s.state.Questions {
		cards[i] = s.card(i, cw)
	}
	list := s.window(cards, height-lipgloss.Height(head)-1)

	content := lipgloss.JoinVertical(lipgloss.Left, head, "", list)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *Screen) renderProgress(width int) string {
	if s.deps.Quiz.TimeLimit > 0 {
		left := s.state.Remaining(s.deps.Clock())
		return components.ProgressBar{
			Label:   "Time",
			Percent: float64(left) / float64(s.deps.Quiz.TimeLimit),
			Trail:   s.answeredCount(),
			Width:   width,
			LowAt:   0.2,
		}.View()
	}
	total := s.state.Answerable()
	done := total - len(s.state.Unanswered())
	return components.ProgressBar{
		Label:   "Progress",
		Percent: float64(done) / float64(max(total, 1)),
		Trail:   s.answeredCount(),
		Width:   width,
	}.View()
}

func (s *Screen) card(i, width int) string {
	q := s.state.Questions[i]
	chosen := -1
	if text, ok := s.state.Selected(q.ID); ok {
		for j, op := range q.Options {
			if op.Text == text {
				chosen = j
				break
			}
		}
	}
	opts := make([]string, len(q.Options))
	for j, op := range q.Options {
		opts[j] = textfmt.Inline(op.Text)
	}
	return components.Choice{
		Number:   i + 1,
		Question: textfmt.Inline(q.Text),
		Options:  opts,
		Cursor:   s.cursors[i],
		Chosen:   chosen,
		Focused:  i == s.focus,
		Width:    width,
	}.View()
}

// window picks the run of cards that fits height and keeps the focused
// card visible.
func (s *Screen) window(cards []string, height int) string {
	if len(cards) == 0 {
		return ""
	}
	if s.focus < s.top {
		s.top = s.focus
	}
	for s.top < s.focus && stackHeight(cards[s.top:s.focus+1]) > height {
		s.top++
	}

	var shown []string
	used := 0
	for _, c := range cards[s.top:] {
		h := lipgloss.Height(c)
		if used+h > height && len(shown) > 0 {
			break
		}
		shown = append(shown, c)
		used += h
	}
	out := lipgloss.JoinVertical(lipgloss.Left, shown...)
	if rest := len(cards) - s.top - len(shown); rest > 0 {
		out += "\n" + theme.Hint.Render(fmt.Sprintf("  %d more below", rest))
	}
	return out
}

func stackHeight(cards []string) int {
	n := 0
	for _, c := range cards {
		n += lipgloss.Height(c)
	}
	return n
}
