// Package results shows the graded attempt.
package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizfeed/internal/explain"
	"github.com/abhisek/quizfeed/internal/quiz"
	"github.com/abhisek/quizfeed/internal/router"
	"github.com/abhisek/quizfeed/internal/screen"
	"github.com/abhisek/quizfeed/internal/screens"
	"github.com/abhisek/quizfeed/internal/session"
	"github.com/abhisek/quizfeed/internal/textfmt"
	"github.com/abhisek/quizfeed/internal/ui/layout"
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

const pollInterval = 250 * time.Millisecond

// pollMsg checks for finished explanations.
type pollMsg struct{}

// Screen lists every question with the chosen and the correct answer.
type Screen struct {
	deps      screens.Deps
	summary   *session.Summary
	questions []quiz.Question
	restart   func() screen.Screen

	viewport   viewport.Model
	explaining bool
	notice     string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New builds the results of a submitted attempt. restart, when set,
// returns the screen for a fresh attempt over the same questions.
func New(deps screens.Deps, state *session.State, restart func() screen.Screen) *Screen {
	qs := make([]quiz.Question, len(state.Questions))
	copy(qs, state.Questions)
	return &Screen{
		deps:      deps,
		summary:   session.BuildSummary(state),
		questions: qs,
		restart:   restart,
		viewport:  viewport.New(),
	}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Results" }

// Status shows the score.
func (s *Screen) Status() string {
	if s.summary == nil {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.summary.Correct, s.summary.Total)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if s.canExplain() {
		hints = append(hints, layout.KeyHint{Key: "E", Description: "Explain"})
	}
	if s.restart != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Home"})
}

func (s *Screen) canExplain() bool {
	return s.deps.Explainer.Enabled() && s.summary != nil &&
		len(s.summary.MissingExplanations()) > 0
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		return s, s.poll()

	case tea.KeyPressMsg:
		switch msg.String() {
		case "e":
			return s, s.explain()
		case "r":
			if s.restart != nil {
				return s, router.Replace(s.restart())
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

func (s *Screen) explain() tea.Cmd {
	if s.explaining {
		return nil
	}
	if !s.deps.Explainer.Enabled() {
		s.notice = explain.ErrDisabled.Error()
		return nil
	}
	missing := s.missingQuestions()
	if len(missing) == 0 {
		s.notice = "Every question already has an explanation."
		return nil
	}
	s.explaining = true
	s.notice = fmt.Sprintf("Explaining %d question(s)…", len(missing))
	s.deps.Explainer.Request(context.Background(), missing)
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func (s *Screen) missingQuestions() []quiz.Question {
	want := make(map[string]bool)
	for _, id := range s.summary.MissingExplanations() {
		want[id] = true
	}
	var out []quiz.Question
	for _, q := range explain.Missing(s.questions) {
		if want[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func (s *Screen) poll() tea.Cmd {
	if !s.explaining {
		return nil
	}
	res, ok := s.deps.Explainer.Consume()
	if !ok {
		return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
	}
	s.explaining = false

	filled := 0
	for id, e := range res.Explanations {
		if s.summary.SetExplanation(id, e.Text) {
			filled++
		}
	}
	switch {
	case res.Err != nil && filled == 0:
		s.notice = "Could not generate explanations: " + firstLine(res.Err)
	case res.Err != nil:
		s.notice = fmt.Sprintf("Added %d explanation(s); some failed.", filled)
	default:
		s.notice = fmt.Sprintf("Added %d explanation(s).", filled)
	}
	return nil
}

func firstLine(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		if errs := joined.Unwrap(); len(errs) > 0 {
			err = errs[0]
		}
	}
	msg, _, _ := strings.Cut(err.Error(), "\n")
	return msg
}

func (s *Screen) View(width, height int) string {
	if s.summary == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Nothing to show yet."))
	}
	cw := min(width-4, 100)
	head := s.renderHeadline(cw)

	s.viewport.SetWidth(cw)
	s.viewport.SetHeight(max(height-lipgloss.Height(head)-1, 1))
	s.viewport.SetContent(renderItems(s.summary.Items, cw))

	content := lipgloss.JoinVertical(lipgloss.Left, head, "", s.viewport.View())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *Screen) renderHeadline(width int) string {
	sum := s.summary
	score := fmt.Sprintf("You scored %d out of %d (%.0f%%)", sum.Correct, sum.Total, sum.Accuracy*100)
	lines := []string{theme.Title.Render(score)}

	meta := "Time " + layout.FormatClock(int(sum.Duration.Round(time.Second).Seconds()))
	if sum.TimedOut {
		meta += "  ·  time ran out"
	}
	lines = append(lines, theme.Subtitle.Render(meta))
	if s.notice != "" {
		lines = append(lines, theme.Warning.Width(width).Render(s.notice))
	}
	return strings.Join(lines, "\n")
}

func renderItems(items []session.Item, width int) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(renderItem(it, width))
	}
	return b.String()
}

func renderItem(it session.Item, width int) string {
	mark, style := "✗", theme.Incorrect
	if it.Correct {
		mark, style = "✓", theme.Correct
	}
	inner := max(width-4, 10)

	var b strings.Builder
	b.WriteString(style.Render(mark) + " ")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(inner).
		Render(fmt.Sprintf("%d. %s", it.Number, textfmt.Inline(it.Question))))

	chosen := textfmt.Inline(it.Chosen)
	if !it.Answered {
		chosen = "(no answer)"
	}
	b.WriteString("\n    " + theme.Hint.Render("Your answer: ") + style.Render(chosen))
	if !it.Correct {
		answer := textfmt.Inline(it.Answer)
		if !it.Gradable {
			answer += " (answer key ambiguous)"
		}
		b.WriteString("\n    " + theme.Hint.Render("Correct answer: ") + theme.Correct.Render(answer))
	}
	if it.Explanation != "" {
		text := textfmt.Display(it.Explanation)
		b.WriteString("\n" + theme.Body.Width(inner).PaddingLeft(4).Render(text))
	}
	return b.String()
}
