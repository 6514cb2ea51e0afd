// Package home is the start screen.
package home

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/feedparse"
	"github.com/abhisek/quizfeed/internal/router"
	"github.com/abhisek/quizfeed/internal/screen"
	"github.com/abhisek/quizfeed/internal/screens"
	quizscreen "github.com/abhisek/quizfeed/internal/screens/quiz"
	"github.com/abhisek/quizfeed/internal/ui/components"
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

// checkedMsg reports a background feed check.
type checkedMsg struct {
	Batch *feed.Batch
	Err   error
}

// Screen offers to start a quiz or check the feed.
type Screen struct {
	deps     screens.Deps
	menu     components.Menu
	checking bool
	status   string
}

var (
	_ screen.Screen         = (*Screen)(nil)
	_ screen.StatusProvider = (*Screen)(nil)
)

// New creates the home screen.
func New(deps screens.Deps) *Screen {
	h := &Screen{deps: deps}
	h.menu = components.NewMenu([]components.MenuItem{
		{Label: "Start quiz", Action: func() tea.Cmd {
			return router.Push(quizscreen.New(h.deps))
		}},
		{Label: "Check feed", Action: h.check, Disabled: deps.Loader == nil},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	})
	return h
}

func (h *Screen) Init() tea.Cmd { return nil }

func (h *Screen) Title() string { return "Home" }

// Status names the feed source.
func (h *Screen) Status() string {
	if h.deps.Loader == nil {
		return ""
	}
	return h.deps.Loader.Source()
}

func (h *Screen) check() tea.Cmd {
	if h.checking {
		return nil
	}
	h.checking = true
	h.status = "Checking feed…"
	loader := h.deps.Loader
	return func() tea.Msg {
		batch, err := loader.Load(context.Background())
		return checkedMsg{Batch: batch, Err: err}
	}
}

func (h *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(checkedMsg); ok {
		h.checking = false
		h.status = describe(msg.Batch, msg.Err)
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// describe summarizes a load for the status line.
func describe(batch *feed.Batch, err error) string {
	switch {
	case errors.Is(err, feed.ErrNoQuestions):
		return "Feed reachable but no questions could be recovered."
	case err != nil:
		return "Feed unavailable: " + err.Error()
	}
	res := batch.Result
	var b strings.Builder
	fmt.Fprintf(&b, "%d question(s) via %s", len(res.Questions), res.Stage)
	if res.Stage == feedparse.StageRepair && res.Rule != "" {
		fmt.Fprintf(&b, " (%s)", res.Rule)
	}
	if d := res.Dropped; d.Questions > 0 || d.Options > 0 {
		fmt.Fprintf(&b, ", dropped %d question(s) and %d option(s)", d.Questions, d.Options)
	}
	if batch.Payload != nil && batch.Payload.FromCache {
		b.WriteString(", from cache")
	}
	return b.String()
}

func (h *Screen) View(width, height int) string {
	cw := min(width-8, 60)

	title := theme.Title.Render("quizfeed")
	sub := theme.Subtitle.Render("Questions straight from the feed, however broken it is.")

	menu := theme.Card.Width(cw).Render(strings.TrimRight(h.menu.View(), "\n"))

	parts := []string{title, sub, "", menu}
	if h.status != "" {
		parts = append(parts, "", theme.Hint.Width(cw).Align(lipgloss.Center).Render(h.status))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, parts...))
}
