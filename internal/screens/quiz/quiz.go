// Package quiz is the screen where questions are loaded and answered.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/router"
	"github.com/abhisek/quizfeed/internal/screen"
	"github.com/abhisek/quizfeed/internal/screens"
	"github.com/abhisek/quizfeed/internal/screens/results"
	"github.com/abhisek/quizfeed/internal/session"
	"github.com/abhisek/quizfeed/internal/ui/layout"
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

type mode int

const (
	modeLoading mode = iota
	modeAnswering
	modeEmpty
	modeFailed
)

// Screen loads the feed and runs one attempt.
type Screen struct {
	deps  screens.Deps
	state *session.State
	gate  session.LoadGate

	spinner spinner.Model
	mode    mode
	batch   *feed.Batch
	loadErr error

	// pending holds a load result while the gate is still closed.
	pending *loadedMsg

	focus   int
	cursors []int
	top     int
	notice  string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
	_ screen.StatusProvider  = (*Screen)(nil)
)

// New creates a quiz screen that fetches a fresh feed on Init.
func New(deps screens.Deps) *Screen {
	return &Screen{
		deps:    deps,
		state:   session.New(deps.SessionConfig()),
		gate:    session.LoadGate{MinDisplay: deps.Quiz.MinLoading},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Cursor)),
	}
}

// Resume creates a quiz screen over an already started attempt, used when
// the player retries from the results screen.
func Resume(deps screens.Deps, state *session.State) *Screen {
	s := New(deps)
	s.state = state
	s.startAnswering()
	return s
}

func (s *Screen) Init() tea.Cmd {
	if s.mode == modeAnswering {
		return s.clockTick()
	}
	return s.reload()
}

func (s *Screen) Title() string { return "Quiz" }

func (s *Screen) reload() tea.Cmd {
	s.mode = modeLoading
	s.loadErr = nil
	s.pending = nil
	s.notice = ""
	s.gate.Show(s.deps.Clock())
	return tea.Batch(s.spinner.Tick, s.load())
}

func (s *Screen) load() tea.Cmd {
	loader := s.deps.Loader
	return func() tea.Msg {
		if loader == nil {
			return loadedMsg{Err: errors.New("no feed configured")}
		}
		batch, err := loader.Load(context.Background())
		return loadedMsg{Batch: batch, Err: err}
	}
}

func (s *Screen) clockTick() tea.Cmd {
	if s.deps.Quiz.TimeLimit <= 0 {
		return nil
	}
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if s.mode != modeLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case loadedMsg:
		if s.mode != modeLoading {
			return s, nil
		}
		now := s.deps.Clock()
		if hold := s.gate.Hold(now); hold > 0 {
			s.pending = &msg
			return s, tea.Tick(hold, func(time.Time) tea.Msg { return gateMsg{} })
		}
		return s, s.finishLoading(msg)

	case gateMsg:
		if s.pending == nil {
			return s, nil
		}
		lm := *s.pending
		s.pending = nil
		return s, s.finishLoading(lm)

	case clockTickMsg:
		if s.mode != modeAnswering || s.state.Phase != session.PhaseAnswering {
			return s, nil
		}
		if s.state.Tick(s.deps.Clock()) {
			return s, s.showResults()
		}
		return s, s.clockTick()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) finishLoading(msg loadedMsg) tea.Cmd {
	s.batch = msg.Batch
	switch {
	case errors.Is(msg.Err, feed.ErrNoQuestions):
		s.mode = modeEmpty
		return nil
	case msg.Err != nil:
		s.mode = modeFailed
		s.loadErr = msg.Err
		return nil
	case msg.Batch == nil || len(msg.Batch.Questions) == 0:
		s.mode = modeEmpty
		return nil
	}

	s.state.Begin(msg.Batch.Questions, s.deps.Clock(), s.deps.Rand)
	s.startAnswering()
	return s.clockTick()
}

func (s *Screen) startAnswering() {
	s.mode = modeAnswering
	s.focus, s.top = 0, 0
	s.cursors = make([]int, len(s.state.Questions))
	s.notice = ""
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch s.mode {
	case modeEmpty, modeFailed:
		if key == "r" {
			return s, s.reload()
		}
		return s, nil
	case modeLoading:
		return s, nil
	}

	if s.state.Phase != session.PhaseAnswering || len(s.state.Questions) == 0 {
		return s, nil
	}
	q := s.state.Questions[s.focus]

	switch key {
	case "up", "k":
		s.cursors[s.focus] = max(s.cursors[s.focus]-1, 0)
	case "down", "j":
		s.cursors[s.focus] = max(min(s.cursors[s.focus]+1, len(q.Options)-1), 0)
	case "tab", "right", "l":
		s.moveFocus(1)
	case "shift+tab", "left", "h":
		s.moveFocus(-1)
	case "enter", "space":
		s.choose(s.cursors[s.focus])
	case "x", "backspace":
		s.state.Clear(q.ID)
		s.notice = ""
	case "s":
		return s, s.submit()
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(q.Options) {
			s.cursors[s.focus] = n - 1
			s.choose(n - 1)
		}
	}
	return s, nil
}

func (s *Screen) moveFocus(dir int) {
	s.focus = min(max(s.focus+dir, 0), len(s.state.Questions)-1)
}

func (s *Screen) choose(idx int) {
	q := s.state.Questions[s.focus]
	if idx < 0 || idx >= len(q.Options) {
		return
	}
	if err := s.state.Select(q.ID, q.Options[idx].ID); err != nil {
		s.notice = err.Error()
		return
	}
	s.notice = ""
}

func (s *Screen) submit() tea.Cmd {
	if _, err := s.state.Submit(s.deps.Clock()); err != nil {
		s.notice = err.Error()
		if errors.Is(err, session.ErrIncomplete) {
			s.jumpToUnanswered()
		}
		return nil
	}
	return s.showResults()
}

func (s *Screen) jumpToUnanswered() {
	missing := s.state.Unanswered()
	if len(missing) == 0 {
		return
	}
	for i, q := range s.state.Questions {
		if q.ID == missing[0] {
			s.focus = i
			return
		}
	}
}

func (s *Screen) showResults() tea.Cmd {
	deps, state := s.deps, s.state
	restart := func() screen.Screen {
		state.Restart(deps.Clock(), deps.Rand)
		return Resume(deps, state)
	}
	return router.Replace(results.New(deps, state, restart))
}

// Status shows the countdown while answering.
func (s *Screen) Status() string {
	if s.mode != modeAnswering || s.deps.Quiz.TimeLimit <= 0 {
		return ""
	}
	left := s.state.Remaining(s.deps.Clock())
	return "⏱ " + layout.FormatClock(int(left.Round(time.Second).Seconds()))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.mode {
	case modeEmpty, modeFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case modeLoading:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Option"},
		{Key: "Tab", Description: "Next"},
		{Key: "Enter", Description: "Select"},
		{Key: "X", Description: "Clear"},
		{Key: "S", Description: "Submit"},
	}
}

// answeredCount is shown next to the progress bar.
func (s *Screen) answeredCount() string {
	total := s.state.Answerable()
	return fmt.Sprintf("%d/%d answered", total-len(s.state.Unanswered()), total)
}
