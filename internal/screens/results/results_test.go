package results

import (
	"encoding/json"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/explain"
	"github.com/abhisek/quizfeed/internal/feedparse"
	"github.com/abhisek/quizfeed/internal/llm"
	"github.com/abhisek/quizfeed/internal/mockfeed"
	"github.com/abhisek/quizfeed/internal/router"
	"github.com/abhisek/quizfeed/internal/screen"
	"github.com/abhisek/quizfeed/internal/screens"
	"github.com/abhisek/quizfeed/internal/session"
)

var start = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// submitted answers every sample question correctly except 102.
func submitted(t *testing.T) *session.State {
	t.Helper()
	res := feedparse.Parse(string(mockfeed.SamplePayload()))
	require.True(t, res.OK())

	st := session.New(session.Config{})
	st.Begin(res.Questions, start, nil)
	for id, opt := range map[string]int{"101": 2, "102": 3, "103": 2, "104": 2} {
		require.NoError(t, st.Select(id, opt))
	}
	_, err := st.Submit(start.Add(95 * time.Second))
	require.NoError(t, err)
	return st
}

func reply(text string) llm.MockResponse {
	b, _ := json.Marshal(map[string]any{"explanation": text, "confident": true})
	return llm.MockResponse{Content: b}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestView(t *testing.T) {
	s := New(screens.Deps{}, submitted(t), nil)

	assert.Equal(t, "3/4", s.Status())
	out := s.View(100, 60)
	assert.Contains(t, out, "You scored 3 out of 4 (75%)")
	assert.Contains(t, out, "Time 1:35")
	assert.Contains(t, out, "to fold")
	assert.Contains(t, out, "Correct answer:")
	assert.Contains(t, out, "const declares a compile-time constant.")
}

func TestHintsWithoutExplainer(t *testing.T) {
	s := New(screens.Deps{}, submitted(t), nil)
	for _, h := range s.KeyHints() {
		assert.NotEqual(t, "E", h.Key)
		assert.NotEqual(t, "R", h.Key)
	}

	_, cmd := s.Update(keyPress('e'))
	assert.Nil(t, cmd)
	assert.Equal(t, explain.ErrDisabled.Error(), s.notice)
}

func TestExplainFillsMissing(t *testing.T) {
	mock := llm.NewMockProvider(reply("Fetch means to go and get."), reply("429 is the rate limit status."))
	svc := explain.NewService(mock, explain.Config{MaxTokens: 100, Concurrency: 1})
	s := New(screens.Deps{Explainer: svc}, submitted(t), nil)
	require.ElementsMatch(t, []string{"102", "104"}, s.summary.MissingExplanations())

	_, cmd := s.Update(keyPress('e'))
	require.NotNil(t, cmd)
	assert.True(t, s.explaining)

	require.Eventually(t, func() bool {
		_, _ = s.Update(pollMsg{})
		return !s.explaining
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "Added 2 explanation(s).", s.notice)
	assert.Empty(t, s.summary.MissingExplanations())
	assert.Equal(t, 2, mock.CallCount())
	assert.Contains(t, s.View(100, 80), "429 is the rate limit status.")
}

func TestExplainFailure(t *testing.T) {
	svc := explain.NewService(llm.NewMockProvider(), explain.Config{Concurrency: 1})
	s := New(screens.Deps{Explainer: svc}, submitted(t), nil)

	_, _ = s.Update(keyPress('e'))
	require.Eventually(t, func() bool {
		_, _ = s.Update(pollMsg{})
		return !s.explaining
	}, time.Second, 10*time.Millisecond)

	assert.Contains(t, s.notice, "Could not generate explanations")
	assert.Len(t, s.summary.MissingExplanations(), 2)
}

type blank struct{}

func (blank) Init() tea.Cmd                          { return nil }
func (blank) Update(tea.Msg) (screen.Screen, tea.Cmd) { return blank{}, nil }
func (blank) View(int, int) string                   { return "" }
func (blank) Title() string                          { return "blank" }

func TestRestart(t *testing.T) {
	called := 0
	s := New(screens.Deps{}, submitted(t), func() screen.Screen {
		called++
		return blank{}
	})

	_, cmd := s.Update(keyPress('r'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	assert.Equal(t, blank{}, msg.Screen)
	assert.Equal(t, 1, called)
}
