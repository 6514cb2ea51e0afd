package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizfeed/internal/router"
	"github.com/abhisek/quizfeed/internal/screens"
)

func sized(t *testing.T, w, h int) AppModel {
	t.Helper()
	m := newAppModel(screens.Deps{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return next.(AppModel)
}

func TestViewRendersHomeFrame(t *testing.T) {
	m := sized(t, 100, 30)
	assert.True(t, m.View().AltScreen)

	out := m.render()
	assert.Contains(t, out, "quizfeed")
	assert.Contains(t, out, "Start quiz")
	assert.Contains(t, out, "Ctrl+C")
}

func TestTooSmall(t *testing.T) {
	m := sized(t, 40, 10)
	assert.Contains(t, m.render(), "Terminal too small")
}

func TestCtrlCQuits(t *testing.T) {
	m := sized(t, 100, 30)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEscOnRootStays(t *testing.T) {
	m := sized(t, 100, 30)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.router.Depth())
}

func TestEscPopsPushedScreen(t *testing.T) {
	m := sized(t, 100, 30)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(AppModel)
	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Quiz", m.router.Active().Title())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
}
