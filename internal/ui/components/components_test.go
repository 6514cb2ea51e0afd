package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestMenuSkipsDisabled(t *testing.T) {
	fired := ""
	m := NewMenu([]MenuItem{
		{Label: "Start", Disabled: true},
		{Label: "Reload", Action: func() tea.Cmd { fired = "reload"; return nil }},
		{Label: "Hidden", Disabled: true},
		{Label: "Quit", Action: func() tea.Cmd { fired = "quit"; return nil }},
	})
	assert.Equal(t, 1, m.Selected)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected)
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 3, m.Selected, "stays on last enabled item")

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "quit", fired)

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 1, m.Selected)
}

func TestChoiceView(t *testing.T) {
	c := Choice{Number: 2, Question: "Pick a color", Options: []string{"Blue", "Car"}, Cursor: 1, Chosen: 0, Focused: true, Width: 40}
	out := c.View()
	assert.Contains(t, out, "2. Pick a color")
	assert.Contains(t, out, "(•) Blue")
	assert.Contains(t, out, "▸ ( ) Car")
}

func TestProgressBarWidth(t *testing.T) {
	p := ProgressBar{Percent: 0.5, Width: 20}
	out := p.View()
	assert.Equal(t, 20, len([]rune(stripANSI(out))))
}

func stripANSI(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
