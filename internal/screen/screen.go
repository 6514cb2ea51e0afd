// Package screen defines the contract between the router and screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizfeed/internal/ui/layout"
)

// Screen is one routable view.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is implemented by screens that show a status in the
// header, such as the countdown.
type StatusProvider interface {
	Status() string
}
