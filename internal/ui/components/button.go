package components

import (
	"github.com/abhisek/quizfeed/internal/ui/theme"
)

// Button is a labelled action rendered active or inactive.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render(b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
