package session

import "time"

// LoadGate keeps a loading indicator on screen for at least MinDisplay so
// a fast fetch does not flash it.
type LoadGate struct {
	MinDisplay time.Duration
	shownAt    time.Time
}

// Show marks the loader as visible from now.
func (g *LoadGate) Show(now time.Time) { g.shownAt = now }

// Hold returns how much longer the loader must stay up at now.
func (g *LoadGate) Hold(now time.Time) time.Duration {
	if g.shownAt.IsZero() {
		return 0
	}
	if d := g.shownAt.Add(g.MinDisplay).Sub(now); d > 0 {
		return d
	}
	return 0
}

// Ready reports whether the loader may be dismissed at now.
func (g *LoadGate) Ready(now time.Time) bool { return g.Hold(now) == 0 }
