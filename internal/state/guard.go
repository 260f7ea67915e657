package state

import "github.com/benbjohnson/clock"

// guard protects one locally driven control from remote updates. It is
// active from Begin until the quiescence window after the last command it
// triggered has elapsed.
type guard struct {
	active   bool
	held     bool // user is still dragging
	inflight int
	gen      uint64
	timer    *clock.Timer
}

func (g *guard) begin() {
	g.active = true
	g.held = true
	g.gen++
	g.stopTimer()
}

func (g *guard) release() {
	g.held = false
}

func (g *guard) stopTimer() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

// settling reports whether an expiry timer may be armed now.
func (g *guard) settling() bool {
	return g.active && !g.held && g.inflight == 0
}
