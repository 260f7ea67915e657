package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// marqueeInterval is how often a scrolling title advances one cell.
const marqueeInterval = 250 * time.Millisecond

const marqueeGap = "   •   "

// Marquee scrolls text that does not fit its width. Reset restarts it from
// the first rune.
type Marquee struct {
	text   []rune
	offset int
	// id ties ticks to one text so ticks from a replaced title are dropped.
	id int
}

type marqueeTickMsg struct{ id int }

// Reset replaces the text and rewinds the scroll.
func (q *Marquee) Reset(text string) {
	q.text = []rune(strings.TrimSpace(text))
	q.offset = 0
	q.id++
}

// Text returns the unscrolled text.
func (q Marquee) Text() string {
	return string(q.text)
}

// Tick schedules the next advance.
func (q Marquee) Tick() tea.Cmd {
	id := q.id
	return tea.Tick(marqueeInterval, func(time.Time) tea.Msg {
		return marqueeTickMsg{id: id}
	})
}

// Update advances the scroll for a tick that belongs to the current text
// and reports whether it did.
func (q *Marquee) Update(msg marqueeTickMsg) bool {
	if msg.id != q.id {
		return false
	}
	if len(q.text) > 0 {
		q.offset = (q.offset + 1) % (len(q.text) + len([]rune(marqueeGap)))
	}
	return true
}

// View renders width cells of the text. Text that fits is returned as is.
func (q Marquee) View(width int) string {
	if width <= 0 {
		return ""
	}
	if len(q.text) <= width {
		return string(q.text)
	}
	loop := append(append([]rune(nil), q.text...), []rune(marqueeGap)...)
	out := make([]rune, width)
	for i := range out {
		out[i] = loop[(q.offset+i)%len(loop)]
	}
	return string(out)
}
