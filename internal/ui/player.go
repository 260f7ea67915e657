package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tonearm/internal/musicd"
)

// Player panel geometry. The panel box starts below the header and command
// bar; inside it the title, seek bar and volume bar take one line each.
const (
	panelTop      = 2
	seekLine      = 1
	volumeLine    = 2
	trackListLine = 4
	barIndent     = 2
	labelReserve  = 34
)

// layout sizes the width-dependent components.
func (m *Model) layout() {
	if m.width == 0 {
		return
	}
	bar := m.barWidth()
	m.seekBar.Width = bar
	m.volumeBar.Width = bar
	m.logViewport.Width = max(m.width-2, 0)
	m.logViewport.Height = max(m.contentHeight()-2, 0)
}

func (m Model) contentHeight() int {
	return max(m.height-panelTop, 3)
}

func (m Model) innerWidth() int {
	return max(m.width-2, 0)
}

func (m Model) barWidth() int {
	return max(m.innerWidth()-barIndent-labelReserve, 10)
}

// seekBarX returns the first and one-past-last screen columns of the seek bar.
func (m Model) seekBarX() (int, int) {
	x0 := 1 + barIndent
	return x0, x0 + m.barWidth()
}

// seekBarY returns the screen row of the seek bar.
func (m Model) seekBarY() int {
	return panelTop + 1 + seekLine
}

// positionAt maps a screen column on the seek bar to a track position.
func (m Model) positionAt(x int) time.Duration {
	x0, x1 := m.seekBarX()
	frac := float64(x-x0) / float64(max(x1-x0-1, 1))
	frac = min(max(frac, 0), 1)
	return time.Duration(frac * float64(m.player.Duration))
}

// handleMouse lets the seek bar be dragged with the left button. The
// control is held from press to release and the seek is sent on release.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.currentView != ViewPlayer || m.modal != nil || m.showHelp || !m.player.DurationKnown {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != m.seekBarY() {
			return m, nil
		}
		x0, x1 := m.seekBarX()
		if msg.X < x0 || msg.X >= x1 {
			return m, nil
		}
		m.dragging = true
		m.controls.BeginScrub()
		m.controls.ScrubTo(m.positionAt(msg.X))
	case tea.MouseActionMotion:
		if m.dragging {
			m.controls.ScrubTo(m.positionAt(msg.X))
		}
	case tea.MouseActionRelease:
		if m.dragging {
			m.dragging = false
			m.controls.EndScrub(m.positionAt(msg.X))
		}
	}
	return m, nil
}

// handlePlayerKey processes keys for the player view.
func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := time.Duration(m.prefs.SeekStep) * time.Second
	n := len(m.currentTracks())
	switch {
	case key.Matches(msg, m.keys.SeekBack):
		m.controls.SeekBy(-step)
	case key.Matches(msg, m.keys.SeekFwd):
		m.controls.SeekBy(step)
	case key.Matches(msg, m.keys.Select):
		if n > 0 {
			m.controls.SelectTrack(m.selectedTrack)
		}
	default:
		m.selectedTrack = moveCursor(msg, m.keys, m.selectedTrack, n)
	}
	return m, nil
}

// currentTracks lists the tracks of the active playlist.
func (m Model) currentTracks() []string {
	p, ok := m.player.CurrentPlaylist()
	if !ok {
		return nil
	}
	return p.Meta.Tracks
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewPlaylists:
		return m.renderPlaylists()
	case ViewJobs:
		return m.renderJobs()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderPlayer()
	}
}

// renderPlayer renders the now playing panel and the track list.
func (m Model) renderPlayer() string {
	bgColor := m.theme.FocusBg
	bg := newCanvas(bgColor)
	styles := m.theme.Styles()
	width := m.innerWidth()
	height := m.contentHeight()

	if !m.player.Ready {
		msg := bg.paint("Waiting for the first status from musicd...", styles.MutedText)
		return m.renderTitledBox("Now Playing", bg.fill(msg, width), m.width, height, true)
	}

	lines := make([]string, 0, height)

	// Title
	glyph, glyphStyle := "▶", styles.SuccessText
	if m.player.Paused {
		glyph, glyphStyle = "❚❚", styles.WarningText
	}
	titleWidth := max(width-barIndent-4, 1)
	title := m.title.View(titleWidth)
	if title == "" {
		title = "No track"
	}
	lines = append(lines, bg.fill(
		bg.pad(barIndent)+bg.paint(glyph, glyphStyle)+bg.pad(1)+bg.paint(title, styles.Text.Bold(true)),
		width))

	// Seek bar
	pct := 0.0
	if m.player.DurationKnown && m.player.Duration > 0 {
		pct = float64(m.player.Position) / float64(m.player.Duration)
	}
	label := m.player.PositionLabel
	if label == "" {
		label = musicd.FormatPosition(m.player.Position, m.player.Duration, m.player.DurationKnown)
	}
	seekLabelStyle := styles.MutedText
	if m.mode == modeScrub || m.dragging {
		label = musicd.FormatClock(m.player.Position) + " ← " + label
		seekLabelStyle = styles.AccentText
	}
	lines = append(lines, bg.fill(
		bg.pad(barIndent)+m.seekBar.ViewAs(min(max(pct, 0), 1))+bg.pad(1)+bg.paint(label, seekLabelStyle),
		width))

	// Volume bar
	volStyle := styles.MutedText
	if m.mode == modeVolume {
		volStyle = styles.AccentText
	}
	lines = append(lines, bg.fill(
		bg.pad(barIndent)+m.volumeBar.ViewAs(m.player.Volume)+bg.pad(1)+
			bg.paint(fmt.Sprintf("vol %3.0f%%", m.player.Volume*100), volStyle),
		width))

	lines = append(lines, bg.fill("", width))

	// Tracks
	tracks := m.currentTracks()
	rows := make([]listRow, len(tracks))
	for i, t := range tracks {
		row := listRow{text: t, detail: fmt.Sprintf("%d", i+1)}
		if i == m.player.TrackIndex {
			row.marker = "▶"
		}
		rows[i] = row
	}
	listHeight := max(height-2-trackListLine, 0)
	lines = append(lines, m.renderList(rows, m.selectedTrack, width, listHeight, bgColor))

	name := m.player.PlaylistName
	if name == "" {
		name = "Now Playing"
	}
	return m.renderTitledBox(name, strings.Join(lines, "\n"), m.width, height, true)
}

// stateBadge renders a status word on its theme color.
func (m Model) stateBadge(status, text string) string {
	return m.theme.Styles().StatusStyle(status).Render(text)
}

// pendingLabel lists in-flight commands, sorted for stable output.
func (m Model) pendingLabel() string {
	if len(m.pending) == 0 {
		return ""
	}
	names := make([]string, 0, len(m.pending))
	for a := range m.pending {
		names = append(names, string(a))
	}
	slices.Sort(names)
	return strings.Join(names, ",")
}
