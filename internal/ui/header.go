package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: connection, play state, playlist
// and in-flight commands.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newCanvas(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	sep := bg.pad(2)

	parts := []string{bg.paint("tonearm", styles.Logo)}

	if m.player.Live {
		parts = append(parts, m.stateBadge("live", "LIVE"))
	} else {
		parts = append(parts, m.stateBadge("offline", "RECONNECTING"))
	}

	if !m.player.Ready {
		parts = append(parts, bg.paint("Connecting to "+m.hostLabel()+"...", styles.WarningText.Bold(true)))
		return styles.Header.Width(m.width).Render(bg.join(parts, "  "))
	}

	if m.player.Paused {
		parts = append(parts, m.stateBadge("paused", "PAUSED"))
	} else {
		parts = append(parts, m.stateBadge("playing", "PLAYING"))
	}

	if name := m.player.PlaylistName; name != "" {
		parts = append(parts,
			bg.paint("Playlist:", styles.MutedText)+bg.pad(1)+
				bg.paint(truncate(name, 32), styles.Text))
	}

	if m.player.PositionLabel != "" {
		parts = append(parts, bg.paint(m.player.PositionLabel, styles.InfoText))
	}

	if pending := m.pendingLabel(); pending != "" {
		parts = append(parts, m.stateBadge("pending", "… "+pending))
	}

	if !compact {
		parts = append(parts, bg.paint(m.hostLabel(), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

func (m Model) hostLabel() string {
	host := strings.TrimPrefix(strings.TrimPrefix(m.host, "http://"), "https://")
	if host == "" {
		return "musicd"
	}
	return truncateMiddle(host, 40)
}

// renderCommandBar renders the command hints bar, or the latest notice or
// failure while one is showing.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newCanvas(m.theme.Surface)

	if m.status.text != "" {
		style := styles.InfoText
		if m.status.isErr {
			style = styles.DangerText
		}
		return styles.Header.Width(m.width).Render(bg.paint(truncate(m.status.text, max(m.width-2, 1)), style))
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.mode == modeScrub:
		commands = []cmd{{"←/→", "Scrub"}, {"enter", "Seek"}}
	case m.mode == modeVolume:
		commands = []cmd{{"↑/↓", "Volume"}, {"enter", "Set"}}
	case m.currentView == ViewPlaylists:
		commands = []cmd{
			{"enter", "Queue"},
			{"S", "Switch now"},
			{"P", "Publish"},
			{"j/k", "Navigate"},
			{"1", "Player"},
			{"?", "More"},
		}
	case m.currentView == ViewJobs:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"1", "Player"},
			{"?", "More"},
		}
	case m.currentView == ViewLogs:
		commands = []cmd{
			{"r", "Reload"},
			{"j/k", "Scroll"},
			{"G", "Bottom"},
			{"1", "Player"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"space", "Play/Pause"},
			{"b/n", "Prev/Next"},
			{"←/→", "Seek"},
			{"s", "Scrub"},
			{"+/-", "Volume"},
			{"enter", "Play track"},
			{"tab", "Views"},
			{"?", "More"},
		}
	}

	colon := bg.plain(":")
	sep := bg.pad(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.paint(c.key, styles.AccentText)+colon+bg.paint(c.desc, styles.MutedText))
	}

	segments = append(segments,
		bg.paint("T", styles.AccentText)+colon+bg.paint(m.theme.Name, styles.FaintText))

	// Drop hints from the end until the bar fits on one line.
	for len(segments) > 1 && lipgloss.Width(strings.Join(segments, sep)) > m.width-2 {
		segments = segments[:len(segments)-1]
	}
	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
