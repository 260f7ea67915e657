package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	// Help content
	sections := []helpSection{
		{
			title: "Playback",
			items: []helpItem{
				{"space/p", "Play / pause"},
				{"b/n", "Previous / next track"},
				{"←/→", "Seek by step"},
				{"s", "Scrub, enter to seek"},
				{"+/-", "Volume by step"},
				{"v", "Adjust volume, enter to set"},
				{"mouse", "Drag the seek bar"},
			},
		},
		{
			title: "Views",
			items: []helpItem{
				{"tab", "Cycle views"},
				{"1/2/3/4", "Player/Playlists/Jobs/Logs"},
				{"esc", "Return to player"},
				{"j/k", "Move up/down"},
				{"g/G", "Go to top/bottom"},
				{"enter", "Play track / queue playlist"},
				{"S", "Switch playlist now"},
			},
		},
		{
			title: "Library",
			items: []helpItem{
				{"P", "Publish playlist"},
				{"C", "Clean temp downloads"},
				{"r", "Reload log"},
			},
		},
		{
			title: "General",
			items: []helpItem{
				{"T", "Cycle theme"},
				{"h/?", "Toggle help"},
				{"q/ctrl+c", "Quit"},
			},
		},
	}

	// Build help content
	var b strings.Builder

	// Title
	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	for i, section := range sections {
		// Section title
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")

		for _, item := range section.items {
			// Key
			keyStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.theme.Warning)).
				Width(14)
			b.WriteString(keyStyle.Render(item.key))
			// Description
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}

		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(help.New().View(m.keys))

	return renderModal(m.theme, m.width, m.height, 44, b.String())
}

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}
