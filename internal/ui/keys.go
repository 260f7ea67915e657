package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Escape     key.Binding

	// View switching
	ViewPlayer    key.Binding
	ViewPlaylists key.Binding
	ViewJobs      key.Binding
	ViewLogs      key.Binding

	// Playback
	PlayPause  key.Binding
	Prev       key.Binding
	Next       key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	Scrub      key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	VolumeMode key.Binding

	// Lists
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Select key.Binding
	Skip   key.Binding

	// Library
	Publish key.Binding
	Clean   key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back / commit"),
		),

		ViewPlayer: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Player"),
		),
		ViewPlaylists: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Playlists"),
		),
		ViewJobs: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Jobs"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("4", "l"),
			key.WithHelp("4/l", "Logs"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "Play / pause"),
		),
		Prev: key.NewBinding(
			key.WithKeys("<", "b"),
			key.WithHelp("b", "Previous track"),
		),
		Next: key.NewBinding(
			key.WithKeys(">", "n"),
			key.WithHelp("n", "Next track"),
		),
		SeekBack: key.NewBinding(
			key.WithKeys("left", ","),
			key.WithHelp("←", "Seek back"),
		),
		SeekFwd: key.NewBinding(
			key.WithKeys("right", "."),
			key.WithHelp("→", "Seek forward"),
		),
		Scrub: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Scrub (enter to seek)"),
		),
		VolumeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Volume up"),
		),
		VolumeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Volume down"),
		),
		VolumeMode: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Adjust volume (enter to set)"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Play / queue selection"),
		),
		Skip: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "Switch playlist now"),
		),

		Publish: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Publish playlist"),
		),
		Clean: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clean unused files"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload log"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PlayPause, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ViewPlayer, k.ViewPlaylists, k.ViewJobs, k.ViewLogs},
		{k.PlayPause, k.Prev, k.Next, k.SeekBack, k.SeekFwd, k.Scrub},
		{k.VolumeUp, k.VolumeDown, k.VolumeMode},
		{k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Skip},
		{k.Publish, k.Clean, k.Refresh},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
