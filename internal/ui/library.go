package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tonearm/internal/musicd"
)

// handlePlaylistsKey processes keys for the playlists view. Enter queues the
// selected playlist after the current track; S switches right away.
func (m Model) handlePlaylistsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.player.Playlists)
	m.selectedPlaylist = moveCursor(msg, m.keys, m.selectedPlaylist, n)
	if n == 0 {
		return m, nil
	}
	id := m.player.Playlists[m.selectedPlaylist].Meta.ID
	switch {
	case key.Matches(msg, m.keys.Select):
		m.controls.SelectPlaylist(id, musicd.ModeQueue)
	case key.Matches(msg, m.keys.Skip):
		m.controls.SelectPlaylist(id, musicd.ModeSkip)
	}
	return m, nil
}

// handleJobsKey processes keys for the jobs view.
func (m Model) handleJobsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.selectedJob = moveCursor(msg, m.keys, m.selectedJob, len(m.player.Jobs))
	return m, nil
}

// moveCursor applies a navigation key to a list cursor over n rows.
func moveCursor(msg tea.KeyMsg, keys keyMap, cursor, n int) int {
	switch {
	case key.Matches(msg, keys.Down):
		cursor++
	case key.Matches(msg, keys.Up):
		cursor--
	case key.Matches(msg, keys.Top):
		cursor = 0
	case key.Matches(msg, keys.Bottom):
		cursor = n - 1
	}
	return clampIndex(cursor, n)
}

// renderPlaylists renders the published playlists.
func (m Model) renderPlaylists() string {
	rows := make([]listRow, len(m.player.Playlists))
	for i, p := range m.player.Playlists {
		name := p.Meta.Name
		if name == "" {
			name = p.Folder
		}
		row := listRow{
			text:   name,
			detail: fmt.Sprintf("%d tracks  %s", len(p.Meta.Tracks), formatCreated(p)),
		}
		if p.Meta.ID == m.player.PlaylistID {
			row.marker = "▶"
		}
		rows[i] = row
	}
	height := m.contentHeight()
	content := m.renderList(rows, m.selectedPlaylist, m.innerWidth(), height-2, m.theme.FocusBg)
	return m.renderTitledBox(fmt.Sprintf("Playlists (%d)", len(rows)), content, m.width, height, true)
}

func formatCreated(p musicd.Playlist) string {
	if p.Meta.CreatedAt.IsZero() {
		return ""
	}
	return p.Meta.CreatedAt.Local().Format("2006-01-02")
}

// renderJobs renders the daemon's scheduled jobs.
func (m Model) renderJobs() string {
	rows := make([]listRow, len(m.player.Jobs))
	for i, j := range m.player.Jobs {
		rows[i] = listRow{
			text:   strings.ToUpper(j.Method) + " " + j.URL,
			detail: jobSchedule(j),
		}
	}
	height := m.contentHeight()
	content := m.renderList(rows, m.selectedJob, m.innerWidth(), height-2, m.theme.FocusBg)
	return m.renderTitledBox(fmt.Sprintf("Jobs (%d)", len(rows)), content, m.width, height, true)
}

// jobSchedule renders when a job runs: "2026-10-18 07:00 daily until 2026-12-01".
func jobSchedule(j musicd.Job) string {
	parts := []string{j.RunAt.Local().Format("2006-01-02 15:04"), j.RepeatLabel()}
	if j.EndRepeat != nil {
		parts = append(parts, "until "+j.EndRepeat.Local().Format("2006-01-02"))
	}
	return strings.Join(parts, " ")
}
