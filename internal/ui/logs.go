package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tonearm/internal/logtail"
)

type logLoadedMsg struct {
	lines []string
	err   error
}

// loadLogCmd reads the tail of the client's own log file.
func loadLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLoadedMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLoadedMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLoaded(msg logLoadedMsg) {
	m.logErr = msg.err
	m.logLines = msg.lines
	m.logViewport.SetContent(m.renderLogContent())
	m.logViewport.GotoBottom()
}

// handleLogsKey processes keys for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Refresh) {
		return m, loadLogCmd(m.logPath)
	}
	switch msg.String() {
	case "j", "down":
		m.logViewport.ScrollDown(1)
	case "k", "up":
		m.logViewport.ScrollUp(1)
	case "ctrl+d", "pgdown":
		m.logViewport.HalfPageDown()
	case "ctrl+u", "pgup":
		m.logViewport.HalfPageUp()
	case "g", "home":
		m.logViewport.GotoTop()
	case "G", "end":
		m.logViewport.GotoBottom()
	}
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	title := "Log"
	if m.logPath != "" {
		title = "Log · " + truncateMiddle(m.logPath, max(m.width/2, 10))
	}
	return m.renderTitledBox(title, m.logViewport.View(), m.width, m.contentHeight(), true)
}

// renderLogContent styles the loaded lines for the viewport.
func (m Model) renderLogContent() string {
	bg := newCanvas(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if m.logErr != nil {
		return bg.fill(bg.paint(m.logErr.Error(), styles.DangerText), width)
	}
	if len(m.logLines) == 0 {
		return bg.fill(bg.paint("No log entries", styles.MutedText), width)
	}

	out := make([]string, 0, len(m.logLines))
	for _, line := range m.logLines {
		out = append(out, bg.fill(m.colorizeEntry(logtail.Parse(line), styles, bg), width))
	}
	return strings.Join(out, "\n")
}

// colorizeEntry renders one entry: time, level, component, message, fields.
func (m Model) colorizeEntry(e logtail.Entry, styles Styles, bg canvas) string {
	if e.Raw {
		return bg.paint(e.Message, styles.Text)
	}
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(bg.paint(e.Time.Local().Format("15:04:05"), styles.FaintText))
		b.WriteString(bg.pad(1))
	}
	if e.Level != "" {
		b.WriteString(bg.paint(padRight(e.Level, 5), levelStyle(e.Level, styles).Bold(true)))
		b.WriteString(bg.pad(1))
	}
	if e.Component != "" {
		b.WriteString(bg.paint("["+e.Component+"]", styles.AccentText))
		b.WriteString(bg.pad(1))
	}
	b.WriteString(bg.paint(e.Message, styles.Text))
	if kv := e.FieldString(); kv != "" {
		b.WriteString(bg.pad(1))
		b.WriteString(bg.paint("–", styles.FaintText))
		b.WriteString(bg.pad(1))
		b.WriteString(bg.paint(kv, styles.MutedText))
	}
	return b.String()
}

// levelStyle returns the style for a log level.
func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR", "FATAL", "PANIC":
		return styles.DangerText
	case "DEBUG", "TRACE":
		return styles.InfoText
	default:
		return styles.Text
	}
}
