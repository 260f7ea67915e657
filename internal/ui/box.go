package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox renders content in a box with the title embedded in the
// top border: ┌─── Title ───┐. Focused boxes use the focus border and
// background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := newCanvas(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.paint("┌", borderStyle) +
		bg.paint(strings.Repeat("─", leftPad), borderStyle) +
		bg.paint(" "+title+" ", titleStyle) +
		bg.paint(strings.Repeat("─", rightPad), borderStyle) +
		bg.paint("┐", borderStyle)

	bottomBorder := bg.paint("└", borderStyle) +
		bg.paint(strings.Repeat("─", innerWidth), borderStyle) +
		bg.paint("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	lines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines,
			bg.paint("│", borderStyle)+
				contentStyle.Render(line)+
				bg.paint("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(lines, "\n") + "\n" + bottomBorder
}

// listRow is one line of a selectable list.
type listRow struct {
	marker string // leading glyph such as ▶ for the current entry
	text   string
	detail string // right-hand muted text
}

// renderList renders rows inside width cells, scrolled so that selected is
// visible within height rows. The selected row uses the selection colors.
func (m Model) renderList(rows []listRow, selected, width, height int, bgColor string) string {
	if height <= 0 {
		return ""
	}
	bg := newCanvas(bgColor)
	styles := m.theme.Styles()
	if len(rows) == 0 {
		return bg.fill(bg.paint("Nothing here yet", styles.MutedText), width)
	}

	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	end := min(start+height, len(rows))

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := rows[i]
		marker := padRight(row.marker, 2)
		detailWidth := lipgloss.Width(row.detail)
		textWidth := max(width-2-detailWidth-2, 4)
		text := padRight(truncate(row.text, textWidth), textWidth)

		if i == selected {
			sel := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.SelectionBg)).
				Foreground(lipgloss.Color(m.theme.SelectionText))
			out = append(out, sel.Width(width).Render(marker+text+"  "+row.detail))
			continue
		}
		line := bg.paint(marker, styles.AccentText) +
			bg.paint(text, styles.Text) +
			bg.pad(2) +
			bg.paint(row.detail, styles.MutedText)
		out = append(out, bg.fill(line, width))
	}
	return strings.Join(out, "\n")
}

// canvas paints segments onto one background color. lipgloss ends every
// styled segment with a full reset, so the gaps between segments and the
// spaces inside them have to be painted explicitly or the panel shows holes.
type canvas struct {
	base lipgloss.Style
}

func newCanvas(color string) canvas {
	return canvas{base: lipgloss.NewStyle().Background(lipgloss.Color(color))}
}

// paint renders text in style on the canvas background. Runs of spaces get
// the bare background.
func (c canvas) paint(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	fg := style.Background(c.base.GetBackground())
	var b strings.Builder
	start := 0
	for start < len(text) {
		spaces := text[start] == ' '
		end := start
		for end < len(text) && (text[end] == ' ') == spaces {
			end++
		}
		if spaces {
			b.WriteString(c.base.Render(text[start:end]))
		} else {
			b.WriteString(fg.Render(text[start:end]))
		}
		start = end
	}
	return b.String()
}

// plain paints text with only the background.
func (c canvas) plain(text string) string {
	return c.base.Render(text)
}

// pad returns n painted spaces.
func (c canvas) pad(n int) string {
	if n <= 0 {
		return ""
	}
	return c.base.Render(strings.Repeat(" ", n))
}

// fill widens a rendered line to width cells of background.
func (c canvas) fill(content string, width int) string {
	return c.base.Width(width).Render(content)
}

func (c canvas) join(parts []string, sep string) string {
	return strings.Join(parts, c.plain(sep))
}
