package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// renderModal centers a bordered dialog on the screen.
func renderModal(theme Theme, width, height, modalWidth int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

// publishForm collects a playlist name and its source URLs.
type publishForm struct {
	inputs [2]textinput.Model // name, urls
	focus  int
	submit func(name string, urls []string) error
	err    error
}

func newPublishForm(submit func(name string, urls []string) error) *publishForm {
	name := textinput.New()
	name.Placeholder = "Morning mix"
	name.CharLimit = 120
	name.Focus()

	urls := textinput.New()
	urls.Placeholder = "https://... https://..."
	urls.CharLimit = 4096

	return &publishForm{inputs: [2]textinput.Model{name, urls}, submit: submit}
}

// splitURLs splits on whitespace and commas.
func splitURLs(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func (f *publishForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *publishForm) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			return f, nil, true
		case "tab", "shift+tab", "up", "down":
			f.setFocus(1 - f.focus)
			return f, nil, false
		case "enter":
			if f.focus == 0 {
				f.setFocus(1)
				return f, nil, false
			}
			if err := f.submit(f.inputs[0].Value(), splitURLs(f.inputs[1].Value())); err != nil {
				f.err = err
				return f, nil, false
			}
			return f, nil, true
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f *publishForm) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Publish playlist"))
	b.WriteString("\n\n")
	labels := [2]string{"Name", "Source URLs"}
	for i, in := range f.inputs {
		label := styles.MutedText
		if i == f.focus {
			label = styles.AccentText
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if f.err != nil {
		b.WriteString(styles.DangerText.Render(f.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("enter next/publish · tab switch · esc cancel"))
	return renderModal(theme, width, height, min(max(width-10, 30), 80), b.String())
}

// confirmModal asks a yes/no question and runs onYes on y or enter.
type confirmModal struct {
	title    string
	question string
	onYes    func()
}

func newConfirm(title, question string, onYes func()) *confirmModal {
	return &confirmModal{title: title, question: question, onYes: onYes}
}

func (c *confirmModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch km.String() {
	case "y", "Y", "enter":
		c.onYes()
		return c, nil, true
	case "n", "N", "esc", "q":
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	content := styles.Text.Bold(true).Render(c.title) + "\n\n" +
		styles.Text.Render(c.question) + "\n\n" +
		styles.WarningText.Render("y") + styles.MutedText.Render(" yes   ") +
		styles.WarningText.Render("n") + styles.MutedText.Render(" no")
	return renderModal(theme, width, height, 44, content)
}
