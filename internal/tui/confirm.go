package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmModel is an inline yes/no question. y confirms, n/esc declines.
// Defaults to No so a stray enter never destroys anything.
type confirmModel struct {
	question string
	focusYes bool

	answered  bool
	confirmed bool
	aborted   bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keyYes):
		m.answered = true
		m.confirmed = true
		return m, tea.Quit

	case key.Matches(keyMsg, keyNo):
		m.answered = true
		return m, tea.Quit

	case key.Matches(keyMsg, keyAbort):
		m.aborted = true
		return m, tea.Quit

	case key.Matches(keyMsg, keyAccept):
		m.answered = true
		m.confirmed = m.focusYes
		return m, tea.Quit

	case keyMsg.String() == "left", keyMsg.String() == "right", keyMsg.String() == "tab":
		m.focusYes = !m.focusYes
		return m, nil
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("? ") + m.question)
	b.WriteString("\n\n  ")

	yes, no := "Yes", "No"
	if m.focusYes {
		b.WriteString(cursorStyle.Render("[ "+yes+" ]") + "  " + mutedStyle.Render(no))
	} else {
		b.WriteString(mutedStyle.Render(yes) + "  " + cursorStyle.Render("[ "+no+" ]"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("y/n · enter confirm · esc cancel"))
	b.WriteString("\n")
	return b.String()
}
