package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// multiSelectModel is an inline checkbox list. Space toggles, enter
// accepts, esc aborts without a selection.
type multiSelectModel struct {
	title   string
	options []string

	cursor  int
	checked map[int]bool
	width   int

	accepted bool
	aborted  bool
}

func newMultiSelectModel(title string, options []string) multiSelectModel {
	return multiSelectModel{
		title:   title,
		options: options,
		checked: make(map[int]bool),
		width:   80,
	}
}

func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keyUp):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, keyDown):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, keyToggle):
			m.checked[m.cursor] = !m.checked[m.cursor]
			return m, nil

		case key.Matches(msg, keyToggleAll):
			all := len(m.checked) < len(m.options)
			for i := range m.options {
				m.checked[i] = all
			}
			if !all {
				m.checked = make(map[int]bool)
			}
			return m, nil

		case key.Matches(msg, keyAccept):
			m.accepted = true
			return m, tea.Quit

		case key.Matches(msg, keyAbort):
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m multiSelectModel) View() string {
	if m.accepted || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	for i, opt := range m.options {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := mutedStyle.Render("[ ]")
		if m.checked[i] {
			box = checkedStyle.Render("[x]")
		}
		line := ansi.Truncate(opt, max(m.width-8, 20), "…")
		style := normalItemStyle
		if i == m.cursor {
			style = cursorStyle
		}
		b.WriteString(cursor + box + " " + style.Render(line) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("space toggle · a all · enter confirm · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// selection returns the checked indexes in option order.
func (m multiSelectModel) selection() []int {
	var picked []int
	for i := range m.options {
		if m.checked[i] {
			picked = append(picked, i)
		}
	}
	return picked
}
