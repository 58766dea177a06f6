package tui

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter runs interactive prompts on the terminal. It satisfies
// core.Prompter.
type Prompter struct{}

// NewPrompter creates a terminal prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// IsInteractive reports whether stdin and stdout are terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// MultiSelect presents a checkbox list and returns the chosen indexes.
func (p *Prompter) MultiSelect(title string, options []string) ([]int, error) {
	model := newMultiSelectModel(title, options)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(multiSelectModel)
	if !ok {
		return nil, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.aborted {
		return nil, ErrAborted
	}
	return m.selection(), nil
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(question string) (bool, error) {
	model := newConfirmModel(question)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.aborted {
		return false, ErrAborted
	}
	return m.confirmed, nil
}
