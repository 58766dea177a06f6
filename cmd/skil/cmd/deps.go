package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/tui"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	engine      *core.Engine
	scope       core.Scope
	projectRoot string
	interactive bool
}

// newDeps wires the engine for the scope selected by --global. Called
// lazily by commands that need it.
func newDeps(cmd *cobra.Command) (*deps, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	scope := core.ScopeProject
	if global, _ := cmd.Flags().GetBool("global"); global {
		scope = core.ScopeGlobal
	}

	interactive := tui.IsInteractive()
	var prompter core.Prompter
	if interactive {
		prompter = tui.NewPrompter()
	}

	engine, err := core.NewEngine(scope, cwd, prompter)
	if err != nil {
		return nil, err
	}

	return &deps{
		engine:      engine,
		scope:       scope,
		projectRoot: cwd,
		interactive: interactive,
	}, nil
}
