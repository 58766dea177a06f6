package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new skill",
	Long: `Create a SKILL.md template for a new skill. With a name the skill is
scaffolded in a new <name> directory; without one the template lands in
the current directory, named after it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}

		dir := cwd
		name := core.SanitizeName(filepath.Base(cwd))
		addTarget := "."
		if len(args) == 1 {
			name = core.SanitizeName(args[0])
			dir = filepath.Join(cwd, name)
			addTarget = "./" + name
		}

		path := filepath.Join(dir, "SKILL.md")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		content := fmt.Sprintf(`---
name: %s
description: Describe what this skill does and when an agent should use it
---

# %s

Instructions for the agent go here.
`, name, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		fmt.Println(ui.StatusSuccess("created " + path))
		fmt.Printf("Edit the description, then install it with 'skil add %s'\n", addTarget)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
