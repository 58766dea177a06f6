package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
)

var viewCmd = &cobra.Command{
	Use:   "view <skill>",
	Short: "Render an installed skill's SKILL.md in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		m, err := d.engine.Store.Load()
		if err != nil {
			return err
		}
		_, entry := m.FindSkill(args[0])
		if entry == nil {
			return &core.UnknownSkillError{Name: args[0], Available: m.AllSkills()}
		}

		dir, err := findInstalledSkill(d, entry, args[0])
		if err != nil {
			return err
		}
		content, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
		if err != nil {
			return fmt.Errorf("reading skill file: %w", err)
		}

		if !d.interactive {
			fmt.Print(string(content))
			return nil
		}

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err != nil {
			return fmt.Errorf("creating renderer: %w", err)
		}
		out, err := renderer.Render(string(content))
		if err != nil {
			return fmt.Errorf("rendering markdown: %w", err)
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
