package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/ui"
)

var removeCmd = &cobra.Command{
	Use:     "remove <skill>",
	Aliases: []string{"rm", "r"},
	Short:   "Uninstall a tracked skill",
	Long: `Remove a skill from every agent it was installed for and drop it
from the manifest. Removing the last skill of a source removes the whole
source entry. Content not produced by skil is never deleted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		outcome, err := d.engine.Remove(args[0])
		if outcome != nil && outcome.Report != nil {
			printReport("removed", outcome.Report)
		}
		if err != nil {
			return err
		}

		fmt.Printf("\nUntracked %s from %s\n", ui.Bold(outcome.Skill), outcome.SourceID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
