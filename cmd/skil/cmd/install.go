package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/ui"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Re-materialize all tracked skills from the manifest",
	Long: `Install every (skill, agent) pair recorded in the manifest at its
pinned revision. Useful after cloning a project that carries a .skil.toml,
or after deleting agent skill directories.

Never prompts and never modifies the manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		results, err := d.engine.InstallAll()
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("Nothing tracked yet. Run 'skil add <source>' first.")
			return nil
		}

		failed := 0
		for _, r := range results {
			if r.Report != nil {
				printReport("installed", r.Report)
			}
			if r.Err != nil {
				failed++
				fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", r.SourceID, r.Err)))
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d source(s) failed to install", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
