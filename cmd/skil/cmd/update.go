package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"upgrade"},
	Short:   "Update stale sources to their latest upstream revision",
	Long: `Re-fetch every stale source, re-install its tracked skills at the
new revision, and re-pin the manifest. Sources update independently: an
unreachable upstream is reported and skipped while the rest proceed.

Skills that disappeared upstream are removed only after confirmation
(auto-confirmed with --yes).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		m, err := d.engine.Store.Load()
		if err != nil {
			return err
		}
		if len(m.Sources) == 0 {
			fmt.Println("Nothing tracked yet.")
			return nil
		}

		updater := &core.Updater{
			Resolver:    d.engine.Resolver,
			Store:       d.engine.Store,
			Installer:   d.engine.Installer,
			Prompter:    d.engine.Prompter,
			Scope:       d.scope,
			ProjectRoot: d.projectRoot,
			Agents:      d.engine.Agents,
		}

		results, err := updater.Apply(m, core.SelectionRequest{
			Yes:         yes,
			Interactive: d.interactive,
		})
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			switch {
			case r.Err != nil:
				failed++
				fmt.Println(ui.StatusError(fmt.Sprintf("%s: %v", r.SourceID, r.Err)))
			case r.Status.State == core.StateUpToDate:
				fmt.Println(ui.StatusSkipped(fmt.Sprintf("%s already up to date", r.SourceID)))
			default:
				fmt.Println(ui.StatusSuccess(fmt.Sprintf("%s updated to %s",
					ui.Bold(r.SourceID), ui.Dim(core.TruncateRevision(r.Status.Latest)))))
				if len(r.Removed) > 0 {
					fmt.Println(ui.StatusWarning(fmt.Sprintf("  removed upstream-deleted skills: %s", joinStrings(r.Removed))))
				}
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d source(s) failed to update", failed)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolP("yes", "y", false, "Auto-confirm prompts")
	rootCmd.AddCommand(updateCmd)
}
