package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Aliases: []string{"outdated"},
	Short:   "Check tracked sources for upstream changes",
	Long: `Compare every tracked source's pinned revision against its upstream
without fetching content or modifying anything. Exits non-zero when any
source is stale, so the check is scriptable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		m, err := d.engine.Store.Load()
		if err != nil {
			return err
		}
		if len(m.Sources) == 0 {
			fmt.Println("Nothing tracked yet.")
			return nil
		}

		statuses := core.CheckDrift(d.engine.Resolver, m)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tPINNED\tLATEST\tSTATE")
		stale := 0
		for _, s := range statuses {
			state := renderDriftState(s)
			if s.State == core.StateStale {
				stale++
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				s.SourceID,
				core.TruncateRevision(s.Pinned),
				core.TruncateRevision(s.Latest),
				state)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if stale > 0 {
			return fmt.Errorf("%d source(s) have upstream changes; run 'skil update'", stale)
		}
		return nil
	},
}

func renderDriftState(s core.DriftStatus) string {
	switch s.State {
	case core.StateUpToDate:
		return ui.Success("up-to-date")
	case core.StateStale:
		return ui.Warning("stale")
	default:
		return ui.Error(fmt.Sprintf("unreachable (%v)", s.Err))
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
