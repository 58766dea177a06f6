package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked sources and their skills",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		m, err := d.engine.Store.Load()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printListJSON(m)
		}

		if len(m.Sources) == 0 {
			fmt.Println("Nothing tracked yet. Run 'skil add <source>' first.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tREVISION\tSKILLS\tAGENTS")
		for _, id := range m.SortedIDs() {
			entry := m.Sources[id]
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				id,
				core.TruncateRevision(entry.Revision),
				joinStrings(entry.Skills),
				joinStrings(entry.Agents))
		}
		return w.Flush()
	},
}

type listEntryJSON struct {
	Source     string   `json:"source"`
	SourceType string   `json:"sourceType"`
	Branch     string   `json:"branch,omitempty"`
	Subpath    string   `json:"subpath,omitempty"`
	Revision   string   `json:"revision"`
	Mode       string   `json:"mode,omitempty"`
	FullDepth  bool     `json:"fullDepth,omitempty"`
	Skills     []string `json:"skills"`
	Agents     []string `json:"agents"`
}

func printListJSON(m *core.Manifest) error {
	entries := make([]listEntryJSON, 0, len(m.Sources))
	for _, id := range m.SortedIDs() {
		e := m.Sources[id]
		entries = append(entries, listEntryJSON{
			Source:     id,
			SourceType: e.SourceType,
			Branch:     e.Branch,
			Subpath:    e.Subpath,
			Revision:   e.Revision,
			Mode:       e.Mode,
			FullDepth:  e.FullDepth,
			Skills:     e.Skills,
			Agents:     e.Agents,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func init() {
	listCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}
