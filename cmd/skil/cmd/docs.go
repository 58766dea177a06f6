package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/docs"
	"github.com/skil-sh/skil/internal/ui"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Generate a browsable HTML site for installed skills",
	Long: `Render every tracked skill's SKILL.md into a static HTML site under
.skil/docs. With --serve the site is hosted locally for preview.`,
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

		var pages []docs.Page
		for _, id := range m.SortedIDs() {
			entry := m.Sources[id]
			for _, skillName := range entry.Skills {
				dir, err := findInstalledSkill(d, entry, skillName)
				if err != nil {
					fmt.Println(ui.StatusWarning(fmt.Sprintf("%s: %v", skillName, err)))
					continue
				}
				content, err := os.ReadFile(filepath.Join(dir, "SKILL.md"))
				if err != nil {
					fmt.Println(ui.StatusWarning(fmt.Sprintf("%s: %v", skillName, err)))
					continue
				}
				meta, err := core.ParseSkillFile(filepath.Join(dir, "SKILL.md"))
				if err != nil || meta == nil {
					continue
				}
				pages = append(pages, docs.Page{
					Name:        skillName,
					Description: meta.Description,
					Source:      id,
					Markdown:    content,
				})
			}
		}

		outDir := filepath.Join(d.projectRoot, ".skil", "docs")
		site := docs.NewSite("Installed skills")
		if err := site.Generate(outDir, pages); err != nil {
			return err
		}
		fmt.Println(ui.StatusSuccess(fmt.Sprintf("generated %d page(s) in %s", len(pages), outDir)))

		if addr, _ := cmd.Flags().GetString("serve"); addr != "" {
			fmt.Printf("Serving on http://%s\n", addr)
			return docs.Serve(addr, outDir)
		}
		return nil
	},
}

func init() {
	docsCmd.Flags().String("serve", "", "Serve the generated site on this address (e.g. localhost:8080)")
	rootCmd.AddCommand(docsCmd)
}
