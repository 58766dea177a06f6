package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/core"
	"github.com/skil-sh/skil/internal/ui"
)

var addCmd = &cobra.Command{
	Use:     "add <source>",
	Aliases: []string{"a", "i"},
	Short:   "Install skills from a repository, directory, or archive",
	Long: `Fetch a source, discover the skills it contains, and install the
selected ones into your agents' skill directories.

Sources can be GitHub shorthand (owner/repo), a full repository URL
(including tree/blob URLs carrying a branch and subpath), an SSH URL, a
local directory, or a .zip/.tar.gz archive.

Examples:
  skil add anthropics/skills
  skil add anthropics/skills --skill pdf-tools --agent claude-code
  skil add https://github.com/owner/repo/tree/main/skills --all
  skil add ./my-skills --copy`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		skills, _ := cmd.Flags().GetStringArray("skill")
		agents, _ := cmd.Flags().GetStringArray("agent")
		all, _ := cmd.Flags().GetBool("all")
		yes, _ := cmd.Flags().GetBool("yes")
		useCopy, _ := cmd.Flags().GetBool("copy")
		fullDepth, _ := cmd.Flags().GetBool("full-depth")
		listOnly, _ := cmd.Flags().GetBool("list")

		if listOnly {
			return listSourceSkills(d, args[0])
		}

		mode := core.ModeSymlink
		if useCopy {
			mode = core.ModeCopy
		}

		outcome, err := d.engine.Add(args[0], core.AddOptions{
			Selection: core.SelectionRequest{
				Skills:      skills,
				All:         all,
				Yes:         yes,
				Interactive: d.interactive,
			},
			AgentNames: agents,
			Mode:       mode,
			FullDepth:  fullDepth,
		})
		if outcome != nil && outcome.Report != nil {
			printReport("installed", outcome.Report)
		}
		if err != nil {
			return err
		}

		fmt.Printf("\nTracked %s at %s\n",
			ui.Bold(outcome.Source.ID),
			ui.Dim(core.TruncateRevision(outcome.Revision)))
		return nil
	},
}

// listSourceSkills fetches a source and prints its skills without
// installing anything.
func listSourceSkills(d *deps, sourceStr string) error {
	src, err := core.ParseSource(sourceStr)
	if err != nil {
		return err
	}

	resolved, err := d.engine.Resolver.Resolve(src, "")
	if err != nil {
		return err
	}
	defer resolved.Cleanup()

	discovered, err := core.DiscoverSkills(resolved.Dir, src.SubPath)
	if err != nil {
		return err
	}
	if len(discovered) == 0 {
		return &core.NoSkillsFoundError{Source: src.ID}
	}

	fmt.Printf("%s (%s)\n\n", ui.Bold(src.ID), ui.Dim(core.TruncateRevision(resolved.Revision)))
	for _, s := range discovered {
		fmt.Printf("  %s  %s\n", ui.Info(s.Name), ui.Dim(s.Description))
	}
	return nil
}

func init() {
	addCmd.Flags().StringArrayP("skill", "s", nil, "Skill name to install (repeatable)")
	addCmd.Flags().StringArrayP("agent", "a", nil, "Target agent (repeatable; default: detected agents)")
	addCmd.Flags().Bool("all", false, "Install every discovered skill")
	addCmd.Flags().BoolP("yes", "y", false, "Auto-confirm prompts")
	addCmd.Flags().Bool("copy", false, "Copy skill content instead of symlinking")
	addCmd.Flags().Bool("full-depth", false, "Preserve source directory layout under the skills dir")
	addCmd.Flags().BoolP("list", "l", false, "List the source's skills without installing")
	rootCmd.AddCommand(addCmd)
}
