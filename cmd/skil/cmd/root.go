package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skil-sh/skil/internal/ui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "skil",
	Short: "Install and track AI agent skills from any repository",
	Long: `Skil installs skill bundles (SKILL.md directories) from git
repositories, local directories, and archives into the skill folders of
your AI coding agents, and tracks what came from where in a manifest so
installs stay reproducible and updatable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			ui.DisableColors()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skil %s (commit: %s, built: %s)\n", Version, Commit, Date)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("global", "g", false, "Operate on the global (user-level) scope")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
