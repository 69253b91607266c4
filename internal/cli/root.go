package cli

import (
	"github.com/calegrey/prflight/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string

	rootCmd = &cobra.Command{
		Use:   "prflight",
		Short: "Merge every open pull request into a local clone and run a checker against it",
		Long: `Prflight iterates the open pull requests of a repository, merges each one
into a local working tree without committing, runs a configured checker
command against the merged result, and reports pass/fail per pull request.

The work tree is reset and cleaned between pull requests. Never point
prflight at a development checkout.`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a prflight.jsonc config file")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose)
	}
}

func Execute() error {
	return rootCmd.Execute()
}
