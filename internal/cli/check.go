package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calegrey/prflight/internal/config"
	ghforge "github.com/calegrey/prflight/internal/forge/github"
	"github.com/calegrey/prflight/internal/gate"
	"github.com/calegrey/prflight/internal/worktree"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the checker against every open pull request",
	Long: `Check fetches the list of open pull requests, and for each one resets and
cleans the work tree, checks out the remote base branch, merges the remote
head branch without committing, and runs the checker executable.

A merge conflict or a non-zero checker exit is reported for that pull
request and the run continues with the next one. Pull requests are
processed strictly one at a time; do not run two instances against the
same work tree.`,
	Example: `  prflight check
  prflight check --config ./prflight.jsonc`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		lister, err := ghforge.NewClient(cfg.Endpoint, cfg.Owner, cfg.Repo, cfg.Token)
		if err != nil {
			return err
		}

		g := gate.New(worktree.New(), cfg.WorkTree, cfg.CheckerPath, cfg.CheckerConfigPath, cmd.OutOrStdout())
		return g.Run(cmd.Context(), lister)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
