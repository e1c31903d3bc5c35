// Package cmd - overview command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"infra-review/core/repo"
)

var (
	overviewFormat string
	overviewGitHub string
	overviewBranch string
)

// overviewCmd represents the overview command
var overviewCmd = &cobra.Command{
	Use:   "overview [dir]",
	Short: "Summarize a repository's shape",
	Long: `Summarize a repository from its file paths: language stack, CI/CD
presence, infrastructure-as-code usage, containerization and a rough
maturity level.

Examples:
  infra-review overview .
  infra-review overview --format json ~/src/my-service
  infra-review overview --github acme/infra`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)

	overviewCmd.Flags().StringVarP(&overviewFormat, "format", "f", "", "output format (text, json)")
	overviewCmd.Flags().StringVar(&overviewGitHub, "github", "", "GitHub repository (owner/repo) to summarize instead of a local directory")
	overviewCmd.Flags().StringVar(&overviewBranch, "branch", "", "branch to read with --github (default main)")
}

func runOverview(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	src, err := resolveSource(dir, overviewGitHub, overviewBranch)
	if err != nil {
		return err
	}
	paths, err := src.ListPaths(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list repository files: %w", err)
	}

	summary := repo.Overview(paths)

	switch resolveFormat(overviewFormat) {
	case "json":
		return printJSON(summary)
	default:
		printRepoSummary(summary)
	}
	return nil
}
