// Package cmd - workflow command
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"infra-review/core/cicd"
)

var workflowFormat string

// workflowCmd represents the workflow command
var workflowCmd = &cobra.Command{
	Use:   "workflow <file.yml>",
	Short: "Review a GitHub Actions workflow",
	Long: `Run the CI/CD rule review on one workflow file.

Checks cover unpinned actions, missing permissions blocks, plaintext
secrets, deploy jobs without environments, and missing triggers.

Examples:
  infra-review workflow .github/workflows/ci.yml
  infra-review workflow --format json deploy.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(workflowCmd)

	workflowCmd.Flags().StringVarP(&workflowFormat, "format", "f", "", "output format (text, json, markdown)")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.HasSuffix(path, ".yml") && !strings.HasSuffix(path, ".yaml") {
		return fmt.Errorf("not a workflow file: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := cicd.Review(map[string]string{path: string(content)})

	switch resolveFormat(workflowFormat) {
	case "json":
		if err := printJSON(report); err != nil {
			return err
		}
	case "markdown":
		if err := printMarkdown(workflowReportView(report)); err != nil {
			return err
		}
	default:
		printWorkflowReport(report)
	}

	failOnFindings(report.SeveritySummary)
	return nil
}
