// Package cmd - review command
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"infra-review/core/review"
)

var reviewFormat string

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <file.tf>",
	Short: "Review a single Terraform file",
	Long: `Run the per-file rule review on one Terraform file.

Checks cover hardcoded secrets, remote state, provider pinning,
tagging, open security groups, S3 hardening, IAM wildcards and
lifecycle protection.

Examples:
  infra-review review main.tf
  infra-review review --format json modules/vpc/main.tf`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&reviewFormat, "format", "f", "", "output format (text, json, markdown)")
}

func runReview(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !strings.HasSuffix(path, ".tf") {
		return fmt.Errorf("not a Terraform file: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	report := review.Review(map[string]string{path: string(content)})

	switch resolveFormat(reviewFormat) {
	case "json":
		if err := printJSON(report); err != nil {
			return err
		}
	case "markdown":
		if err := printMarkdown(terraformReportView(report)); err != nil {
			return err
		}
	default:
		printTerraformReport(report)
	}

	failOnFindings(report.SeveritySummary)
	return nil
}
