// Package cmd - analyze command
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"infra-review/adapters/storage"
	"infra-review/core/analyzer"
	"infra-review/core/skills"
	"infra-review/core/types"
)

var (
	analyzeFormat     string
	analyzeSkillsFile string
	analyzeGitHub     string
	analyzeBranch     string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [dir]",
	Short: "Analyze a Terraform module directory",
	Long: `Run the cross-file module analysis on a directory.

The analysis builds a symbol table across every .tf and .tfvars file,
then reports unused variables, undefined references, module source
risks, security issues and a rough monthly cost estimate.

With --github the files come from a hosted repository instead of the
local disk; set GITHUB_TOKEN for authentication.

Examples:
  infra-review analyze .
  infra-review analyze --format json ./infrastructure
  infra-review analyze --github acme/infra --branch main
  infra-review analyze --skills-file ~/.infra-review/profile.json .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "output format (text, json, markdown)")
	analyzeCmd.Flags().StringVar(&analyzeSkillsFile, "skills-file", "", "skill profile to update with this analysis")
	analyzeCmd.Flags().StringVar(&analyzeGitHub, "github", "", "GitHub repository (owner/repo) to analyze instead of a local directory")
	analyzeCmd.Flags().StringVar(&analyzeBranch, "branch", "", "branch to read with --github (default main)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	src, err := resolveSource(dir, analyzeGitHub, analyzeBranch)
	if err != nil {
		return err
	}
	files, err := src.TerraformFiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to read terraform files: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No Terraform files found.")
		return nil
	}

	report := analyzer.Analyze(files)

	switch resolveFormat(analyzeFormat) {
	case "json":
		if err := printJSON(report); err != nil {
			return err
		}
	case "markdown":
		if err := printMarkdown(moduleReportView(report)); err != nil {
			return err
		}
	default:
		printModuleReport(report)
	}

	if analyzeSkillsFile != "" {
		if err := recordAnalysis(ctx, analyzeSkillsFile, report); err != nil {
			return fmt.Errorf("failed to update skill profile: %w", err)
		}
	}

	failOnFindings(report.SeveritySummary)
	return nil
}

// recordAnalysis feeds the analysis outcome into the skill profile.
func recordAnalysis(ctx context.Context, path string, report *types.ModuleReport) error {
	store, err := storage.NewFileStore(path)
	if err != nil {
		return err
	}

	profile, err := store.Load(ctx)
	if err != nil {
		return err
	}

	feedback := strings.Join(append(append([]string{}, report.Risks...), report.RecommendedImprovements...), " ")
	profile = skills.Apply(profile, feedback, report.MaturityLevel)
	return store.Save(ctx, profile)
}
