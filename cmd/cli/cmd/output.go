// Package cmd - report rendering helpers
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"infra-review/adapters/ci"
	"infra-review/core/skills"
	"infra-review/core/types"
	"infra-review/internal/config"
)

const rule = "═══════════════════════════════════════════════════════════════"

// resolveFormat picks the output format: the flag wins, then config.
func resolveFormat(flag string) string {
	if flag != "" {
		return flag
	}
	return config.Get().Output.DefaultFormat
}

func printJSON(v any) error {
	cfg := config.Get()

	var data []byte
	var err error
	if cfg.Output.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to render JSON: %w", err)
	}

	fmt.Println(string(data))
	return nil
}

func printHeader(title string) {
	fmt.Println(rule)
	fmt.Printf("  %s\n", title)
	fmt.Println(rule)
}

func printSection(title string, lines []string, bullet string) {
	if len(lines) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, line := range lines {
		fmt.Printf("  %s %s\n", bullet, line)
	}
}

func printSeverity(s types.SeveritySummary) {
	fmt.Printf("Severity:        %d critical / %d warning / %d info\n",
		s.Critical, s.Warning, s.Info)
}

func printModuleReport(r *types.ModuleReport) {
	printHeader("TERRAFORM MODULE ANALYSIS")
	fmt.Printf("Files analyzed:  %d\n", len(r.FilesAnalyzed))
	fmt.Printf("Maturity level:  %s\n", r.MaturityLevel)
	printSeverity(r.SeveritySummary)

	printSection("Risks", r.Risks, "✗")
	printSection("Findings", r.Findings, "•")
	printSection("Recommended improvements", r.RecommendedImprovements, "→")
	printCostSummary(r.CostSummary)
}

func printCostSummary(c types.CostSummary) {
	if len(c.ResourceCosts) == 0 {
		return
	}

	fmt.Println("\nCost summary:")
	for _, entry := range c.ResourceCosts {
		name := fmt.Sprintf("%s.%s", entry.ResourceType, entry.ResourceName)
		fmt.Printf("  %-45s %-9s %s\n", truncate(name, 45), entry.CostTier, entry.EstimatedMonthlyRangeUSD)
	}
	fmt.Printf("  %-45s %-9s %s\n", "ESTIMATED MONTHLY TOTAL", "", c.EstimatedMonthlyTotalUSD)
}

func printTerraformReport(r *types.TerraformReport) {
	printHeader("TERRAFORM FILE REVIEW")
	fmt.Printf("Files reviewed:  %s\n", strings.Join(r.FilesReviewed, ", "))
	fmt.Printf("Maturity level:  %s\n", r.MaturityLevel)
	printSeverity(r.SeveritySummary)

	printSection("Risks", r.Risks, "✗")
	printSection("Findings", r.Findings, "•")
	printSection("Recommended improvements", r.RecommendedImprovements, "→")

	if len(r.DetectedResources) > 0 {
		fmt.Printf("\nDetected resources: %s\n", strings.Join(r.DetectedResources, ", "))
	}
}

func printWorkflowReport(r *types.WorkflowReport) {
	printHeader("GITHUB ACTIONS WORKFLOW REVIEW")
	fmt.Printf("Pipeline files:  %s\n", strings.Join(r.PipelineFiles, ", "))
	fmt.Printf("Maturity level:  %s\n", r.MaturityLevel)
	printSeverity(r.SeveritySummary)

	printSection("Risks", r.Risks, "✗")
	printSection("Findings", r.Findings, "•")
	printSection("Recommended improvements", r.RecommendedImprovements, "→")
}

func printAdvisorReport(r *types.AdvisorReport) {
	printHeader("AWS COST AND SECURITY ADVICE")
	fmt.Printf("Services:        %s\n", strings.Join(r.AWSServicesDetected, ", "))
	fmt.Printf("Maturity level:  %s\n", r.MaturityLevel)
	printSeverity(r.SeveritySummary)

	printFindings("Cost findings", r.CostFindings)
	printFindings("Security findings", r.SecurityFindings)
}

func printFindings(title string, findings []types.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, f := range findings {
		fmt.Printf("  [%s] %s\n", f.Severity, f.Message)
		if f.Recommendation != nil {
			fmt.Printf("      → %s\n", *f.Recommendation)
		}
	}
}

func printRepoSummary(r *types.RepoSummary) {
	printHeader("REPOSITORY OVERVIEW")
	fmt.Printf("Stack:           %s\n", strings.Join(r.Stack, ", "))
	fmt.Printf("CI/CD:           %s\n", r.CICD)
	fmt.Printf("IaC:             %s\n", r.IaC)
	fmt.Printf("Containerized:   %t\n", r.Containerization)
	fmt.Printf("Maturity level:  %s\n", r.MaturityLevel)

	printSection("Key findings", r.KeyFindings, "•")
}

func printProfile(p *skills.Profile) {
	printHeader("SKILL PROFILE")
	fmt.Printf("User level: %s\n", p.UserLevel)

	if len(p.Skills) == 0 {
		fmt.Println("\nNo skills tracked yet. Run 'infra-review analyze --skills-file <path>' to start.")
		return
	}

	names := make([]string, 0, len(p.Skills))
	for name := range p.Skills {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	for _, name := range names {
		state := p.Skills[name]
		fmt.Printf("  %-15s %-12s score %-7.1f evidence %d\n",
			name, state.Level, state.WeightedScore, state.EvidenceCount)
	}
}

func printRecommendations(r *skills.Recommendations) {
	printHeader("SKILL RECOMMENDATIONS")

	printSection("Weak skills", r.WeakSkills, "✗")
	printSection("Strong skills", r.StrongSkills, "✓")
	printSection("Prerequisite gaps", r.PrerequisiteGaps, "!")
	printSection("Recommended focus", r.RecommendedFocus, "•")

	if len(r.NextSteps) > 0 {
		fmt.Println("\nNext steps:")
		for _, step := range r.NextSteps {
			fmt.Printf("  → [%s] %s\n", step.Skill, step.Action)
		}
	}
}

// printMarkdown renders a report view as a CI comment body.
func printMarkdown(view ci.ReportView) error {
	return ci.NewRenderer(nil).Markdown(view)
}

func moduleReportView(r *types.ModuleReport) ci.ReportView {
	return ci.ReportView{
		Title:        "Terraform module analysis",
		Files:        r.FilesAnalyzed,
		Maturity:     r.MaturityLevel,
		Severity:     r.SeveritySummary,
		Risks:        r.Risks,
		Improvements: r.RecommendedImprovements,
		MonthlyCost:  r.CostSummary.EstimatedMonthlyTotalUSD,
	}
}

func terraformReportView(r *types.TerraformReport) ci.ReportView {
	return ci.ReportView{
		Title:        "Terraform file review",
		Files:        r.FilesReviewed,
		Maturity:     r.MaturityLevel,
		Severity:     r.SeveritySummary,
		Risks:        r.Risks,
		Improvements: r.RecommendedImprovements,
	}
}

func workflowReportView(r *types.WorkflowReport) ci.ReportView {
	return ci.ReportView{
		Title:        "GitHub Actions workflow review",
		Files:        r.PipelineFiles,
		Maturity:     r.MaturityLevel,
		Severity:     r.SeveritySummary,
		Risks:        r.Risks,
		Improvements: r.RecommendedImprovements,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// failOnFindings exits non-zero when findings reach the configured
// fail-on severity.
func failOnFindings(s types.SeveritySummary) {
	switch config.Get().Analysis.FailOn {
	case "critical":
		if s.Critical > 0 {
			os.Exit(1)
		}
	case "warning":
		if s.Critical > 0 || s.Warning > 0 {
			os.Exit(1)
		}
	}
}
