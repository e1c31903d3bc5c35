// Package analyzer implements cross-file Terraform module analysis:
// per-file parsing into block trees, a global symbol table over the
// whole batch, cross-reference and security checks, and a cost-tier
// estimate, aggregated into a single report with a maturity rating.
//
// Analyze is a pure function of its input map. It performs no I/O,
// keeps no state between calls, and never fails: malformed files
// degrade to findings, not errors.
package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/cost"
	"infra-review/core/types"
)

// developingWarningCeiling is the most warnings a batch can carry and
// still rate "developing" rather than "basic".
const developingWarningCeiling = 3

// Analyze inspects a batch of Terraform files, given as a mapping
// from slash-separated path to raw content. Files ending in .tf are
// parsed and cross-referenced; files ending in .tfvars are scanned
// for literal secrets only; everything else is listed but ignored.
func Analyze(files map[string]string) *types.ModuleReport {
	all := make([]types.Finding, 0)

	allNames := lo.Keys(files)
	sort.Strings(allNames)
	tfPaths := lo.Filter(allNames, func(name string, _ int) bool {
		return strings.HasSuffix(name, ".tf")
	})

	parsed := make(map[string]*hcl.BlockTree, len(tfPaths))
	for _, name := range tfPaths {
		tree := hcl.Parse(name, files[name])
		if tree.Empty() {
			all = append(all, types.Finding{
				Severity:       types.SeverityInfo,
				Message:        fmt.Sprintf("%s: could not parse HCL2 (invalid or unsupported syntax)", name),
				Recommendation: lo.ToPtr("Validate Terraform syntax with 'terraform validate'"),
			})
			continue
		}
		parsed[name] = tree
	}

	// The symbol table must be complete before any check runs: checks
	// assume global visibility of every declared identifier.
	symbols := BuildSymbols(parsed)

	moduleFindings := checkModuleSources(parsed, tfPaths)
	moduleFindings = append(moduleFindings, checkModuleRequiredVariables(parsed, symbols)...)
	moduleFindings = append(moduleFindings, checkVariableUsage(parsed, files)...)
	moduleFindings = append(moduleFindings, checkOutputReferences(parsed, symbols)...)
	all = append(all, moduleFindings...)

	securityFindings := checkSensitiveVariables(parsed)
	securityFindings = append(securityFindings, checkSensitiveOutputs(parsed)...)
	securityFindings = append(securityFindings, checkTfvarsSecrets(files)...)
	securityFindings = append(securityFindings, checkUntrustedModuleSources(parsed)...)
	all = append(all, securityFindings...)

	estimate := cost.Estimate(parsed)
	all = append(all, estimate.Findings...)

	summary := types.Summarize(all)
	return &types.ModuleReport{
		AnalysisType:            "terraform-module-analysis",
		FilesAnalyzed:           allNames,
		MaturityLevel:           types.MaturityFor(summary, developingWarningCeiling),
		ModuleFindings:          moduleFindings,
		SecurityFindings:        securityFindings,
		CostSummary:             estimate.Summary,
		Findings:                types.Messages(types.BySeverity(all, types.SeverityInfo)),
		Risks:                   types.Risks(all),
		RecommendedImprovements: types.Improvements(all),
		DetailedFindings:        all,
		SeveritySummary:         summary,
	}
}
