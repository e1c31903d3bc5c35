// Package cicd implements the GitHub Actions workflow review. Each
// YAML file is parsed on its own; checks cover least-privilege
// permissions, concurrency, timeouts, runner and caching hygiene,
// action pinning, AWS OIDC and terraform-apply guards.
package cicd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"infra-review/core/types"
)

// developingWarningCeiling is the most warnings a batch can carry and
// still rate "developing" rather than "basic". Pipelines get a
// stricter ceiling than Terraform.
const developingWarningCeiling = 2

// Review inspects GitHub Actions workflow files, given as a mapping
// from path to raw content. Only .yml and .yaml entries are reviewed.
func Review(files map[string]string) *types.WorkflowReport {
	all := make([]types.Finding, 0)

	names := lo.Keys(files)
	sort.Strings(names)
	yamlFiles := lo.Filter(names, func(name string, _ int) bool {
		return strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")
	})

	for _, name := range yamlFiles {
		content := files[name]

		var doc any
		if err := yaml.Unmarshal([]byte(content), &doc); err != nil || doc == nil {
			all = append(all, types.Finding{
				Severity:       types.SeverityCritical,
				Message:        fmt.Sprintf("%s: failed to parse YAML -- invalid syntax", name),
				Recommendation: lo.ToPtr("Fix YAML syntax errors before proceeding"),
			})
			continue
		}
		workflow := asMap(doc)
		if workflow == nil {
			// parsed, but not a mapping: not a workflow
			continue
		}

		jobs := asMap(workflow["jobs"])

		all = append(all, checkPermissions(workflow, name)...)
		all = append(all, checkConcurrency(workflow, name)...)
		all = append(all, checkWorkflowDispatch(workflow, name)...)
		all = append(all, checkTimeouts(jobs, name)...)
		all = append(all, checkMatrixStrategy(jobs, name)...)
		all = append(all, checkSelfHostedRunners(jobs, name)...)
		all = append(all, checkCaching(jobs, name)...)
		all = append(all, checkArtifactHandling(jobs, name)...)
		all = append(all, checkSecretsUsage(content, name)...)
		all = append(all, checkEnvironmentProtection(jobs, name)...)

		for _, jobName := range sortedKeys(jobs) {
			job := asMap(jobs[jobName])
			if job == nil {
				continue
			}
			steps := asSlice(job["steps"])
			all = append(all, checkActionPinning(steps, name)...)
			all = append(all, checkAWSOIDC(steps, name)...)
			all = append(all, checkTerraformSafety(steps, name)...)
		}
	}

	summary := types.Summarize(all)
	return &types.WorkflowReport{
		CICDType:                "github-actions",
		PipelineFiles:           yamlFiles,
		MaturityLevel:           types.MaturityFor(summary, developingWarningCeiling),
		Findings:                types.Messages(types.BySeverity(all, types.SeverityInfo)),
		Risks:                   types.Risks(all),
		RecommendedImprovements: types.Improvements(all),
		DetailedFindings:        all,
		SeveritySummary:         summary,
	}
}

func checkPermissions(workflow map[string]any, filename string) []types.Finding {
	if _, ok := workflow["permissions"]; ok {
		return nil
	}
	return []types.Finding{{
		Severity:       types.SeverityCritical,
		Message:        fmt.Sprintf("%s: missing top-level permissions block", filename),
		Recommendation: lo.ToPtr("Add 'permissions: contents: read' at minimum for least-privilege"),
	}}
}

func checkConcurrency(workflow map[string]any, filename string) []types.Finding {
	if _, ok := workflow["concurrency"]; ok {
		return nil
	}
	return []types.Finding{{
		Severity:       types.SeverityInfo,
		Message:        fmt.Sprintf("%s: no concurrency group defined", filename),
		Recommendation: lo.ToPtr("Add concurrency group to prevent duplicate runs"),
	}}
}

func checkWorkflowDispatch(workflow map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	triggers := asMap(workflow["on"])
	dispatch := asMap(triggers["workflow_dispatch"])
	if dispatch == nil {
		return findings
	}
	inputs := asMap(dispatch["inputs"])
	for _, inputName := range sortedKeys(inputs) {
		cfg := asMap(inputs[inputName])
		if cfg == nil {
			continue
		}
		if _, ok := cfg["description"]; ok {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Message:        fmt.Sprintf("%s: workflow_dispatch input '%s' lacks description", filename, inputName),
			Recommendation: lo.ToPtr("Add descriptions to all workflow_dispatch inputs"),
		})
	}
	return findings
}

func checkTimeouts(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		if job == nil {
			continue
		}
		if _, ok := job["timeout-minutes"]; ok {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Message:        fmt.Sprintf("%s: job '%s' has no timeout-minutes", filename, jobName),
			Recommendation: lo.ToPtr(fmt.Sprintf("Add timeout-minutes to job '%s' to prevent runaway builds", jobName)),
		})
	}
	return findings
}

func checkMatrixStrategy(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		strategy := asMap(job["strategy"])
		if strategy == nil {
			continue
		}
		if _, ok := strategy["matrix"]; !ok {
			continue
		}
		if _, ok := strategy["fail-fast"]; ok {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Message:        fmt.Sprintf("%s: job '%s' matrix has no fail-fast setting", filename, jobName),
			Recommendation: lo.ToPtr("Consider setting fail-fast: false for comprehensive test results"),
		})
	}
	return findings
}

func checkSelfHostedRunners(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		if job == nil {
			continue
		}
		// runs-on may be a string or a label list
		if !strings.Contains(fmt.Sprintf("%v", job["runs-on"]), "self-hosted") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Message:        fmt.Sprintf("%s: job '%s' uses self-hosted runner", filename, jobName),
			Recommendation: lo.ToPtr("Ensure self-hosted runners are ephemeral and isolated"),
		})
	}
	return findings
}

func checkCaching(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		if job == nil {
			continue
		}
		hasCache := lo.SomeBy(asSlice(job["steps"]), func(s any) bool {
			step := asMap(s)
			if step == nil {
				return false
			}
			return strings.Contains(asString(step["uses"]), "actions/cache") ||
				strings.Contains(fmt.Sprintf("%v", step["with"]), "cache")
		})
		if hasCache {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Message:        fmt.Sprintf("%s: job '%s' has no dependency caching", filename, jobName),
			Recommendation: lo.ToPtr("Add actions/cache to speed up builds"),
		})
	}
	return findings
}

func checkArtifactHandling(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	usesContaining := func(steps []any, marker string) bool {
		return lo.SomeBy(steps, func(s any) bool {
			step := asMap(s)
			return step != nil && strings.Contains(asString(step["uses"]), marker)
		})
	}
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		if job == nil {
			continue
		}
		steps := asSlice(job["steps"])
		if !usesContaining(steps, "actions/upload-artifact") || usesContaining(steps, "actions/download-artifact") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Message:        fmt.Sprintf("%s: job '%s' uploads artifacts but no job downloads them", filename, jobName),
			Recommendation: lo.ToPtr("Ensure uploaded artifacts are consumed by downstream jobs or used for debugging"),
		})
	}
	return findings
}

// checkSecretsUsage notes secret use informationally. No
// recommendation: using GitHub secrets is not itself a problem.
func checkSecretsUsage(content, filename string) []types.Finding {
	if !strings.Contains(strings.ToLower(content), "secrets.") {
		return nil
	}
	return []types.Finding{{
		Severity: types.SeverityInfo,
		Message:  fmt.Sprintf("%s: uses GitHub secrets", filename),
	}}
}

func checkEnvironmentProtection(jobs map[string]any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, jobName := range sortedKeys(jobs) {
		job := asMap(jobs[jobName])
		if job == nil {
			continue
		}
		if _, ok := job["environment"]; !ok {
			continue
		}
		findings = append(findings, types.Finding{
			Severity: types.SeverityInfo,
			Message:  fmt.Sprintf("%s: job '%s' uses environment protection rules", filename, jobName),
		})
	}
	return findings
}

// checkActionPinning flags uses references that are not full commit
// SHAs. A 40-character ref is assumed to be a SHA.
func checkActionPinning(steps []any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, s := range steps {
		step := asMap(s)
		if step == nil {
			continue
		}
		uses := asString(step["uses"])
		if uses == "" || !strings.Contains(uses, "@") {
			continue
		}
		ref := strings.Split(uses, "@")[1]
		if len(ref) >= 40 || strings.HasPrefix(ref, "sha") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Message:        fmt.Sprintf("%s: action '%s' uses tag reference instead of SHA pin", filename, uses),
			Recommendation: lo.ToPtr("Pin actions to a full commit SHA for supply-chain security"),
		})
	}
	return findings
}

// checkAWSOIDC flags AWS credential steps that configure static keys
// instead of assuming a role through OIDC.
func checkAWSOIDC(steps []any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, s := range steps {
		step := asMap(s)
		if step == nil {
			continue
		}
		if !strings.Contains(asString(step["uses"]), "aws-actions/configure-aws-credentials") {
			continue
		}
		withBlock, ok := step["with"]
		if !ok {
			withBlock = map[string]any{}
		}
		w := asMap(withBlock)
		if w == nil {
			continue
		}
		if _, has := w["role-to-assume"]; has {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Message:        fmt.Sprintf("%s: AWS credentials without OIDC role-to-assume", filename),
			Recommendation: lo.ToPtr("Use OIDC with role-to-assume instead of long-lived secrets"),
		})
	}
	return findings
}

// checkTerraformSafety flags terraform apply steps that run with no
// if-condition at all.
func checkTerraformSafety(steps []any, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, s := range steps {
		step := asMap(s)
		if step == nil {
			continue
		}
		if !strings.Contains(asString(step["run"]), "terraform apply") {
			continue
		}
		if asString(step["if"]) != "" {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Message:        fmt.Sprintf("%s: terraform apply without if-guard", filename),
			Recommendation: lo.ToPtr("Protect terraform apply with environment conditions or manual approval"),
		})
	}
	return findings
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
