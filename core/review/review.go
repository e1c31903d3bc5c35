// Package review implements the per-file Terraform rule review:
// raw-content secret scanning, then parsed-tree checks for remote
// state, provider pinning, tagging, open security groups, S3
// hardening, IAM wildcards and lifecycle protection. Checks are
// per-file; nothing here resolves references across files.
package review

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/types"
)

// developingWarningCeiling is the most warnings a batch can carry and
// still rate "developing" rather than "basic".
const developingWarningCeiling = 3

const secretRecommendation = "Use variables with sensitive=true or reference AWS Secrets Manager/SSM Parameter Store"

// secretChecks run against raw file content before parsing, so they
// catch credentials even in files that do not parse. A value starting
// with $ or { is an interpolation, not a literal, and never matches.
var secretChecks = []struct {
	pattern *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`(?i)(password|secret|api_key|access_key|token)\s*=\s*"[^${}][^"]*"`), "Possible hardcoded credential"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS Access Key ID detected"},
	{regexp.MustCompile(`(?i)secret_key\s*=\s*"[^${}]`), "Hardcoded AWS secret key"},
}

// statefulResourceTypes should carry a lifecycle block so a plan
// cannot silently destroy them.
var statefulResourceTypes = map[string]bool{
	"aws_instance":    true,
	"aws_db_instance": true,
	"aws_ecs_service": true,
}

// Review inspects a batch of Terraform files, given as a mapping from
// path to raw content. Only .tf entries are reviewed; each file is
// judged on its own.
func Review(files map[string]string) *types.TerraformReport {
	all := make([]types.Finding, 0)
	detected := make(map[string]bool)

	names := lo.Keys(files)
	sort.Strings(names)
	tfFiles := lo.Filter(names, func(name string, _ int) bool {
		return strings.HasSuffix(name, ".tf")
	})

	for _, name := range tfFiles {
		content := files[name]
		all = append(all, checkHardcodedSecrets(content, name)...)

		tree := hcl.Parse(name, content)
		if tree.Empty() {
			all = append(all, types.Finding{
				Severity:       types.SeverityInfo,
				Message:        fmt.Sprintf("%s: could not parse HCL2 (invalid or unsupported syntax)", name),
				Recommendation: lo.ToPtr("Validate Terraform syntax with 'terraform validate'"),
			})
			continue
		}

		for _, rb := range tree.Resources {
			detected[rb.Type] = true
		}

		all = append(all, checkBackendConfig(tree, name)...)
		all = append(all, checkProviderVersions(tree, name)...)
		all = append(all, checkResourceTags(tree, name)...)
		all = append(all, checkSecurityGroups(tree, name)...)
		all = append(all, checkS3Security(tree, name)...)
		all = append(all, checkIAMPolicies(tree, name)...)
		all = append(all, checkLifecycleRules(tree, name)...)
	}

	detectedList := lo.Keys(detected)
	sort.Strings(detectedList)

	summary := types.Summarize(all)
	return &types.TerraformReport{
		IaCType:                 "terraform",
		FilesReviewed:           tfFiles,
		MaturityLevel:           types.MaturityFor(summary, developingWarningCeiling),
		Findings:                types.Messages(types.BySeverity(all, types.SeverityInfo)),
		Risks:                   types.Risks(all),
		RecommendedImprovements: types.Improvements(all),
		DetailedFindings:        all,
		SeveritySummary:         summary,
		DetectedResources:       detectedList,
	}
}

// checkHardcodedSecrets scans raw content for credential literals. At
// most one finding per pattern per file.
func checkHardcodedSecrets(content, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, check := range secretChecks {
		if !check.pattern.MatchString(content) {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Message:        fmt.Sprintf("%s: %s", filename, check.message),
			Recommendation: lo.ToPtr(secretRecommendation),
		})
	}
	return findings
}

// checkBackendConfig requires a remote backend and, for S3 backends,
// DynamoDB state locking.
func checkBackendConfig(tree *hcl.BlockTree, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	hasBackend := false

	for _, block := range tree.Terraform {
		if !block.Has("backend") {
			continue
		}
		hasBackend = true
		for _, backend := range block.Get("backend").List {
			if backend.Kind != hcl.KindMap || !backend.Map.Has("s3") {
				continue
			}
			s3 := backend.Map.Get("s3").Scalar()
			if s3.Kind == hcl.KindMap && !s3.Map.Has("dynamodb_table") {
				findings = append(findings, types.Finding{
					Severity:       types.SeverityWarning,
					Message:        fmt.Sprintf("%s: S3 backend without DynamoDB state locking", filename),
					Recommendation: lo.ToPtr("Add dynamodb_table for state locking to prevent concurrent modifications"),
				})
			}
		}
	}

	if !hasBackend {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Message:        fmt.Sprintf("%s: no remote backend configured (using local state)", filename),
			Recommendation: lo.ToPtr("Configure a remote backend (S3 + DynamoDB) for team collaboration and state safety"),
		})
	}
	return findings
}

// checkProviderVersions requires a non-empty required_providers
// entry in some terraform block of the file.
func checkProviderVersions(tree *hcl.BlockTree, filename string) []types.Finding {
	for _, block := range tree.Terraform {
		if block.Get("required_providers").IsTruthy() {
			return nil
		}
	}
	return []types.Finding{{
		Severity:       types.SeverityWarning,
		Message:        fmt.Sprintf("%s: no required_providers with version constraints", filename),
		Recommendation: lo.ToPtr("Pin provider versions to prevent unexpected upgrades"),
	}}
}

// checkResourceTags flags untagged resources, informationally.
func checkResourceTags(tree *hcl.BlockTree, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, rb := range tree.Resources {
		if rb.Body.Has("tags") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Message:        fmt.Sprintf("%s: %s.%s has no tags", filename, rb.Type, rb.Name),
			Recommendation: lo.ToPtr("Add tags for cost allocation and resource management"),
		})
	}
	return findings
}

// checkSecurityGroups flags any security group or rule that mentions
// the open-world CIDR anywhere in its body, ingress or egress alike.
func checkSecurityGroups(tree *hcl.BlockTree, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, rb := range tree.Resources {
		if rb.Type != "aws_security_group" && rb.Type != "aws_security_group_rule" {
			continue
		}
		if !strings.Contains(rb.Body.Text(), "0.0.0.0/0") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Message:        fmt.Sprintf("%s: %s.%s allows 0.0.0.0/0", filename, rb.Type, rb.Name),
			Recommendation: lo.ToPtr("Restrict CIDR blocks to known IP ranges"),
		})
	}
	return findings
}

// checkS3Security flags buckets whose body never mentions encryption
// or versioning. Substring matching keeps separate
// aws_s3_bucket_versioning resources out of scope: the signal is
// per-bucket, best-effort.
func checkS3Security(tree *hcl.BlockTree, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, rb := range tree.Resources {
		if rb.Type != "aws_s3_bucket" {
			continue
		}
		configStr := rb.Body.Text()
		if !strings.Contains(configStr, "server_side_encryption_configuration") {
			findings = append(findings, types.Finding{
				Severity:       types.SeverityWarning,
				Message:        fmt.Sprintf("%s: aws_s3_bucket.%s may lack encryption", filename, rb.Name),
				Recommendation: lo.ToPtr("Enable server-side encryption (SSE-S3 or SSE-KMS)"),
			})
		}
		if !strings.Contains(configStr, "versioning") {
			findings = append(findings, types.Finding{
				Severity:       types.SeverityWarning,
				Message:        fmt.Sprintf("%s: aws_s3_bucket.%s may lack versioning", filename, rb.Name),
				Recommendation: lo.ToPtr("Enable versioning for data protection and recovery"),
			})
		}
	}
	return findings
}

// checkIAMPolicies flags wildcard actions. Policy documents usually
// survive as raw jsonencode/heredoc text, so the check is a substring
// scan over the whole rendered file: a quoted * together with an
// Action key. At most one finding per file.
func checkIAMPolicies(tree *hcl.BlockTree, filename string) []types.Finding {
	text := tree.Text()
	if !strings.Contains(text, `"*"`) {
		return nil
	}
	if !strings.Contains(text, "Action") && !strings.Contains(text, "action") {
		return nil
	}
	return []types.Finding{{
		Severity:       types.SeverityCritical,
		Message:        fmt.Sprintf("%s: IAM policy may contain wildcard (*) actions", filename),
		Recommendation: lo.ToPtr("Follow least-privilege: specify exact actions needed instead of '*'"),
	}}
}

// checkLifecycleRules flags stateful resources that have no lifecycle
// block, informationally.
func checkLifecycleRules(tree *hcl.BlockTree, filename string) []types.Finding {
	findings := make([]types.Finding, 0)
	for _, rb := range tree.Resources {
		if !statefulResourceTypes[rb.Type] || rb.Body.Has("lifecycle") {
			continue
		}
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Message:        fmt.Sprintf("%s: %s.%s has no lifecycle block", filename, rb.Type, rb.Name),
			Recommendation: lo.ToPtr("Consider adding lifecycle { prevent_destroy = true } for stateful resources"),
		})
	}
	return findings
}
