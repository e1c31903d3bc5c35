package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/types"
)

// sensitiveNamePatterns are case-insensitive substrings that mark a
// variable or output as secret-bearing.
var sensitiveNamePatterns = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"access_key",
	"private_key",
	"credentials",
	"connection_string",
	"auth",
	"db_pass",
	"master_password",
	"admin_password",
}

// tfvarsSecretChecks flag literal secrets in variable-definition
// files. Interpolated values ("${...}") are not literals and do not
// match.
var tfvarsSecretChecks = []struct {
	pattern *regexp.Regexp
	message string
}{
	{regexp.MustCompile(`(?i)(password|secret|api_key|access_key|token)\s*=\s*"[^${}][^"]{3,}"`), "Hardcoded secret in tfvars"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS Access Key ID in tfvars"},
}

// matchesSensitivePattern reports whether the lowercased text
// contains any sensitive-name substring.
func matchesSensitivePattern(lower string) bool {
	return lo.SomeBy(sensitiveNamePatterns, func(pattern string) bool {
		return strings.Contains(lower, pattern)
	})
}

// checkSensitiveVariables flags secret-named variables that lack
// sensitive = true, and independently flags hardcoded defaults on
// them. Both findings can co-occur for the same variable.
func checkSensitiveVariables(parsed map[string]*hcl.BlockTree) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, vb := range parsed[filename].Variables {
			if !matchesSensitivePattern(strings.ToLower(vb.Name)) {
				continue
			}

			if !vb.Body.Get("sensitive").Scalar().IsTruthy() {
				findings = append(findings, types.Finding{
					Severity: types.SeverityCritical,
					Message: fmt.Sprintf("%s: variable '%s' appears to hold sensitive data but lacks sensitive = true",
						filename, vb.Name),
					Recommendation: lo.ToPtr(fmt.Sprintf(
						"Add 'sensitive = true' to variable '%s' to prevent it from appearing in plan/apply output", vb.Name)),
				})
			}

			if !vb.Body.Get("default").Scalar().IsEmptyLiteral() {
				findings = append(findings, types.Finding{
					Severity: types.SeverityCritical,
					Message: fmt.Sprintf("%s: variable '%s' has a hardcoded default for a sensitive value",
						filename, vb.Name),
					Recommendation: lo.ToPtr(fmt.Sprintf(
						"Remove the default from '%s' -- sensitive values should come from .tfvars or environment variables", vb.Name)),
				})
			}
		}
	}

	return findings
}

// checkSensitiveOutputs flags outputs whose name or stringified value
// looks secret-bearing but which lack sensitive = true.
func checkSensitiveOutputs(parsed map[string]*hcl.BlockTree) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, out := range parsed[filename].Outputs {
			sensitive := matchesSensitivePattern(strings.ToLower(out.Body.Get("value").Text()))
			if !sensitive {
				sensitive = matchesSensitivePattern(strings.ToLower(out.Name))
			}
			if !sensitive {
				continue
			}

			if !out.Body.Get("sensitive").Scalar().IsTruthy() {
				findings = append(findings, types.Finding{
					Severity: types.SeverityCritical,
					Message: fmt.Sprintf("%s: output '%s' may expose sensitive data without sensitive = true",
						filename, out.Name),
					Recommendation: lo.ToPtr(fmt.Sprintf(
						"Add 'sensitive = true' to output '%s' or remove the sensitive reference", out.Name)),
				})
			}
		}
	}

	return findings
}

// checkTfvarsSecrets scans values files for literal secrets. The scan
// is scoped by extension: the same text in a .tf file is ignored
// here.
func checkTfvarsSecrets(raw map[string]string) []types.Finding {
	findings := make([]types.Finding, 0)

	names := lo.Keys(raw)
	sort.Strings(names)
	for _, filename := range names {
		if !strings.HasSuffix(filename, ".tfvars") {
			continue
		}
		for _, check := range tfvarsSecretChecks {
			if !check.pattern.MatchString(raw[filename]) {
				continue
			}
			findings = append(findings, types.Finding{
				Severity: types.SeverityCritical,
				Message:  fmt.Sprintf("%s: %s", filename, check.message),
				Recommendation: lo.ToPtr(
					"Never store secrets in .tfvars files. Use environment variables, AWS Secrets Manager, or a secrets management tool"),
			})
		}
	}

	return findings
}

// checkUntrustedModuleSources flags git-sourced modules without a
// ?ref= pin and registry modules without a version constraint. A
// source can match both shapes; both findings then fire.
func checkUntrustedModuleSources(parsed map[string]*hcl.BlockTree) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, mod := range parsed[filename].Modules {
			src := mod.Body.Get("source").Scalar()
			ver := mod.Body.Get("version").Scalar()
			source := src.Text()

			if strings.Contains(source, "git::") ||
				(strings.Contains(source, "github.com") && strings.Contains(source, "git")) {
				if !strings.Contains(source, "?ref=") && !ver.IsTruthy() {
					findings = append(findings, types.Finding{
						Severity: types.SeverityWarning,
						Message: fmt.Sprintf("%s: module '%s' uses git source without version pinning",
							filename, mod.Name),
						Recommendation: lo.ToPtr(
							"Pin module to a specific git tag or commit hash using ?ref=v1.0.0"),
					})
				}
			}

			if !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") &&
				!strings.Contains(source, "git::") && !strings.Contains(source, "github.com") {
				if src.IsTruthy() && !ver.IsTruthy() {
					findings = append(findings, types.Finding{
						Severity: types.SeverityWarning,
						Message: fmt.Sprintf("%s: module '%s' has no version constraint",
							filename, mod.Name),
						Recommendation: lo.ToPtr(
							`Pin registry modules with a version constraint (e.g., version = "~> 3.0")`),
					})
				}
			}
		}
	}

	return findings
}
