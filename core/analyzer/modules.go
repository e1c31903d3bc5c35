package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/types"
)

// trustedRegistryPrefixes are module source prefixes that need no
// trust warning.
var trustedRegistryPrefixes = []string{
	"hashicorp/",
	"registry.terraform.io/",
	"./",
	"../",
}

// moduleMetaKeys are module-call arguments that are never passed to
// the child module as variables.
var moduleMetaKeys = map[string]bool{
	"source":     true,
	"version":    true,
	"providers":  true,
	"depends_on": true,
	"count":      true,
	"for_each":   true,
}

// checkModuleSources verifies that every module call names a source,
// that local sources point at directories the batch has files for,
// and that remote sources come from a recognized origin. allPaths is
// the full list of configuration file paths, parsed or not.
func checkModuleSources(parsed map[string]*hcl.BlockTree, allPaths []string) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, mod := range parsed[filename].Modules {
			src := mod.Body.Get("source").Scalar()
			if !src.IsTruthy() {
				findings = append(findings, types.Finding{
					Severity:       types.SeverityCritical,
					Message:        fmt.Sprintf("%s: module '%s' has no source attribute", filename, mod.Name),
					Recommendation: lo.ToPtr("Every module block must specify a source path or registry address"),
				})
				continue
			}
			source := src.Text()

			if strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../") {
				// Local module: the target directory must contribute
				// files to the batch.
				normalized := strings.TrimRight(source, "/")
				target := strings.TrimLeft(normalized, "./")
				hasFiles := lo.SomeBy(allPaths, func(p string) bool {
					return strings.HasPrefix(p, target+"/") || strings.HasPrefix(p, normalized+"/")
				})
				if !hasFiles {
					findings = append(findings, types.Finding{
						Severity: types.SeverityWarning,
						Message: fmt.Sprintf("%s: module '%s' references local path '%s' but no .tf files found there",
							filename, mod.Name, source),
						Recommendation: lo.ToPtr("Verify the module source path exists and contains .tf files"),
					})
				}
			} else if !lo.SomeBy(trustedRegistryPrefixes, func(prefix string) bool {
				return strings.HasPrefix(source, prefix)
			}) {
				if !strings.Contains(source, "github.com") && !strings.Contains(source, "terraform.io") {
					findings = append(findings, types.Finding{
						Severity: types.SeverityWarning,
						Message: fmt.Sprintf("%s: module '%s' uses potentially untrusted source '%s'",
							filename, mod.Name, source),
						Recommendation: lo.ToPtr("Prefer modules from the official Terraform Registry or verified sources"),
					})
				}
			}
		}
	}

	return findings
}

// checkModuleRequiredVariables verifies that every local module call
// passes all of the child module's no-default variables. The child
// directory is resolved by path-prefix arithmetic over the batch's
// file keys, never by touching a filesystem.
func checkModuleRequiredVariables(parsed map[string]*hcl.BlockTree, symbols *SymbolTable) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, mod := range parsed[filename].Modules {
			source := mod.Body.Get("source").Scalar().Text()
			if !strings.HasPrefix(source, "./") && !strings.HasPrefix(source, "../") {
				continue
			}

			callerDir := dirPrefix(filename)
			resolvedDir := strings.TrimRight(
				strings.ReplaceAll(strings.ReplaceAll(source, "./", ""), "../", ""), "/")
			if callerDir != "" {
				resolvedDir = callerDir + "/" + resolvedDir
			}

			declared, ok := symbols.ModuleVars[resolvedDir]
			if !ok {
				continue
			}

			passed := make(map[string]bool)
			for _, key := range mod.Body.Keys() {
				if !moduleMetaKeys[key] {
					passed[key] = true
				}
			}

			var missing []string
			for name, hasDefault := range declared {
				if !hasDefault && !passed[name] {
					missing = append(missing, name)
				}
			}
			sort.Strings(missing)

			for _, name := range missing {
				findings = append(findings, types.Finding{
					Severity: types.SeverityCritical,
					Message: fmt.Sprintf("%s: module '%s' missing required variable '%s'",
						filename, mod.Name, name),
					Recommendation: lo.ToPtr(fmt.Sprintf(
						"Pass variable '%s' to module '%s' -- it has no default value", name, mod.Name)),
				})
			}
		}
	}

	return findings
}
