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

// varRefPattern extracts var.<identifier> references from raw text.
// Textual extraction is best-effort: references built through
// interpolation or dynamic indexing are not resolved.
var varRefPattern = regexp.MustCompile(`var\.(\w+)`)

// checkVariableUsage cross-validates variable declarations against
// var.X references found anywhere in the raw batch content. Declared
// but never referenced is informational; referenced but never
// declared is a warning.
func checkVariableUsage(parsed map[string]*hcl.BlockTree, raw map[string]string) []types.Finding {
	findings := make([]types.Finding, 0)

	// name -> declaring file; later declarations win, first-seen order
	// is kept for reporting
	var order []string
	declared := make(map[string]string)
	for _, filename := range sortedFiles(parsed) {
		for _, vb := range parsed[filename].Variables {
			if _, seen := declared[vb.Name]; !seen {
				order = append(order, vb.Name)
			}
			declared[vb.Name] = filename
		}
	}

	rawNames := lo.Keys(raw)
	sort.Strings(rawNames)
	contents := lo.Map(rawNames, func(name string, _ int) string {
		return raw[name]
	})
	allContent := strings.Join(contents, " ")

	used := make(map[string]bool)
	for _, match := range varRefPattern.FindAllStringSubmatch(allContent, -1) {
		used[match[1]] = true
	}

	for _, name := range order {
		if used[name] {
			continue
		}
		findings = append(findings, types.Finding{
			Severity: types.SeverityInfo,
			Message: fmt.Sprintf("%s: variable '%s' is declared but never referenced",
				declared[name], name),
			Recommendation: lo.ToPtr(fmt.Sprintf(
				"Remove unused variable '%s' or confirm it is passed to a module", name)),
		})
	}

	usedNames := lo.Keys(used)
	sort.Strings(usedNames)
	for _, name := range usedNames {
		if _, ok := declared[name]; ok {
			continue
		}
		findings = append(findings, types.Finding{
			Severity: types.SeverityWarning,
			Message: fmt.Sprintf("variable '%s' is referenced (var.%s) but never declared in any variables file",
				name, name),
			Recommendation: lo.ToPtr(fmt.Sprintf(`Add a variable "%s" block in variables.tf`, name)),
		})
	}

	return findings
}
