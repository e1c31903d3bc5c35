package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/types"
)

// outputRefPattern extracts module.<id>, data.<type>.<id>, local.<id>
// and aws_<type>.<id> tokens from a stringified output value. This is
// substring matching over the rendered expression, not expression
// evaluation.
var outputRefPattern = regexp.MustCompile(`module\.\w+|data\.\w+\.\w+|local\.\w+|aws_\w+\.\w+`)

// checkOutputReferences verifies that every identifier an output
// value mentions is declared somewhere in the batch. Repeated
// references are reported each time they appear.
func checkOutputReferences(parsed map[string]*hcl.BlockTree, symbols *SymbolTable) []types.Finding {
	findings := make([]types.Finding, 0)

	for _, filename := range sortedFiles(parsed) {
		for _, out := range parsed[filename].Outputs {
			valueText := out.Body.Get("value").Text()

			for _, ref := range outputRefPattern.FindAllString(valueText, -1) {
				var known bool
				switch {
				case strings.HasPrefix(ref, "module."):
					known = symbols.Modules[ref]
				case strings.HasPrefix(ref, "data."):
					known = symbols.DataSources[ref]
				case strings.HasPrefix(ref, "local."):
					known = symbols.Locals[ref]
				default:
					known = symbols.Resources[ref]
				}
				if known {
					continue
				}
				findings = append(findings, types.Finding{
					Severity: types.SeverityWarning,
					Message: fmt.Sprintf("%s: output '%s' references '%s' which is not declared",
						filename, out.Name, ref),
					Recommendation: lo.ToPtr(fmt.Sprintf(
						"Verify that %s exists or fix the output value reference", ref)),
				})
			}
		}
	}

	return findings
}
