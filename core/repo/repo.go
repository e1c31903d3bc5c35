// Package repo derives a repository overview from file paths alone:
// detected stack, CI and IaC presence, containerization, and a coarse
// maturity rating. No file contents are read.
package repo

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/core/types"
)

// Overview classifies a repository by the shape of its file listing.
// Paths are slash-separated and relative to the repository root.
func Overview(paths []string) *types.RepoSummary {
	index := make(map[string]bool, len(paths))
	for _, p := range paths {
		index[p] = true
	}

	hasDocker := index["Dockerfile"]
	hasCI := lo.SomeBy(paths, func(p string) bool {
		return strings.HasPrefix(p, ".github/workflows/")
	})
	hasTerraform := lo.SomeBy(paths, func(p string) bool {
		return strings.HasSuffix(p, ".tf") || strings.HasPrefix(p, "terraform/")
	})

	stack := make([]string, 0)
	if index["package.json"] {
		stack = append(stack, "nodejs")
	}
	if index["requirements.txt"] || index["pyproject.toml"] {
		stack = append(stack, "python")
	}
	if index["go.mod"] {
		stack = append(stack, "golang")
	}
	sort.Strings(stack)

	findings := make([]string, 0)
	if hasDocker {
		findings = append(findings, "Dockerfile present")
	}
	if hasCI {
		findings = append(findings, "CI/CD pipeline detected")
	}
	if hasTerraform {
		findings = append(findings, "Infrastructure as Code detected (Terraform)")
	}
	if !hasCI {
		findings = append(findings, "No CI/CD pipeline detected")
	}
	if !hasTerraform {
		findings = append(findings, "No Infrastructure as Code detected")
	}

	maturity := types.MaturityEarly
	if hasCI && hasDocker {
		maturity = types.MaturityDeveloping
	}
	if hasCI && hasDocker && hasTerraform {
		maturity = types.MaturityProductionLeaning
	}

	ciCD := "absent"
	if hasCI {
		ciCD = "present"
	}
	iac := "none"
	if hasTerraform {
		iac = "terraform"
	}

	return &types.RepoSummary{
		Stack:            stack,
		CICD:             ciCD,
		IaC:              iac,
		Containerization: hasDocker,
		MaturityLevel:    maturity,
		KeyFindings:      findings,
	}
}
