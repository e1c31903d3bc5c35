package repo

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"

	"infra-review/core/types"
)

var fullRepoPaths = []string{
	"README.md",
	"Dockerfile",
	"docker-compose.yml",
	"requirements.txt",
	"main.py",
	".github/workflows/ci.yml",
	"terraform/main.tf",
	"terraform/variables.tf",
}

func containsSubstring(msgs []string, sub string) bool {
	return lo.SomeBy(msgs, func(m string) bool {
		return strings.Contains(m, sub)
	})
}

func TestOverview_ProductionLeaning(t *testing.T) {
	summary := Overview(fullRepoPaths)

	assert.Equal(t, types.MaturityProductionLeaning, summary.MaturityLevel)
	assert.Equal(t, "present", summary.CICD)
	assert.Equal(t, "terraform", summary.IaC)
	assert.True(t, summary.Containerization)
}

func TestOverview_EarlyMaturity(t *testing.T) {
	summary := Overview([]string{"README.md", "main.py", "requirements.txt"})

	assert.Equal(t, types.MaturityEarly, summary.MaturityLevel)
	assert.Equal(t, "absent", summary.CICD)
	assert.Equal(t, "none", summary.IaC)
	assert.False(t, summary.Containerization)
}

func TestOverview_DevelopingMaturity(t *testing.T) {
	summary := Overview([]string{"Dockerfile", ".github/workflows/ci.yml", "requirements.txt"})

	assert.Equal(t, types.MaturityDeveloping, summary.MaturityLevel)
}

func TestOverview_CIAloneIsEarly(t *testing.T) {
	summary := Overview([]string{".github/workflows/ci.yml", "main.py"})

	assert.Equal(t, types.MaturityEarly, summary.MaturityLevel)
}

func TestOverview_StackDetection(t *testing.T) {
	assert.Contains(t, Overview([]string{"requirements.txt", "main.py"}).Stack, "python")
	assert.Contains(t, Overview([]string{"pyproject.toml"}).Stack, "python")
	assert.Contains(t, Overview([]string{"package.json", "index.js"}).Stack, "nodejs")
	assert.Contains(t, Overview([]string{"go.mod", "main.go"}).Stack, "golang")
}

func TestOverview_StackSorted(t *testing.T) {
	summary := Overview([]string{"requirements.txt", "go.mod", "package.json"})

	assert.Equal(t, []string{"golang", "nodejs", "python"}, summary.Stack)
}

func TestOverview_EmptyPathList(t *testing.T) {
	summary := Overview([]string{})

	assert.Equal(t, types.MaturityEarly, summary.MaturityLevel)
	assert.Empty(t, summary.Stack)
	assert.Equal(t, "absent", summary.CICD)
}

func TestOverview_KeyFindings(t *testing.T) {
	summary := Overview(fullRepoPaths)

	assert.True(t, containsSubstring(summary.KeyFindings, "Dockerfile"))
	assert.True(t, containsSubstring(summary.KeyFindings, "CI/CD"))
	assert.True(t, containsSubstring(summary.KeyFindings, "Terraform"))
}

func TestOverview_AbsenceFindings(t *testing.T) {
	summary := Overview([]string{"main.py"})

	assert.True(t, containsSubstring(summary.KeyFindings, "No CI/CD"))
	assert.True(t, containsSubstring(summary.KeyFindings, "No Infrastructure"))
}

func TestOverview_RootTfFileCountsAsTerraform(t *testing.T) {
	summary := Overview([]string{"main.tf"})

	assert.Equal(t, "terraform", summary.IaC)
}
