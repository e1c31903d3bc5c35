package cicd

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-review/core/types"
)

const secureWorkflow = `
name: CI
on:
  push:
    branches: [main]
  pull_request:

permissions:
  contents: read

concurrency:
  group: ci-${{ github.ref }}
  cancel-in-progress: true

jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 15
    steps:
      - uses: actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675
      - uses: actions/setup-python@v5
        with:
          python-version: "3.11"
          cache: pip
      - run: pip install -r requirements.txt
      - run: pytest
`

const insecureWorkflow = `
name: Deploy
on: push

jobs:
  deploy:
    runs-on: self-hosted
    steps:
      - uses: actions/checkout@v4
      - uses: aws-actions/configure-aws-credentials@v4
        with:
          aws-access-key-id: ${{ secrets.AWS_KEY }}
          aws-secret-access-key: ${{ secrets.AWS_SECRET }}
          aws-region: us-east-1
      - run: terraform apply -auto-approve
`

const minimalWorkflow = `
name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - uses: actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675
`

func containsSubstring(msgs []string, sub string) bool {
	return lo.SomeBy(msgs, func(m string) bool {
		return strings.Contains(m, sub)
	})
}

func TestReview_SecureWorkflow(t *testing.T) {
	report := Review(map[string]string{"ci.yml": secureWorkflow})

	assert.Equal(t, "github-actions", report.CICDType)
	assert.Equal(t, []string{"ci.yml"}, report.PipelineFiles)
	assert.Equal(t, 0, report.SeveritySummary.Critical)
	// setup-python@v5 is the only tag-pinned action
	assert.Equal(t, 1, report.SeveritySummary.Warning)
	assert.Equal(t, types.MaturityDeveloping, report.MaturityLevel)
}

func TestReview_InvalidYAML(t *testing.T) {
	report := Review(map[string]string{"bad.yml": "name: test\n  invalid: [yaml: {broken"})

	assert.True(t, containsSubstring(types.Messages(report.DetailedFindings), "failed to parse YAML"))
	assert.GreaterOrEqual(t, report.SeveritySummary.Critical, 1)
}

func TestReview_EmptyDocument(t *testing.T) {
	report := Review(map[string]string{"empty.yml": ""})

	assert.True(t, containsSubstring(types.Messages(report.DetailedFindings), "failed to parse YAML"))
}

func TestReview_NonMappingDocumentSkipped(t *testing.T) {
	report := Review(map[string]string{"list.yml": "- one\n- two\n"})

	assert.Empty(t, report.DetailedFindings)
	assert.Equal(t, []string{"list.yml"}, report.PipelineFiles)
}

func TestReview_MissingPermissions(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	assert.True(t, containsSubstring(report.Risks, "permissions"))
}

func TestReview_PermissionsPresent(t *testing.T) {
	report := Review(map[string]string{"ci.yml": secureWorkflow})

	assert.False(t, containsSubstring(report.Risks, "permissions"))
}

func TestReview_SHAPinnedActionNotFlagged(t *testing.T) {
	report := Review(map[string]string{"ci.yml": minimalWorkflow})

	assert.False(t, containsSubstring(types.Messages(report.DetailedFindings), "tag reference"))
}

func TestReview_TagPinnedActionWarns(t *testing.T) {
	files := map[string]string{
		"ci.yml": `
name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - uses: actions/checkout@v4
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Risks, "tag reference"))
	assert.True(t, containsSubstring(report.Risks, "actions/checkout@v4"))
}

func TestReview_TimeoutMissing(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	assert.True(t, containsSubstring(report.Risks, "timeout"))
}

func TestReview_SelfHostedRunner(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	assert.True(t, containsSubstring(report.Risks, "self-hosted"))
}

func TestReview_SelfHostedInLabelList(t *testing.T) {
	files := map[string]string{
		"ci.yml": `
name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: [self-hosted, linux]
    timeout-minutes: 10
    steps:
      - run: make
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Risks, "self-hosted runner"))
}

func TestReview_AWSCredentialsWithoutOIDC(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	assert.True(t, containsSubstring(report.Risks, "OIDC"))
}

func TestReview_AWSCredentialsWithRoleNotFlagged(t *testing.T) {
	files := map[string]string{
		"deploy.yml": `
name: Deploy
on: push
permissions:
  id-token: write
  contents: read
jobs:
  deploy:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - uses: aws-actions/configure-aws-credentials@a81bbbf8298c0fa03ea29cdc473d45769f953675
        with:
          role-to-assume: arn:aws:iam::123456789012:role/deploy
          aws-region: us-east-1
`,
	}

	report := Review(files)

	assert.False(t, containsSubstring(report.Risks, "OIDC"))
}

func TestReview_TerraformApplyUnguarded(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	assert.True(t, containsSubstring(report.Risks, "terraform apply"))
}

func TestReview_TerraformApplyGuardedNotFlagged(t *testing.T) {
	files := map[string]string{
		"deploy.yml": `
name: Deploy
on: push
permissions:
  contents: read
jobs:
  deploy:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - if: github.ref == 'refs/heads/main'
        run: terraform apply -auto-approve
`,
	}

	report := Review(files)

	assert.False(t, containsSubstring(report.Risks, "terraform apply"))
}

func TestReview_ConcurrencyInfo(t *testing.T) {
	report := Review(map[string]string{"ci.yml": minimalWorkflow})

	assert.True(t, containsSubstring(report.Findings, "concurrency"))
}

func TestReview_CachingWarning(t *testing.T) {
	files := map[string]string{
		"ci.yml": `
name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - uses: actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675
      - run: npm install
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Risks, "caching"))
}

func TestReview_MatrixWithoutFailFast(t *testing.T) {
	files := map[string]string{
		"ci.yml": `
name: CI
on: push
permissions:
  contents: read
jobs:
  test:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    strategy:
      matrix:
        go: ["1.22", "1.23"]
    steps:
      - uses: actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Findings, "fail-fast"))
}

func TestReview_DispatchInputWithoutDescription(t *testing.T) {
	files := map[string]string{
		"release.yml": `
name: Release
on:
  workflow_dispatch:
    inputs:
      version:
        required: true
permissions:
  contents: read
jobs:
  release:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - run: make release
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Findings, "input 'version' lacks description"))
}

func TestReview_ArtifactUploadWithoutDownload(t *testing.T) {
	files := map[string]string{
		"ci.yml": `
name: CI
on: push
permissions:
  contents: read
jobs:
  build:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    steps:
      - uses: actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675
      - uses: actions/upload-artifact@a81bbbf8298c0fa03ea29cdc473d45769f953675
        with:
          name: dist
          path: dist/
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Findings, "uploads artifacts"))
}

func TestReview_SecretsUsageHasNoRecommendation(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	secretFindings := lo.Filter(report.DetailedFindings, func(f types.Finding, _ int) bool {
		return strings.Contains(f.Message, "uses GitHub secrets")
	})
	require.Len(t, secretFindings, 1)
	assert.Equal(t, types.SeverityInfo, secretFindings[0].Severity)
	assert.Nil(t, secretFindings[0].Recommendation)
	assert.NotContains(t, report.RecommendedImprovements, "")
}

func TestReview_EnvironmentProtectionInfo(t *testing.T) {
	files := map[string]string{
		"deploy.yml": `
name: Deploy
on: push
permissions:
  contents: read
jobs:
  deploy:
    runs-on: ubuntu-latest
    timeout-minutes: 10
    environment: production
    steps:
      - run: make deploy
`,
	}

	report := Review(files)

	assert.True(t, containsSubstring(report.Findings, "environment protection"))
}

func TestReview_InsecureSeverityCounts(t *testing.T) {
	report := Review(map[string]string{"deploy.yml": insecureWorkflow})

	// permissions, OIDC, unguarded apply
	assert.Equal(t, 3, report.SeveritySummary.Critical)
	// timeout, self-hosted, caching, two tag pins
	assert.Equal(t, 5, report.SeveritySummary.Warning)
	// concurrency, secrets usage
	assert.Equal(t, 2, report.SeveritySummary.Info)
	assert.Equal(t, types.MaturityBasic, report.MaturityLevel)
}

func TestReview_EmptyBatch(t *testing.T) {
	report := Review(map[string]string{})

	assert.Empty(t, report.PipelineFiles)
	assert.Equal(t, types.MaturityProductionLeaning, report.MaturityLevel)
}

func TestReview_NonYamlFilesIgnored(t *testing.T) {
	files := map[string]string{
		"readme.md": "# Hello",
		"ci.yml":    minimalWorkflow,
	}

	report := Review(files)

	assert.Equal(t, []string{"ci.yml"}, report.PipelineFiles)
}
