package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

func TestLocal_ListPaths(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.tf":                   `resource "aws_instance" "web" {}`,
		"Dockerfile":                "FROM alpine",
		".github/workflows/ci.yml":  "name: CI",
		"terraform/variables.tf":    `variable "region" {}`,
		".git/config":               "[core]",
		".terraform/modules/m/x.tf": "ignored",
	})

	paths, err := NewLocal(dir, 0).ListPaths(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		".github/workflows/ci.yml",
		"Dockerfile",
		"main.tf",
		"terraform/variables.tf",
	}, paths)
}

func TestLocal_TerraformFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.tf":                `resource "aws_instance" "web" {}`,
		"terraform.tfvars":       `db_password = "secret"`,
		"envs/prod/variables.tf": `variable "region" {}`,
		"README.md":              "# docs",
	})

	files, err := NewLocal(dir, 0).TerraformFiles(context.Background())
	require.NoError(t, err)

	assert.Len(t, files, 3)
	assert.Contains(t, files, "main.tf")
	assert.Contains(t, files, "terraform.tfvars")
	assert.Contains(t, files, "envs/prod/variables.tf")
	assert.Equal(t, `resource "aws_instance" "web" {}`, files["main.tf"])
}

func TestLocal_WorkflowFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		".github/workflows/ci.yml":      "name: CI",
		".github/workflows/deploy.yaml": "name: Deploy",
		".github/workflows/README.md":   "not a workflow",
		"other.yml":                     "not a workflow either",
	})

	workflows, err := NewLocal(dir, 0).WorkflowFiles(context.Background())
	require.NoError(t, err)

	assert.Len(t, workflows, 2)
	assert.Equal(t, "name: CI", workflows["ci.yml"])
	assert.Equal(t, "name: Deploy", workflows["deploy.yaml"])
}

func TestLocal_WorkflowFilesMissingDir(t *testing.T) {
	dir := writeTree(t, map[string]string{"main.tf": "{}"})

	workflows, err := NewLocal(dir, 0).WorkflowFiles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestLocal_MaxFileSizeSkipsLargeFiles(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"small.tf": `variable "x" {}`,
		"large.tf": strings.Repeat("# padding\n", 300),
	})

	files, err := NewLocal(dir, 1).TerraformFiles(context.Background())
	require.NoError(t, err)

	assert.Contains(t, files, "small.tf")
	assert.NotContains(t, files, "large.tf")
}

func TestLocal_MissingDirFails(t *testing.T) {
	_, err := NewLocal(filepath.Join(t.TempDir(), "absent"), 0).ListPaths(context.Background())
	assert.Error(t, err)
}
