package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-review/api/envelope"
	"infra-review/internal/config"
)

type responseEnvelope struct {
	RequestID string                `json:"request_id"`
	Status    string                `json:"status"`
	Data      json.RawMessage       `json:"data"`
	Error     *envelope.ErrorDetail `json:"error"`
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("test", config.Default())
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func dataMap(t *testing.T, env responseEnvelope) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

func TestAnalyzeModule_ReturnsReport(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze/module", AnalyzeRequest{
		Files: map[string]string{
			"main.tf": `
resource "aws_s3_bucket" "data" {
  bucket = var.bucket_name
}
`,
			"variables.tf": `
variable "bucket_name" {
  type        = string
  description = "Bucket name"
}
`,
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, envelope.StatusOK, env.Status)
	assert.NotEmpty(t, env.RequestID)
	assert.Nil(t, env.Error)

	data := dataMap(t, env)
	assert.Equal(t, "terraform-module-analysis", data["analysis_type"])
	assert.NotEmpty(t, data["maturity_level"])
	assert.ElementsMatch(t, []any{"main.tf", "variables.tf"}, data["files_analyzed"])
}

func TestAnalyzeModule_EmptyFiles(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/analyze/module", AnalyzeRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, envelope.StatusError, env.Status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestAnalyzeModule_InvalidJSON(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/module", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_JSON", env.Error.Code)
}

func TestReviewTerraform_ReturnsReport(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/review/terraform", ReviewRequest{
		Filename: "main.tf",
		Content: `
resource "aws_db_instance" "db" {
  password = "hunter2hunter2"
}
`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, envelope.StatusOK, env.Status)

	data := dataMap(t, env)
	assert.Equal(t, "terraform", data["iac_type"])
	assert.Equal(t, []any{"main.tf"}, data["files_reviewed"])
	assert.NotEmpty(t, data["risks"])
}

func TestReviewTerraform_MissingFilename(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/review/terraform", ReviewRequest{Content: "resource {}"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestReviewWorkflow_ReturnsReport(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/v1/review/workflow", ReviewRequest{
		Filename: "ci.yml",
		Content: `
name: CI
on: [push]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
      - run: make test
`,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, envelope.StatusOK, env.Status)

	data := dataMap(t, env)
	assert.Equal(t, "github-actions", data["ci_cd_type"])
	assert.Equal(t, []any{"ci.yml"}, data["pipeline_files"])
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestVersion(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "v1", body["api_version"])
	assert.Equal(t, "test", body["version"])
}

func TestAnalyzeModule_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/analyze/module", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestIDHeaderPropagated(t *testing.T) {
	s := newTestServer(t)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(AnalyzeRequest{
		Files: map[string]string{"main.tf": `resource "aws_instance" "web" {}`},
	}))
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze/module", &buf)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "req-123", env.RequestID)
}

func TestUnknownRouteNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
