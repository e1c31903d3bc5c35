// Package api - request bodies accepted by the v1 endpoints.
package api

// AnalyzeRequest is the body of POST /v1/analyze/module.
type AnalyzeRequest struct {
	// Files maps file path to raw content. Non-Terraform entries are
	// listed in the report but not parsed.
	Files map[string]string `json:"files"`
}

// ReviewRequest is the body of POST /v1/review/terraform and
// POST /v1/review/workflow.
type ReviewRequest struct {
	// Filename names the submitted file; checks scope by extension
	Filename string `json:"filename"`

	// Content is the raw file content
	Content string `json:"content"`
}
