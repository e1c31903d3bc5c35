// Package types - Report envelopes returned by the analyzers.
package types

// ModuleReport is the result of a Terraform module analysis batch.
type ModuleReport struct {
	// AnalysisType is the constant "terraform-module-analysis"
	AnalysisType string `json:"analysis_type"`

	// FilesAnalyzed lists every input path, config or not
	FilesAnalyzed []string `json:"files_analyzed"`

	// MaturityLevel is derived from critical/warning counts
	MaturityLevel string `json:"maturity_level"`

	// ModuleFindings are the cross-reference findings
	ModuleFindings []Finding `json:"module_findings"`

	// SecurityFindings are the sensitive-data and source-trust findings
	SecurityFindings []Finding `json:"security_findings"`

	// CostSummary aggregates per-resource cost estimates
	CostSummary CostSummary `json:"cost_summary"`

	// Findings are the info-level messages only
	Findings []string `json:"findings"`

	// Risks are critical then warning messages
	Risks []string `json:"risks"`

	// RecommendedImprovements are deduplicated recommendations
	RecommendedImprovements []string `json:"recommended_improvements"`

	// DetailedFindings is every finding including cost and parse findings
	DetailedFindings []Finding `json:"detailed_findings"`

	// SeveritySummary counts DetailedFindings by severity
	SeveritySummary SeveritySummary `json:"severity_summary"`
}

// TerraformReport is the result of the single-file rule review.
type TerraformReport struct {
	// IaCType is the constant "terraform"
	IaCType string `json:"iac_type"`

	// FilesReviewed lists the .tf inputs
	FilesReviewed []string `json:"files_reviewed"`

	MaturityLevel           string          `json:"maturity_level"`
	Findings                []string        `json:"findings"`
	Risks                   []string        `json:"risks"`
	RecommendedImprovements []string        `json:"recommended_improvements"`
	DetailedFindings        []Finding       `json:"detailed_findings"`
	SeveritySummary         SeveritySummary `json:"severity_summary"`

	// DetectedResources lists resource types for the AWS advisor
	DetectedResources []string `json:"detected_resources"`
}

// WorkflowReport is the result of a GitHub Actions workflow review.
type WorkflowReport struct {
	// CICDType is the constant "github-actions"
	CICDType string `json:"ci_cd_type"`

	// PipelineFiles lists the .yml/.yaml inputs
	PipelineFiles []string `json:"pipeline_files"`

	MaturityLevel           string          `json:"maturity_level"`
	Findings                []string        `json:"findings"`
	Risks                   []string        `json:"risks"`
	RecommendedImprovements []string        `json:"recommended_improvements"`
	DetailedFindings        []Finding       `json:"detailed_findings"`
	SeveritySummary         SeveritySummary `json:"severity_summary"`
}

// AdvisorReport is the result of the AWS cost/security advisor.
type AdvisorReport struct {
	// AWSServicesDetected lists active services in detection order
	AWSServicesDetected []string `json:"aws_services_detected"`

	MaturityLevel string `json:"maturity_level"`

	// CostFindings carry category "cost"
	CostFindings []Finding `json:"cost_findings"`

	// SecurityFindings carry category "security"
	SecurityFindings []Finding `json:"security_findings"`

	Risks                   []string        `json:"risks"`
	RecommendedImprovements []string        `json:"recommended_improvements"`
	SeveritySummary         SeveritySummary `json:"severity_summary"`
}

// RepoSummary is the path-shape overview of a repository.
type RepoSummary struct {
	// Stack lists detected languages (sorted)
	Stack []string `json:"stack"`

	// CICD is "present" or "absent"
	CICD string `json:"ci_cd"`

	// IaC is "terraform" or "none"
	IaC string `json:"iac"`

	// Containerization reports a Dockerfile at the repo root
	Containerization bool `json:"containerization"`

	MaturityLevel string `json:"maturity_level"`

	// KeyFindings are human-readable observations
	KeyFindings []string `json:"key_findings"`
}
