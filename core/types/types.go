// Package types defines the shared data model for reviews: findings,
// severities, maturity levels, and the report envelopes produced by the
// analyzers. NO analysis logic belongs here.
package types

import (
	"github.com/samber/lo"
)

// Severity classifies how serious a finding is
type Severity string

const (
	// SeverityCritical must be fixed before production use
	SeverityCritical Severity = "critical"

	// SeverityWarning should be fixed
	SeverityWarning Severity = "warning"

	// SeverityInfo is advisory
	SeverityInfo Severity = "info"
)

// Maturity levels derived from critical/warning counts
const (
	MaturityBasic             = "basic"
	MaturityDeveloping        = "developing"
	MaturityProductionLeaning = "production-leaning"

	// MaturityEarly is used only by the repository overview heuristic
	MaturityEarly = "early"
)

// Finding is one reported issue. Recommendation is nil when the finding is
// purely informational and carries no action.
type Finding struct {
	// Severity is the finding severity
	Severity Severity `json:"severity"`

	// Message describes the issue, usually prefixed with the filename
	Message string `json:"message"`

	// Recommendation is the suggested fix, if any
	Recommendation *string `json:"recommendation"`

	// Category groups advisor findings (cost, security); empty elsewhere
	Category string `json:"category,omitempty"`
}

// SeveritySummary counts findings by severity
type SeveritySummary struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// Summarize counts findings by severity
func Summarize(findings []Finding) SeveritySummary {
	var s SeveritySummary
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warning++
		case SeverityInfo:
			s.Info++
		}
	}
	return s
}

// BySeverity returns the findings of one severity, preserving order
func BySeverity(findings []Finding, severity Severity) []Finding {
	return lo.Filter(findings, func(f Finding, _ int) bool {
		return f.Severity == severity
	})
}

// Messages extracts finding messages, preserving order
func Messages(findings []Finding) []string {
	return lo.Map(findings, func(f Finding, _ int) string {
		return f.Message
	})
}

// Risks lists critical messages followed by warning messages, each group in
// emission order. Info findings are excluded.
func Risks(findings []Finding) []string {
	risks := Messages(BySeverity(findings, SeverityCritical))
	return append(risks, Messages(BySeverity(findings, SeverityWarning))...)
}

// Improvements deduplicates recommendations in first-seen order, skipping
// findings with no recommendation.
func Improvements(findings []Finding) []string {
	recs := lo.FilterMap(findings, func(f Finding, _ int) (string, bool) {
		if f.Recommendation == nil || *f.Recommendation == "" {
			return "", false
		}
		return *f.Recommendation, true
	})
	return lo.Uniq(recs)
}

// MaturityFor derives a maturity level from a severity summary. maxWarnings
// is the developing-tier ceiling; it differs per analyzer.
func MaturityFor(summary SeveritySummary, maxWarnings int) string {
	switch {
	case summary.Critical == 0 && summary.Warning == 0:
		return MaturityProductionLeaning
	case summary.Critical == 0 && summary.Warning <= maxWarnings:
		return MaturityDeveloping
	default:
		return MaturityBasic
	}
}
