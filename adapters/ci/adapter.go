// Package ci renders review reports for CI surfaces: a markdown
// comment body suitable for pull requests or step summaries, and a
// check conclusion derived from the severity summary.
package ci

import (
	"fmt"
	"io"
	"os"
	"strings"

	"infra-review/core/types"
)

// Check conclusions, matching the values the GitHub checks API accepts.
const (
	ConclusionSuccess = "success"
	ConclusionNeutral = "neutral"
	ConclusionFailure = "failure"
)

// Config controls comment rendering.
type Config struct {
	// Header leads the comment so repeated runs can find and replace it
	Header string `json:"header"`

	// MaxItems caps the risks and improvements sections; 0 means no cap
	MaxItems int `json:"max_items"`
}

// DefaultConfig returns comment defaults.
func DefaultConfig() *Config {
	return &Config{
		Header:   "🔍 Infrastructure Review",
		MaxItems: 5,
	}
}

// ReportView is the slice of a report the renderer needs. Every report
// type maps onto it; fields a report does not carry stay zero.
type ReportView struct {
	Title        string
	Files        []string
	Maturity     string
	Severity     types.SeveritySummary
	Risks        []string
	Improvements []string

	// MonthlyCost is the "$low-$high" estimate, empty when the report
	// has no cost section
	MonthlyCost string
}

// Renderer writes CI-facing output for a report.
type Renderer struct {
	config *Config
	output io.Writer
}

// NewRenderer creates a renderer writing to stdout.
func NewRenderer(config *Config) *Renderer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Renderer{
		config: config,
		output: os.Stdout,
	}
}

// SetOutput redirects rendering.
func (r *Renderer) SetOutput(w io.Writer) {
	r.output = w
}

// Conclusion maps a severity summary onto a check conclusion. Critical
// findings fail the check; warnings alone leave it neutral.
func Conclusion(s types.SeveritySummary) string {
	switch {
	case s.Critical > 0:
		return ConclusionFailure
	case s.Warning > 0:
		return ConclusionNeutral
	default:
		return ConclusionSuccess
	}
}

// Markdown writes the comment body for a report.
func (r *Renderer) Markdown(view ReportView) error {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s: %s\n\n", r.config.Header, view.Title))
	sb.WriteString(fmt.Sprintf("**Files:** %d | **Maturity:** %s\n", len(view.Files), view.Maturity))
	sb.WriteString(fmt.Sprintf("**Findings:** %d critical | %d warning | %d info\n",
		view.Severity.Critical,
		view.Severity.Warning,
		view.Severity.Info,
	))
	if view.MonthlyCost != "" {
		sb.WriteString(fmt.Sprintf("**Estimated monthly cost:** %s\n", view.MonthlyCost))
	}
	sb.WriteString("\n")

	r.writeSection(&sb, "Risks", "❌", view.Risks)
	r.writeSection(&sb, "Recommended improvements", "", view.Improvements)

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("Check conclusion: `%s`\n", Conclusion(view.Severity)))

	_, err := r.output.Write([]byte(sb.String()))
	return err
}

func (r *Renderer) writeSection(sb *strings.Builder, title, icon string, items []string) {
	if len(items) == 0 {
		return
	}

	sb.WriteString(fmt.Sprintf("### %s\n", title))

	shown := items
	hidden := 0
	if r.config.MaxItems > 0 && len(items) > r.config.MaxItems {
		shown = items[:r.config.MaxItems]
		hidden = len(items) - r.config.MaxItems
	}

	for _, item := range shown {
		if icon != "" {
			sb.WriteString(fmt.Sprintf("- %s %s\n", icon, item))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}
	if hidden > 0 {
		sb.WriteString(fmt.Sprintf("- _%d more not shown_\n", hidden))
	}
	sb.WriteString("\n")
}
