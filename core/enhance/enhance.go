// Package enhance rewrites raw DevOps prompts into structured, context-rich
// ones through a deterministic six-stage pipeline: domain detection,
// dimension injection, cloud provider context, skill-level adaptation,
// mode-aware structuring, and XML assembly. No model calls are involved,
// every stage is table-driven.
package enhance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"infra-review/core/skills"
)

// maxInjections caps how many missing dimensions get injected into a prompt.
const maxInjections = 6

// Request is a prompt enhancement request.
type Request struct {
	// Prompt is the user's original prompt text.
	Prompt string

	// Mode is the review mode (mentor, review, debug, interview).
	// Empty defaults to mentor.
	Mode string

	// CloudProvider forces a provider (aws, gcp, azure) instead of
	// detecting one from the prompt.
	CloudProvider string

	// FocusAreas is a comma-separated dimension filter (e.g. "security,cost").
	FocusAreas string

	// Profile adapts tone and detail to the user's tracked skills.
	// Nil means no profile is available.
	Profile *skills.Profile
}

// Context records what the pipeline injected into the prompt.
type Context struct {
	CloudProvider   string   `json:"cloud_provider"`
	SkillLevel      string   `json:"skill_level"`
	Mode            string   `json:"mode"`
	DimensionsAdded []string `json:"dimensions_added"`
	DetectedDomains []string `json:"detected_domains"`
}

// Result is the outcome of a prompt enhancement.
type Result struct {
	OriginalPrompt      string   `json:"original_prompt"`
	EnhancedPrompt      string   `json:"enhanced_prompt"`
	EnhancementsApplied []string `json:"enhancements_applied"`
	ContextInjected     Context  `json:"context_injected"`
	Reasoning           string   `json:"reasoning"`
}

// Enhance runs the six-stage pipeline over a raw prompt.
func Enhance(req Request) *Result {
	mode := req.Mode
	if mode == "" {
		mode = "mentor"
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return &Result{
			OriginalPrompt:      req.Prompt,
			EnhancedPrompt:      req.Prompt,
			EnhancementsApplied: []string{},
			ContextInjected: Context{
				Mode:            mode,
				DimensionsAdded: []string{},
				DetectedDomains: []string{},
			},
			Reasoning: "Empty prompt provided. No enhancements applied.",
		}
	}

	promptLower := strings.ToLower(req.Prompt)

	domains := detectDomains(promptLower)

	focus := lo.FilterMap(strings.Split(req.FocusAreas, ","), func(f string, _ int) (string, bool) {
		f = strings.TrimSpace(f)
		return f, f != ""
	})
	injections, dimensionsAdded := missingDimensions(promptLower, domains, focus)
	if dimensionsAdded == nil {
		dimensionsAdded = []string{}
	}

	provider := resolveCloudProvider(promptLower, req.CloudProvider)
	cloudContext, ok := cloudProviderContext[provider]
	if !ok {
		cloudContext = cloudProviderContext["aws"]
	}

	adapt := adaptationFor(req.Profile, domains)

	template, ok := modeTemplates[mode]
	if !ok {
		template = modeTemplates["mentor"]
	}

	enhanced := assemble(req.Prompt, cloudContext, adapt, template, injections, domains)

	var applied []string
	if len(dimensionsAdded) > 0 {
		applied = append(applied, "dimension_injection")
	}
	applied = append(applied, "cloud_context", "skill_adaptation", "mode_structuring", "xml_structuring", "chain_of_thought")

	return &Result{
		OriginalPrompt:      req.Prompt,
		EnhancedPrompt:      enhanced,
		EnhancementsApplied: applied,
		ContextInjected: Context{
			CloudProvider:   provider,
			SkillLevel:      adapt.effectiveLevel,
			Mode:            mode,
			DimensionsAdded: dimensionsAdded,
			DetectedDomains: domains,
		},
		Reasoning: buildReasoning(domains, dimensionsAdded, adapt, mode),
	}
}

// detectDomains scores each domain by keyword hits and returns the matched
// domains sorted by score, ties broken by table order. Prompts matching
// nothing fall back to the generic "devops" domain.
func detectDomains(promptLower string) []string {
	type score struct {
		domain string
		count  int
	}
	var scores []score
	for _, entry := range domainKeywords {
		count := lo.CountBy(entry.keywords, func(kw string) bool {
			return strings.Contains(promptLower, kw)
		})
		if count > 0 {
			scores = append(scores, score{entry.name, count})
		}
	}

	if len(scores) == 0 {
		return []string{"devops"}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].count > scores[j].count
	})
	return lo.Map(scores, func(s score, _ int) string { return s.domain })
}

// resolveCloudProvider picks the provider from the explicit value or from
// mentions in the prompt, defaulting to aws.
func resolveCloudProvider(promptLower, explicit string) string {
	if explicit != "" {
		return strings.ToLower(explicit)
	}
	if strings.Contains(promptLower, "gcp") || strings.Contains(promptLower, "google cloud") {
		return "gcp"
	}
	if strings.Contains(promptLower, "azure") {
		return "azure"
	}
	return "aws"
}

// missingDimensions walks the detected domains in order and collects
// injections for dimensions the prompt does not already cover. A dimension
// name is injected at most once across domains, the focus filter restricts
// which names qualify, and the total is capped at maxInjections.
func missingDimensions(promptLower string, domains, focus []string) (injections, added []string) {
	seen := map[string]bool{}

	for _, domain := range domains {
		for _, dim := range dimensionInjections[domain] {
			if seen[dim.name] {
				continue
			}
			if len(focus) > 0 && !lo.Contains(focus, dim.name) {
				continue
			}

			covered := lo.SomeBy(dim.checkKeywords, func(kw string) bool {
				return strings.Contains(promptLower, kw)
			})
			if covered {
				continue
			}

			injections = append(injections, dim.injection)
			added = append(added, domain+":"+dim.name)
			seen[dim.name] = true

			if len(injections) >= maxInjections {
				return injections, added
			}
		}
	}
	return injections, added
}

// assemble builds the final XML-structured prompt.
func assemble(raw, cloudContext string, adapt adaptation, template modeTemplate, injections, domains []string) string {
	var sections []string

	sections = append(sections,
		"<context>",
		cloudContext,
		fmt.Sprintf("Domains: %s", strings.Join(domains, ", ")),
		fmt.Sprintf("User experience level: %s", adapt.effectiveLevel),
		fmt.Sprintf("Response detail: %s", adapt.detailLevel),
		"</context>",
	)

	sections = append(sections,
		"",
		"<instructions>",
		template.preamble,
		"",
		adapt.tone,
		"</instructions>",
	)

	sections = append(sections,
		"",
		"<task>",
		raw,
		"</task>",
	)

	if len(injections) > 0 {
		sections = append(sections, "", "<additional_considerations>")
		for _, injection := range injections {
			sections = append(sections, "- "+injection)
		}
		sections = append(sections, "</additional_considerations>")
	}

	sections = append(sections,
		"",
		"<thinking>",
		template.chainOfThought,
		"</thinking>",
	)

	sections = append(sections,
		"",
		"<output_format>",
		template.structureHint,
		"",
		adapt.outputHint,
		"</output_format>",
	)

	return strings.Join(sections, "\n")
}

// buildReasoning explains the enhancement decisions in one line per stage.
func buildReasoning(domains, dimensionsAdded []string, adapt adaptation, mode string) string {
	parts := []string{fmt.Sprintf("Detected domains: %s.", strings.Join(domains, ", "))}

	if len(dimensionsAdded) > 0 {
		parts = append(parts, fmt.Sprintf("Added %d missing consideration(s): %s.",
			len(dimensionsAdded), strings.Join(dimensionsAdded, ", ")))
	} else {
		parts = append(parts, "The prompt already covers the key dimensions for the detected domains.")
	}

	parts = append(parts, fmt.Sprintf("Adapted for %s-level user (%s detail).",
		adapt.effectiveLevel, adapt.detailLevel))
	parts = append(parts, fmt.Sprintf("Structured for %s mode.", mode))

	return strings.Join(parts, " ")
}
