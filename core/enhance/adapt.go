package enhance

import (
	"github.com/samber/lo"

	"infra-review/core/skills"
)

// adaptation controls tone, detail level, and output hints for a skill level.
type adaptation struct {
	effectiveLevel string
	detailLevel    string
	tone           string
	outputHint     string
}

// levelAdaptation maps skill levels to adaptation parameters.
var levelAdaptation = map[string]adaptation{
	"unknown": {
		detailLevel: "detailed",
		tone: "Explain concepts thoroughly. Define technical terms. " +
			"Provide step-by-step guidance.",
		outputHint: "Include example commands or configuration snippets where helpful.",
	},
	"beginner": {
		detailLevel: "detailed",
		tone: "Explain the reasoning behind each recommendation. " +
			"Avoid assuming prior knowledge of advanced patterns.",
		outputHint: "Include example commands or configuration snippets where helpful.",
	},
	"developing": {
		detailLevel: "moderate",
		tone: "Focus on best practices and production considerations. " +
			"Brief explanations are acceptable.",
		outputHint: "Use structured output with clear sections.",
	},
	"solid": {
		detailLevel: "concise",
		tone:        "Be direct and focus on advanced patterns, edge cases, and trade-offs.",
		outputHint:  "Highlight non-obvious considerations and advanced optimizations.",
	},
	"advanced": {
		detailLevel: "concise",
		tone: "Focus on architecture-level decisions, trade-offs, and cutting-edge practices. " +
			"Skip basics.",
		outputHint: "Prioritize trade-off analysis and production battle scars.",
	},
}

// domainToSkill maps enhancement domains to tracked skill keys.
var domainToSkill = map[string]string{
	"ci_cd":         "ci_cd",
	"docker":        "docker",
	"terraform":     "terraform",
	"aws":           "aws",
	"security":      "security",
	"observability": "observability",
	"networking":    "aws",
	"cost":          "aws",
}

// userLevelMap maps overall user levels to skill level names.
var userLevelMap = map[string]string{
	"junior": "beginner",
	"mid":    "developing",
	"senior": "solid",
}

// adaptationFor picks adaptation parameters from the profile's skill levels
// for the detected domains. The weakest relevant skill wins so the output
// never assumes more than the user has shown. Falls back to the overall user
// level when none of the domains map to a tracked skill, and to "unknown"
// when no profile is available at all.
func adaptationFor(profile *skills.Profile, domains []string) adaptation {
	if profile == nil {
		return levelAdaptation["unknown"].withLevel("unknown")
	}

	var indices []int
	for _, domain := range domains {
		skillKey, ok := domainToSkill[domain]
		if !ok {
			continue
		}
		state, ok := profile.Skills[skillKey]
		if !ok {
			continue
		}
		indices = append(indices, skills.LevelIndex(state.Level))
	}

	var effective string
	if len(indices) == 0 {
		effective, _ = lo.Coalesce(userLevelMap[profile.UserLevel], "unknown")
	} else {
		effective = skills.SkillLevels[lo.Min(indices)]
	}

	params, ok := levelAdaptation[effective]
	if !ok {
		params = levelAdaptation["unknown"]
	}
	return params.withLevel(effective)
}

func (a adaptation) withLevel(level string) adaptation {
	a.effectiveLevel = level
	return a
}
