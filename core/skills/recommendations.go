package skills

import (
	"sort"

	"github.com/samber/lo"
)

// maxNextSteps caps how many focus skills get a concrete next action.
const maxNextSteps = 5

// NextStep pairs a skill with a concrete exercise that levels it up.
type NextStep struct {
	Skill  string `json:"skill"`
	Action string `json:"action"`
}

// Recommendations summarizes where a profile is weak, where it is strong,
// and what to work on next.
type Recommendations struct {
	WeakSkills       []string   `json:"weak_skills"`
	StrongSkills     []string   `json:"strong_skills"`
	RecommendedFocus []string   `json:"recommended_focus"`
	PrerequisiteGaps []string   `json:"prerequisite_gaps"`
	NextSteps        []NextStep `json:"next_steps"`
}

// stepMap holds one concrete next action per tracked skill.
var stepMap = map[string]string{
	"ci_cd":         "Set up a GitHub Actions workflow with caching, matrix builds, and environment protection",
	"docker":        "Write a multi-stage Dockerfile and compose file for a real application",
	"terraform":     "Create a Terraform module with remote state, variables, and outputs",
	"aws":           "Deploy a VPC with public/private subnets, NAT, and security groups",
	"security":      "Implement IAM least-privilege policies and enable encryption at rest",
	"observability": "Set up CloudWatch alarms and structured logging for a service",
	"testing":       "Write integration tests with pytest and achieve 80%+ coverage",
}

// Recommend derives learning recommendations from a profile. Weak skills are
// those at beginner level or below plus anything never tracked; prerequisite
// gaps are pulled ahead of the skills that depend on them.
func Recommend(profile *Profile) *Recommendations {
	var weak, strong []string
	for _, skill := range weightedSkillMap {
		state, ok := profile.Skills[skill.name]
		if !ok {
			continue
		}
		idx := LevelIndex(state.Level)
		switch {
		case idx <= 1:
			weak = append(weak, skill.name)
		case idx >= 3:
			strong = append(strong, skill.name)
		}
	}

	var untracked []string
	for _, skill := range weightedSkillMap {
		if _, ok := profile.Skills[skill.name]; !ok {
			untracked = append(untracked, skill.name)
		}
	}
	sort.Strings(untracked)
	weak = append(weak, untracked...)

	var gaps []string
	for _, skill := range weak {
		for _, dep := range skillDependencies[skill] {
			if LevelIndex(profile.Skills[dep].Level) < 2 && !lo.Contains(gaps, dep) {
				gaps = append(gaps, dep)
			}
		}
	}

	focus := lo.Uniq(append(append([]string{}, gaps...), weak...))

	focusTop := focus
	if len(focusTop) > maxNextSteps {
		focusTop = focusTop[:maxNextSteps]
	}
	var steps []NextStep
	for _, skill := range focusTop {
		if action, ok := stepMap[skill]; ok {
			steps = append(steps, NextStep{Skill: skill, Action: action})
		}
	}

	return &Recommendations{
		WeakSkills:       weak,
		StrongSkills:     strong,
		RecommendedFocus: focus,
		PrerequisiteGaps: gaps,
		NextSteps:        steps,
	}
}
