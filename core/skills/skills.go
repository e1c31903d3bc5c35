// Package skills tracks infrastructure skill evidence extracted from review
// feedback and derives learning recommendations from it.
package skills

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

// SkillLevels orders level names from weakest to strongest. Index positions
// drive level comparisons and the user-level average.
var SkillLevels = []string{"unknown", "beginner", "developing", "solid", "advanced"}

// skillDependencies names the prerequisite skills consulted when building
// recommendations.
var skillDependencies = map[string][]string{
	"security":      {"aws"},
	"terraform":     {"aws"},
	"observability": {"docker"},
}

type keywordWeight struct {
	keyword string
	weight  float64
}

// weightedSkillMap maps each tracked skill to the feedback keywords that
// count as evidence for it. Slice order is the canonical skill order.
var weightedSkillMap = []struct {
	name     string
	keywords []keywordWeight
}{
	{"ci_cd", []keywordWeight{
		{"github actions", 2.0},
		{"workflow", 1.5},
		{"pipeline", 1.5},
		{"ci", 1.0},
		{"deploy", 1.0},
		{"artifact", 1.5},
		{"matrix strategy", 2.0},
		{"concurrency", 1.5},
	}},
	{"docker", []keywordWeight{
		{"dockerfile", 2.0},
		{"docker-compose", 2.0},
		{"container", 1.0},
		{"multi-stage", 2.0},
		{"docker", 1.0},
	}},
	{"terraform", []keywordWeight{
		{"terraform", 2.0},
		{"hcl", 2.0},
		{"tfstate", 2.0},
		{"tfvars", 1.5},
		{"provider", 1.5},
		{"module", 1.5},
		{"remote backend", 2.0},
		{"state locking", 2.0},
	}},
	{"aws", []keywordWeight{
		{"iam", 2.0},
		{"s3", 1.5},
		{"ec2", 1.5},
		{"lambda", 1.5},
		{"ecs", 1.5},
		{"eks", 2.0},
		{"rds", 1.5},
		{"cloudfront", 1.5},
		{"vpc", 1.5},
		{"security group", 2.0},
		{"auto-scaling", 2.0},
		{"aws", 1.0},
	}},
	{"security", []keywordWeight{
		{"secrets", 2.0},
		{"iam", 1.5},
		{"oidc", 2.0},
		{"rbac", 2.0},
		{"least-privilege", 2.0},
		{"permissions", 1.0},
		{"encryption", 2.0},
		{"hardcoded credential", 2.0},
	}},
	{"observability", []keywordWeight{
		{"prometheus", 2.0},
		{"grafana", 2.0},
		{"datadog", 2.0},
		{"cloudwatch", 2.0},
		{"logging", 1.0},
		{"monitoring", 1.0},
		{"alerting", 1.5},
		{"tracing", 2.0},
	}},
	{"testing", []keywordWeight{
		{"pytest", 2.0},
		{"jest", 2.0},
		{"unittest", 1.5},
		{"coverage", 1.5},
		{"integration test", 2.0},
		{"e2e", 2.0},
		{"test", 1.0},
	}},
}

// levelThresholds maps weighted scores to level names. The highest threshold
// a score satisfies wins.
var levelThresholds = []struct {
	name string
	min  float64
}{
	{"beginner", 2.0},
	{"developing", 6.0},
	{"solid", 15.0},
	{"advanced", 30.0},
}

// maxHistory caps the per-skill feedback history; the oldest entry drops.
const maxHistory = 5

// SkillState is the accumulated evidence for a single skill.
type SkillState struct {
	Level         string   `json:"level"`
	EvidenceCount int      `json:"evidence_count"`
	LastFeedback  string   `json:"last_feedback"`
	WeightedScore float64  `json:"weighted_score"`
	History       []string `json:"history"`
}

// Profile is a user's skill profile across all tracked skills.
type Profile struct {
	UserLevel string                `json:"user_level"`
	Skills    map[string]SkillState `json:"skills"`
}

// NewProfile returns an empty profile for a new user.
func NewProfile() *Profile {
	return &Profile{
		UserLevel: "junior",
		Skills:    map[string]SkillState{},
	}
}

// Store persists skill profiles.
type Store interface {
	// Load returns the stored profile, or a fresh one when none exists.
	Load(ctx context.Context) (*Profile, error)

	// Save stores the profile.
	Save(ctx context.Context, profile *Profile) error
}

// Apply scores feedback text against the weighted keyword map and folds the
// evidence into the profile. The maturity of the reviewed repository scales
// the evidence: the same words coming from a production-leaning repo count
// for more than from an early prototype. Returns the profile it mutated.
func Apply(profile *Profile, feedback, maturity string) *Profile {
	if profile.Skills == nil {
		profile.Skills = map[string]SkillState{}
	}
	lower := strings.ToLower(feedback)

	multiplier := 0.75
	switch maturity {
	case "early":
		multiplier = 0.5
	case "basic":
		multiplier = 0.75
	case "developing":
		multiplier = 1.0
	case "production-leaning":
		multiplier = 1.5
	}

	for _, skill := range weightedSkillMap {
		matched := 0.0
		for _, kw := range skill.keywords {
			if strings.Contains(lower, kw.keyword) {
				matched += kw.weight
			}
		}
		if matched == 0 {
			continue
		}

		state := profile.Skills[skill.name]
		state.EvidenceCount++
		state.WeightedScore += matched * multiplier
		state.LastFeedback = truncate(feedback, 200)
		state.History = append(state.History, truncate(feedback, 100))
		if len(state.History) > maxHistory {
			state.History = state.History[len(state.History)-maxHistory:]
		}
		state.Level = levelFor(state.WeightedScore)
		profile.Skills[skill.name] = state
	}

	var indices []int
	for _, state := range profile.Skills {
		if idx := LevelIndex(state.Level); idx > 0 {
			indices = append(indices, idx)
		}
	}
	if len(indices) > 0 {
		avg := int(float64(lo.Sum(indices)) / float64(len(indices)))
		profile.UserLevel = SkillLevels[min(avg, len(SkillLevels)-1)]
	}

	return profile
}

// levelFor returns the level name for a weighted score.
func levelFor(score float64) string {
	level := "unknown"
	for _, t := range levelThresholds {
		if score >= t.min {
			level = t.name
		}
	}
	return level
}

// LevelIndex returns the position of a level name in SkillLevels.
// Unrecognized names rank as unknown.
func LevelIndex(level string) int {
	idx := lo.IndexOf(SkillLevels, level)
	if idx < 0 {
		return 0
	}
	return idx
}

// truncate limits s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
