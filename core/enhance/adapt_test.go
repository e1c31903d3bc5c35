package enhance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"infra-review/core/skills"
)

func TestAdaptationFor_NilProfile(t *testing.T) {
	result := adaptationFor(nil, []string{"ci_cd"})
	assert.Equal(t, "unknown", result.effectiveLevel)
	assert.Equal(t, "detailed", result.detailLevel)
}

func TestAdaptationFor_FreshProfile(t *testing.T) {
	result := adaptationFor(skills.NewProfile(), []string{"ci_cd"})
	assert.Equal(t, "beginner", result.effectiveLevel)
	assert.Equal(t, "detailed", result.detailLevel)
}

func TestAdaptationFor_BeginnerGetsDetailed(t *testing.T) {
	profile := skills.NewProfile()
	profile.Skills["ci_cd"] = skills.SkillState{Level: "beginner", WeightedScore: 3.0}

	result := adaptationFor(profile, []string{"ci_cd"})
	assert.Equal(t, "beginner", result.effectiveLevel)
	assert.Equal(t, "detailed", result.detailLevel)
}

func TestAdaptationFor_DevelopingGetsModerate(t *testing.T) {
	profile := skills.NewProfile()
	profile.UserLevel = "mid"
	profile.Skills["terraform"] = skills.SkillState{Level: "developing", WeightedScore: 8.0}

	result := adaptationFor(profile, []string{"terraform"})
	assert.Equal(t, "developing", result.effectiveLevel)
	assert.Equal(t, "moderate", result.detailLevel)
}

func TestAdaptationFor_AdvancedGetsConcise(t *testing.T) {
	profile := skills.NewProfile()
	profile.UserLevel = "senior"
	profile.Skills["aws"] = skills.SkillState{Level: "advanced", WeightedScore: 35.0}

	result := adaptationFor(profile, []string{"aws"})
	assert.Equal(t, "advanced", result.effectiveLevel)
	assert.Equal(t, "concise", result.detailLevel)
}

func TestAdaptationFor_WeakestRelevantSkillWins(t *testing.T) {
	profile := skills.NewProfile()
	profile.UserLevel = "mid"
	profile.Skills["docker"] = skills.SkillState{Level: "advanced", WeightedScore: 35.0}
	profile.Skills["aws"] = skills.SkillState{Level: "beginner", WeightedScore: 3.0}

	result := adaptationFor(profile, []string{"docker", "aws"})
	assert.Equal(t, "beginner", result.effectiveLevel)
	assert.Equal(t, "detailed", result.detailLevel)
}

func TestAdaptationFor_UnrelatedSkillsIgnored(t *testing.T) {
	profile := skills.NewProfile()
	profile.Skills["terraform"] = skills.SkillState{Level: "advanced", WeightedScore: 35.0}

	result := adaptationFor(profile, []string{"ci_cd"})
	assert.Equal(t, "beginner", result.effectiveLevel)
}

func TestAdaptationFor_FallbackToUserLevel(t *testing.T) {
	profile := skills.NewProfile()
	profile.UserLevel = "mid"

	result := adaptationFor(profile, []string{"networking"})
	assert.Equal(t, "developing", result.effectiveLevel)
}

func TestAdaptationFor_NetworkingMapsToAWSSkill(t *testing.T) {
	profile := skills.NewProfile()
	profile.Skills["aws"] = skills.SkillState{Level: "solid", WeightedScore: 20.0}

	result := adaptationFor(profile, []string{"networking"})
	assert.Equal(t, "solid", result.effectiveLevel)
}

func TestLevelAdaptation_AllLevelsComplete(t *testing.T) {
	for name, params := range levelAdaptation {
		assert.NotEmpty(t, params.detailLevel, "level %s", name)
		assert.NotEmpty(t, params.tone, "level %s", name)
		assert.NotEmpty(t, params.outputHint, "level %s", name)
	}
}

func TestDomainToSkill_CoversAllDomains(t *testing.T) {
	for _, entry := range domainKeywords {
		assert.Contains(t, domainToSkill, entry.name)
	}
}
