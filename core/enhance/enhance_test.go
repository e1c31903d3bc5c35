package enhance

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dimensionNames(added []string) []string {
	return lo.Map(added, func(d string, _ int) string {
		_, name, _ := strings.Cut(d, ":")
		return name
	})
}

func TestDetectDomains_CICD(t *testing.T) {
	assert.Contains(t, detectDomains("set up a ci/cd pipeline"), "ci_cd")
}

func TestDetectDomains_Terraform(t *testing.T) {
	assert.Contains(t, detectDomains("create a terraform module"), "terraform")
}

func TestDetectDomains_Docker(t *testing.T) {
	assert.Contains(t, detectDomains("write a dockerfile for my app"), "docker")
}

func TestDetectDomains_Multiple(t *testing.T) {
	domains := detectDomains("deploy docker container to ecs with iam roles")
	assert.Contains(t, domains, "docker")
	assert.Contains(t, domains, "aws")
}

func TestDetectDomains_FallbackToDevops(t *testing.T) {
	assert.Equal(t, []string{"devops"}, detectDomains("help me improve my skills"))
}

func TestDetectDomains_OrderedByRelevance(t *testing.T) {
	domains := detectDomains("deploy docker to aws ec2 s3 lambda ecs")
	assert.Equal(t, "aws", domains[0])
}

func TestResolveCloudProvider_DefaultAWS(t *testing.T) {
	assert.Equal(t, "aws", resolveCloudProvider("set up a pipeline", ""))
}

func TestResolveCloudProvider_Explicit(t *testing.T) {
	assert.Equal(t, "gcp", resolveCloudProvider("set up a pipeline", "gcp"))
	assert.Equal(t, "azure", resolveCloudProvider("set up a pipeline", "azure"))
}

func TestResolveCloudProvider_ExplicitLowercased(t *testing.T) {
	assert.Equal(t, "azure", resolveCloudProvider("set up a pipeline", "Azure"))
}

func TestResolveCloudProvider_DetectedFromPrompt(t *testing.T) {
	assert.Equal(t, "gcp", resolveCloudProvider("deploy to google cloud", ""))
	assert.Equal(t, "gcp", resolveCloudProvider("deploy to gcp", ""))
	assert.Equal(t, "azure", resolveCloudProvider("deploy to azure", ""))
}

func TestResolveCloudProvider_ExplicitOverridesDetection(t *testing.T) {
	assert.Equal(t, "gcp", resolveCloudProvider("deploy to aws", "gcp"))
}

func TestMissingDimensions_BarePromptGetsAll(t *testing.T) {
	injections, added := missingDimensions("set up a pipeline", []string{"ci_cd"}, nil)
	require.NotEmpty(t, injections)

	names := dimensionNames(added)
	assert.Contains(t, names, "security")
	assert.Contains(t, names, "rollback")
	assert.Contains(t, names, "caching")
	assert.Contains(t, names, "testing")
}

func TestMissingDimensions_CoveredDimensionSkipped(t *testing.T) {
	_, added := missingDimensions("set up a pipeline with caching", []string{"ci_cd"}, nil)
	assert.NotContains(t, dimensionNames(added), "caching")
}

func TestMissingDimensions_FullyCoveredPromptGetsNone(t *testing.T) {
	prompt := "set up a secure pipeline with secret management, rollback strategy, caching, and test coverage"
	injections, added := missingDimensions(prompt, []string{"ci_cd"}, nil)
	assert.Empty(t, injections)
	assert.Empty(t, added)
}

func TestMissingDimensions_FocusFilter(t *testing.T) {
	_, added := missingDimensions("set up a pipeline", []string{"ci_cd"}, []string{"security"})
	names := dimensionNames(added)
	assert.Contains(t, names, "security")
	assert.NotContains(t, names, "rollback")
	assert.NotContains(t, names, "caching")
	assert.NotContains(t, names, "testing")
}

func TestMissingDimensions_CrossDomainDedup(t *testing.T) {
	_, added := missingDimensions("set up infrastructure", []string{"ci_cd", "aws"}, nil)
	securityDims := lo.Filter(added, func(d string, _ int) bool {
		return strings.HasSuffix(d, ":security")
	})
	assert.LessOrEqual(t, len(securityDims), 1)
}

func TestMissingDimensions_Cap(t *testing.T) {
	injections, _ := missingDimensions("help me",
		[]string{"ci_cd", "terraform", "docker", "aws", "security", "observability"}, nil)
	assert.LessOrEqual(t, len(injections), maxInjections)
}

func TestEnhance_MentorModeStructure(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline", Mode: "mentor"})
	assert.Contains(t, result.EnhancedPrompt, "Conceptual explanation")
	assert.Contains(t, result.EnhancedPrompt, "WHY")
}

func TestEnhance_ReviewModeStructure(t *testing.T) {
	result := Enhance(Request{Prompt: "review my terraform", Mode: "review"})
	assert.Contains(t, result.EnhancedPrompt, "Critical issues")
	assert.Contains(t, result.EnhancedPrompt, "maturity rating")
}

func TestEnhance_DebugModeStructure(t *testing.T) {
	result := Enhance(Request{Prompt: "my deployment is failing", Mode: "debug"})
	assert.Contains(t, result.EnhancedPrompt, "hypotheses")
}

func TestEnhance_InterviewModeStructure(t *testing.T) {
	result := Enhance(Request{Prompt: "design a deployment strategy", Mode: "interview"})
	assert.Contains(t, result.EnhancedPrompt, "Follow-up probes")
}

func TestEnhance_InvalidModeFallsBackToMentor(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline", Mode: "nonexistent_mode"})
	assert.Contains(t, result.EnhancedPrompt, "Conceptual explanation")
}

func TestEnhance_DefaultModeIsMentor(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline"})
	assert.Equal(t, "mentor", result.ContextInjected.Mode)
	assert.Contains(t, result.EnhancedPrompt, "Conceptual explanation")
}

func TestEnhance_XMLTagsPresent(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a CI/CD pipeline"})
	for _, tag := range []string{
		"<context>", "</context>",
		"<instructions>", "</instructions>",
		"<task>", "</task>",
		"<thinking>", "</thinking>",
		"<output_format>", "</output_format>",
	} {
		assert.Contains(t, result.EnhancedPrompt, tag)
	}
}

func TestEnhance_TaskContainsOriginal(t *testing.T) {
	raw := "Set up a CI/CD pipeline for my Python app"
	result := Enhance(Request{Prompt: raw})
	assert.Equal(t, raw, result.OriginalPrompt)
	assert.Contains(t, result.EnhancedPrompt, raw)
}

func TestEnhance_AppliedList(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline"})
	for _, name := range []string{
		"dimension_injection", "cloud_context", "skill_adaptation",
		"mode_structuring", "xml_structuring", "chain_of_thought",
	} {
		assert.Contains(t, result.EnhancementsApplied, name)
	}
}

func TestEnhance_ReasoningIncludesDomainsAndMode(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a terraform module", Mode: "review"})
	assert.Contains(t, strings.ToLower(result.Reasoning), "terraform")
	assert.Contains(t, result.Reasoning, "review")
}

func TestEnhance_DefaultAWSContext(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline"})
	assert.Equal(t, "aws", result.ContextInjected.CloudProvider)
	assert.Contains(t, result.EnhancedPrompt, "AWS")
}

func TestEnhance_GCPContext(t *testing.T) {
	result := Enhance(Request{Prompt: "deploy to google cloud", CloudProvider: "gcp"})
	assert.Equal(t, "gcp", result.ContextInjected.CloudProvider)
	assert.Contains(t, result.EnhancedPrompt, "Google Cloud")
}

func TestEnhance_FocusAreas(t *testing.T) {
	result := Enhance(Request{Prompt: "set up a pipeline", FocusAreas: "security,cost"})
	for _, name := range dimensionNames(result.ContextInjected.DimensionsAdded) {
		assert.Contains(t, []string{"security", "cost"}, name)
	}
}

func TestEnhance_EmptyPrompt(t *testing.T) {
	result := Enhance(Request{Prompt: ""})
	assert.Empty(t, result.EnhancedPrompt)
	assert.Empty(t, result.EnhancementsApplied)
	assert.Contains(t, result.Reasoning, "Empty prompt")
}

func TestEnhance_WhitespaceOnlyPrompt(t *testing.T) {
	result := Enhance(Request{Prompt: "   "})
	assert.Empty(t, result.EnhancementsApplied)
}

func TestEnhance_VeryLongPrompt(t *testing.T) {
	long := "set up a pipeline " + strings.Repeat("with many requirements ", 200)
	result := Enhance(Request{Prompt: long})
	assert.Equal(t, long, result.OriginalPrompt)
	assert.Contains(t, result.EnhancedPrompt, "<task>")
}

func TestEnhance_SpecialCharactersPreserved(t *testing.T) {
	prompt := `Deploy to ECS with env vars like KEY="value<>&" and PATH=/usr/bin`
	result := Enhance(Request{Prompt: prompt})
	assert.Contains(t, result.EnhancedPrompt, prompt)
}

func TestEnhance_ExplicitProviderWinsOverMentions(t *testing.T) {
	result := Enhance(Request{Prompt: "migrate from aws to azure", CloudProvider: "azure"})
	assert.Equal(t, "azure", result.ContextInjected.CloudProvider)
}
