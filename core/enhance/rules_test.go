package enhance

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainKeywords_ExpectedDomains(t *testing.T) {
	names := lo.Map(domainKeywords, func(e domainEntry, _ int) string { return e.name })
	assert.ElementsMatch(t, []string{
		"ci_cd", "docker", "terraform", "aws",
		"security", "observability", "networking", "cost",
	}, names)
}

func TestDomainKeywords_NoEmptyLists(t *testing.T) {
	for _, entry := range domainKeywords {
		assert.NotEmpty(t, entry.keywords, "domain %s", entry.name)
	}
}

func TestDimensionInjections_DomainsExistInKeywords(t *testing.T) {
	names := lo.Map(domainKeywords, func(e domainEntry, _ int) string { return e.name })
	for domain := range dimensionInjections {
		assert.Contains(t, names, domain)
	}
}

func TestDimensionInjections_EntriesComplete(t *testing.T) {
	for domain, dims := range dimensionInjections {
		for _, dim := range dims {
			assert.NotEmpty(t, dim.name, "domain %s", domain)
			assert.NotEmpty(t, dim.checkKeywords, "%s:%s", domain, dim.name)
			assert.NotEmpty(t, strings.TrimSpace(dim.injection), "%s:%s", domain, dim.name)
		}
	}
}

func TestCloudProviderContext_AllProvidersPresent(t *testing.T) {
	for _, provider := range []string{"aws", "gcp", "azure"} {
		assert.Contains(t, cloudProviderContext, provider)
	}
}

func TestModeTemplates_AllModesComplete(t *testing.T) {
	require.Len(t, modeTemplates, 4)
	for _, mode := range []string{"mentor", "review", "debug", "interview"} {
		template, ok := modeTemplates[mode]
		require.True(t, ok, "mode %s", mode)
		assert.NotEmpty(t, strings.TrimSpace(template.preamble), "mode %s", mode)
		assert.NotEmpty(t, strings.TrimSpace(template.structureHint), "mode %s", mode)
		assert.NotEmpty(t, strings.TrimSpace(template.chainOfThought), "mode %s", mode)
	}
}
