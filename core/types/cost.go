// Package types - Cost estimation types.
package types

// CostTier is a coarse classification of a resource's estimated run cost
type CostTier string

const (
	CostTierLow      CostTier = "low"
	CostTierMedium   CostTier = "medium"
	CostTierHigh     CostTier = "high"
	CostTierVeryHigh CostTier = "very_high"
)

// CostEntry is one priced resource instance.
type CostEntry struct {
	// ResourceType is the Terraform resource type (aws_nat_gateway, ...)
	ResourceType string `json:"resource_type"`

	// ResourceName is the instance name
	ResourceName string `json:"resource_name"`

	// CostTier classifies the monthly cost
	CostTier CostTier `json:"cost_tier"`

	// Label is the human-readable service name
	Label string `json:"label"`

	// EstimatedMonthlyRangeUSD renders as "$low-$high"
	EstimatedMonthlyRangeUSD string `json:"estimated_monthly_range_usd"`

	// Filename is where the resource is declared
	Filename string `json:"filename"`
}

// CostSummary aggregates the cost entries of one analysis batch.
// Resource types absent from the cost table are untracked, not free;
// they contribute nothing here.
type CostSummary struct {
	// ResourceCosts are the priced instances in declaration order
	ResourceCosts []CostEntry `json:"resource_costs"`

	// TierSummary counts instances per tier; every tier key is present
	TierSummary map[CostTier]int `json:"tier_summary"`

	// EstimatedMonthlyTotalUSD renders as "$low-$high"
	EstimatedMonthlyTotalUSD string `json:"estimated_monthly_total_usd"`
}
