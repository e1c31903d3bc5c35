// Package cost estimates monthly run cost from declared resources.
// Estimates are coarse tier ranges, not metered prices.
package cost

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"infra-review/adapters/terraform/hcl"
	"infra-review/core/types"
)

// tableEntry prices one resource type
type tableEntry struct {
	Tier  types.CostTier
	Label string
	Low   decimal.Decimal
	High  decimal.Decimal
}

// resourceCostTable maps resource types to a tier and a monthly USD
// range. Types absent here are untracked, not free: they contribute
// nothing to totals or findings.
var resourceCostTable = map[string]tableEntry{
	"aws_nat_gateway":             {types.CostTierHigh, "NAT Gateway", usd(32), usd(100)},
	"aws_instance":                {types.CostTierMedium, "EC2 Instance", usd(10), usd(500)},
	"aws_db_instance":             {types.CostTierHigh, "RDS Instance", usd(25), usd(1000)},
	"aws_db_cluster":              {types.CostTierVeryHigh, "RDS Aurora Cluster", usd(50), usd(2000)},
	"aws_eks_cluster":             {types.CostTierVeryHigh, "EKS Cluster", usd(73), usd(500)},
	"aws_eks_node_group":          {types.CostTierHigh, "EKS Node Group", usd(50), usd(2000)},
	"aws_elasticache_cluster":     {types.CostTierHigh, "ElastiCache Cluster", usd(25), usd(500)},
	"aws_cloudfront_distribution": {types.CostTierMedium, "CloudFront Distribution", usd(1), usd(500)},
	"aws_lambda_function":         {types.CostTierLow, "Lambda Function", usd(0), usd(50)},
	"aws_s3_bucket":               {types.CostTierLow, "S3 Bucket", usd(0), usd(100)},
	"aws_sqs_queue":               {types.CostTierLow, "SQS Queue", usd(0), usd(10)},
	"aws_sns_topic":               {types.CostTierLow, "SNS Topic", usd(0), usd(10)},
	"aws_eip":                     {types.CostTierLow, "Elastic IP", usd(4), usd(4)},
	"aws_ecs_cluster":             {types.CostTierMedium, "ECS Cluster", usd(0), usd(200)},
	"aws_ecs_service":             {types.CostTierMedium, "ECS Service (Fargate)", usd(10), usd(500)},
	"aws_vpc":                     {types.CostTierLow, "VPC", usd(0), usd(0)},
	"aws_subnet":                  {types.CostTierLow, "Subnet", usd(0), usd(0)},
	"aws_iam_role":                {types.CostTierLow, "IAM Role", usd(0), usd(0)},
}

func usd(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// Result carries the aggregated summary and the per-resource findings
type Result struct {
	Summary  types.CostSummary
	Findings []types.Finding
}

// Estimate prices every declared resource whose type appears in the
// cost table, sums the tier ranges, and emits a finding per high-tier
// (warning) and very_high-tier (critical) instance.
func Estimate(parsed map[string]*hcl.BlockTree) Result {
	entries := make([]types.CostEntry, 0)

	files := lo.Keys(parsed)
	sort.Strings(files)
	for _, filename := range files {
		for _, rb := range parsed[filename].Resources {
			priced, ok := resourceCostTable[rb.Type]
			if !ok {
				continue
			}
			entries = append(entries, types.CostEntry{
				ResourceType:             rb.Type,
				ResourceName:             rb.Name,
				CostTier:                 priced.Tier,
				Label:                    priced.Label,
				EstimatedMonthlyRangeUSD: rangeUSD(priced.Low, priced.High),
				Filename:                 filename,
			})
		}
	}

	tiers := map[types.CostTier]int{
		types.CostTierLow:      0,
		types.CostTierMedium:   0,
		types.CostTierHigh:     0,
		types.CostTierVeryHigh: 0,
	}
	totalLow := decimal.Zero
	totalHigh := decimal.Zero
	for _, entry := range entries {
		tiers[entry.CostTier]++
		priced := resourceCostTable[entry.ResourceType]
		totalLow = totalLow.Add(priced.Low)
		totalHigh = totalHigh.Add(priced.High)
	}

	findings := make([]types.Finding, 0)
	for _, entry := range entries {
		if entry.CostTier != types.CostTierHigh && entry.CostTier != types.CostTierVeryHigh {
			continue
		}
		severity := types.SeverityWarning
		if entry.CostTier == types.CostTierVeryHigh {
			severity = types.SeverityCritical
		}
		findings = append(findings, types.Finding{
			Severity: severity,
			Message: fmt.Sprintf("%s: %s (%s.%s) is a %s-cost resource (%s/mo)",
				entry.Filename, entry.Label, entry.ResourceType, entry.ResourceName,
				entry.CostTier, entry.EstimatedMonthlyRangeUSD),
			Recommendation: lo.ToPtr(fmt.Sprintf(
				"Review if %s.%s is right-sized. Consider reserved capacity or smaller instance types for non-production use",
				entry.ResourceType, entry.ResourceName)),
		})
	}

	return Result{
		Summary: types.CostSummary{
			ResourceCosts:            entries,
			TierSummary:              tiers,
			EstimatedMonthlyTotalUSD: rangeUSD(totalLow, totalHigh),
		},
		Findings: findings,
	}
}

// rangeUSD renders "$low-$high"
func rangeUSD(low, high decimal.Decimal) string {
	return "$" + low.String() + "-$" + high.String()
}
