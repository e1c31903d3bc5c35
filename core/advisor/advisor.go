// Package advisor maps detected Terraform resource types onto AWS
// services and applies flat cost and security rule tables. It never
// inspects configuration contents, only which resource types exist.
package advisor

import (
	"github.com/samber/lo"

	"infra-review/core/types"
)

// developingWarningCeiling is the most warnings advice can carry and
// still rate "developing" rather than "basic".
const developingWarningCeiling = 2

// serviceResourceMap associates each AWS service with the resource
// types that imply it. Order is the reporting order for detected
// services.
var serviceResourceMap = []struct {
	service   string
	resources []string
}{
	{"ec2", []string{"aws_instance", "aws_launch_template", "aws_launch_configuration"}},
	{"s3", []string{"aws_s3_bucket", "aws_s3_bucket_policy"}},
	{"rds", []string{"aws_db_instance", "aws_db_cluster"}},
	{"ecs", []string{"aws_ecs_cluster", "aws_ecs_service", "aws_ecs_task_definition"}},
	{"eks", []string{"aws_eks_cluster", "aws_eks_node_group"}},
	{"lambda", []string{"aws_lambda_function"}},
	{"vpc", []string{"aws_vpc", "aws_subnet", "aws_nat_gateway", "aws_eip"}},
	{"iam", []string{"aws_iam_role", "aws_iam_policy", "aws_iam_user"}},
	{"cloudfront", []string{"aws_cloudfront_distribution"}},
	{"elasticache", []string{"aws_elasticache_cluster"}},
	{"sqs", []string{"aws_sqs_queue"}},
	{"sns", []string{"aws_sns_topic"}},
}

// detectServices reports which AWS services the resource types imply.
func detectServices(resourceTypes []string) map[string]bool {
	present := make(map[string]bool, len(resourceTypes))
	for _, rt := range resourceTypes {
		present[rt] = true
	}
	services := make(map[string]bool, len(serviceResourceMap))
	for _, entry := range serviceResourceMap {
		services[entry.service] = lo.SomeBy(entry.resources, func(rt string) bool {
			return present[rt]
		})
	}
	return services
}

// Advise derives AWS cost and security advice from the resource types
// a Terraform review detected.
func Advise(resourceTypes []string) *types.AdvisorReport {
	services := detectServices(resourceTypes)

	costFindings := costChecks(resourceTypes, services)
	securityFindings := securityChecks(resourceTypes, services)

	all := append(append(make([]types.Finding, 0, len(costFindings)+len(securityFindings)),
		costFindings...), securityFindings...)

	active := make([]string, 0)
	for _, entry := range serviceResourceMap {
		if services[entry.service] {
			active = append(active, entry.service)
		}
	}

	summary := types.Summarize(all)
	return &types.AdvisorReport{
		AWSServicesDetected:     active,
		MaturityLevel:           types.MaturityFor(summary, developingWarningCeiling),
		CostFindings:            costFindings,
		SecurityFindings:        securityFindings,
		Risks:                   types.Risks(all),
		RecommendedImprovements: types.Improvements(all),
		SeveritySummary:         summary,
	}
}

func costChecks(resourceTypes []string, services map[string]bool) []types.Finding {
	findings := make([]types.Finding, 0)
	has := func(rt string) bool { return lo.Contains(resourceTypes, rt) }

	if has("aws_nat_gateway") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Category:       "cost",
			Message:        "NAT Gateway detected -- high per-hour + per-GB cost",
			Recommendation: lo.ToPtr("Consider NAT instances for dev/staging, or VPC endpoints to reduce NAT traffic"),
		})
	}

	if services["ec2"] && !has("aws_autoscaling_group") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Category:       "cost",
			Message:        "EC2 instances without Auto Scaling Group detected",
			Recommendation: lo.ToPtr("Use Auto Scaling to right-size capacity and reduce cost during low demand"),
		})
	}

	if services["ec2"] && !has("aws_spot_instance_request") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Category:       "cost",
			Message:        "No spot instances detected",
			Recommendation: lo.ToPtr("Consider spot instances for fault-tolerant workloads (up to 90% savings)"),
		})
	}

	if has("aws_eip") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Category:       "cost",
			Message:        "Elastic IPs detected -- unattached EIPs incur charges",
			Recommendation: lo.ToPtr("Audit EIPs and release any that are not attached to running instances"),
		})
	}

	if services["rds"] {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Category:       "cost",
			Message:        "RDS instance detected",
			Recommendation: lo.ToPtr("Consider Reserved Instances for production RDS, and Aurora Serverless for variable workloads"),
		})
	}

	if services["ecs"] || services["eks"] {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Category:       "cost",
			Message:        "Container orchestration detected",
			Recommendation: lo.ToPtr("Use Fargate Spot for non-critical ECS tasks, or Karpenter for EKS node optimization"),
		})
	}

	return findings
}

func securityChecks(resourceTypes []string, services map[string]bool) []types.Finding {
	findings := make([]types.Finding, 0)
	has := func(rt string) bool { return lo.Contains(resourceTypes, rt) }

	if services["vpc"] && !has("aws_flow_log") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Category:       "security",
			Message:        "VPC detected without flow logs",
			Recommendation: lo.ToPtr("Enable VPC Flow Logs for network traffic monitoring and security analysis"),
		})
	}

	if !has("aws_cloudtrail") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Category:       "security",
			Message:        "No CloudTrail configuration detected in Terraform",
			Recommendation: lo.ToPtr("Enable CloudTrail for API audit logging across all regions"),
		})
	}

	if services["rds"] {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Category:       "security",
			Message:        "Verify RDS encryption at rest is enabled",
			Recommendation: lo.ToPtr("Set storage_encrypted = true on all RDS instances"),
		})
	}

	if services["lambda"] {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityInfo,
			Category:       "security",
			Message:        "Lambda functions detected",
			Recommendation: lo.ToPtr("Ensure Lambda functions run inside VPC for sensitive workloads, use environment variable encryption"),
		})
	}

	if has("aws_iam_user") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityWarning,
			Category:       "security",
			Message:        "IAM users created in Terraform -- prefer IAM roles with federation",
			Recommendation: lo.ToPtr("Use IAM Identity Center (SSO) with federated roles instead of IAM users"),
		})
	}

	if services["s3"] && !has("aws_s3_bucket_public_access_block") {
		findings = append(findings, types.Finding{
			Severity:       types.SeverityCritical,
			Category:       "security",
			Message:        "S3 buckets without public access block",
			Recommendation: lo.ToPtr("Add aws_s3_bucket_public_access_block to all buckets"),
		})
	}

	return findings
}
