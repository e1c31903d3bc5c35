package advisor

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infra-review/core/types"
)

func findingWith(findings []types.Finding, sub string) (types.Finding, bool) {
	return lo.Find(findings, func(f types.Finding) bool {
		return strings.Contains(f.Message, sub)
	})
}

func TestDetectServices(t *testing.T) {
	services := detectServices([]string{"aws_instance", "aws_s3_bucket", "aws_lambda_function"})

	assert.True(t, services["ec2"])
	assert.True(t, services["s3"])
	assert.True(t, services["lambda"])
	assert.False(t, services["rds"])
}

func TestAdvise_NATGatewayCostWarning(t *testing.T) {
	report := Advise([]string{"aws_vpc", "aws_nat_gateway", "aws_instance"})

	f, ok := findingWith(report.CostFindings, "NAT Gateway")
	require.True(t, ok)
	assert.Equal(t, types.SeverityWarning, f.Severity)
	assert.Equal(t, "cost", f.Category)
}

func TestAdvise_MissingAutoScaling(t *testing.T) {
	report := Advise([]string{"aws_instance"})

	_, ok := findingWith(report.CostFindings, "Auto Scaling")
	assert.True(t, ok)
}

func TestAdvise_AutoScalingPresentNotFlagged(t *testing.T) {
	report := Advise([]string{"aws_instance", "aws_autoscaling_group"})

	_, ok := findingWith(report.CostFindings, "Auto Scaling Group detected")
	assert.False(t, ok)
}

func TestAdvise_MissingCloudTrail(t *testing.T) {
	report := Advise([]string{"aws_instance"})

	f, ok := findingWith(report.SecurityFindings, "CloudTrail")
	require.True(t, ok)
	assert.Equal(t, types.SeverityCritical, f.Severity)
	assert.Equal(t, "security", f.Category)
}

func TestAdvise_VPCWithoutFlowLogs(t *testing.T) {
	report := Advise([]string{"aws_vpc", "aws_subnet"})

	_, ok := findingWith(report.SecurityFindings, "flow log")
	assert.True(t, ok)
}

func TestAdvise_S3WithoutPublicAccessBlock(t *testing.T) {
	report := Advise([]string{"aws_s3_bucket"})

	f, ok := findingWith(report.SecurityFindings, "public access block")
	require.True(t, ok)
	assert.Equal(t, types.SeverityCritical, f.Severity)
}

func TestAdvise_IAMUserWarning(t *testing.T) {
	report := Advise([]string{"aws_iam_user", "aws_iam_role"})

	_, ok := findingWith(report.SecurityFindings, "IAM users")
	assert.True(t, ok)
}

func TestAdvise_MitigatedStack(t *testing.T) {
	report := Advise([]string{"aws_cloudtrail", "aws_s3_bucket", "aws_s3_bucket_public_access_block"})

	assert.Equal(t, types.MaturityProductionLeaning, report.MaturityLevel)
	assert.Equal(t, 0, report.SeveritySummary.Critical)
	assert.Empty(t, report.Risks)
}

func TestAdvise_EmptyResources(t *testing.T) {
	report := Advise([]string{})

	assert.Empty(t, report.AWSServicesDetected)
	// CloudTrail advice applies even to an empty stack
	_, ok := findingWith(report.SecurityFindings, "CloudTrail")
	assert.True(t, ok)
}

func TestAdvise_EC2OnlyCounts(t *testing.T) {
	report := Advise([]string{"aws_instance"})

	assert.Equal(t, []string{"ec2"}, report.AWSServicesDetected)
	assert.Equal(t, 1, report.SeveritySummary.Critical)
	assert.Equal(t, 1, report.SeveritySummary.Warning)
	assert.Equal(t, 1, report.SeveritySummary.Info)
	assert.Equal(t, types.MaturityBasic, report.MaturityLevel)
	assert.Len(t, report.Risks, 2)
}

func TestAdvise_ContainerOrchestration(t *testing.T) {
	report := Advise([]string{"aws_ecs_cluster", "aws_ecs_service", "aws_cloudtrail"})

	_, ok := findingWith(report.CostFindings, "Container orchestration")
	assert.True(t, ok)
	assert.Equal(t, types.MaturityProductionLeaning, report.MaturityLevel)
}

func TestAdvise_ServiceOrderStable(t *testing.T) {
	report := Advise([]string{"aws_sns_topic", "aws_instance", "aws_vpc"})

	assert.Equal(t, []string{"ec2", "vpc", "sns"}, report.AWSServicesDetected)
}
