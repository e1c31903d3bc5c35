package enhance

// domainEntry pairs a domain with its detection keywords.
type domainEntry struct {
	name     string
	keywords []string
}

// domainKeywords maps each DevOps domain to the keywords that signal it.
// Slice order is the tie-break order for equally scored domains.
var domainKeywords = []domainEntry{
	{"ci_cd", []string{
		"pipeline",
		"ci/cd",
		"cicd",
		"github actions",
		"workflow",
		"deploy",
		"deployment",
		"build",
		"release",
		"artifact",
		"continuous integration",
		"continuous delivery",
		"jenkins",
		"gitlab ci",
		"circleci",
	}},
	{"docker", []string{
		"docker",
		"container",
		"dockerfile",
		"compose",
		"image",
		"registry",
		"kubernetes",
		"k8s",
		"helm",
		"pod",
		"orchestration",
	}},
	{"terraform", []string{
		"terraform",
		"infrastructure as code",
		"iac",
		"hcl",
		"tfstate",
		"module",
		"provider",
		"state file",
		"plan",
		"apply",
		"tofu",
	}},
	{"aws", []string{
		"aws",
		"ec2",
		"s3",
		"lambda",
		"ecs",
		"eks",
		"rds",
		"iam",
		"vpc",
		"cloudfront",
		"dynamodb",
		"sqs",
		"sns",
		"cloudwatch",
		"route53",
		"elasticache",
	}},
	{"security", []string{
		"security",
		"iam",
		"rbac",
		"secret",
		"credential",
		"encryption",
		"tls",
		"ssl",
		"certificate",
		"vulnerability",
		"compliance",
		"audit",
		"zero trust",
	}},
	{"observability", []string{
		"monitoring",
		"logging",
		"alerting",
		"metrics",
		"prometheus",
		"grafana",
		"datadog",
		"cloudwatch",
		"tracing",
		"observability",
		"sli",
		"slo",
		"sla",
	}},
	{"networking", []string{
		"vpc",
		"subnet",
		"load balancer",
		"dns",
		"route53",
		"cdn",
		"firewall",
		"ingress",
		"egress",
		"nat gateway",
		"peering",
	}},
	{"cost", []string{
		"cost",
		"budget",
		"pricing",
		"savings",
		"reserved instance",
		"spot instance",
		"optimization",
		"finops",
		"right-sizing",
	}},
}

// dimension is one consideration a well-formed prompt should address.
// It counts as covered when any check keyword appears in the prompt.
type dimension struct {
	name          string
	checkKeywords []string
	injection     string
}

// dimensionInjections lists the dimensions per domain, in injection order.
var dimensionInjections = map[string][]dimension{
	"ci_cd": {
		{
			name:          "security",
			checkKeywords: []string{"security", "secret", "permissions", "oidc", "pin", "token", "credential"},
			injection:     "Consider security implications: action pinning, least-privilege permissions, secret management, and OIDC authentication.",
		},
		{
			name:          "rollback",
			checkKeywords: []string{"rollback", "revert", "canary", "blue-green", "undo", "rollforward"},
			injection:     "Include a rollback strategy: how to revert a failed deployment safely.",
		},
		{
			name:          "caching",
			checkKeywords: []string{"cache", "caching", "artifact"},
			injection:     "Address build performance: dependency caching, artifact reuse, and build time optimization.",
		},
		{
			name:          "testing",
			checkKeywords: []string{"test", "coverage", "lint", "validate", "quality gate"},
			injection:     "Include testing requirements: what tests to run, coverage thresholds, and quality gates.",
		},
	},
	"terraform": {
		{
			name:          "security",
			checkKeywords: []string{"security", "iam", "least-privilege", "encryption", "policy"},
			injection:     "Address security: IAM least-privilege policies, encryption at rest and in transit, and secret management.",
		},
		{
			name:          "cost",
			checkKeywords: []string{"cost", "budget", "pricing", "savings", "reserved", "spot"},
			injection:     "Consider cost implications: instance sizing, reserved vs. on-demand pricing, and resource lifecycle policies.",
		},
		{
			name:          "state_management",
			checkKeywords: []string{"state", "backend", "locking", "remote"},
			injection:     "Address state management: remote backend configuration, state locking, and state file security.",
		},
		{
			name:          "rollback",
			checkKeywords: []string{"rollback", "revert", "plan", "destroy"},
			injection:     "Include a rollback plan: how to safely revert infrastructure changes if something goes wrong.",
		},
		{
			name:          "scalability",
			checkKeywords: []string{"scale", "auto-scaling", "capacity", "load", "elastic"},
			injection:     "Consider scalability: auto-scaling policies, capacity planning, and load-based resource management.",
		},
	},
	"docker": {
		{
			name:          "security",
			checkKeywords: []string{"security", "scan", "vulnerability", "non-root", "readonly", "trivy"},
			injection:     "Address container security: base image selection, vulnerability scanning, non-root users, and read-only filesystems.",
		},
		{
			name:          "performance",
			checkKeywords: []string{"multi-stage", "layer", "cache", "size", "slim", "alpine"},
			injection:     "Consider image optimization: multi-stage builds, layer caching, minimal base images, and image size reduction.",
		},
		{
			name:          "networking",
			checkKeywords: []string{"network", "port", "expose", "dns", "bridge"},
			injection:     "Address container networking: port mappings, network isolation, and service discovery.",
		},
	},
	"aws": {
		{
			name:          "security",
			checkKeywords: []string{"security", "iam", "encryption", "least-privilege", "kms"},
			injection:     "Address AWS security: IAM policies following least-privilege, encryption (KMS), VPC security groups, and CloudTrail logging.",
		},
		{
			name:          "cost",
			checkKeywords: []string{"cost", "budget", "pricing", "reserved", "spot", "savings"},
			injection:     "Consider AWS cost: right-sizing instances, Reserved Instances or Savings Plans, spot instances for fault-tolerant workloads, and cost allocation tags.",
		},
		{
			name:          "scalability",
			checkKeywords: []string{"scale", "auto-scaling", "elastic", "capacity", "load balancer"},
			injection:     "Address scalability: Auto Scaling groups, Elastic Load Balancing, and capacity planning for peak loads.",
		},
		{
			name:          "reliability",
			checkKeywords: []string{"backup", "disaster", "recovery", "multi-az", "failover", "redundancy", "ha", "high availability"},
			injection:     "Consider reliability: multi-AZ deployment, backup strategies, disaster recovery planning, and health checks.",
		},
	},
	"security": {
		{
			name:          "compliance",
			checkKeywords: []string{"compliance", "audit", "regulation", "soc", "hipaa", "pci", "gdpr"},
			injection:     "Consider compliance requirements: audit logging, regulatory standards (SOC2, HIPAA, PCI-DSS), and evidence collection.",
		},
		{
			name:          "incident_response",
			checkKeywords: []string{"incident", "response", "alert", "runbook", "escalation"},
			injection:     "Address incident response: alerting thresholds, runbook procedures, and escalation paths.",
		},
	},
	"observability": {
		{
			name:          "alerting",
			checkKeywords: []string{"alert", "threshold", "pager", "notification", "on-call"},
			injection:     "Include alerting strategy: meaningful thresholds, alert fatigue prevention, and on-call notification routing.",
		},
		{
			name:          "dashboards",
			checkKeywords: []string{"dashboard", "visualization", "graph", "panel"},
			injection:     "Consider dashboard design: key metrics to visualize, SLI/SLO tracking, and audience-appropriate views.",
		},
	},
	"networking": {
		{
			name:          "security",
			checkKeywords: []string{"security group", "nacl", "firewall", "waf", "tls"},
			injection:     "Address network security: security groups, NACLs, WAF rules, and TLS termination.",
		},
		{
			name:          "high_availability",
			checkKeywords: []string{"multi-az", "failover", "redundancy", "ha", "backup"},
			injection:     "Consider high availability: multi-AZ deployment, failover routing, and redundant network paths.",
		},
	},
	"cost": {
		{
			name:          "monitoring",
			checkKeywords: []string{"monitor", "alert", "budget alert", "threshold", "tracking"},
			injection:     "Include cost monitoring: budget alerts, anomaly detection, and regular cost review cadence.",
		},
		{
			name:          "tagging",
			checkKeywords: []string{"tag", "label", "allocation", "chargeback"},
			injection:     "Address cost allocation: tagging strategy for cost attribution, team chargebacks, and resource ownership.",
		},
	},
}

// cloudProviderContext holds the provider context lines prepended in stage 3.
var cloudProviderContext = map[string]string{
	"aws": "Cloud provider context: AWS. " +
		"Assume AWS-native services (IAM, S3, EC2, ECS, Lambda, CloudWatch, etc.). " +
		"Reference AWS Well-Architected Framework pillars where relevant.",
	"gcp": "Cloud provider context: Google Cloud Platform. " +
		"Assume GCP-native services (Cloud IAM, GCS, GCE, GKE, Cloud Functions, Cloud Monitoring, etc.).",
	"azure": "Cloud provider context: Microsoft Azure. " +
		"Assume Azure-native services (Azure AD, Blob Storage, VMs, AKS, Azure Functions, Azure Monitor, etc.).",
}

// modeTemplate shapes the enhanced prompt for one review mode.
type modeTemplate struct {
	preamble       string
	structureHint  string
	chainOfThought string
}

var modeTemplates = map[string]modeTemplate{
	"mentor": {
		preamble: "You are helping a DevOps learner understand and implement the following. " +
			"Guide them through the reasoning, not just the answer.",
		structureHint: "Structure your response as:\n" +
			"1. Conceptual explanation (the WHY)\n" +
			"2. Implementation approach (the HOW)\n" +
			"3. Common pitfalls to avoid\n" +
			"4. Next steps for learning",
		chainOfThought: "Think through this step by step, explaining your reasoning at each stage.",
	},
	"review": {
		preamble: "You are performing a senior-level DevOps review. " +
			"Be direct, precise, and production-focused.",
		structureHint: "Structure your response as:\n" +
			"1. Summary assessment\n" +
			"2. Critical issues (must fix)\n" +
			"3. Warnings (should fix)\n" +
			"4. Recommendations (nice to have)\n" +
			"5. Overall maturity rating",
		chainOfThought: "Systematically evaluate each aspect before providing your assessment.",
	},
	"debug": {
		preamble: "You are troubleshooting a DevOps issue. " +
			"Form hypotheses before jumping to solutions.",
		structureHint: "Structure your response as:\n" +
			"1. Clarifying questions (what information is needed)\n" +
			"2. Most likely hypotheses (ranked by probability)\n" +
			"3. Diagnostic steps for each hypothesis\n" +
			"4. Resolution approach once root cause is identified",
		chainOfThought: "Before proposing solutions, list your hypotheses and the evidence for/against each.",
	},
	"interview": {
		preamble: "You are conducting a senior DevOps engineer interview. " +
			"Challenge design decisions and probe for depth.",
		structureHint: "Structure your response as:\n" +
			"1. Initial design question\n" +
			"2. Follow-up probes on trade-offs\n" +
			"3. Edge cases to explore\n" +
			"4. Expected depth of answer at each level (junior/mid/senior)",
		chainOfThought: "Consider what a senior interviewer would ask to differentiate between surface knowledge and deep understanding.",
	},
}
