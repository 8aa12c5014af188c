package types

import (
	"fmt"
	"time"
)

// DeployConfig é o registro imutável de configuração da aplicação.
// É construído uma única vez no main e passado por valor para todos os
// componentes; nenhum componente lê variáveis de ambiente diretamente.
type DeployConfig struct {
	// Env prefixes every derived resource name (e.g. "dev", "prod").
	Env string
	// Region is the AWS region all control-plane calls target.
	Region string
	// Service is the base service name used in the naming convention.
	Service string

	// CreateInfra gates the infrastructure provisioning step.
	CreateInfra bool
	// AutoCommit gates the artifact commit step.
	AutoCommit bool

	// DesiredCount is the number of task instances the service keeps running.
	DesiredCount int32
	// ContainerPort is the port the service listens on.
	ContainerPort int32
	// HealthPath is the HTTP path probed by the verifier.
	HealthPath string

	// IAMSettleDelay is the fixed wait imposed after IAM role creation.
	// Role-to-service linkage is eventually consistent; this is a documented
	// latency budget, not a correctness guarantee.
	IAMSettleDelay time.Duration
	// ProbeTimeout bounds the verifier's HTTP health probe.
	ProbeTimeout time.Duration
	// HealthGracePeriod is the startup window granted to load-balanced
	// services before health checks count against the task.
	HealthGracePeriod time.Duration

	// TemplateDir holds the task definition template files.
	TemplateDir string
	// Subnets optionally pins the awsvpc subnets; when empty the default
	// VPC subnets are discovered at runtime.
	Subnets []string
	// ArtifactBucket receives resolved task definition artifacts when
	// AutoCommit is enabled.
	ArtifactBucket string
}

// DefaultDeployConfig retorna a configuração padrão do deployment.
func DefaultDeployConfig() DeployConfig {
	return DeployConfig{
		Env:               "dev",
		Region:            "us-east-1",
		Service:           "rfp-api",
		DesiredCount:      2,
		ContainerPort:     8080,
		HealthPath:        "/actuator/health",
		IAMSettleDelay:    10 * time.Second,
		ProbeTimeout:      5 * time.Second,
		HealthGracePeriod: 120 * time.Second,
		TemplateDir:       "deploy/taskdef",
	}
}

// Derived resource names. Every remote resource this tool touches is named
// through the {env}-{service}-{kind} convention so that dev and prod
// environments never collide.

// ClusterName retorna o nome do cluster ECS derivado do ambiente.
func (c DeployConfig) ClusterName() string {
	return fmt.Sprintf("%s-%s-cluster", c.Env, c.Service)
}

// LogGroupName retorna o nome do log group no CloudWatch.
func (c DeployConfig) LogGroupName() string {
	return fmt.Sprintf("/ecs/%s-%s", c.Env, c.Service)
}

// ExecutionRoleName returns the ECS task execution role name.
func (c DeployConfig) ExecutionRoleName() string {
	return fmt.Sprintf("%s-%s-execution-role", c.Env, c.Service)
}

// TaskRoleName returns the application task role name.
func (c DeployConfig) TaskRoleName() string {
	return fmt.Sprintf("%s-%s-task-role", c.Env, c.Service)
}

// ALBSecurityGroupName is the name of the security group managed by the
// externally provisioned load balancer. When it exists it is reused as-is.
func (c DeployConfig) ALBSecurityGroupName() string {
	return fmt.Sprintf("%s-%s-task-sg", c.Env, c.Service)
}

// DeploySecurityGroupName is the deployment-owned security group created
// when no load-balancer-managed group is found.
func (c DeployConfig) DeploySecurityGroupName() string {
	return fmt.Sprintf("%s-%s-ecs-sg", c.Env, c.Service)
}

// TargetGroupName returns the load balancer target group looked up by the
// deployer. The target group itself is never created by this tool.
func (c DeployConfig) TargetGroupName() string {
	return fmt.Sprintf("%s-%s-tg", c.Env, c.Service)
}

// ECSServiceName retorna o nome do serviço ECS.
func (c DeployConfig) ECSServiceName() string {
	return fmt.Sprintf("%s-%s-service", c.Env, c.Service)
}

// TaskFamily returns the task definition family.
func (c DeployConfig) TaskFamily() string {
	return fmt.Sprintf("%s-%s", c.Env, c.Service)
}

// ContainerName returns the container name inside the task definition.
func (c DeployConfig) ContainerName() string {
	return c.Service
}

// FileConfig represents the optional configuration file overrides that can
// be loaded from a TOML, YAML or JSON file.
type FileConfig struct {
	Env             string   `json:"env" yaml:"env" toml:"env"`
	Region          string   `json:"region" yaml:"region" toml:"region"`
	Service         string   `json:"service" yaml:"service" toml:"service"`
	CreateInfra     *bool    `json:"create_infra" yaml:"create_infra" toml:"create_infra"`
	AutoCommit      *bool    `json:"auto_commit" yaml:"auto_commit" toml:"auto_commit"`
	DesiredCount    int32    `json:"desired_count" yaml:"desired_count" toml:"desired_count"`
	SettleDelaySecs int      `json:"iam_settle_delay_seconds" yaml:"iam_settle_delay_seconds" toml:"iam_settle_delay_seconds"`
	TemplateDir     string   `json:"template_dir" yaml:"template_dir" toml:"template_dir"`
	Subnets         []string `json:"subnets" yaml:"subnets" toml:"subnets"`
	ArtifactBucket  string   `json:"artifact_bucket" yaml:"artifact_bucket" toml:"artifact_bucket"`
}
