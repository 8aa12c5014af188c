package repository

import (
	"context"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
)

// AWSRepository defines the interface for AWS control-plane interactions.
type AWSRepository interface {
	// Identity Operations
	GetAccountID(ctx context.Context) (string, error)

	// Provisioning Operations (idempotent ensures)
	EnsureCluster(ctx context.Context, name string) (entity.EnsureResult, error)
	EnsureLogGroup(ctx context.Context, name string) (entity.EnsureResult, error)
	EnsureRole(ctx context.Context, spec entity.RoleSpec) (entity.EnsureResult, error)
	FindSecurityGroup(ctx context.Context, name string) (*entity.SecurityGroupInfo, error)
	CreateSecurityGroup(ctx context.Context, name, description string) (entity.SecurityGroupInfo, error)
	AuthorizeIngress(ctx context.Context, groupID string, port int32) (entity.EnsureResult, error)

	// Network Discovery
	DefaultNetwork(ctx context.Context) (vpcID string, subnets []string, err error)

	// Deploy Operations
	FindTargetGroup(ctx context.Context, name string) (arn string, err error)
	RegisterTaskDefinition(ctx context.Context, tpl entity.TaskDefinitionTemplate) (arn string, err error)
	CreateService(ctx context.Context, spec entity.ServiceSpec) (entity.EnsureResult, error)

	// Verification Operations
	DescribeService(ctx context.Context, cluster, service string) (entity.ServiceState, error)
	ListServiceTasks(ctx context.Context, cluster, service string) ([]string, error)
	DescribeTask(ctx context.Context, cluster, taskARN string) (entity.TaskState, error)
	ResolvePublicIP(ctx context.Context, eniID string) (string, error)

	// Diagnostics
	FetchRecentLogs(ctx context.Context, logGroup string, limit int32) ([]string, error)
}
