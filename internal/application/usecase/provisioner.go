package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// ecsTasksTrustPolicy is the trust policy allowing ECS tasks to assume the
// provisioned roles.
const ecsTasksTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"Service": "ecs-tasks.amazonaws.com"},
      "Action": "sts:AssumeRole"
    }
  ]
}`

// Provisioner garante a existência de toda a infraestrutura nomeada antes do
// deploy: cluster, log group, roles e security group. Todas as operações são
// idempotentes; "já existe" nunca é erro.
type Provisioner struct {
	awsRepo repository.AWSRepository
	console types.ConsoleInterface
	config  types.DeployConfig

	// sleep is swapped out in tests so the settling delay does not slow
	// the suite down.
	sleep func(time.Duration)
}

// NewProvisioner cria um novo Provisioner.
func NewProvisioner(awsRepo repository.AWSRepository, console types.ConsoleInterface, config types.DeployConfig) *Provisioner {
	return &Provisioner{
		awsRepo: awsRepo,
		console: console,
		config:  config,
		sleep:   time.Sleep,
	}
}

// ProvisionInfra ensures cluster, log group, IAM roles and security group,
// in that order. Duplicate resources are logged as warnings and treated as
// success; any other control-plane error is fatal and aborts provisioning.
func (p *Provisioner) ProvisionInfra(ctx context.Context) (entity.ProvisionResult, error) {
	var result entity.ProvisionResult

	cluster, err := p.awsRepo.EnsureCluster(ctx, p.config.ClusterName())
	if err != nil {
		return result, fmt.Errorf("ensuring cluster %s: %w", p.config.ClusterName(), err)
	}
	result.Cluster = cluster
	p.logEnsure("Cluster", p.config.ClusterName(), cluster)

	logGroup, err := p.awsRepo.EnsureLogGroup(ctx, p.config.LogGroupName())
	if err != nil {
		return result, fmt.Errorf("ensuring log group %s: %w", p.config.LogGroupName(), err)
	}
	result.LogGroup = logGroup
	p.logEnsure("Log group", p.config.LogGroupName(), logGroup)

	execRole, err := p.ensureRole(ctx, "Execution role", entity.RoleSpec{
		Name:        p.config.ExecutionRoleName(),
		TrustPolicy: ecsTasksTrustPolicy,
		PolicyARNs: []string{
			"arn:aws:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy",
		},
	})
	if err != nil {
		return result, err
	}
	result.ExecutionRole = execRole

	taskRole, err := p.ensureRole(ctx, "Task role", entity.RoleSpec{
		Name:        p.config.TaskRoleName(),
		TrustPolicy: ecsTasksTrustPolicy,
		PolicyARNs: []string{
			"arn:aws:iam::aws:policy/CloudWatchLogsFullAccess",
		},
	})
	if err != nil {
		return result, err
	}
	result.TaskRole = taskRole

	// Role-to-service linkage in IAM is eventually consistent. A fixed wait
	// is imposed before any dependent resource references the new roles.
	// Latency budget, not a correctness guarantee.
	if result.RolesCreated() {
		p.console.LogInfo("Waiting %s for IAM role propagation...", p.config.IAMSettleDelay)
		p.sleep(p.config.IAMSettleDelay)
	}

	sg, err := p.EnsureSecurityGroup(ctx)
	if err != nil {
		return result, err
	}
	result.SecurityGroup = sg

	return result, nil
}

// EnsureSecurityGroup resolve o security group da implantação. Um grupo
// gerenciado pelo load balancer ({env}-{service}-task-sg) tem precedência e é
// reutilizado sem tocar nas regras; na ausência dele um grupo próprio da
// implantação é criado com uma regra de ingress para a porta do serviço.
func (p *Provisioner) EnsureSecurityGroup(ctx context.Context) (entity.SecurityGroupInfo, error) {
	albName := p.config.ALBSecurityGroupName()
	found, err := p.awsRepo.FindSecurityGroup(ctx, albName)
	if err != nil {
		return entity.SecurityGroupInfo{}, fmt.Errorf("looking up security group %s: %w", albName, err)
	}
	if found != nil {
		// Rules on the ALB-managed group are assumed correct already.
		found.Reused = true
		p.console.LogInfo("Reusing load balancer security group %s (%s)", found.Name, found.ID)
		return *found, nil
	}

	ownName := p.config.DeploySecurityGroupName()
	found, err = p.awsRepo.FindSecurityGroup(ctx, ownName)
	if err != nil {
		return entity.SecurityGroupInfo{}, fmt.Errorf("looking up security group %s: %w", ownName, err)
	}

	var sg entity.SecurityGroupInfo
	if found != nil {
		sg = *found
		p.console.LogWarning("Security group %s already exists (%s)", sg.Name, sg.ID)
	} else {
		sg, err = p.awsRepo.CreateSecurityGroup(ctx, ownName, fmt.Sprintf("ECS tasks for %s", p.config.ECSServiceName()))
		if err != nil {
			return entity.SecurityGroupInfo{}, fmt.Errorf("creating security group %s: %w", ownName, err)
		}
		p.console.LogSuccess("Security group %s created (%s)", sg.Name, sg.ID)
	}

	ingress, err := p.awsRepo.AuthorizeIngress(ctx, sg.ID, p.config.ContainerPort)
	if err != nil {
		return entity.SecurityGroupInfo{}, fmt.Errorf("authorizing ingress on %s: %w", sg.ID, err)
	}
	if ingress == entity.ResourceAlreadyExists {
		p.console.LogWarning("Ingress rule tcp/%d already present on %s", p.config.ContainerPort, sg.ID)
	}

	return sg, nil
}

// ensureRole garante um role IAM. Uma falha de attachment de policy depois
// do role já criado é rebaixada a warning: o role existe e é utilizável.
func (p *Provisioner) ensureRole(ctx context.Context, kind string, spec entity.RoleSpec) (entity.EnsureResult, error) {
	result, err := p.awsRepo.EnsureRole(ctx, spec)
	if err != nil {
		var attachErr *types.PolicyAttachmentError
		if errors.As(err, &attachErr) {
			p.console.LogWarning("%v", attachErr)
		} else {
			return result, fmt.Errorf("ensuring role %s: %w", spec.Name, err)
		}
	}
	p.logEnsure(kind, spec.Name, result)
	return result, nil
}

func (p *Provisioner) logEnsure(kind, name string, result entity.EnsureResult) {
	if result == entity.ResourceAlreadyExists {
		p.console.LogWarning("%s %s already exists, continuing", kind, name)
		return
	}
	p.console.LogSuccess("%s %s created", kind, name)
}
