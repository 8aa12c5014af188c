package usecase

import (
	"context"
	"fmt"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// Deployer registra a task definition e cria o serviço ECS, escolhendo entre
// a variante com load balancer e a standalone conforme os recursos opcionais
// descobertos.
type Deployer struct {
	awsRepo repository.AWSRepository
	console types.ConsoleInterface
	config  types.DeployConfig
}

// NewDeployer cria um novo Deployer.
func NewDeployer(awsRepo repository.AWSRepository, console types.ConsoleInterface, config types.DeployConfig) *Deployer {
	return &Deployer{
		awsRepo: awsRepo,
		console: console,
		config:  config,
	}
}

// Deploy registers the task definition template and creates the service.
// Registration failure is fatal: there is no fallback for a missing or
// invalid task definition. Service creation on an existing service is a
// logged no-op, not an update.
func (d *Deployer) Deploy(ctx context.Context, tpl entity.TaskDefinitionTemplate, securityGroup *entity.SecurityGroupInfo) (entity.EnsureResult, error) {
	taskDefARN, err := d.awsRepo.RegisterTaskDefinition(ctx, tpl)
	if err != nil {
		return "", fmt.Errorf("registering task definition %s: %w", tpl.Family, err)
	}
	d.console.LogSuccess("Task definition registered: %s", taskDefARN)

	tgARN, err := d.awsRepo.FindTargetGroup(ctx, d.config.TargetGroupName())
	if err != nil {
		return "", fmt.Errorf("looking up target group %s: %w", d.config.TargetGroupName(), err)
	}
	if tgARN == "" {
		d.console.LogInfo("Target group %s not found, creating standalone service", d.config.TargetGroupName())
	} else {
		d.console.LogInfo("Target group %s found, creating load-balanced service", d.config.TargetGroupName())
	}

	sgID, err := d.resolveSecurityGroup(ctx, securityGroup)
	if err != nil {
		return "", err
	}

	subnets := d.config.Subnets
	if len(subnets) == 0 {
		_, subnets, err = d.awsRepo.DefaultNetwork(ctx)
		if err != nil {
			return "", fmt.Errorf("discovering default subnets: %w", err)
		}
	}

	spec := BuildServiceSpec(d.config, taskDefARN, tgARN, subnets, []string{sgID})

	result, err := d.awsRepo.CreateService(ctx, spec)
	if err != nil {
		return "", fmt.Errorf("creating service %s: %w", spec.Name, err)
	}
	if result == entity.ResourceAlreadyExists {
		// Create-or-ignore: an existing service is not diffed or updated.
		d.console.LogWarning("Service %s already exists, leaving it untouched", spec.Name)
	} else {
		d.console.LogSuccess("Service %s created", spec.Name)
	}

	return result, nil
}

// resolveSecurityGroup usa o grupo repassado pelo Provisioner quando houver;
// caso contrário redescobre pelo nome, na mesma ordem de precedência.
func (d *Deployer) resolveSecurityGroup(ctx context.Context, provided *entity.SecurityGroupInfo) (string, error) {
	if provided != nil && provided.ID != "" {
		return provided.ID, nil
	}

	for _, name := range []string{d.config.ALBSecurityGroupName(), d.config.DeploySecurityGroupName()} {
		found, err := d.awsRepo.FindSecurityGroup(ctx, name)
		if err != nil {
			return "", fmt.Errorf("looking up security group %s: %w", name, err)
		}
		if found != nil {
			return found.ID, nil
		}
	}
	return "", fmt.Errorf("no security group found for %s; run provisioning first", d.config.ECSServiceName())
}

// BuildServiceSpec monta a especificação do serviço. É uma função pura da
// presença do target group: presença implica binding de load balancer e
// health-check grace period; ausência implica nenhum dos dois.
func BuildServiceSpec(config types.DeployConfig, taskDefARN, targetGroupARN string, subnets, securityGroups []string) entity.ServiceSpec {
	spec := entity.ServiceSpec{
		Name:           config.ECSServiceName(),
		Cluster:        config.ClusterName(),
		TaskDefinition: taskDefARN,
		DesiredCount:   config.DesiredCount,
		LaunchType:     "FARGATE",
		Subnets:        subnets,
		SecurityGroups: securityGroups,
		AssignPublicIP: true,
	}

	if targetGroupARN != "" {
		spec.LoadBalancer = &entity.LoadBalancerBinding{
			TargetGroupArn: targetGroupARN,
			ContainerName:  config.ContainerName(),
			ContainerPort:  config.ContainerPort,
		}
		spec.HealthCheckGracePeriod = config.HealthGracePeriod
	}

	return spec
}
