package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// AWSRepositoryImpl implementa o AWSRepository sobre o SDK v2.
type AWSRepositoryImpl struct {
	clients *Clients
	region  string
}

// NewAWSRepository cria uma nova implementação do AWSRepository.
func NewAWSRepository(ctx context.Context, region string) (repository.AWSRepository, error) {
	clients, err := NewClients(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
	}
	return &AWSRepositoryImpl{clients: clients, region: region}, nil
}

// NewAWSRepositoryWithClients cria um repositório com clientes customizados.
func NewAWSRepositoryWithClients(clients *Clients, region string) repository.AWSRepository {
	return &AWSRepositoryImpl{clients: clients, region: region}
}

// GetAccountID resolve a identidade da conta do chamador.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	out, err := r.clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("getting caller identity: %w", err)
	}
	return aws.ToString(out.Account), nil
}

// EnsureCluster garante a existência do cluster ECS. DescribeClusters serve
// de verificação atômica de existência; só criamos quando ele não aparece
// como ACTIVE.
func (r *AWSRepositoryImpl) EnsureCluster(ctx context.Context, name string) (entity.EnsureResult, error) {
	desc, err := r.clients.ECS.DescribeClusters(ctx, &ecs.DescribeClustersInput{
		Clusters: []string{name},
	})
	if err != nil {
		return "", fmt.Errorf("describing cluster %s: %w", name, err)
	}
	for _, cluster := range desc.Clusters {
		if aws.ToString(cluster.Status) == "ACTIVE" {
			return entity.ResourceAlreadyExists, nil
		}
	}

	_, err = r.clients.ECS.CreateCluster(ctx, &ecs.CreateClusterInput{
		ClusterName: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("creating cluster %s: %w", name, err)
	}
	return entity.ResourceCreated, nil
}

// EnsureLogGroup garante a existência do log group. O CloudWatch não oferece
// criação condicional, então a criação é tentada e apenas a classe
// ResourceAlreadyExists é engolida.
func (r *AWSRepositoryImpl) EnsureLogGroup(ctx context.Context, name string) (entity.EnsureResult, error) {
	_, err := r.clients.Logs.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(name),
	})
	if err != nil {
		if IsLogGroupAlreadyExists(err) {
			return entity.ResourceAlreadyExists, nil
		}
		return "", fmt.Errorf("creating log group %s: %w", name, err)
	}
	return entity.ResourceCreated, nil
}

// EnsureRole garante o role IAM e anexa cada policy. A criação e cada
// attachment são idempotentes de forma independente; uma falha de attachment
// depois do role criado é devolvida como PolicyAttachmentError.
func (r *AWSRepositoryImpl) EnsureRole(ctx context.Context, spec entity.RoleSpec) (entity.EnsureResult, error) {
	result := entity.ResourceCreated
	_, err := r.clients.IAM.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 aws.String(spec.Name),
		AssumeRolePolicyDocument: aws.String(spec.TrustPolicy),
	})
	if err != nil {
		if !IsRoleAlreadyExists(err) {
			return "", fmt.Errorf("creating role %s: %w", spec.Name, err)
		}
		result = entity.ResourceAlreadyExists
	}

	// AttachRolePolicy is a no-op for an already attached policy, so the
	// whole loop is safe to repeat.
	for _, arn := range spec.PolicyARNs {
		_, err := r.clients.IAM.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  aws.String(spec.Name),
			PolicyArn: aws.String(arn),
		})
		if err != nil {
			return result, &types.PolicyAttachmentError{Role: spec.Name, PolicyARN: arn, Err: err}
		}
	}

	return result, nil
}

// FindSecurityGroup procura um security group pelo nome. Retorna nil quando
// não existe.
func (r *AWSRepositoryImpl) FindSecurityGroup(ctx context.Context, name string) (*entity.SecurityGroupInfo, error) {
	out, err := r.clients.EC2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("group-name"), Values: []string{name}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("describing security group %s: %w", name, err)
	}
	if len(out.SecurityGroups) == 0 {
		return nil, nil
	}

	sg := out.SecurityGroups[0]
	return &entity.SecurityGroupInfo{
		ID:    aws.ToString(sg.GroupId),
		Name:  aws.ToString(sg.GroupName),
		VPCID: aws.ToString(sg.VpcId),
	}, nil
}

// CreateSecurityGroup cria um security group no VPC padrão. Uma corrida com
// outra execução (InvalidGroup.Duplicate) é resolvida reconsultando o grupo.
func (r *AWSRepositoryImpl) CreateSecurityGroup(ctx context.Context, name, description string) (entity.SecurityGroupInfo, error) {
	vpcID, _, err := r.DefaultNetwork(ctx)
	if err != nil {
		return entity.SecurityGroupInfo{}, err
	}

	out, err := r.clients.EC2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:   aws.String(name),
		Description: aws.String(description),
		VpcId:       aws.String(vpcID),
	})
	if err != nil {
		if IsSecurityGroupDuplicate(err) {
			existing, findErr := r.FindSecurityGroup(ctx, name)
			if findErr == nil && existing != nil {
				return *existing, nil
			}
		}
		return entity.SecurityGroupInfo{}, fmt.Errorf("creating security group %s: %w", name, err)
	}

	return entity.SecurityGroupInfo{
		ID:    aws.ToString(out.GroupId),
		Name:  name,
		VPCID: vpcID,
	}, nil
}

// AuthorizeIngress adiciona a regra de ingress tcp/port a partir de qualquer
// origem; InvalidPermission.Duplicate é sucesso.
func (r *AWSRepositoryImpl) AuthorizeIngress(ctx context.Context, groupID string, port int32) (entity.EnsureResult, error) {
	_, err := r.clients.EC2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
		GroupId: aws.String(groupID),
		IpPermissions: []ec2types.IpPermission{
			{
				IpProtocol: aws.String("tcp"),
				FromPort:   aws.Int32(port),
				ToPort:     aws.Int32(port),
				IpRanges: []ec2types.IpRange{
					{CidrIp: aws.String("0.0.0.0/0")},
				},
			},
		},
	})
	if err != nil {
		if IsIngressRuleDuplicate(err) {
			return entity.ResourceAlreadyExists, nil
		}
		return "", fmt.Errorf("authorizing ingress tcp/%d on %s: %w", port, groupID, err)
	}
	return entity.ResourceCreated, nil
}

// DefaultNetwork descobre o VPC padrão da região e seus subnets.
func (r *AWSRepositoryImpl) DefaultNetwork(ctx context.Context) (string, []string, error) {
	vpcs, err := r.clients.EC2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("is-default"), Values: []string{"true"}},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("describing default VPC: %w", err)
	}
	if len(vpcs.Vpcs) == 0 {
		return "", nil, types.ErrNoDefaultVPC
	}
	vpcID := aws.ToString(vpcs.Vpcs[0].VpcId)

	subs, err := r.clients.EC2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("vpc-id"), Values: []string{vpcID}},
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("describing subnets for %s: %w", vpcID, err)
	}

	subnets := make([]string, 0, len(subs.Subnets))
	for _, subnet := range subs.Subnets {
		subnets = append(subnets, aws.ToString(subnet.SubnetId))
	}
	sort.Strings(subnets)
	return vpcID, subnets, nil
}

// FindTargetGroup procura o target group pelo nome; ausência não é erro e
// retorna ARN vazio.
func (r *AWSRepositoryImpl) FindTargetGroup(ctx context.Context, name string) (string, error) {
	out, err := r.clients.ELBv2.DescribeTargetGroups(ctx, &elasticloadbalancingv2.DescribeTargetGroupsInput{
		Names: []string{name},
	})
	if err != nil {
		if IsTargetGroupNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("describing target group %s: %w", name, err)
	}
	if len(out.TargetGroups) == 0 {
		return "", nil
	}
	return aws.ToString(out.TargetGroups[0].TargetGroupArn), nil
}

// RegisterTaskDefinition registra o template como uma nova revisão imutável.
func (r *AWSRepositoryImpl) RegisterTaskDefinition(ctx context.Context, tpl entity.TaskDefinitionTemplate) (string, error) {
	input := &ecs.RegisterTaskDefinitionInput{
		Family:               aws.String(tpl.Family),
		NetworkMode:          ecstypes.NetworkMode(tpl.NetworkMode),
		Cpu:                  aws.String(tpl.CPU),
		Memory:               aws.String(tpl.Memory),
		ContainerDefinitions: buildContainerDefinitions(tpl.ContainerDefinitions),
	}
	for _, compat := range tpl.RequiresCompatibilities {
		input.RequiresCompatibilities = append(input.RequiresCompatibilities, ecstypes.Compatibility(compat))
	}
	if tpl.ExecutionRoleArn != "" {
		input.ExecutionRoleArn = aws.String(tpl.ExecutionRoleArn)
	}
	if tpl.TaskRoleArn != "" {
		input.TaskRoleArn = aws.String(tpl.TaskRoleArn)
	}

	out, err := r.clients.ECS.RegisterTaskDefinition(ctx, input)
	if err != nil {
		return "", fmt.Errorf("registering task definition %s: %w", tpl.Family, err)
	}
	return aws.ToString(out.TaskDefinition.TaskDefinitionArn), nil
}

func buildContainerDefinitions(defs []entity.ContainerDefinition) []ecstypes.ContainerDefinition {
	out := make([]ecstypes.ContainerDefinition, 0, len(defs))
	for _, def := range defs {
		containerDef := ecstypes.ContainerDefinition{
			Name:      aws.String(def.Name),
			Image:     aws.String(def.Image),
			Essential: aws.Bool(def.Essential),
		}
		for _, pm := range def.PortMappings {
			containerDef.PortMappings = append(containerDef.PortMappings, ecstypes.PortMapping{
				ContainerPort: aws.Int32(pm.ContainerPort),
				Protocol:      ecstypes.TransportProtocol(pm.Protocol),
			})
		}
		for _, env := range def.Environment {
			containerDef.Environment = append(containerDef.Environment, ecstypes.KeyValuePair{
				Name:  aws.String(env.Name),
				Value: aws.String(env.Value),
			})
		}
		if def.LogConfiguration != nil {
			containerDef.LogConfiguration = &ecstypes.LogConfiguration{
				LogDriver: ecstypes.LogDriver(def.LogConfiguration.LogDriver),
				Options:   def.LogConfiguration.Options,
			}
		}
		out = append(out, containerDef)
	}
	return out
}

// CreateService cria o serviço ECS. Um serviço já ACTIVE é devolvido como
// ResourceAlreadyExists sem nenhuma tentativa de atualização.
func (r *AWSRepositoryImpl) CreateService(ctx context.Context, spec entity.ServiceSpec) (entity.EnsureResult, error) {
	desc, err := r.clients.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(spec.Cluster),
		Services: []string{spec.Name},
	})
	if err != nil {
		return "", fmt.Errorf("describing service %s: %w", spec.Name, err)
	}
	for _, svc := range desc.Services {
		if aws.ToString(svc.Status) == "ACTIVE" {
			return entity.ResourceAlreadyExists, nil
		}
	}

	assignIP := ecstypes.AssignPublicIpDisabled
	if spec.AssignPublicIP {
		assignIP = ecstypes.AssignPublicIpEnabled
	}

	input := &ecs.CreateServiceInput{
		ServiceName:    aws.String(spec.Name),
		Cluster:        aws.String(spec.Cluster),
		TaskDefinition: aws.String(spec.TaskDefinition),
		DesiredCount:   aws.Int32(spec.DesiredCount),
		LaunchType:     ecstypes.LaunchType(spec.LaunchType),
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        spec.Subnets,
				SecurityGroups: spec.SecurityGroups,
				AssignPublicIp: assignIP,
			},
		},
	}
	if spec.LoadBalancer != nil {
		input.LoadBalancers = []ecstypes.LoadBalancer{
			{
				TargetGroupArn: aws.String(spec.LoadBalancer.TargetGroupArn),
				ContainerName:  aws.String(spec.LoadBalancer.ContainerName),
				ContainerPort:  aws.Int32(spec.LoadBalancer.ContainerPort),
			},
		}
		input.HealthCheckGracePeriodSeconds = aws.Int32(int32(spec.HealthCheckGracePeriod.Seconds()))
	}

	_, err = r.clients.ECS.CreateService(ctx, input)
	if err != nil {
		return "", fmt.Errorf("creating service %s: %w", spec.Name, err)
	}
	return entity.ResourceCreated, nil
}

// DescribeService retorna o estado observado do serviço com seus eventos
// mais recentes.
func (r *AWSRepositoryImpl) DescribeService(ctx context.Context, cluster, service string) (entity.ServiceState, error) {
	out, err := r.clients.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(cluster),
		Services: []string{service},
	})
	if err != nil {
		return entity.ServiceState{}, fmt.Errorf("describing service %s: %w", service, err)
	}
	if len(out.Services) == 0 {
		return entity.ServiceState{}, fmt.Errorf("service %s not found in cluster %s", service, cluster)
	}

	svc := out.Services[0]
	state := entity.ServiceState{
		Status:         aws.ToString(svc.Status),
		RunningCount:   svc.RunningCount,
		DesiredCount:   svc.DesiredCount,
		TaskDefinition: aws.ToString(svc.TaskDefinition),
	}
	for _, event := range svc.Events {
		state.Events = append(state.Events, entity.ServiceEvent{
			CreatedAt: aws.ToTime(event.CreatedAt),
			Message:   aws.ToString(event.Message),
		})
	}
	return state, nil
}

// ListServiceTasks lista as tasks em execução do serviço.
func (r *AWSRepositoryImpl) ListServiceTasks(ctx context.Context, cluster, service string) ([]string, error) {
	out, err := r.clients.ECS.ListTasks(ctx, &ecs.ListTasksInput{
		Cluster:       aws.String(cluster),
		ServiceName:   aws.String(service),
		DesiredStatus: ecstypes.DesiredStatusRunning,
	})
	if err != nil {
		return nil, fmt.Errorf("listing tasks for %s: %w", service, err)
	}
	return out.TaskArns, nil
}

// DescribeTask descreve uma task e extrai o ENI do attachment de rede.
func (r *AWSRepositoryImpl) DescribeTask(ctx context.Context, cluster, taskARN string) (entity.TaskState, error) {
	out, err := r.clients.ECS.DescribeTasks(ctx, &ecs.DescribeTasksInput{
		Cluster: aws.String(cluster),
		Tasks:   []string{taskARN},
	})
	if err != nil {
		return entity.TaskState{}, fmt.Errorf("describing task %s: %w", taskARN, err)
	}
	if len(out.Tasks) == 0 {
		return entity.TaskState{}, fmt.Errorf("task %s not found", taskARN)
	}

	task := out.Tasks[0]
	state := entity.TaskState{
		ARN:          aws.ToString(task.TaskArn),
		LastStatus:   aws.ToString(task.LastStatus),
		HealthStatus: string(task.HealthStatus),
		StartedAt:    aws.ToTime(task.StartedAt),
		ENIID:        extractENIID(task),
	}
	if len(task.Containers) > 0 {
		state.Image = aws.ToString(task.Containers[0].Image)
	}
	return state, nil
}

// extractENIID extrai o id da interface de rede do attachment da task.
func extractENIID(task ecstypes.Task) string {
	for _, attachment := range task.Attachments {
		if aws.ToString(attachment.Type) != "ElasticNetworkInterface" {
			continue
		}
		for _, detail := range attachment.Details {
			if aws.ToString(detail.Name) == "networkInterfaceId" {
				return aws.ToString(detail.Value)
			}
		}
	}
	return ""
}

// ResolvePublicIP resolve o endereço público associado a um ENI, quando
// existir.
func (r *AWSRepositoryImpl) ResolvePublicIP(ctx context.Context, eniID string) (string, error) {
	out, err := r.clients.EC2.DescribeNetworkInterfaces(ctx, &ec2.DescribeNetworkInterfacesInput{
		NetworkInterfaceIds: []string{eniID},
	})
	if err != nil {
		return "", fmt.Errorf("describing network interface %s: %w", eniID, err)
	}
	if len(out.NetworkInterfaces) == 0 || out.NetworkInterfaces[0].Association == nil {
		return "", nil
	}
	return aws.ToString(out.NetworkInterfaces[0].Association.PublicIp), nil
}

// FetchRecentLogs busca as últimas linhas do stream mais recente do log
// group. Uso exclusivamente diagnóstico.
func (r *AWSRepositoryImpl) FetchRecentLogs(ctx context.Context, logGroup string, limit int32) ([]string, error) {
	streams, err := r.clients.Logs.DescribeLogStreams(ctx, &cloudwatchlogs.DescribeLogStreamsInput{
		LogGroupName: aws.String(logGroup),
		OrderBy:      "LastEventTime",
		Descending:   aws.Bool(true),
		Limit:        aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("describing log streams for %s: %w", logGroup, err)
	}
	if len(streams.LogStreams) == 0 {
		return nil, nil
	}

	events, err := r.clients.Logs.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  aws.String(logGroup),
		LogStreamName: streams.LogStreams[0].LogStreamName,
		Limit:         aws.Int32(limit),
		StartFromHead: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("getting log events from %s: %w", logGroup, err)
	}

	lines := make([]string, 0, len(events.Events))
	for _, event := range events.Events {
		lines = append(lines, aws.ToString(event.Message))
	}
	return lines, nil
}
