package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// recentEventCount limita quantos eventos do serviço entram no snapshot.
const recentEventCount = 5

// recentLogCount limits how many recent log lines are fetched for diagnostics.
const recentLogCount = 20

// HealthProber issues the bounded HTTP probe against the service's health
// endpoint. Injected so the verifier is testable without a listening service.
type HealthProber interface {
	Probe(ctx context.Context, url string) (entity.ProbeStatus, error)
}

// Verifier produz um snapshot de passada única de um serviço já implantado.
// Não há retries internos: repetir a verificação é responsabilidade de quem
// chama, o que é seguro porque nada aqui tem efeito colateral.
type Verifier struct {
	awsRepo repository.AWSRepository
	prober  HealthProber
	console types.ConsoleInterface
	config  types.DeployConfig
}

// NewVerifier cria um novo Verifier.
func NewVerifier(awsRepo repository.AWSRepository, prober HealthProber, console types.ConsoleInterface, config types.DeployConfig) *Verifier {
	return &Verifier{
		awsRepo: awsRepo,
		prober:  prober,
		console: console,
		config:  config,
	}
}

// Verify snapshots the deployment: service state, newest task, network
// identity, health probe and recent logs, then aggregates the verdict.
// A returned error means the snapshot itself could not be taken; a Failing
// verdict is reported through the snapshot, not as an error.
func (v *Verifier) Verify(ctx context.Context) (entity.DeploymentSnapshot, error) {
	snapshot := entity.DeploymentSnapshot{
		Environment: v.config.Env,
		Cluster:     v.config.ClusterName(),
		Service:     v.config.ECSServiceName(),
		Probe:       entity.ProbeSkipped,
		VerifiedAt:  time.Now().UTC(),
	}

	state, err := v.awsRepo.DescribeService(ctx, snapshot.Cluster, snapshot.Service)
	if err != nil {
		return snapshot, fmt.Errorf("describing service %s: %w", snapshot.Service, err)
	}
	snapshot.ServiceStatus = state.Status
	snapshot.RunningCount = state.RunningCount
	snapshot.DesiredCount = state.DesiredCount
	snapshot.TaskDefinition = state.TaskDefinition
	if len(state.Events) > recentEventCount {
		snapshot.Events = state.Events[:recentEventCount]
	} else {
		snapshot.Events = state.Events
	}

	taskARNs, err := v.awsRepo.ListServiceTasks(ctx, snapshot.Cluster, snapshot.Service)
	if err != nil {
		return snapshot, fmt.Errorf("listing tasks for %s: %w", snapshot.Service, err)
	}
	if len(taskARNs) == 0 {
		v.console.LogError("No running tasks found for service %s", snapshot.Service)
		snapshot.TaskStatus = "NONE"
		snapshot.HealthStatus = "UNKNOWN"
		snapshot.Verdict = entity.VerdictFailing
		return snapshot, nil
	}

	task, err := v.awsRepo.DescribeTask(ctx, snapshot.Cluster, taskARNs[0])
	if err != nil {
		return snapshot, fmt.Errorf("describing task %s: %w", taskARNs[0], err)
	}
	snapshot.TaskStatus = task.LastStatus
	snapshot.HealthStatus = task.HealthStatus
	snapshot.Image = task.Image
	snapshot.StartedAt = task.StartedAt

	if task.ENIID != "" {
		ip, err := v.awsRepo.ResolvePublicIP(ctx, task.ENIID)
		if err != nil {
			// Diagnostic only; the verdict does not depend on the probe.
			v.console.LogWarning("Could not resolve public IP for %s: %v", task.ENIID, err)
		}
		snapshot.PublicIP = ip
	}

	if snapshot.PublicIP != "" {
		url := fmt.Sprintf("http://%s:%d%s", snapshot.PublicIP, v.config.ContainerPort, v.config.HealthPath)
		probe, err := v.prober.Probe(ctx, url)
		if err != nil {
			v.console.LogWarning("Health endpoint unreachable (%v); the service may still be starting", err)
		}
		snapshot.Probe = probe
	}

	logs, err := v.awsRepo.FetchRecentLogs(ctx, v.config.LogGroupName(), recentLogCount)
	if err != nil {
		v.console.LogWarning("Could not fetch recent logs from %s: %v", v.config.LogGroupName(), err)
	} else {
		snapshot.RecentLogs = logs
	}

	snapshot.Verdict = ComputeVerdict(snapshot.ServiceStatus, snapshot.RunningCount, snapshot.DesiredCount, snapshot.HealthStatus)
	return snapshot, nil
}

// ComputeVerdict agrega o veredito de saúde. É uma função total:
//   - Healthy:  ACTIVE, counts iguais e task HEALTHY
//   - Degraded: ACTIVE, counts iguais, saúde desconhecida ou ruim
//   - Failing:  qualquer outro caso
func ComputeVerdict(status string, running, desired int32, health string) entity.Verdict {
	if status != "ACTIVE" || running != desired {
		return entity.VerdictFailing
	}
	if health == "HEALTHY" {
		return entity.VerdictHealthy
	}
	return entity.VerdictDegraded
}

// Report imprime o snapshot em forma de tabela junto com eventos e logs
// recentes do serviço.
func (v *Verifier) Report(snapshot entity.DeploymentSnapshot) {
	table := v.console.CreateTable()
	table.AddColumn("Field")
	table.AddColumn("Value")
	table.AddRow("Service", snapshot.Service)
	table.AddRow("Status", snapshot.ServiceStatus)
	table.AddRow("Running/Desired", fmt.Sprintf("%d/%d", snapshot.RunningCount, snapshot.DesiredCount))
	table.AddRow("Task definition", snapshot.TaskDefinition)
	table.AddRow("Task status", snapshot.TaskStatus)
	table.AddRow("Task health", snapshot.HealthStatus)
	table.AddRow("Image", snapshot.Image)
	table.AddRow("Public IP", snapshot.PublicIP)
	table.AddRow("Health probe", string(snapshot.Probe))
	table.AddRow("Verdict", string(snapshot.Verdict))
	v.console.Println(table.Render())

	for _, event := range snapshot.Events {
		v.console.Printf("  [%s] %s\n", event.CreatedAt.Format(time.RFC3339), event.Message)
	}
	if len(snapshot.RecentLogs) > 0 {
		v.console.LogInfo("Recent application logs:")
		for _, line := range snapshot.RecentLogs {
			v.console.Println("   ", line)
		}
	}

	switch snapshot.Verdict {
	case entity.VerdictHealthy:
		v.console.LogSuccess("Deployment is healthy")
	case entity.VerdictDegraded:
		v.console.LogWarning("Deployment is running but health is not confirmed yet")
	default:
		v.console.LogError("Deployment is failing")
	}
}
