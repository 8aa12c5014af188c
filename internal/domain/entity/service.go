package entity

import "time"

// ServiceSpec is the full specification of the ECS service to create.
// It is built by a pure function of the discovered optional resources so the
// load-balanced vs. standalone branch is testable without network calls.
type ServiceSpec struct {
	Name           string
	Cluster        string
	TaskDefinition string
	DesiredCount   int32
	LaunchType     string
	Subnets        []string
	SecurityGroups []string
	AssignPublicIP bool

	// LoadBalancer is nil for the standalone variant.
	LoadBalancer *LoadBalancerBinding
	// HealthCheckGracePeriod is only set for the load-balanced variant.
	HealthCheckGracePeriod time.Duration
}

// LoadBalancerBinding liga o serviço a um target group existente.
type LoadBalancerBinding struct {
	TargetGroupArn string
	ContainerName  string
	ContainerPort  int32
}

// ServiceState é o estado observado de um serviço ECS já criado.
type ServiceState struct {
	Status         string
	RunningCount   int32
	DesiredCount   int32
	TaskDefinition string
	Events         []ServiceEvent
}

// ServiceEvent is a single status-change event reported by the control
// plane, surfaced for diagnostics only.
type ServiceEvent struct {
	CreatedAt time.Time
	Message   string
}

// TaskState is the observed state of a single running task.
type TaskState struct {
	ARN          string
	LastStatus   string
	HealthStatus string
	Image        string
	ENIID        string
	StartedAt    time.Time
}
