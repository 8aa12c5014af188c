package entity

import "time"

// Verdict é o veredito agregado de uma verificação de deployment.
type Verdict string

const (
	// VerdictHealthy: service active, counts match, task reports healthy.
	VerdictHealthy Verdict = "Healthy"
	// VerdictDegraded: service active and counts match but task health is
	// unknown or unhealthy. The service may still be starting.
	VerdictDegraded Verdict = "Degraded"
	// VerdictFailing: anything else, including no running tasks.
	VerdictFailing Verdict = "Failing"
)

// ProbeStatus is the outcome of the HTTP health endpoint probe.
type ProbeStatus string

const (
	ProbeUp          ProbeStatus = "UP"
	ProbeDown        ProbeStatus = "DOWN"
	ProbeUnreachable ProbeStatus = "UNREACHABLE"
	ProbeSkipped     ProbeStatus = "SKIPPED"
)

// DeploymentSnapshot é o resumo efêmero produzido por uma única passada do
// verificador. Nunca é persistido; cada verificação recomputa tudo.
type DeploymentSnapshot struct {
	Environment    string         `json:"environment"`
	Cluster        string         `json:"cluster"`
	Service        string         `json:"service"`
	ServiceStatus  string         `json:"service_status"`
	RunningCount   int32          `json:"running_count"`
	DesiredCount   int32          `json:"desired_count"`
	TaskDefinition string         `json:"task_definition"`
	TaskStatus     string         `json:"task_status"`
	HealthStatus   string         `json:"health_status"`
	Image          string         `json:"image"`
	PublicIP       string         `json:"public_ip"`
	StartedAt      time.Time      `json:"started_at"`
	Probe          ProbeStatus    `json:"probe"`
	Verdict        Verdict        `json:"verdict"`
	Events         []ServiceEvent `json:"-"`
	RecentLogs     []string       `json:"-"`
	VerifiedAt     time.Time      `json:"verified_at"`
}
