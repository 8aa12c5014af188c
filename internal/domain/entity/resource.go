package entity

// EnsureResult indica o resultado de uma operação de provisionamento
// idempotente contra o control plane.
type EnsureResult string

const (
	ResourceCreated       EnsureResult = "created"
	ResourceAlreadyExists EnsureResult = "already_exists"
)

// RoleSpec describes an IAM role to ensure. Policy attachment order is
// irrelevant; each attachment is independently idempotent.
type RoleSpec struct {
	Name        string
	TrustPolicy string
	PolicyARNs  []string
}

// SecurityGroupInfo holds the handle of a discovered or created security
// group. Reused is true when the group was discovered under the
// load-balancer-managed naming convention and its rules were left untouched.
type SecurityGroupInfo struct {
	ID     string
	Name   string
	VPCID  string
	Reused bool
}

// ProvisionResult agrega os resultados de um ciclo completo de
// provisionamento, repassados do Provisioner para o Deployer.
type ProvisionResult struct {
	Cluster       EnsureResult
	LogGroup      EnsureResult
	ExecutionRole EnsureResult
	TaskRole      EnsureResult
	SecurityGroup SecurityGroupInfo
}

// RolesCreated reports whether any IAM role was newly created in this run.
// Only then does the settling delay apply.
func (p ProvisionResult) RolesCreated() bool {
	return p.ExecutionRole == ResourceCreated || p.TaskRole == ResourceCreated
}
