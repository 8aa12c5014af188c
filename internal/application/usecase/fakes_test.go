package usecase

import (
	"context"
	"fmt"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// fakeAWSRepo é uma implementação em memória do AWSRepository para os testes
// de caso de uso. O estado começa vazio e é mutado pelas operações de ensure,
// o que permite verificar idempotência invocando duas vezes.
type fakeAWSRepo struct {
	accountID string

	clusters  map[string]bool
	logGroups map[string]bool
	roles     map[string][]string // name -> attached policy ARNs

	securityGroups map[string]entity.SecurityGroupInfo // by name
	ingressRules   map[string][]int32                  // group id -> ports
	nextSGID       int

	targetGroupARN string

	registeredTaskDefs []entity.TaskDefinitionTemplate
	services           map[string]entity.ServiceSpec

	serviceState entity.ServiceState
	taskARNs     []string
	taskState    entity.TaskState
	publicIP     string
	recentLogs   []string

	errOn map[string]error // operation name -> forced error
}

func newFakeAWSRepo() *fakeAWSRepo {
	return &fakeAWSRepo{
		accountID:      "123456789012",
		clusters:       map[string]bool{},
		logGroups:      map[string]bool{},
		roles:          map[string][]string{},
		securityGroups: map[string]entity.SecurityGroupInfo{},
		ingressRules:   map[string][]int32{},
		services:       map[string]entity.ServiceSpec{},
		errOn:          map[string]error{},
	}
}

func (f *fakeAWSRepo) GetAccountID(ctx context.Context) (string, error) {
	if err := f.errOn["GetAccountID"]; err != nil {
		return "", err
	}
	return f.accountID, nil
}

func (f *fakeAWSRepo) EnsureCluster(ctx context.Context, name string) (entity.EnsureResult, error) {
	if err := f.errOn["EnsureCluster"]; err != nil {
		return "", err
	}
	if f.clusters[name] {
		return entity.ResourceAlreadyExists, nil
	}
	f.clusters[name] = true
	return entity.ResourceCreated, nil
}

func (f *fakeAWSRepo) EnsureLogGroup(ctx context.Context, name string) (entity.EnsureResult, error) {
	if err := f.errOn["EnsureLogGroup"]; err != nil {
		return "", err
	}
	if f.logGroups[name] {
		return entity.ResourceAlreadyExists, nil
	}
	f.logGroups[name] = true
	return entity.ResourceCreated, nil
}

func (f *fakeAWSRepo) EnsureRole(ctx context.Context, spec entity.RoleSpec) (entity.EnsureResult, error) {
	if err := f.errOn["EnsureRole"]; err != nil {
		return "", err
	}
	if _, ok := f.roles[spec.Name]; ok {
		return entity.ResourceAlreadyExists, nil
	}
	f.roles[spec.Name] = spec.PolicyARNs
	return entity.ResourceCreated, nil
}

func (f *fakeAWSRepo) FindSecurityGroup(ctx context.Context, name string) (*entity.SecurityGroupInfo, error) {
	if err := f.errOn["FindSecurityGroup"]; err != nil {
		return nil, err
	}
	if sg, ok := f.securityGroups[name]; ok {
		found := sg
		return &found, nil
	}
	return nil, nil
}

func (f *fakeAWSRepo) CreateSecurityGroup(ctx context.Context, name, description string) (entity.SecurityGroupInfo, error) {
	if err := f.errOn["CreateSecurityGroup"]; err != nil {
		return entity.SecurityGroupInfo{}, err
	}
	f.nextSGID++
	sg := entity.SecurityGroupInfo{
		ID:    fmt.Sprintf("sg-%04d", f.nextSGID),
		Name:  name,
		VPCID: "vpc-0123",
	}
	f.securityGroups[name] = sg
	return sg, nil
}

func (f *fakeAWSRepo) AuthorizeIngress(ctx context.Context, groupID string, port int32) (entity.EnsureResult, error) {
	if err := f.errOn["AuthorizeIngress"]; err != nil {
		return "", err
	}
	for _, existing := range f.ingressRules[groupID] {
		if existing == port {
			return entity.ResourceAlreadyExists, nil
		}
	}
	f.ingressRules[groupID] = append(f.ingressRules[groupID], port)
	return entity.ResourceCreated, nil
}

func (f *fakeAWSRepo) DefaultNetwork(ctx context.Context) (string, []string, error) {
	if err := f.errOn["DefaultNetwork"]; err != nil {
		return "", nil, err
	}
	return "vpc-0123", []string{"subnet-a", "subnet-b"}, nil
}

func (f *fakeAWSRepo) FindTargetGroup(ctx context.Context, name string) (string, error) {
	if err := f.errOn["FindTargetGroup"]; err != nil {
		return "", err
	}
	return f.targetGroupARN, nil
}

func (f *fakeAWSRepo) RegisterTaskDefinition(ctx context.Context, tpl entity.TaskDefinitionTemplate) (string, error) {
	if err := f.errOn["RegisterTaskDefinition"]; err != nil {
		return "", err
	}
	f.registeredTaskDefs = append(f.registeredTaskDefs, tpl)
	return fmt.Sprintf("arn:aws:ecs:us-east-1:%s:task-definition/%s:%d", f.accountID, tpl.Family, len(f.registeredTaskDefs)), nil
}

func (f *fakeAWSRepo) CreateService(ctx context.Context, spec entity.ServiceSpec) (entity.EnsureResult, error) {
	if err := f.errOn["CreateService"]; err != nil {
		return "", err
	}
	if _, ok := f.services[spec.Name]; ok {
		return entity.ResourceAlreadyExists, nil
	}
	f.services[spec.Name] = spec
	return entity.ResourceCreated, nil
}

func (f *fakeAWSRepo) DescribeService(ctx context.Context, cluster, service string) (entity.ServiceState, error) {
	if err := f.errOn["DescribeService"]; err != nil {
		return entity.ServiceState{}, err
	}
	return f.serviceState, nil
}

func (f *fakeAWSRepo) ListServiceTasks(ctx context.Context, cluster, service string) ([]string, error) {
	if err := f.errOn["ListServiceTasks"]; err != nil {
		return nil, err
	}
	return f.taskARNs, nil
}

func (f *fakeAWSRepo) DescribeTask(ctx context.Context, cluster, taskARN string) (entity.TaskState, error) {
	if err := f.errOn["DescribeTask"]; err != nil {
		return entity.TaskState{}, err
	}
	return f.taskState, nil
}

func (f *fakeAWSRepo) ResolvePublicIP(ctx context.Context, eniID string) (string, error) {
	if err := f.errOn["ResolvePublicIP"]; err != nil {
		return "", err
	}
	return f.publicIP, nil
}

func (f *fakeAWSRepo) FetchRecentLogs(ctx context.Context, logGroup string, limit int32) ([]string, error) {
	if err := f.errOn["FetchRecentLogs"]; err != nil {
		return nil, err
	}
	return f.recentLogs, nil
}

// fakeConsole captura as mensagens logadas para inspeção nos testes.
type fakeConsole struct {
	infos     []string
	warnings  []string
	errors    []string
	successes []string
}

func (c *fakeConsole) Print(a ...interface{})                 {}
func (c *fakeConsole) Printf(format string, a ...interface{}) {}
func (c *fakeConsole) Println(a ...interface{})               {}

func (c *fakeConsole) LogInfo(format string, a ...interface{}) {
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogError(format string, a ...interface{}) {
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *fakeConsole) Status(message string) types.StatusHandle { return noopStatus{} }
func (c *fakeConsole) CreateTable() types.TableInterface        { return &fakeTable{} }

type noopStatus struct{}

func (noopStatus) Update(string) {}
func (noopStatus) Stop()         {}

type fakeTable struct {
	rows [][]string
}

func (t *fakeTable) AddColumn(name string, options ...interface{}) {}
func (t *fakeTable) AddRow(cells ...interface{}) {
	row := make([]string, len(cells))
	for i, cell := range cells {
		row[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, row)
}
func (t *fakeTable) Render() string { return "" }

// fakeProber devolve um resultado fixo de probe.
type fakeProber struct {
	status entity.ProbeStatus
	err    error
	urls   []string
}

func (p *fakeProber) Probe(ctx context.Context, url string) (entity.ProbeStatus, error) {
	p.urls = append(p.urls, url)
	return p.status, p.err
}
