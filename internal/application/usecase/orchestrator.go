package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// Orchestrator sequencia o workflow completo de deployment: identidade,
// templates, infraestrutura, serviço e artefatos. Cada etapa opcional é
// isolada pela sua flag; apenas a resolução de identidade e o registro da
// task definition abortam a execução inteira.
type Orchestrator struct {
	awsRepo      repository.AWSRepository
	artifactRepo repository.ArtifactRepository
	provisioner  *Provisioner
	deployer     *Deployer
	console      types.ConsoleInterface
	config       types.DeployConfig
}

// NewOrchestrator cria um novo Orchestrator.
func NewOrchestrator(
	awsRepo repository.AWSRepository,
	artifactRepo repository.ArtifactRepository,
	provisioner *Provisioner,
	deployer *Deployer,
	console types.ConsoleInterface,
	config types.DeployConfig,
) *Orchestrator {
	return &Orchestrator{
		awsRepo:      awsRepo,
		artifactRepo: artifactRepo,
		provisioner:  provisioner,
		deployer:     deployer,
		console:      console,
		config:       config,
	}
}

// Run executes the deployment workflow end to end. Steps run strictly in
// sequence; ordering between them is achieved by sequential execution alone.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Account identity is a hard prerequisite for everything downstream.
	accountID, err := o.awsRepo.GetAccountID(ctx)
	if err != nil {
		return fmt.Errorf("resolving account identity: %w", err)
	}
	o.console.LogInfo("Deploying to account %s, environment %s", accountID, o.config.Env)

	templates, err := ResolveAccountID(o.config.TemplateDir, accountID)
	if err != nil {
		return fmt.Errorf("resolving task definition templates: %w", err)
	}
	sort.Strings(templates)

	var securityGroup *entity.SecurityGroupInfo
	if o.config.CreateInfra {
		result, err := o.provisioner.ProvisionInfra(ctx)
		if err != nil {
			// Infra provisioning is independently gated; a failure here
			// must not abort the service deploy, which can still succeed
			// against previously provisioned resources.
			o.console.LogError("Infrastructure provisioning failed: %v", err)
		} else if result.SecurityGroup.ID != "" {
			sg := result.SecurityGroup
			securityGroup = &sg
		}
	} else {
		o.console.LogInfo("Skipping infrastructure provisioning (CREATE_INFRA not set)")
	}

	tpl, err := LoadTemplate(templates[0])
	if err != nil {
		return err
	}

	if _, err := o.deployer.Deploy(ctx, tpl, securityGroup); err != nil {
		return err
	}

	if o.config.AutoCommit {
		if err := o.commitArtifacts(ctx, templates); err != nil {
			o.console.LogError("Artifact commit failed: %v", err)
		}
	} else {
		o.console.LogInfo("Skipping artifact commit (AUTO_COMMIT not set)")
	}

	return nil
}

// commitArtifacts envia os templates resolvidos para o bucket de artefatos.
func (o *Orchestrator) commitArtifacts(ctx context.Context, paths []string) error {
	if o.config.ArtifactBucket == "" {
		return types.ErrNoArtifactBucket
	}

	for _, path := range paths {
		key := fmt.Sprintf("taskdef/%s/%s", o.config.Env, filepath.Base(path))
		if err := o.artifactRepo.UploadFile(ctx, o.config.ArtifactBucket, key, path); err != nil {
			return fmt.Errorf("uploading %s: %w", path, err)
		}
		o.console.LogInfo("Artifact uploaded to s3://%s/%s", o.config.ArtifactBucket, key)
	}
	return nil
}
