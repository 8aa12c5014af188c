package usecase

import (
	"context"
	"os"

	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// Preflight valida os pré-requisitos locais e de credenciais antes de
// qualquer operação com efeito colateral.
type Preflight struct {
	awsRepo repository.AWSRepository
	console types.ConsoleInterface
	config  types.DeployConfig
}

// NewPreflight cria um novo Preflight.
func NewPreflight(awsRepo repository.AWSRepository, console types.ConsoleInterface, config types.DeployConfig) *Preflight {
	return &Preflight{
		awsRepo: awsRepo,
		console: console,
		config:  config,
	}
}

// Run checks credentials and the template directory, printing one row per
// check. It returns false when any hard prerequisite fails.
func (p *Preflight) Run(ctx context.Context) bool {
	table := p.console.CreateTable()
	table.AddColumn("Check")
	table.AddColumn("Result")

	ok := true

	accountID, err := p.awsRepo.GetAccountID(ctx)
	if err != nil {
		table.AddRow("AWS credentials", "FAIL: "+err.Error())
		ok = false
	} else {
		table.AddRow("AWS credentials", "OK (account "+accountID+")")
	}

	table.AddRow("Region", p.config.Region)
	table.AddRow("Environment", p.config.Env)

	if info, err := os.Stat(p.config.TemplateDir); err != nil || !info.IsDir() {
		table.AddRow("Template directory", "FAIL: "+p.config.TemplateDir+" not found")
		ok = false
	} else {
		table.AddRow("Template directory", "OK ("+p.config.TemplateDir+")")
	}

	p.console.Println(table.Render())

	if ok {
		p.console.LogSuccess("All prerequisites satisfied")
	} else {
		p.console.LogError("Prerequisite check failed")
	}
	return ok
}
