package main

import (
	"context"
	"fmt"
	"os"

	"github.com/billqhan/rfp-deploy/internal/adapter/driven/artifact"
	"github.com/billqhan/rfp-deploy/internal/adapter/driven/aws"
	"github.com/billqhan/rfp-deploy/internal/adapter/driven/config"
	"github.com/billqhan/rfp-deploy/internal/adapter/driven/export"
	"github.com/billqhan/rfp-deploy/internal/adapter/driving/cli"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/pkg/console"
)

func main() {
	consoleImpl := console.NewConsole()
	configRepo := config.NewConfigRepository()
	exportRepo := export.NewExportRepository()

	// Os repositórios ligados à AWS só são construídos depois que a região
	// final é conhecida (flags e arquivo de configuração já resolvidos).
	newRepos := func(ctx context.Context, region string) (repository.AWSRepository, repository.ArtifactRepository, error) {
		clients, err := aws.NewClients(ctx, region)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load AWS config for region %s: %w", region, err)
		}
		awsRepo := aws.NewAWSRepositoryWithClients(clients, region)
		artifactRepo := artifact.NewS3ArtifactRepository(clients.S3)
		return awsRepo, artifactRepo, nil
	}

	app := cli.NewCLIApp(consoleImpl, configRepo, exportRepo, newRepos)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
