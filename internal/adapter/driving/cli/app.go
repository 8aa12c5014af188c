package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	appconfig "github.com/billqhan/rfp-deploy/internal/adapter/driven/config"
	"github.com/billqhan/rfp-deploy/internal/application/usecase"
	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
	"github.com/billqhan/rfp-deploy/pkg/version"
)

// ErrVerificationFailed sinaliza um veredito Failing para o processo sair
// com código diferente de zero.
var ErrVerificationFailed = errors.New("deployment verification failed")

// RepositoryFactory constrói os repositórios ligados à AWS para a região
// resolvida em tempo de execução.
type RepositoryFactory func(ctx context.Context, region string) (repository.AWSRepository, repository.ArtifactRepository, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	console    types.ConsoleInterface
	configRepo repository.ConfigRepository
	exportRepo repository.ExportRepository
	newRepos   RepositoryFactory
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(
	console types.ConsoleInterface,
	configRepo repository.ConfigRepository,
	exportRepo repository.ExportRepository,
	newRepos RepositoryFactory,
) *CLIApp {
	app := &CLIApp{
		console:    console,
		configRepo: configRepo,
		exportRepo: exportRepo,
		newRepos:   newRepos,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "rfp-deploy",
		Short:   "Provision and verify the RFP API deployment on ECS",
		Version: formattedVersion,
	}
	rootCmd.SetVersionTemplate(`{{printf "rfp-deploy version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("env", "e", "", "Environment prefix for all derived resource names (default from ENV_PREFIX or 'dev')")
	rootCmd.PersistentFlags().StringP("region", "r", "", "AWS region (default from AWS_REGION or 'us-east-1')")

	rootCmd.AddCommand(app.newCheckCmd())
	rootCmd.AddCommand(app.newProvisionCmd())
	rootCmd.AddCommand(app.newDeployCmd())
	rootCmd.AddCommand(app.newVerifyCmd())

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// resolveConfig monta o DeployConfig final: defaults, ambiente, arquivo de
// configuração e por fim as flags de linha de comando.
func (app *CLIApp) resolveConfig(cmd *cobra.Command) (types.DeployConfig, error) {
	config := appconfig.FromEnv()

	if path, _ := cmd.Flags().GetString("config-file"); path != "" {
		fileConfig, err := app.configRepo.LoadConfigFile(path)
		if err != nil {
			return config, err
		}
		config = appconfig.Merge(config, fileConfig)
	}

	if env, _ := cmd.Flags().GetString("env"); env != "" {
		config.Env = env
	}
	if region, _ := cmd.Flags().GetString("region"); region != "" {
		config.Region = region
	}

	return config, nil
}

func (app *CLIApp) newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check local prerequisites and AWS credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.resolveConfig(cmd)
			if err != nil {
				return err
			}
			awsRepo, _, err := app.newRepos(cmd.Context(), config.Region)
			if err != nil {
				return err
			}

			preflight := usecase.NewPreflight(awsRepo, app.console, config)
			if !preflight.Run(cmd.Context()) {
				return fmt.Errorf("prerequisite check failed")
			}
			return nil
		},
	}
}

func (app *CLIApp) newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Ensure cluster, log group, IAM roles and security group exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.resolveConfig(cmd)
			if err != nil {
				return err
			}
			awsRepo, _, err := app.newRepos(cmd.Context(), config.Region)
			if err != nil {
				return err
			}

			provisioner := usecase.NewProvisioner(awsRepo, app.console, config)
			if _, err := provisioner.ProvisionInfra(cmd.Context()); err != nil {
				return err
			}
			app.console.LogSuccess("Infrastructure for %s is in place", config.ECSServiceName())
			return nil
		},
	}
}

func (app *CLIApp) newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Run the full deployment workflow (identity, templates, infra, service, artifacts)",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.resolveConfig(cmd)
			if err != nil {
				return err
			}
			awsRepo, artifactRepo, err := app.newRepos(cmd.Context(), config.Region)
			if err != nil {
				return err
			}

			displayWelcomeBanner()

			provisioner := usecase.NewProvisioner(awsRepo, app.console, config)
			deployer := usecase.NewDeployer(awsRepo, app.console, config)
			orchestrator := usecase.NewOrchestrator(awsRepo, artifactRepo, provisioner, deployer, app.console, config)

			return orchestrator.Run(cmd.Context())
		},
	}
}

func (app *CLIApp) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Take a single-pass snapshot of the deployed service and report its health",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.resolveConfig(cmd)
			if err != nil {
				return err
			}
			awsRepo, _, err := app.newRepos(cmd.Context(), config.Region)
			if err != nil {
				return err
			}

			prober := usecase.NewHTTPHealthProber(config.ProbeTimeout)
			verifier := usecase.NewVerifier(awsRepo, prober, app.console, config)

			snapshot, err := verifier.Verify(cmd.Context())
			if err != nil {
				return err
			}
			verifier.Report(snapshot)

			if err := app.exportSnapshot(cmd, snapshot); err != nil {
				return err
			}

			// Healthy and Degraded both exit zero: the service is reachable
			// or running even if health is not confirmed yet.
			if snapshot.Verdict == entity.VerdictFailing {
				return ErrVerificationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringP("report-name", "n", "", "Base name for the verification report file (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", nil, "Report types to export: csv, json, pdf")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	return cmd
}

// exportSnapshot exporta o snapshot nos formatos pedidos pelas flags.
func (app *CLIApp) exportSnapshot(cmd *cobra.Command, snapshot entity.DeploymentSnapshot) error {
	reportTypes, _ := cmd.Flags().GetStringSlice("report-type")
	if len(reportTypes) == 0 {
		return nil
	}

	name, _ := cmd.Flags().GetString("report-name")
	if name == "" {
		name = fmt.Sprintf("%s-verification", snapshot.Service)
	}
	dir, _ := cmd.Flags().GetString("dir")

	for _, reportType := range reportTypes {
		var path string
		var err error
		switch reportType {
		case "csv":
			path, err = app.exportRepo.ExportSnapshotToCSV(snapshot, name, dir)
		case "json":
			path, err = app.exportRepo.ExportSnapshotToJSON(snapshot, name, dir)
		case "pdf":
			path, err = app.exportRepo.ExportSnapshotToPDF(snapshot, name, dir)
		default:
			app.console.LogWarning("Unknown report type '%s', skipping", reportType)
			continue
		}
		if err != nil {
			return fmt.Errorf("exporting %s report: %w", reportType, err)
		}
		app.console.LogSuccess("Report saved to %s", path)
	}
	return nil
}
