package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/billqhan/rfp-deploy/internal/shared/types"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct{}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.FileConfig, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.FileConfig

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// FromEnv monta o DeployConfig a partir das variáveis de ambiente
// reconhecidas, sobre os defaults. Nenhum outro componente toca o ambiente.
func FromEnv() types.DeployConfig {
	cfg := types.DefaultDeployConfig()

	if v := os.Getenv("ENV_PREFIX"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Region = v
	}
	cfg.CreateInfra = envBool("CREATE_INFRA")
	cfg.AutoCommit = envBool("AUTO_COMMIT")
	if v := os.Getenv("IAM_SETTLE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.IAMSettleDelay = d
		}
	}
	if v := os.Getenv("TASKDEF_TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := os.Getenv("ARTIFACT_BUCKET"); v != "" {
		cfg.ArtifactBucket = v
	}
	if v := os.Getenv("SUBNETS"); v != "" {
		cfg.Subnets = splitCSV(v)
	}

	return cfg
}

// Merge aplica os overrides de um arquivo de configuração sobre o config
// base, retornando um novo registro.
func Merge(base types.DeployConfig, file *types.FileConfig) types.DeployConfig {
	if file == nil {
		return base
	}

	if file.Env != "" {
		base.Env = file.Env
	}
	if file.Region != "" {
		base.Region = file.Region
	}
	if file.Service != "" {
		base.Service = file.Service
	}
	if file.CreateInfra != nil {
		base.CreateInfra = *file.CreateInfra
	}
	if file.AutoCommit != nil {
		base.AutoCommit = *file.AutoCommit
	}
	if file.DesiredCount > 0 {
		base.DesiredCount = file.DesiredCount
	}
	if file.SettleDelaySecs > 0 {
		base.IAMSettleDelay = time.Duration(file.SettleDelaySecs) * time.Second
	}
	if file.TemplateDir != "" {
		base.TemplateDir = file.TemplateDir
	}
	if len(file.Subnets) > 0 {
		base.Subnets = file.Subnets
	}
	if file.ArtifactBucket != "" {
		base.ArtifactBucket = file.ArtifactBucket
	}

	return base
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
