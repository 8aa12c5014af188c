package repository

import (
	"github.com/billqhan/rfp-deploy/internal/shared/types"
)

// ConfigRepository defines the interface for loading configuration files.
type ConfigRepository interface {
	LoadConfigFile(filePath string) (*types.FileConfig, error)
}
