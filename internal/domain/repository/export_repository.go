package repository

import (
	"github.com/billqhan/rfp-deploy/internal/domain/entity"
)

type ExportRepository interface {
	ExportSnapshotToCSV(snapshot entity.DeploymentSnapshot, filename string, outputDir string) (string, error)
	ExportSnapshotToJSON(snapshot entity.DeploymentSnapshot, filename string, outputDir string) (string, error)
	ExportSnapshotToPDF(snapshot entity.DeploymentSnapshot, filename string, outputDir string) (string, error)
}
