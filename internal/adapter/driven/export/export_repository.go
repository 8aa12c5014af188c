package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/billqhan/rfp-deploy/internal/domain/entity"
	"github.com/billqhan/rfp-deploy/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

func (r *ExportRepositoryImpl) ExportSnapshotToCSV(snapshot entity.DeploymentSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{
		"Environment", "Cluster", "Service", "Status", "Running", "Desired",
		"Task Definition", "Task Status", "Health", "Image", "Public IP",
		"Probe", "Verdict", "Verified At",
	})
	writer.Write([]string{
		snapshot.Environment,
		snapshot.Cluster,
		snapshot.Service,
		snapshot.ServiceStatus,
		fmt.Sprintf("%d", snapshot.RunningCount),
		fmt.Sprintf("%d", snapshot.DesiredCount),
		snapshot.TaskDefinition,
		snapshot.TaskStatus,
		snapshot.HealthStatus,
		snapshot.Image,
		snapshot.PublicIP,
		string(snapshot.Probe),
		string(snapshot.Verdict),
		snapshot.VerifiedAt.Format(time.RFC3339),
	})

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSnapshotToJSON(snapshot entity.DeploymentSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSnapshotToPDF(snapshot entity.DeploymentSnapshot, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(40, 40, 40)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Deployment Verification - %s", snapshot.Service)))
	pdf.Ln(12)

	rows := [][2]string{
		{"Environment", snapshot.Environment},
		{"Cluster", snapshot.Cluster},
		{"Service status", snapshot.ServiceStatus},
		{"Running / Desired", fmt.Sprintf("%d / %d", snapshot.RunningCount, snapshot.DesiredCount)},
		{"Task definition", snapshot.TaskDefinition},
		{"Task status", snapshot.TaskStatus},
		{"Task health", snapshot.HealthStatus},
		{"Image", snapshot.Image},
		{"Public IP", snapshot.PublicIP},
		{"Health probe", string(snapshot.Probe)},
		{"Verdict", string(snapshot.Verdict)},
		{"Verified at", snapshot.VerifiedAt.Format(time.RFC3339)},
	}

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(50, 7, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(130, 7, tr(row[1]), "1", 1, "L", false, 0, "")
	}

	if len(snapshot.Events) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Recent service events")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, event := range snapshot.Events {
			pdf.MultiCell(180, 5, tr(fmt.Sprintf("[%s] %s", event.CreatedAt.Format(time.RFC3339), event.Message)), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
