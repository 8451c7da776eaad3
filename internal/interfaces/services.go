package interfaces

import (
	"context"

	"github.com/bobmcallan/finsim/internal/models"
)

// ReportService renders, archives and delivers calculation reports
type ReportService interface {
	// BuildGrowthReport runs an investment plan and archives its PDF and CSV
	BuildGrowthReport(ctx context.Context, plan models.GrowthPlan, opts models.ReportOptions) (*models.Report, error)

	// BuildBondReport values a bond and archives its PDF and CSV
	BuildBondReport(ctx context.Context, params models.BondParams, opts models.ReportOptions) (*models.Report, error)

	// GetReport retrieves an archived report
	GetReport(ctx context.Context, id string) (*models.Report, error)

	// GetArtifact retrieves the PDF or CSV of an archived report
	GetArtifact(ctx context.Context, id string, artifact models.Artifact) ([]byte, error)

	// ListReports returns all archived reports, oldest first
	ListReports(ctx context.Context) ([]*models.Report, error)

	// EmailReport sends an archived report's PDF to the recipient
	EmailReport(ctx context.Context, id string, to models.Recipient) (*models.DeliveryResult, error)

	// PurgeExpired removes reports older than the retention period
	PurgeExpired(ctx context.Context) (int, error)
}
