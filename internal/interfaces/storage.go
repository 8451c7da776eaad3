package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/finsim/internal/models"
)

// ReportStore archives rendered reports
type ReportStore interface {
	// Save stores a report document with its rendered files
	Save(ctx context.Context, report *models.Report, artifacts map[models.Artifact][]byte) error

	// Load retrieves a report document by id
	Load(ctx context.Context, id string) (*models.Report, error)

	// LoadArtifact retrieves one rendered file of a report
	LoadArtifact(ctx context.Context, id string, artifact models.Artifact) ([]byte, error)

	// List returns all archived reports, oldest first
	List(ctx context.Context) ([]*models.Report, error)

	// Delete removes a report and its files
	Delete(ctx context.Context, id string) error

	// Purge deletes reports created before cutoff
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}
