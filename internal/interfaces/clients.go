// Package interfaces defines service contracts for finsim
package interfaces

import (
	"context"

	"github.com/bobmcallan/finsim/internal/models"
)

// Summarizer writes a narrative analysis of a calculation
type Summarizer interface {
	// Summarize returns an analysis of the labelled metrics of one report
	Summarize(ctx context.Context, kind models.ReportKind, metrics []models.Metric) (string, error)
}

// Mailer delivers rendered reports
type Mailer interface {
	// Send e-mails a report with its PDF attached. A non-nil result with
	// Delivered false describes a delivery the server refused.
	Send(ctx context.Context, email *models.ReportEmail) (*models.DeliveryResult, error)
}
