// Package report renders, archives and delivers calculation reports
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
)

// Service implements ReportService
type Service struct {
	store      interfaces.ReportStore
	summarizer interfaces.Summarizer // optional
	mailer     interfaces.Mailer     // optional
	author     string
	retention  time.Duration
	logger     *common.Logger
	now        func() time.Time
}

// NewService creates a new report service. summarizer and mailer may be nil:
// analysis is then skipped and e-mail requests report non-delivery.
func NewService(
	store interfaces.ReportStore,
	summarizer interfaces.Summarizer,
	mailer interfaces.Mailer,
	cfg common.ReportsConfig,
	logger *common.Logger,
) *Service {
	return &Service{
		store:      store,
		summarizer: summarizer,
		mailer:     mailer,
		author:     cfg.Author,
		retention:  cfg.GetRetention(),
		logger:     logger,
		now:        time.Now,
	}
}

// BuildGrowthReport runs the plan, renders its PDF and CSV and archives both
func (s *Service) BuildGrowthReport(ctx context.Context, plan models.GrowthPlan, opts models.ReportOptions) (*models.Report, error) {
	res, err := growth.Run(plan)
	if err != nil {
		return nil, err
	}
	metrics := GrowthMetrics(res)

	var chartPNG []byte
	var analysis string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		png, err := RenderGrowthChart(res)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Growth chart skipped")
			return nil
		}
		chartPNG = png
		return nil
	})
	if opts.IncludeAnalysis {
		g.Go(func() error {
			analysis = s.summarize(gctx, models.ReportInvestment, metrics)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := s.now().UTC()
	pdf, err := RenderGrowthPDF(GrowthDocument{Result: res, Chart: chartPNG, Analysis: analysis}, s.meta(created))
	if err != nil {
		return nil, err
	}
	csv, err := GrowthCSV(res)
	if err != nil {
		return nil, err
	}

	return s.archive(ctx, models.ReportInvestment, created, metrics, analysis, pdf, csv)
}

// BuildBondReport values the bond with scenarios and a rate sweep, renders its
// PDF and CSV and archives both
func (s *Service) BuildBondReport(ctx context.Context, params models.BondParams, opts models.ReportOptions) (*models.Report, error) {
	v, err := bond.Value(params)
	if err != nil {
		return nil, err
	}
	scenarios, err := bond.Scenarios(params, nil, nil)
	if err != nil {
		return nil, err
	}
	points, err := bond.Sensitivity(params, bond.DefaultSweep())
	if err != nil {
		return nil, err
	}
	metrics := BondMetrics(v)

	var chartPNG []byte
	var analysis string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		png, err := RenderSensitivityChart(params.FaceValue, points)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Sensitivity chart skipped")
			return nil
		}
		chartPNG = png
		return nil
	})
	if opts.IncludeAnalysis {
		g.Go(func() error {
			analysis = s.summarize(gctx, models.ReportBond, metrics)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	created := s.now().UTC()
	pdf, err := RenderBondPDF(BondDocument{
		Valuation:      v,
		Interpretation: bond.Interpret(v),
		Duration:       bond.Duration(v),
		Scenarios:      scenarios,
		Chart:          chartPNG,
		Analysis:       analysis,
	}, s.meta(created))
	if err != nil {
		return nil, err
	}
	csv, err := BondCSV(v)
	if err != nil {
		return nil, err
	}

	return s.archive(ctx, models.ReportBond, created, metrics, analysis, pdf, csv)
}

// GetReport retrieves an archived report
func (s *Service) GetReport(ctx context.Context, id string) (*models.Report, error) {
	return s.store.Load(ctx, id)
}

// GetArtifact retrieves the PDF or CSV of an archived report
func (s *Service) GetArtifact(ctx context.Context, id string, artifact models.Artifact) ([]byte, error) {
	return s.store.LoadArtifact(ctx, id, artifact)
}

// ListReports returns all archived reports, oldest first
func (s *Service) ListReports(ctx context.Context) ([]*models.Report, error) {
	return s.store.List(ctx)
}

// EmailReport sends the archived PDF of report id to the recipient
func (s *Service) EmailReport(ctx context.Context, id string, to models.Recipient) (*models.DeliveryResult, error) {
	if strings.TrimSpace(to.Email) == "" {
		return nil, common.InvalidInput("email", "is required")
	}

	r, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.mailer == nil {
		return &models.DeliveryResult{
			Delivered: false,
			Message:   "e-mail delivery is not configured",
			Recipient: to.Email,
		}, nil
	}

	pdf, err := s.store.LoadArtifact(ctx, id, models.ArtifactPDF)
	if err != nil {
		return nil, fmt.Errorf("load report pdf: %w", err)
	}

	result, err := s.mailer.Send(ctx, &models.ReportEmail{
		Recipient:   to,
		Kind:        r.Kind,
		Metrics:     r.Metrics,
		PDF:         pdf,
		GeneratedAt: r.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("send report: %w", err)
	}

	s.logger.Info().
		Str("report", id).
		Str("recipient", to.Email).
		Bool("delivered", result.Delivered).
		Msg("Report e-mail attempted")
	return result, nil
}

// PurgeExpired removes reports older than the retention period
func (s *Service) PurgeExpired(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.store.Purge(ctx, cutoff)
	if err != nil {
		return n, fmt.Errorf("purge reports: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int("removed", n).Time("cutoff", cutoff).Msg("Expired reports purged")
	}
	return n, nil
}

func (s *Service) summarize(ctx context.Context, kind models.ReportKind, metrics []models.Metric) string {
	if s.summarizer == nil {
		return ""
	}
	text, err := s.summarizer.Summarize(ctx, kind, metrics)
	if err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("AI analysis skipped")
		return ""
	}
	return text
}

func (s *Service) meta(created time.Time) DocumentMeta {
	return DocumentMeta{Author: s.author, GeneratedAt: created}
}

func (s *Service) archive(ctx context.Context, kind models.ReportKind, created time.Time, metrics []models.Metric, analysis string, pdf, csv []byte) (*models.Report, error) {
	r := &models.Report{
		ID:        uuid.NewString(),
		Kind:      kind,
		Title:     kind.Title(),
		CreatedAt: created,
		Metrics:   metrics,
		Analysis:  analysis,
		PDFSize:   len(pdf),
		CSVSize:   len(csv),
	}

	if err := s.store.Save(ctx, r, map[models.Artifact][]byte{
		models.ArtifactPDF: pdf,
		models.ArtifactCSV: csv,
	}); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}

	s.logger.Info().
		Str("report", r.ID).
		Str("kind", string(kind)).
		Int("pdf_bytes", r.PDFSize).
		Msg("Report generated and stored")
	return r, nil
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
