package report

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/storage"
)

// --- mocks ---

type mockSummarizer struct {
	summarizeFn func(ctx context.Context, kind models.ReportKind, metrics []models.Metric) (string, error)
	calls       atomic.Int32
}

func (m *mockSummarizer) Summarize(ctx context.Context, kind models.ReportKind, metrics []models.Metric) (string, error) {
	m.calls.Add(1)
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, kind, metrics)
	}
	return "", nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, email *models.ReportEmail) (*models.DeliveryResult, error)
}

func (m *mockMailer) Send(ctx context.Context, email *models.ReportEmail) (*models.DeliveryResult, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, email)
	}
	return &models.DeliveryResult{Delivered: true, Recipient: email.Recipient.Email}, nil
}

// --- helpers ---

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, summarizer *mockSummarizer, mailer *mockMailer) *Service {
	t.Helper()
	logger := common.NewSilentLogger()
	blobs, err := storage.NewFileBlobStore(logger, t.TempDir())
	require.NoError(t, err)

	svc := NewService(storage.NewReportStore(blobs, logger), nil, nil, common.ReportsConfig{
		Author:    "Test Desk",
		Retention: "24h",
	}, logger)
	if summarizer != nil {
		svc.summarizer = summarizer
	}
	if mailer != nil {
		svc.mailer = mailer
	}
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func testPlan() models.GrowthPlan {
	return models.GrowthPlan{
		CurrentAge:        30,
		InitialAmount:     10000,
		Contribution:      500,
		AnnualRatePercent: 8,
		Frequency:         models.Monthly,
		HorizonYears:      10,
		TaxType:           models.TaxLocal,
		Withdrawal:        models.WithdrawLumpSum,
	}
}

func testBond() models.BondParams {
	return models.BondParams{
		FaceValue:           1000,
		CouponRatePercent:   6,
		Frequency:           models.SemiAnnual,
		TermYears:           5,
		DiscountRatePercent: 7,
	}
}

// --- tests ---

func TestBuildGrowthReport_ArchivesArtifacts(t *testing.T) {
	summarizer := &mockSummarizer{
		summarizeFn: func(_ context.Context, kind models.ReportKind, metrics []models.Metric) (string, error) {
			assert.Equal(t, models.ReportInvestment, kind)
			assert.NotEmpty(t, metrics)
			return "Steady growth driven by regular contributions.", nil
		},
	}
	svc := newTestService(t, summarizer, nil)
	ctx := context.Background()

	r, err := svc.BuildGrowthReport(ctx, testPlan(), models.ReportOptions{IncludeAnalysis: true})
	require.NoError(t, err)

	assert.Equal(t, models.ReportInvestment, r.Kind)
	assert.Equal(t, "Investment Projection", r.Title)
	assert.True(t, fixedNow.Equal(r.CreatedAt))
	assert.Equal(t, "Steady growth driven by regular contributions.", r.Analysis)
	assert.EqualValues(t, 1, summarizer.calls.Load())

	pdf, err := svc.GetArtifact(ctx, r.ID, models.ArtifactPDF)
	require.NoError(t, err)
	assert.Equal(t, r.PDFSize, len(pdf))
	assert.Equal(t, "%PDF", string(pdf[:4]))

	csv, err := svc.GetArtifact(ctx, r.ID, models.ArtifactCSV)
	require.NoError(t, err)
	assert.Equal(t, r.CSVSize, len(csv))

	got, err := svc.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Metrics, got.Metrics)
}

func TestBuildGrowthReport_AnalysisOnlyWhenRequested(t *testing.T) {
	summarizer := &mockSummarizer{}
	svc := newTestService(t, summarizer, nil)

	r, err := svc.BuildGrowthReport(context.Background(), testPlan(), models.ReportOptions{})
	require.NoError(t, err)
	assert.Empty(t, r.Analysis)
	assert.EqualValues(t, 0, summarizer.calls.Load())
}

func TestBuildGrowthReport_SummarizerFailureIsNotFatal(t *testing.T) {
	summarizer := &mockSummarizer{
		summarizeFn: func(context.Context, models.ReportKind, []models.Metric) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	svc := newTestService(t, summarizer, nil)

	r, err := svc.BuildGrowthReport(context.Background(), testPlan(), models.ReportOptions{IncludeAnalysis: true})
	require.NoError(t, err)
	assert.Empty(t, r.Analysis)
	assert.Positive(t, r.PDFSize)
}

func TestBuildGrowthReport_InvalidPlan(t *testing.T) {
	svc := newTestService(t, nil, nil)
	plan := testPlan()
	plan.CurrentAge = 12

	_, err := svc.BuildGrowthReport(context.Background(), plan, models.ReportOptions{})
	assert.True(t, common.IsInvalidInput(err))

	list, err := svc.ListReports(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBuildBondReport(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	r, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{IncludeAnalysis: true})
	require.NoError(t, err)
	assert.Equal(t, models.ReportBond, r.Kind)
	assert.Empty(t, r.Analysis, "no summarizer configured")
	assert.Equal(t, "Bond Present Value", r.Metrics[0].Label)
	assert.Equal(t, "$959.59", r.Metrics[0].Value)

	csv, err := svc.GetArtifact(ctx, r.ID, models.ArtifactCSV)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "TOTAL,,,959.59")
}

func TestBuildBondReport_InvalidParams(t *testing.T) {
	svc := newTestService(t, nil, nil)
	p := testBond()
	p.FaceValue = 0

	_, err := svc.BuildBondReport(context.Background(), p, models.ReportOptions{})
	assert.True(t, common.IsInvalidInput(err))
}

func TestBuildReport_CancelledContext(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEmailReport_SendsArchivedPDF(t *testing.T) {
	var sent *models.ReportEmail
	mailer := &mockMailer{
		sendFn: func(_ context.Context, email *models.ReportEmail) (*models.DeliveryResult, error) {
			sent = email
			return &models.DeliveryResult{Delivered: true, Message: "sent", Recipient: email.Recipient.Email}, nil
		},
	}
	svc := newTestService(t, nil, mailer)
	ctx := context.Background()

	r, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	require.NoError(t, err)

	res, err := svc.EmailReport(ctx, r.ID, models.Recipient{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.True(t, res.Delivered)

	require.NotNil(t, sent)
	assert.Equal(t, models.ReportBond, sent.Kind)
	assert.Equal(t, "Ana", sent.Recipient.Name)
	assert.Len(t, sent.PDF, r.PDFSize)
	assert.Equal(t, r.Metrics, sent.Metrics)
	assert.True(t, fixedNow.Equal(sent.GeneratedAt))
}

func TestEmailReport_NoMailerConfigured(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	r, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	require.NoError(t, err)

	res, err := svc.EmailReport(ctx, r.ID, models.Recipient{Email: "ana@example.com"})
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Equal(t, "ana@example.com", res.Recipient)
}

func TestEmailReport_Errors(t *testing.T) {
	mailer := &mockMailer{
		sendFn: func(context.Context, *models.ReportEmail) (*models.DeliveryResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(t, nil, mailer)
	ctx := context.Background()

	_, err := svc.EmailReport(ctx, "00000000-0000-0000-0000-000000000000", models.Recipient{})
	assert.True(t, common.IsInvalidInput(err))

	_, err = svc.EmailReport(ctx, "00000000-0000-0000-0000-000000000000", models.Recipient{Email: "a@b.c"})
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)

	r, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	require.NoError(t, err)
	_, err = svc.EmailReport(ctx, r.ID, models.Recipient{Email: "a@b.c"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestPurgeExpired(t *testing.T) {
	svc := newTestService(t, nil, nil)
	ctx := context.Background()

	svc.now = func() time.Time { return fixedNow.Add(-48 * time.Hour) }
	old, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow }
	fresh, err := svc.BuildBondReport(ctx, testBond(), models.ReportOptions{})
	require.NoError(t, err)

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.GetReport(ctx, old.ID)
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)
	_, err = svc.GetReport(ctx, fresh.ID)
	assert.NoError(t, err)
}
