package mailer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

var generated = time.Date(2026, 5, 4, 10, 30, 15, 0, time.UTC)

func testEmail() *models.ReportEmail {
	return &models.ReportEmail{
		Recipient: models.Recipient{Name: "Ana", Email: "ana@example.com"},
		Kind:      models.ReportBond,
		Metrics: []models.Metric{
			{Label: "Bond Present Value", Value: "$959.59"},
			{Label: "Bond Type", Value: "<Discount>"},
		},
		PDF:         []byte("%PDF-1.3 test"),
		GeneratedAt: generated,
	}
}

func newTestClient(t *testing.T, cfg common.SMTPConfig) *Client {
	t.Helper()
	if cfg.From == "" {
		cfg.From = "reports@finsim.test"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Financial Simulator"
	}
	c, err := NewClient(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	c.now = func() time.Time { return generated }
	return c
}

func TestAttachmentNameAndSubject(t *testing.T) {
	assert.Equal(t, "report_bond_valuation_20260504_103015.pdf", AttachmentName(models.ReportBond, generated))
	assert.Equal(t, "report_investment_projection_20260504_103015.pdf", AttachmentName(models.ReportInvestment, generated))
	assert.Equal(t, "Your Bond Valuation Report", Subject(models.ReportBond))
}

func TestReportTemplate(t *testing.T) {
	c := newTestClient(t, common.SMTPConfig{Host: "localhost"})

	var buf bytes.Buffer
	require.NoError(t, reportTemplate.Execute(&buf, c.body(testEmail())))
	html := buf.String()

	assert.Contains(t, html, "Hello <strong>Ana</strong>")
	assert.Contains(t, html, "Your <strong>Bond Valuation</strong> report is ready.")
	assert.Contains(t, html, `<span class="metric-label">Bond Present Value</span> <span class="metric-value">$959.59</span>`)
	assert.Contains(t, html, "&lt;Discount&gt;")
	assert.Contains(t, html, "Generated on 04/05/2026 at 10:30")
}

func TestReportTemplate_FallsBackToAddress(t *testing.T) {
	c := newTestClient(t, common.SMTPConfig{Host: "localhost"})
	email := testEmail()
	email.Recipient.Name = ""

	assert.Equal(t, "ana@example.com", c.body(email).Name)
}

func TestBuildMessage(t *testing.T) {
	c := newTestClient(t, common.SMTPConfig{Host: "localhost"})

	m, attachment, err := c.BuildMessage(testEmail())
	require.NoError(t, err)
	assert.Equal(t, "report_bond_valuation_20260504_103015.pdf", attachment)

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Your Bond Valuation Report")
	assert.Contains(t, raw, "<ana@example.com>")
	assert.Contains(t, raw, "<reports@finsim.test>")
	assert.Contains(t, raw, "application/pdf")
	assert.Contains(t, raw, attachment)
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	c := newTestClient(t, common.SMTPConfig{Host: "localhost"})
	email := testEmail()
	email.Recipient.Email = "not an address"

	_, _, err := c.BuildMessage(email)
	assert.True(t, common.IsInvalidInput(err))
}

func TestNewClient_Config(t *testing.T) {
	_, err := NewClient(common.SMTPConfig{From: "a@b.c"}, common.NewSilentLogger())
	assert.Error(t, err, "host required")

	_, err = NewClient(common.SMTPConfig{Host: "smtp.test", From: "a@b.c", TLSPolicy: "sometimes"}, common.NewSilentLogger())
	assert.ErrorContains(t, err, "tls_policy")

	for _, p := range []string{"", "mandatory", "Opportunistic", "none"} {
		_, err := NewClient(common.SMTPConfig{Host: "smtp.test", From: "a@b.c", TLSPolicy: p}, common.NewSilentLogger())
		assert.NoError(t, err, p)
	}
}

func TestSend_UnreachableServerIsNotDelivered(t *testing.T) {
	c := newTestClient(t, common.SMTPConfig{
		Host:      "127.0.0.1",
		Port:      1,
		TLSPolicy: "none",
		Timeout:   "2s",
	})

	res, err := c.Send(context.Background(), testEmail())
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.Contains(t, res.Message, "delivery failed")
	assert.Equal(t, "ana@example.com", res.Recipient)
	assert.Equal(t, "report_bond_valuation_20260504_103015.pdf", res.Attachment)
}
