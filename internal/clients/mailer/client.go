// Package mailer delivers rendered reports over SMTP
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/interfaces"
	"github.com/bobmcallan/finsim/internal/models"
)

// Client implements the Mailer interface
type Client struct {
	cfg    common.SMTPConfig
	logger *common.Logger
	now    func() time.Time
}

// NewClient creates a mailer from the [clients.smtp] section
func NewClient(cfg common.SMTPConfig, logger *common.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("smtp host and from address are required")
	}
	if _, err := tlsPolicy(cfg.TLSPolicy); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, logger: logger, now: time.Now}, nil
}

func tlsPolicy(s string) (mail.TLSPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mandatory":
		return mail.TLSMandatory, nil
	case "opportunistic":
		return mail.TLSOpportunistic, nil
	case "none":
		return mail.NoTLS, nil
	}
	return mail.NoTLS, fmt.Errorf("unknown smtp tls_policy %q", s)
}

// AttachmentName returns the PDF file name for a report generated at t.
func AttachmentName(kind models.ReportKind, t time.Time) string {
	return fmt.Sprintf("report_%s_%s.pdf", kind.Slug(), t.Format("20060102_150405"))
}

// Subject returns the e-mail subject for a report kind.
func Subject(kind models.ReportKind) string {
	return fmt.Sprintf("Your %s Report", kind.Title())
}

// BuildMessage assembles the HTML e-mail with its PDF attachment.
func (c *Client) BuildMessage(email *models.ReportEmail) (*mail.Msg, string, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(c.cfg.FromName, c.cfg.From); err != nil {
		return nil, "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.AddToFormat(email.Recipient.Name, email.Recipient.Email); err != nil {
		return nil, "", common.InvalidInput("email", "%q is not a valid address", email.Recipient.Email)
	}
	m.Subject(Subject(email.Kind))
	m.SetDateWithValue(c.now())

	data := c.body(email)
	if err := m.SetBodyHTMLTemplate(reportTemplate, data); err != nil {
		return nil, "", fmt.Errorf("failed to render e-mail body: %w", err)
	}

	attachment := AttachmentName(email.Kind, email.GeneratedAt)
	if err := m.AttachReader(attachment, bytes.NewReader(email.PDF),
		mail.WithFileContentType(mail.ContentType("application/pdf"))); err != nil {
		return nil, "", fmt.Errorf("failed to attach report: %w", err)
	}
	return m, attachment, nil
}

type messageBody struct {
	Sender      string
	Name        string
	Title       string
	Metrics     []models.Metric
	GeneratedAt string
}

func (c *Client) body(email *models.ReportEmail) messageBody {
	name := email.Recipient.Name
	if name == "" {
		name = email.Recipient.Email
	}
	return messageBody{
		Sender:      c.cfg.FromName,
		Name:        name,
		Title:       email.Kind.Title(),
		Metrics:     email.Metrics,
		GeneratedAt: email.GeneratedAt.Format("02/01/2006 at 15:04"),
	}
}

// Send e-mails the report. SMTP failures are reported in the result, not as
// an error.
func (c *Client) Send(ctx context.Context, email *models.ReportEmail) (*models.DeliveryResult, error) {
	m, attachment, err := c.BuildMessage(email)
	if err != nil {
		return nil, err
	}

	result := &models.DeliveryResult{
		Recipient:  email.Recipient.Email,
		Attachment: attachment,
	}

	client, err := c.dialer()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		c.logger.Warn().Err(err).
			Str("host", c.cfg.Host).
			Str("recipient", email.Recipient.Email).
			Msg("Report e-mail not delivered")
		result.Message = fmt.Sprintf("delivery failed: %v", err)
		return result, nil
	}

	result.Delivered = true
	result.SentAt = c.now()
	result.Message = "e-mail sent to " + email.Recipient.Email
	c.logger.Info().
		Str("recipient", email.Recipient.Email).
		Str("attachment", attachment).
		Dur("elapsed", time.Since(start)).
		Msg("Report e-mail delivered")
	return result, nil
}

func (c *Client) dialer() (*mail.Client, error) {
	policy, err := tlsPolicy(c.cfg.TLSPolicy)
	if err != nil {
		return nil, err
	}

	opts := []mail.Option{
		mail.WithPort(c.cfg.Port),
		mail.WithTLSPolicy(policy),
		mail.WithTimeout(c.cfg.GetTimeout()),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.cfg.Username),
			mail.WithPassword(c.cfg.Password),
		)
	}

	client, err := mail.NewClient(c.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

// Ensure Client implements Mailer
var _ interfaces.Mailer = (*Client)(nil)
