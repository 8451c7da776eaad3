package models

import (
	"strings"
	"time"
)

// ReportKind identifies which calculator produced a report.
type ReportKind string

const (
	ReportInvestment ReportKind = "investment"
	ReportBond       ReportKind = "bond"
)

// Title returns the report type as shown to readers.
func (k ReportKind) Title() string {
	switch k {
	case ReportInvestment:
		return "Investment Projection"
	case ReportBond:
		return "Bond Valuation"
	}
	return string(k)
}

// Slug returns the title lower-cased with spaces replaced by underscores.
func (k ReportKind) Slug() string {
	return strings.ReplaceAll(strings.ToLower(k.Title()), " ", "_")
}

// Metric is one labelled, pre-formatted figure.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is the archived description of a rendered report. The PDF and CSV
// artifacts are stored alongside it.
type Report struct {
	ID        string     `json:"id"`
	Kind      ReportKind `json:"kind"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	Metrics   []Metric   `json:"metrics"`
	Analysis  string     `json:"analysis,omitempty"`
	PDFSize   int        `json:"pdf_size"`
	CSVSize   int        `json:"csv_size"`
}

// ReportOptions controls optional report sections.
type ReportOptions struct {
	IncludeAnalysis bool `json:"include_analysis"`
}

// Recipient is who a report is delivered to.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ReportEmail is everything a Mailer needs to deliver one report.
type ReportEmail struct {
	Recipient   Recipient
	Kind        ReportKind
	Metrics     []Metric
	PDF         []byte
	GeneratedAt time.Time
}

// DeliveryResult reports the outcome of a delivery attempt.
type DeliveryResult struct {
	Delivered  bool      `json:"delivered"`
	Message    string    `json:"message"`
	Recipient  string    `json:"recipient"`
	Attachment string    `json:"attachment,omitempty"`
	SentAt     time.Time `json:"sent_at,omitempty"`
}

// Artifact is a rendered file stored with a report.
type Artifact string

const (
	ArtifactPDF Artifact = "pdf"
	ArtifactCSV Artifact = "csv"
)

// FileName returns the archived file name of the artifact.
func (a Artifact) FileName() string {
	return "report." + string(a)
}

// ContentType returns the MIME type served for the artifact.
func (a Artifact) ContentType() string {
	switch a {
	case ArtifactPDF:
		return "application/pdf"
	case ArtifactCSV:
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}
