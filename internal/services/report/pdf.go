package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

const (
	pageWidth    = 210.0 // A4, mm
	pageHeight   = 297.0
	marginMM     = 15.0
	contentWidth = pageWidth - 2*marginMM
	rowHeight    = 6.5
	imageHeight  = contentWidth * chartHeight / chartWidth
)

const disclaimer = "This report is an estimate produced from the parameters shown above. " +
	"Projections assume constant rates and are not financial advice. " +
	"Consult a licensed advisor before making investment decisions."

// GrowthDocument is everything rendered into an investment PDF.
type GrowthDocument struct {
	Result   *models.GrowthResult
	Chart    []byte // PNG, optional
	Analysis string // optional
}

// BondDocument is everything rendered into a bond PDF.
type BondDocument struct {
	Valuation      *models.BondValuation
	Interpretation models.BondInterpretation
	Duration       models.BondDuration
	Scenarios      *models.BondScenarios // optional
	Chart          []byte                // PNG, optional
	Analysis       string                // optional
}

// DocumentMeta is stamped into the PDF info dictionary and footer.
type DocumentMeta struct {
	Author      string
	GeneratedAt time.Time
}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newPDFWriter(title string, meta DocumentMeta) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.SetCreator("finsim", true)
	pdf.SetCreationDate(meta.GeneratedAt)

	w := &pdfWriter{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, w.tr(fmt.Sprintf("Generated %s  |  Page %d",
			meta.GeneratedAt.Format("2006-01-02 15:04:05"), pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, w.tr(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, w.tr("Prepared by "+meta.Author), "", 1, "C", false, 0, "")
	pdf.Ln(4)
	return w
}

func (w *pdfWriter) heading(text string) {
	w.ensureSpace(20)
	w.pdf.Ln(3)
	w.pdf.SetFont("Helvetica", "B", 14)
	w.pdf.SetTextColor(37, 99, 235)
	w.pdf.CellFormat(0, 9, w.tr(text), "B", 1, "L", false, 0, "")
	w.pdf.SetTextColor(0, 0, 0)
	w.pdf.Ln(2)
}

func (w *pdfWriter) paragraph(text string) {
	w.pdf.SetFont("Helvetica", "", 10)
	w.pdf.MultiCell(0, 5.5, w.tr(text), "", "L", false)
	w.pdf.Ln(1.5)
}

func (w *pdfWriter) bullets(items []string) {
	w.pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		w.pdf.CellFormat(6, 5.5, "-", "", 0, "L", false, 0, "")
		w.pdf.MultiCell(0, 5.5, w.tr(item), "", "L", false)
	}
	w.pdf.Ln(1.5)
}

func (w *pdfWriter) metricTable(metrics []models.Metric) {
	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = []string{m.Label, m.Value}
	}
	w.table([]string{"Metric", "Value"}, []float64{contentWidth * 0.55, contentWidth * 0.45}, rows, -1)
}

// table draws a bordered grid. boldRow picks one row index to embolden, -1
// for none.
func (w *pdfWriter) table(header []string, widths []float64, rows [][]string, boldRow int) {
	w.ensureSpace(rowHeight * 2)
	w.pdf.SetFont("Helvetica", "B", 9)
	w.pdf.SetFillColor(229, 231, 235)
	for i, h := range header {
		w.pdf.CellFormat(widths[i], rowHeight, w.tr(h), "1", 0, "C", true, 0, "")
	}
	w.pdf.Ln(-1)

	for r, row := range rows {
		style := ""
		if r == boldRow {
			style = "B"
		}
		w.pdf.SetFont("Helvetica", style, 9)
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			w.pdf.CellFormat(widths[i], rowHeight, w.tr(cell), "1", 0, align, false, 0, "")
		}
		w.pdf.Ln(-1)
	}
	w.pdf.Ln(2)
}

func (w *pdfWriter) image(name string, png []byte) {
	if len(png) == 0 {
		return
	}
	w.ensureSpace(imageHeight + 4)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	w.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	w.pdf.ImageOptions(name, marginMM, w.pdf.GetY(), contentWidth, imageHeight, true, opts, 0, "")
	w.pdf.Ln(2)
}

func (w *pdfWriter) ensureSpace(h float64) {
	if w.pdf.GetY()+h > pageHeight-20 {
		w.pdf.AddPage()
	}
}

func (w *pdfWriter) analysis(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.heading("AI Analysis")
	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		w.paragraph(strings.TrimSpace(para))
	}
}

func (w *pdfWriter) finish() ([]byte, error) {
	w.heading("Disclaimer")
	w.pdf.SetFont("Helvetica", "I", 9)
	w.pdf.MultiCell(0, 5, w.tr(disclaimer), "", "L", false)

	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderGrowthPDF renders an investment projection report.
func RenderGrowthPDF(doc GrowthDocument, meta DocumentMeta) ([]byte, error) {
	res := doc.Result
	w := newPDFWriter(models.ReportInvestment.Title()+" Report", meta)

	metrics := GrowthMetrics(res)
	w.heading("Parameters")
	w.metricTable(metrics[:growthInputCount])

	w.heading("Executive Summary")
	w.paragraph(growthNarrative(res))
	w.metricTable(metrics[growthInputCount:])

	w.heading("Annual Ledger")
	annual := res.Ledger.AnnualEntries(res.PeriodsPerYear)
	rows := make([][]string, 0, maxLedgerYears+2)
	for i, e := range annual {
		if i > maxLedgerYears {
			rows = append(rows, []string{"...", "...", "...", "...", "..."})
			break
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Period/res.PeriodsPerYear),
			fmt.Sprintf("%d", e.Age),
			common.FormatMoney(e.ClosingBalance),
			common.FormatMoney(e.CumulativeContributions),
			common.FormatMoney(e.Interest),
		})
	}
	cw := contentWidth / 5
	w.table([]string{"Year", "Age", "Balance", "Contributed", "Interest"}, []float64{cw, cw, cw, cw, cw}, rows, -1)
	if years := len(annual) - 1; years > maxLedgerYears {
		w.paragraph(fmt.Sprintf("Showing the first %d of %d years. The CSV export holds every period.", maxLedgerYears, years))
	}

	if len(doc.Chart) > 0 {
		w.heading("Growth Chart")
		w.image("growth", doc.Chart)
	}
	w.analysis(doc.Analysis)

	return w.finish()
}

// RenderBondPDF renders a bond valuation report.
func RenderBondPDF(doc BondDocument, meta DocumentMeta) ([]byte, error) {
	v := doc.Valuation
	w := newPDFWriter(models.ReportBond.Title()+" Report", meta)

	w.heading("Valuation Summary")
	w.metricTable(BondMetrics(v))

	w.heading("Interpretation")
	w.pdf.SetFont("Helvetica", "B", 11)
	w.pdf.MultiCell(0, 6, w.tr(doc.Interpretation.Headline), "", "L", false)
	w.paragraph(doc.Interpretation.Detail)
	w.paragraph(doc.Interpretation.Reason)
	w.paragraph(fmt.Sprintf("Macaulay duration %.2f years, modified duration %.2f years.",
		doc.Duration.Macaulay, doc.Duration.Modified))

	w.heading("Cash Flows")
	rows := make([][]string, 0, len(v.Ledger))
	total := -1
	for _, e := range v.Ledger {
		if e.IsTotal {
			total = len(rows)
			rows = append(rows, []string{"TOTAL", "", "", common.FormatMoney(e.PresentValue)})
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Period),
			fmt.Sprintf("%.2f", *e.YearFraction),
			common.FormatMoney(*e.CashFlow),
			common.FormatMoney(e.PresentValue),
		})
	}
	cw := contentWidth / 4
	w.table([]string{"Period", "Year", "Cash Flow", "Present Value"}, []float64{cw, cw, cw, cw}, rows, total)

	if s := doc.Scenarios; s != nil {
		w.heading("Scenarios")
		srows := make([][]string, 0, 3)
		for _, sc := range s.All() {
			srows = append(srows, []string{
				titleCase(sc.Name),
				common.FormatPercent(sc.RatePercent),
				common.FormatMoney(sc.PresentValue),
				common.FormatMoney(sc.Difference),
				sc.Classification.Label(),
			})
		}
		sw := contentWidth / 5
		w.table([]string{"Scenario", "Rate", "Present Value", "Difference", "Type"}, []float64{sw, sw, sw, sw, sw}, srows, -1)
	}

	if len(doc.Chart) > 0 {
		w.heading("Rate Sensitivity")
		w.image("sensitivity", doc.Chart)
	}

	w.heading("Recommendations")
	w.bullets(doc.Interpretation.Recommendations)
	w.analysis(doc.Analysis)

	return w.finish()
}

func growthNarrative(res *models.GrowthResult) string {
	p := res.Plan
	s := res.Summary
	text := fmt.Sprintf("Starting with %s at age %d and contributing %s per %s period, "+
		"the portfolio reaches %s after %d years at %s annual effective return. "+
		"Of this, %s is your own money and %s is investment gain.",
		common.FormatMoney(p.InitialAmount), p.CurrentAge,
		common.FormatMoney(p.Contribution), strings.ToLower(p.Frequency.Label()),
		common.FormatMoney(s.FinalBalance), res.HorizonYears, common.FormatPercent(p.AnnualRatePercent),
		common.FormatMoney(s.TotalContributed), common.FormatMoney(s.GrossGain))

	switch {
	case s.NetPayout != nil:
		text += fmt.Sprintf(" Withdrawn as a lump sum, tax of %s leaves a net gain of %s.",
			common.FormatMoney(s.Tax), common.FormatMoney(*s.NetPayout))
	case s.Pension != nil:
		text += fmt.Sprintf(" Drawn as a pension, the balance pays %s per month after tax.",
			common.FormatMoney(s.Pension.MonthlyPension))
	}
	return text
}
