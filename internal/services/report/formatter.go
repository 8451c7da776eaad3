package report

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// maxLedgerYears caps the annual ledger shown in markdown and PDF output.
const maxLedgerYears = 24

func writeMetricTable(sb *strings.Builder, metrics []models.Metric) {
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	for _, m := range metrics {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", m.Label, m.Value))
	}
	sb.WriteString("\n")
}

// FormatGrowthMarkdown renders a plan result with its annual ledger.
func FormatGrowthMarkdown(res *models.GrowthResult) string {
	var sb strings.Builder

	sb.WriteString("# Investment Projection\n\n")
	writeMetricTable(&sb, GrowthMetrics(res))

	annual := res.Ledger.AnnualEntries(res.PeriodsPerYear)
	sb.WriteString("## Annual Ledger\n\n")
	sb.WriteString("| Year | Age | Closing Balance | Contributed | Interest |\n")
	sb.WriteString("|------|-----|-----------------|-------------|----------|\n")
	for i, e := range annual {
		if i > maxLedgerYears {
			sb.WriteString("| ... | ... | ... | ... | ... |\n")
			break
		}
		sb.WriteString(fmt.Sprintf("| %d | %d | %s | %s | %s |\n",
			e.Period/res.PeriodsPerYear, e.Age,
			common.FormatMoney(e.ClosingBalance),
			common.FormatMoney(e.CumulativeContributions),
			common.FormatMoney(e.Interest)))
	}
	if years := len(annual) - 1; years > maxLedgerYears {
		sb.WriteString(fmt.Sprintf("\n*Showing the first %d of %d years.*\n", maxLedgerYears, years))
	}

	return sb.String()
}

// FormatComparisonMarkdown renders a two-option growth comparison.
func FormatComparisonMarkdown(c *models.ScenarioComparison) string {
	var sb strings.Builder

	sb.WriteString("# Scenario Comparison\n\n")
	sb.WriteString("| Option | Final Balance | Gross Gain | Payout |\n")
	sb.WriteString("|--------|---------------|------------|--------|\n")
	for _, o := range []struct {
		name string
		opt  models.ScenarioOption
	}{{"A", c.OptionA}, {"B", c.OptionB}} {
		sb.WriteString(fmt.Sprintf("| %s: %s | %s | %s | %s |\n",
			o.name, o.opt.Label,
			common.FormatMoney(o.opt.Summary.FinalBalance),
			common.FormatMoney(o.opt.Summary.GrossGain),
			common.FormatMoney(o.opt.Payout)))
	}

	better := c.OptionB
	if c.Better == "A" {
		better = c.OptionA
	}
	sb.WriteString(fmt.Sprintf("\n**Better option:** %s (%s), ahead by %s\n",
		c.Better, better.Label, common.FormatMoney(c.Difference)))
	return sb.String()
}

// FormatBondMarkdown renders a valuation with its interpretation and cash
// flows.
func FormatBondMarkdown(v *models.BondValuation, in models.BondInterpretation, d models.BondDuration) string {
	var sb strings.Builder

	sb.WriteString("# Bond Valuation\n\n")
	writeMetricTable(&sb, BondMetrics(v))

	sb.WriteString(fmt.Sprintf("## %s\n\n", in.Headline))
	sb.WriteString(in.Detail + "\n\n")
	sb.WriteString(in.Reason + "\n\n")
	for _, r := range in.Recommendations {
		sb.WriteString("- " + r + "\n")
	}
	sb.WriteString(fmt.Sprintf("\n**Macaulay duration:** %.2f years  \n**Modified duration:** %.2f years\n\n", d.Macaulay, d.Modified))

	sb.WriteString("## Cash Flows\n\n")
	sb.WriteString("| Period | Year | Cash Flow | Present Value |\n")
	sb.WriteString("|--------|------|-----------|---------------|\n")
	for _, e := range v.Ledger {
		if e.IsTotal {
			sb.WriteString(fmt.Sprintf("| **TOTAL** | | | **%s** |\n", common.FormatMoney(e.PresentValue)))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %d | %.2f | %s | %s |\n",
			e.Period, *e.YearFraction, common.FormatMoney(*e.CashFlow), common.FormatMoney(e.PresentValue)))
	}
	return sb.String()
}

// FormatSensitivityMarkdown renders a discount-rate sweep.
func FormatSensitivityMarkdown(face float64, points []models.SensitivityPoint) string {
	var sb strings.Builder

	sb.WriteString("# Discount Rate Sensitivity\n\n")
	sb.WriteString("| Discount Rate | Present Value | vs Face Value |\n")
	sb.WriteString("|---------------|---------------|---------------|\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
			common.FormatPercent(p.RatePercent), common.FormatMoney(p.PresentValue), common.FormatMoney(p.PresentValue-face)))
	}
	return sb.String()
}

// FormatScenariosMarkdown renders the optimistic, base and pessimistic rows.
func FormatScenariosMarkdown(s *models.BondScenarios) string {
	var sb strings.Builder

	sb.WriteString("# Bond Scenarios\n\n")
	sb.WriteString("| Scenario | Discount Rate | Present Value | Difference | Type |\n")
	sb.WriteString("|----------|---------------|---------------|------------|------|\n")
	for _, sc := range s.All() {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			titleCase(sc.Name), common.FormatPercent(sc.RatePercent),
			common.FormatMoney(sc.PresentValue), common.FormatMoney(sc.Difference), sc.Classification.Label()))
	}
	return sb.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
