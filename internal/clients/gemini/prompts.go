package gemini

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/finsim/internal/models"
)

const investmentBrief = `You are a financial advisor specialising in retirement planning and portfolio growth.
You will review the result of an investment simulation and give conclusions and personalised recommendations.

Required analysis:

1. PROFITABILITY: is the return on contributions adequate for the horizon and risk? How efficient is the periodic contribution strategy?
2. TAX IMPACT: tax burden against gains, and optimisation options for the chosen tax regime.
3. GROWTH: relation between contributions and capital growth, and the effect of compounding over time.
4. STRATEGY: adjustments to contribution amount or frequency, and considerations on the chosen withdrawal type.
5. RISK: dependence on the assumed rate of return, and longevity risk when drawing a monthly pension.

Response format:
- 3 to 4 main conclusions
- Specific, actionable recommendations
- Warnings about identified risks

Separate paragraphs with a blank line. Answer in a professional but accessible tone.`

const bondBrief = `You are an analyst specialising in fixed income valuation.
You will review a bond valuation and give professional investment recommendations.

Required analysis:

1. RELATIVE VALUE: price against face value, whether the bond trades at a discount, a premium or par, and the margin of safety.
2. YIELD: coupon rate against the required return, and the implied yield to maturity.
3. ATTRACTIVENESS: level of discount or premium, capital appreciation potential, risk against return.
4. SENSITIVITY: exposure to interest rate changes, implied duration, coupon reinvestment risk.
5. STRATEGY: buy, hold or sell, portfolio positioning and recommended holding horizon.

Response format:
- Attractiveness rating from 1 to 5 stars
- Reasoned technical analysis
- A specific recommended action
- Relevant risk warnings

Separate paragraphs with a blank line. Answer in a professional but accessible tone.`

// BuildPrompt assembles the analysis prompt for a report kind.
func BuildPrompt(kind models.ReportKind, metrics []models.Metric) (string, error) {
	var brief string
	switch kind {
	case models.ReportInvestment:
		brief = investmentBrief
	case models.ReportBond:
		brief = bondBrief
	default:
		return "", fmt.Errorf("no prompt for report kind %q", kind)
	}
	if len(metrics) == 0 {
		return "", fmt.Errorf("no metrics to analyse")
	}

	var sb strings.Builder
	sb.WriteString(brief)
	sb.WriteString("\n\n")
	sb.WriteString(strings.ToUpper(kind.Title()))
	sb.WriteString(" TO ANALYSE:\n")
	for _, m := range metrics {
		sb.WriteString("- ")
		sb.WriteString(m.Label)
		sb.WriteString(": ")
		sb.WriteString(m.Value)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
