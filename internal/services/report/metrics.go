package report

import (
	"fmt"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// growthInputCount is how many leading GrowthMetrics describe plan inputs.
const growthInputCount = 10

// GrowthMetrics lists the inputs and end-of-horizon figures of a plan, in
// display order. The list feeds e-mails and AI prompts.
func GrowthMetrics(res *models.GrowthResult) []models.Metric {
	p := res.Plan
	s := res.Summary

	m := []models.Metric{
		{Label: "Current Age", Value: fmt.Sprintf("%d years", p.CurrentAge)},
		{Label: "Investment Horizon", Value: fmt.Sprintf("%d years", res.HorizonYears)},
		{Label: "Age at Withdrawal", Value: fmt.Sprintf("%d years", res.FinalAge)},
		{Label: "Initial Amount", Value: common.FormatMoney(p.InitialAmount)},
		{Label: "Periodic Contribution", Value: common.FormatMoney(p.Contribution)},
		{Label: "Contribution Frequency", Value: p.Frequency.Label()},
		{Label: "Annual Effective Rate", Value: common.FormatPercent(p.AnnualRatePercent)},
		{Label: "Periodic Rate", Value: fmt.Sprintf("%.4f%%", res.Ledger.PeriodicRate*100)},
		{Label: "Tax Regime", Value: p.TaxType.Label()},
		{Label: "Withdrawal", Value: p.Withdrawal.Label()},
		{Label: "Final Balance", Value: common.FormatMoney(s.FinalBalance)},
		{Label: "Total Contributed", Value: common.FormatMoney(s.TotalContributed)},
		{Label: "Gross Gain", Value: common.FormatMoney(s.GrossGain)},
		{Label: "Tax", Value: common.FormatMoney(s.Tax)},
		{Label: "Return on Contributions", Value: common.FormatPercent(s.ROIPercent)},
	}

	if s.NetPayout != nil {
		m = append(m, models.Metric{Label: "Net Gain after Tax", Value: common.FormatMoney(*s.NetPayout)})
	}
	if ps := s.Pension; ps != nil {
		m = append(m,
			models.Metric{Label: "Retirement Rate", Value: common.FormatPercent(ps.RetirementRatePercent)},
			models.Metric{Label: "Gross Annual Dividend", Value: common.FormatMoney(ps.GrossAnnualDividend)},
			models.Metric{Label: "Net Annual Dividend", Value: common.FormatMoney(ps.NetAnnualDividend)},
			models.Metric{Label: "Monthly Pension", Value: common.FormatMoney(ps.MonthlyPension)},
			models.Metric{Label: "Total Net Dividends", Value: common.FormatMoney(ps.TotalNetDividends)},
		)
	}
	return m
}

// BondMetrics lists the parameters and valuation of a bond, in display order.
func BondMetrics(v *models.BondValuation) []models.Metric {
	p := v.Params
	return []models.Metric{
		{Label: "Bond Present Value", Value: common.FormatMoney(v.TotalPresentValue)},
		{Label: "Face Value", Value: common.FormatMoney(p.FaceValue)},
		{Label: "Bond Type", Value: v.Classification.Label()},
		{Label: "Difference", Value: fmt.Sprintf("%s (%+.2f%%)", common.FormatMoney(v.Difference), v.DifferencePercent)},
		{Label: "Coupon Rate", Value: common.FormatPercent(p.CouponRatePercent)},
		{Label: "Discount Rate", Value: common.FormatPercent(p.DiscountRatePercent)},
		{Label: "Term", Value: fmt.Sprintf("%d years", p.TermYears)},
		{Label: "Payment Frequency", Value: p.Frequency.Label()},
		{Label: "Periodic Coupon", Value: common.FormatMoney(v.PeriodicCoupon)},
		{Label: "Total Periods", Value: fmt.Sprintf("%d", v.TotalPeriods)},
	}
}
