package growth

import (
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// pensionPayoutFactor is the share of the retirement rate paid out as the
// annual dividend. Fixed policy constant.
const pensionPayoutFactor = 0.5

// Withdrawal describes how a final balance is drawn down.
type Withdrawal struct {
	Kind                  models.WithdrawalKind
	TaxRate               float64 // fraction, e.g. 0.05
	RetirementRatePercent float64 // pension only
	HorizonYears          int     // years of dividends counted in TotalNetDividends
}

func (w Withdrawal) validate() error {
	if !w.Kind.Valid() {
		return common.InvalidInput("withdrawal", "%q is not a supported withdrawal kind", string(w.Kind))
	}
	if math.IsNaN(w.TaxRate) || w.TaxRate < 0 || w.TaxRate >= 1 {
		return common.InvalidInput("tax_rate", "must be in [0, 1), got %g", w.TaxRate)
	}
	if w.Kind == models.WithdrawPension {
		if err := rates.CheckAnnual("retirement_rate_percent", w.RetirementRatePercent); err != nil {
			return err
		}
		if w.RetirementRatePercent < 0 {
			return common.InvalidInput("retirement_rate_percent", "must not be negative, got %g", w.RetirementRatePercent)
		}
		if w.HorizonYears < 0 {
			return common.InvalidInput("horizon_years", "must not be negative, got %d", w.HorizonYears)
		}
	}
	return nil
}

// Summarize derives the end-of-horizon figures from the last ledger row.
func Summarize(ledger *models.GrowthLedger, w Withdrawal) (models.GrowthSummary, error) {
	if ledger == nil || len(ledger.Entries) == 0 {
		return models.GrowthSummary{}, common.InvalidInput("ledger", "must contain at least the seed row")
	}
	if err := w.validate(); err != nil {
		return models.GrowthSummary{}, err
	}

	last := ledger.Entries[len(ledger.Entries)-1]
	gain := last.ClosingBalance - last.CumulativeContributions
	tax := gain * w.TaxRate

	s := models.GrowthSummary{
		FinalBalance:     last.ClosingBalance,
		TotalContributed: last.CumulativeContributions,
		GrossGain:        gain,
		TaxRate:          w.TaxRate,
		Tax:              tax,
		Withdrawal:       w.Kind,
	}
	if last.CumulativeContributions > 0 {
		s.ROIPercent = gain / last.CumulativeContributions * 100
	}

	switch w.Kind {
	case models.WithdrawLumpSum:
		net := gain - tax
		s.NetPayout = &net
	case models.WithdrawPension:
		gross := last.ClosingBalance * pensionPayoutFactor * (w.RetirementRatePercent / 100)
		net := gross - gross*w.TaxRate
		s.Pension = &models.PensionSummary{
			RetirementRatePercent: w.RetirementRatePercent,
			GrossAnnualDividend:   gross,
			NetAnnualDividend:     net,
			MonthlyPension:        net / 12,
			TotalNetDividends:     net * float64(w.HorizonYears),
		}
		if !finite(gross, s.Pension.TotalNetDividends) {
			return models.GrowthSummary{}, common.InvalidInput("retirement_rate_percent", "pension overflows at rate %g", w.RetirementRatePercent)
		}
	}
	if !finite(s.ROIPercent) {
		return models.GrowthSummary{}, common.InvalidInput("ledger", "return on contributions is not finite")
	}

	return s, nil
}
