// Package bond values plain coupon bonds by discounting their cash flows.
package bond

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// MaxTermYears bounds the ledger to 1200 monthly payments.
const MaxTermYears = 100

func validate(p models.BondParams) error {
	if math.IsNaN(p.FaceValue) || math.IsInf(p.FaceValue, 0) || p.FaceValue <= 0 {
		return common.InvalidInput("face_value", "must be a positive amount, got %g", p.FaceValue)
	}
	if err := checkRate("coupon_rate_percent", p.CouponRatePercent); err != nil {
		return err
	}
	if err := checkRate("discount_rate_percent", p.DiscountRatePercent); err != nil {
		return err
	}
	if !p.Frequency.Valid() {
		return common.InvalidInput("frequency", "%q is not a supported frequency", string(p.Frequency))
	}
	if p.TermYears < 1 || p.TermYears > MaxTermYears {
		return common.InvalidInput("term_years", "must be between 1 and %d, got %d", MaxTermYears, p.TermYears)
	}
	return nil
}

func checkRate(field string, pct float64) error {
	if err := rates.CheckAnnual(field, pct); err != nil {
		return err
	}
	if pct < 0 {
		return common.InvalidInput(field, "must not be negative, got %g", pct)
	}
	return nil
}

// Value builds the cash-flow ledger of p and its total present value.
// Payments are numbered 1..N; the trailing totals row has Period 0 and no
// year fraction or cash flow.
func Value(p models.BondParams) (*models.BondValuation, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	ppy, err := rates.PeriodsPerYear(p.Frequency)
	if err != nil {
		return nil, err
	}
	couponRate, err := rates.Periodic(p.CouponRatePercent, p.Frequency)
	if err != nil {
		return nil, err
	}
	d, err := rates.Periodic(p.DiscountRatePercent, p.Frequency)
	if err != nil {
		return nil, err
	}

	n := p.TermYears * ppy
	coupon := p.FaceValue * couponRate
	flows := cashFlows(p.FaceValue, coupon, n)
	pvs := discount(flows, d)
	cumulative := cumulate(pvs)
	total := cumulative[n-1]

	ledger := make([]models.BondEntry, 0, n+1)
	for i := range flows {
		yf := float64(i+1) / float64(ppy)
		cf := flows[i]
		ledger = append(ledger, models.BondEntry{
			Period:       i + 1,
			YearFraction: &yf,
			CashFlow:     &cf,
			PresentValue: pvs[i],
		})
	}
	ledger = append(ledger, models.BondEntry{PresentValue: total, IsTotal: true})

	diff := total - p.FaceValue
	return &models.BondValuation{
		Params:                 p,
		Ledger:                 ledger,
		TotalPresentValue:      total,
		PeriodicCoupon:         coupon,
		PeriodicCouponRate:     couponRate,
		PeriodicDiscountRate:   d,
		TotalPeriods:           n,
		PeriodsPerYear:         ppy,
		Classification:         Classify(total, p.FaceValue),
		Difference:             diff,
		DifferencePercent:      diff / p.FaceValue * 100,
		CumulativePresentValue: cumulative,
	}, nil
}

// parTolerance is the relative difference treated as floating-point noise.
const parTolerance = 1e-9

// Classify follows the sign of presentValue - faceValue. Differences within
// parTolerance of face value count as par, so coupon == discount prices at par.
func Classify(presentValue, faceValue float64) models.BondClass {
	diff := presentValue - faceValue
	tol := parTolerance * math.Abs(faceValue)
	switch {
	case diff > tol:
		return models.BondPremium
	case diff < -tol:
		return models.BondDiscount
	}
	return models.BondPar
}

// cashFlows pays coupon every period and returns face value with the last.
func cashFlows(face, coupon float64, n int) []float64 {
	flows := make([]float64, n)
	for i := range flows {
		flows[i] = coupon
	}
	flows[n-1] += face
	return flows
}

func discount(flows []float64, periodicRate float64) []float64 {
	pvs := make([]float64, len(flows))
	for i, cf := range flows {
		pvs[i] = cf / math.Pow(1+periodicRate, float64(i+1))
	}
	return pvs
}

// cumulate returns the running total of pvs. Its last element is the bond's
// total present value.
func cumulate(pvs []float64) []float64 {
	return floats.CumSum(make([]float64, len(pvs)), pvs)
}

// presentValue is the total PV of flows at periodicRate, accumulated the same
// way as Value.
func presentValue(flows []float64, periodicRate float64) float64 {
	cum := cumulate(discount(flows, periodicRate))
	return cum[len(cum)-1]
}
