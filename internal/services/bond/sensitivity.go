package bond

import (
	"gonum.org/v1/gonum/floats"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// Scenario spread and sweep bounds, in percentage points.
const (
	scenarioSpread   = 2.0
	optimisticFloor  = 1.0
	sweepLowPercent  = 1.0
	sweepHighPercent = 20.0
	sweepPoints      = 39
)

// MaxSensitivityPoints bounds a caller-supplied rate list.
const MaxSensitivityPoints = 200

// DefaultSweep returns discount rates from 1% to 20% in half-point steps.
func DefaultSweep() []float64 {
	return floats.Span(make([]float64, sweepPoints), sweepLowPercent, sweepHighPercent)
}

// Sensitivity recomputes the total present value of p at each discount rate,
// holding coupon and face value fixed. A nil or empty ratesPercent uses
// DefaultSweep.
func Sensitivity(p models.BondParams, ratesPercent []float64) ([]models.SensitivityPoint, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if len(ratesPercent) == 0 {
		ratesPercent = DefaultSweep()
	}
	if len(ratesPercent) > MaxSensitivityPoints {
		return nil, common.InvalidInput("rates", "at most %d rates per sweep, got %d", MaxSensitivityPoints, len(ratesPercent))
	}

	flows, err := bondFlows(p)
	if err != nil {
		return nil, err
	}

	points := make([]models.SensitivityPoint, 0, len(ratesPercent))
	for _, pct := range ratesPercent {
		pv, err := valueAt(flows, pct, p.Frequency)
		if err != nil {
			return nil, err
		}
		points = append(points, models.SensitivityPoint{RatePercent: pct, PresentValue: pv})
	}
	return points, nil
}

// Scenarios compares p at an optimistic, the base and a pessimistic discount
// rate. Nil overrides default to base - 2 (1.0 when base <= 2) and base + 2.
func Scenarios(p models.BondParams, optimistic, pessimistic *float64) (*models.BondScenarios, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	base := p.DiscountRatePercent
	opt := base - scenarioSpread
	if base <= scenarioSpread {
		opt = optimisticFloor
	}
	if optimistic != nil {
		opt = *optimistic
	}
	pess := base + scenarioSpread
	if pessimistic != nil {
		pess = *pessimistic
	}

	flows, err := bondFlows(p)
	if err != nil {
		return nil, err
	}

	build := func(name, field string, pct float64) (models.BondScenario, error) {
		if err := checkRate(field, pct); err != nil {
			return models.BondScenario{}, err
		}
		pv, err := valueAt(flows, pct, p.Frequency)
		if err != nil {
			return models.BondScenario{}, err
		}
		return models.BondScenario{
			Name:           name,
			RatePercent:    pct,
			PresentValue:   pv,
			Difference:     pv - p.FaceValue,
			Classification: Classify(pv, p.FaceValue),
		}, nil
	}

	var out models.BondScenarios
	if out.Optimistic, err = build("optimistic", "optimistic_rate_percent", opt); err != nil {
		return nil, err
	}
	if out.Base, err = build("base", "discount_rate_percent", base); err != nil {
		return nil, err
	}
	if out.Pessimistic, err = build("pessimistic", "pessimistic_rate_percent", pess); err != nil {
		return nil, err
	}
	return &out, nil
}

func bondFlows(p models.BondParams) ([]float64, error) {
	ppy, err := rates.PeriodsPerYear(p.Frequency)
	if err != nil {
		return nil, err
	}
	couponRate, err := rates.Periodic(p.CouponRatePercent, p.Frequency)
	if err != nil {
		return nil, err
	}
	return cashFlows(p.FaceValue, p.FaceValue*couponRate, p.TermYears*ppy), nil
}

func valueAt(flows []float64, pct float64, f models.Frequency) (float64, error) {
	if err := checkRate("rate_percent", pct); err != nil {
		return 0, err
	}
	d, err := rates.Periodic(pct, f)
	if err != nil {
		return 0, err
	}
	return presentValue(flows, d), nil
}
