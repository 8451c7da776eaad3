// Package rates converts annual effective rates to per-period rates.
package rates

import (
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// yearBasis is the commercial year used by the day-count lookup.
const yearBasis = 360

var dayCounts = map[models.Frequency]int{
	models.Monthly:     30,
	models.BiMonthly:   60,
	models.Quarterly:   90,
	models.FourMonthly: 120,
	models.SemiAnnual:  180,
	models.Annual:      360,
}

// DayCount returns the days in one period of f on a 360-day year.
func DayCount(f models.Frequency) (int, error) {
	days, ok := dayCounts[f]
	if !ok {
		return 0, common.InvalidInput("frequency", "%q is not a supported frequency", string(f))
	}
	return days, nil
}

// PeriodsPerYear returns how many periods of f make up a year.
func PeriodsPerYear(f models.Frequency) (int, error) {
	days, err := DayCount(f)
	if err != nil {
		return 0, err
	}
	return yearBasis / days, nil
}

// CheckAnnual validates an annual percentage rate: it must be finite and keep
// 1 + rate/100 positive.
func CheckAnnual(field string, annualRatePercent float64) error {
	if math.IsNaN(annualRatePercent) || math.IsInf(annualRatePercent, 0) {
		return common.InvalidInput(field, "must be a finite number")
	}
	if 1+annualRatePercent/100 <= 0 {
		return common.InvalidInput(field, "must be greater than -100%%, got %g", annualRatePercent)
	}
	return nil
}

// Periodic converts an annual effective rate in percent to the effective
// rate of one period of f, as a fraction:
//
//	(1 + annual/100)^(days/360) - 1
func Periodic(annualRatePercent float64, f models.Frequency) (float64, error) {
	days, err := DayCount(f)
	if err != nil {
		return 0, err
	}
	if err := CheckAnnual("annual_rate_percent", annualRatePercent); err != nil {
		return 0, err
	}
	return math.Pow(1+annualRatePercent/100, float64(days)/yearBasis) - 1, nil
}

// Annual is the inverse of Periodic: it compounds a periodic fraction back to
// an annual effective rate in percent.
func Annual(periodicRate float64, f models.Frequency) (float64, error) {
	days, err := DayCount(f)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(periodicRate) || math.IsInf(periodicRate, 0) || 1+periodicRate <= 0 {
		return 0, common.InvalidInput("periodic_rate", "must keep 1 + rate positive, got %g", periodicRate)
	}
	return (math.Pow(1+periodicRate, yearBasis/float64(days)) - 1) * 100, nil
}
