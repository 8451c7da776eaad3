package growth

import (
	"fmt"
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// Comparison bases.
const (
	BasisRetirementAge = "retirement_age"
	BasisAnnualRate    = "annual_rate"
)

// Compare dispatches on basis. Option values arrive as numbers from JSON and
// flags; retirement ages must be whole years.
func Compare(plan models.GrowthPlan, basis string, optionA, optionB float64) (*models.ScenarioComparison, error) {
	switch basis {
	case BasisRetirementAge:
		ageA, err := wholeAge("option_a", optionA)
		if err != nil {
			return nil, err
		}
		ageB, err := wholeAge("option_b", optionB)
		if err != nil {
			return nil, err
		}
		return CompareRetirementAges(plan, ageA, ageB)
	case BasisAnnualRate:
		return CompareRates(plan, optionA, optionB)
	}
	return nil, common.InvalidInput("basis", "must be %q or %q, got %q",
		BasisRetirementAge, BasisAnnualRate, basis)
}

func wholeAge(field string, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || math.Abs(v) > 1000 {
		return 0, common.InvalidInput(field, "retirement age must be a whole number of years, got %g", v)
	}
	return int(v), nil
}

// CompareRetirementAges runs the plan twice, retiring at ageA and at ageB.
func CompareRetirementAges(plan models.GrowthPlan, ageA, ageB int) (*models.ScenarioComparison, error) {
	a, b := plan, plan
	a.HorizonYears, a.RetirementAge = 0, ageA
	b.HorizonYears, b.RetirementAge = 0, ageB

	return compare(BasisRetirementAge,
		a, fmt.Sprintf("Retire at %d", ageA),
		b, fmt.Sprintf("Retire at %d", ageB))
}

// CompareRates runs the plan twice with two portfolio rates over the same
// horizon. A pension keeps the base plan's retirement rate.
func CompareRates(plan models.GrowthPlan, rateA, rateB float64) (*models.ScenarioComparison, error) {
	base, err := Normalize(plan)
	if err != nil {
		return nil, err
	}

	a, b := base, base
	a.AnnualRatePercent = rateA
	b.AnnualRatePercent = rateB

	return compare(BasisAnnualRate,
		a, fmt.Sprintf("%.2f%% annual rate", rateA),
		b, fmt.Sprintf("%.2f%% annual rate", rateB))
}

// compare evaluates both options. A wins only when strictly better; ties go
// to B.
func compare(basis string, a models.GrowthPlan, labelA string, b models.GrowthPlan, labelB string) (*models.ScenarioComparison, error) {
	ra, err := Run(a)
	if err != nil {
		return nil, fmt.Errorf("option A: %w", err)
	}
	rb, err := Run(b)
	if err != nil {
		return nil, fmt.Errorf("option B: %w", err)
	}

	pa, pb := ra.Summary.Payout(), rb.Summary.Payout()
	better := "B"
	if pa > pb {
		better = "A"
	}

	return &models.ScenarioComparison{
		Basis:      basis,
		OptionA:    models.ScenarioOption{Label: labelA, Plan: ra.Plan, Summary: ra.Summary, Payout: pa},
		OptionB:    models.ScenarioOption{Label: labelB, Plan: rb.Plan, Summary: rb.Summary, Payout: pb},
		Better:     better,
		Difference: math.Abs(pa - pb),
	}, nil
}
