package growth

import (
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// Plan bounds.
const (
	MinAge          = 18
	MaxAge          = 100
	MinHorizonYears = 1
	MaxHorizonYears = 70
)

// Normalize validates a plan and fills defaults. The returned plan always has
// HorizonYears set, and a pension plan always has RetirementRatePercent set.
func Normalize(plan models.GrowthPlan) (models.GrowthPlan, error) {
	if plan.CurrentAge < MinAge || plan.CurrentAge > MaxAge {
		return plan, common.InvalidInput("current_age", "must be between %d and %d, got %d", MinAge, MaxAge, plan.CurrentAge)
	}
	if math.IsNaN(plan.InitialAmount) || plan.InitialAmount < 0 {
		return plan, common.InvalidInput("initial_amount", "must not be negative, got %g", plan.InitialAmount)
	}
	if math.IsNaN(plan.Contribution) || plan.Contribution < 0 {
		return plan, common.InvalidInput("contribution", "must not be negative, got %g", plan.Contribution)
	}
	if plan.InitialAmount == 0 && plan.Contribution == 0 {
		return plan, common.InvalidInput("initial_amount", "an initial amount or a periodic contribution is required")
	}
	if err := rates.CheckAnnual("annual_rate_percent", plan.AnnualRatePercent); err != nil {
		return plan, err
	}
	if !plan.Frequency.Valid() {
		return plan, common.InvalidInput("frequency", "%q is not a supported frequency", string(plan.Frequency))
	}
	if _, ok := plan.TaxType.Rate(); !ok {
		return plan, common.InvalidInput("tax_type", "%q is not a supported tax type", string(plan.TaxType))
	}
	if !plan.Withdrawal.Valid() {
		return plan, common.InvalidInput("withdrawal", "%q is not a supported withdrawal kind", string(plan.Withdrawal))
	}

	if plan.RetirementAge != 0 {
		if plan.RetirementAge <= plan.CurrentAge || plan.RetirementAge > MaxAge {
			return plan, common.InvalidInput("retirement_age", "must be after current age %d and at most %d, got %d", plan.CurrentAge, MaxAge, plan.RetirementAge)
		}
		plan.HorizonYears = plan.RetirementAge - plan.CurrentAge
	}
	if plan.HorizonYears < MinHorizonYears || plan.HorizonYears > MaxHorizonYears {
		return plan, common.InvalidInput("horizon_years", "must be between %d and %d, got %d", MinHorizonYears, MaxHorizonYears, plan.HorizonYears)
	}

	if plan.Withdrawal == models.WithdrawPension {
		if plan.RetirementRatePercent == 0 {
			plan.RetirementRatePercent = plan.AnnualRatePercent
		}
		if plan.RetirementRatePercent < 0 {
			return plan, common.InvalidInput("retirement_rate_percent", "must not be negative, got %g", plan.RetirementRatePercent)
		}
	} else {
		plan.RetirementRatePercent = 0
	}

	return plan, nil
}

// Run evaluates a plan: rate conversion, projection with ages, summary.
func Run(plan models.GrowthPlan) (*models.GrowthResult, error) {
	plan, err := Normalize(plan)
	if err != nil {
		return nil, err
	}

	ppy, err := rates.PeriodsPerYear(plan.Frequency)
	if err != nil {
		return nil, err
	}
	r, err := rates.Periodic(plan.AnnualRatePercent, plan.Frequency)
	if err != nil {
		return nil, err
	}

	ledger, err := project(plan.InitialAmount, plan.Contribution, r, plan.HorizonYears*ppy, func(i int) int {
		return plan.CurrentAge + i/ppy
	})
	if err != nil {
		return nil, err
	}

	taxRate, _ := plan.TaxType.Rate()
	summary, err := Summarize(ledger, Withdrawal{
		Kind:                  plan.Withdrawal,
		TaxRate:               taxRate,
		RetirementRatePercent: plan.RetirementRatePercent,
		HorizonYears:          plan.HorizonYears,
	})
	if err != nil {
		return nil, err
	}

	return &models.GrowthResult{
		Plan:           plan,
		HorizonYears:   plan.HorizonYears,
		PeriodsPerYear: ppy,
		FinalAge:       plan.CurrentAge + plan.HorizonYears,
		Ledger:         ledger,
		Summary:        summary,
	}, nil
}
