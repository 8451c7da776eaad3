package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

func basePlan() models.GrowthPlan {
	return models.GrowthPlan{
		CurrentAge:        30,
		InitialAmount:     10000,
		Contribution:      500,
		AnnualRatePercent: 8,
		Frequency:         models.Monthly,
		HorizonYears:      10,
		TaxType:           models.TaxLocal,
		Withdrawal:        models.WithdrawLumpSum,
	}
}

func TestRun_LumpSum(t *testing.T) {
	res, err := Run(basePlan())
	require.NoError(t, err)

	assert.Equal(t, 10, res.HorizonYears)
	assert.Equal(t, 12, res.PeriodsPerYear)
	assert.Equal(t, 40, res.FinalAge)
	require.Len(t, res.Ledger.Entries, 121)

	assert.Equal(t, 30, res.Ledger.Entries[0].Age)
	assert.Equal(t, 30, res.Ledger.Entries[11].Age)
	assert.Equal(t, 31, res.Ledger.Entries[12].Age)
	assert.Equal(t, 40, res.Ledger.Entries[120].Age)

	assert.Equal(t, 70000.0, res.Summary.TotalContributed)
	assert.Greater(t, res.Summary.GrossGain, 0.0)
	require.NotNil(t, res.Summary.NetPayout)
	assert.InDelta(t, res.Summary.GrossGain*0.95, *res.Summary.NetPayout, 1e-6)
}

func TestRun_RetirementAgeWinsOverHorizon(t *testing.T) {
	plan := basePlan()
	plan.HorizonYears = 5
	plan.RetirementAge = 65

	res, err := Run(plan)
	require.NoError(t, err)
	assert.Equal(t, 35, res.HorizonYears)
	assert.Equal(t, 35, res.Plan.HorizonYears)
	assert.Equal(t, 65, res.FinalAge)
	assert.Equal(t, 35*12, res.Ledger.Periods())
}

func TestRun_PensionDefaultsRetirementRate(t *testing.T) {
	plan := basePlan()
	plan.Withdrawal = models.WithdrawPension
	plan.TaxType = models.TaxForeign

	res, err := Run(plan)
	require.NoError(t, err)

	assert.Equal(t, 8.0, res.Plan.RetirementRatePercent)
	require.NotNil(t, res.Summary.Pension)
	assert.Nil(t, res.Summary.NetPayout)

	gross := res.Summary.FinalBalance * 0.5 * 0.08
	assert.InDelta(t, gross, res.Summary.Pension.GrossAnnualDividend, 1e-6)
	assert.InDelta(t, gross*(1-0.295), res.Summary.Pension.NetAnnualDividend, 1e-6)
	assert.InDelta(t, gross*(1-0.295)*10, res.Summary.Pension.TotalNetDividends, 1e-6)
}

func TestRun_LumpSumClearsRetirementRate(t *testing.T) {
	plan := basePlan()
	plan.RetirementRatePercent = 4

	res, err := Run(plan)
	require.NoError(t, err)
	assert.Zero(t, res.Plan.RetirementRatePercent)
}

func TestRun_AnnualView(t *testing.T) {
	plan := basePlan()
	plan.Frequency = models.Quarterly

	res, err := Run(plan)
	require.NoError(t, err)

	annual := res.Ledger.AnnualEntries(res.PeriodsPerYear)
	require.Len(t, annual, 11)
	for y, e := range annual {
		assert.Equal(t, y*4, e.Period)
		assert.Equal(t, 30+y, e.Age)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.GrowthPlan)
		field  string
	}{
		{"too young", func(p *models.GrowthPlan) { p.CurrentAge = 17 }, "current_age"},
		{"too old", func(p *models.GrowthPlan) { p.CurrentAge = 101 }, "current_age"},
		{"negative initial", func(p *models.GrowthPlan) { p.InitialAmount = -1 }, "initial_amount"},
		{"negative contribution", func(p *models.GrowthPlan) { p.Contribution = -1 }, "contribution"},
		{"nothing invested", func(p *models.GrowthPlan) { p.InitialAmount, p.Contribution = 0, 0 }, "initial_amount"},
		{"rate at -100", func(p *models.GrowthPlan) { p.AnnualRatePercent = -100 }, "annual_rate_percent"},
		{"bad frequency", func(p *models.GrowthPlan) { p.Frequency = "weekly" }, "frequency"},
		{"bad tax", func(p *models.GrowthPlan) { p.TaxType = "offshore" }, "tax_type"},
		{"bad withdrawal", func(p *models.GrowthPlan) { p.Withdrawal = "annuity" }, "withdrawal"},
		{"zero horizon", func(p *models.GrowthPlan) { p.HorizonYears = 0 }, "horizon_years"},
		{"horizon too long", func(p *models.GrowthPlan) { p.HorizonYears = 71 }, "horizon_years"},
		{"retire before now", func(p *models.GrowthPlan) { p.RetirementAge = 30 }, "retirement_age"},
		{"retire past max", func(p *models.GrowthPlan) { p.RetirementAge = 101 }, "retirement_age"},
		{"negative pension rate", func(p *models.GrowthPlan) {
			p.Withdrawal = models.WithdrawPension
			p.RetirementRatePercent = -3
		}, "retirement_rate_percent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := basePlan()
			tt.mutate(&plan)

			_, err := Run(plan)
			require.Error(t, err)
			assert.True(t, common.IsInvalidInput(err))

			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestNormalize_ContributionOnly(t *testing.T) {
	plan := basePlan()
	plan.InitialAmount = 0

	res, err := Run(plan)
	require.NoError(t, err)
	assert.Zero(t, res.Ledger.Entries[0].ClosingBalance)
	assert.Equal(t, 500.0*120, res.Summary.TotalContributed)
}
