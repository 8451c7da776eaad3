package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

func TestCompareRetirementAges_LaterRetirementWins(t *testing.T) {
	cmp, err := CompareRetirementAges(basePlan(), 60, 65)
	require.NoError(t, err)

	assert.Equal(t, BasisRetirementAge, cmp.Basis)
	assert.Equal(t, "Retire at 60", cmp.OptionA.Label)
	assert.Equal(t, 30, cmp.OptionA.Plan.HorizonYears)
	assert.Equal(t, 35, cmp.OptionB.Plan.HorizonYears)
	assert.Equal(t, "B", cmp.Better)
	assert.Greater(t, cmp.Difference, 0.0)
	assert.InDelta(t, cmp.OptionB.Payout-cmp.OptionA.Payout, cmp.Difference, 1e-9)
}

func TestCompareRetirementAges_EarlierFirstArgumentCanWin(t *testing.T) {
	cmp, err := CompareRetirementAges(basePlan(), 70, 50)
	require.NoError(t, err)
	assert.Equal(t, "A", cmp.Better)
}

func TestCompareRates_DistinctPensions(t *testing.T) {
	plan := basePlan()
	plan.Withdrawal = models.WithdrawPension
	plan.RetirementRatePercent = 5

	cmp, err := CompareRates(plan, 10, 6)
	require.NoError(t, err)

	assert.Equal(t, BasisAnnualRate, cmp.Basis)
	assert.Equal(t, "A", cmp.Better)
	assert.Equal(t, 5.0, cmp.OptionA.Plan.RetirementRatePercent)
	assert.Equal(t, 5.0, cmp.OptionB.Plan.RetirementRatePercent)
	assert.NotEqual(t, cmp.OptionA.Payout, cmp.OptionB.Payout)
	assert.InDelta(t, cmp.OptionA.Payout-cmp.OptionB.Payout, cmp.Difference, 1e-9)
}

func TestCompareRates_PensionKeepsBaseRetirementRate(t *testing.T) {
	plan := basePlan()
	plan.Withdrawal = models.WithdrawPension

	cmp, err := CompareRates(plan, 4, 12)
	require.NoError(t, err)

	assert.Equal(t, 8.0, cmp.OptionA.Plan.RetirementRatePercent)
	assert.Equal(t, 8.0, cmp.OptionB.Plan.RetirementRatePercent)
}

func TestCompare_TieGoesToB(t *testing.T) {
	cmp, err := CompareRates(basePlan(), 8, 8)
	require.NoError(t, err)
	assert.Equal(t, "B", cmp.Better)
	assert.Zero(t, cmp.Difference)
}

func TestCompare_InvalidOption(t *testing.T) {
	_, err := CompareRetirementAges(basePlan(), 20, 65)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "option A")

	_, err = CompareRates(basePlan(), 8, -100)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Contains(t, err.Error(), "option B")
}

func TestCompare_Dispatch(t *testing.T) {
	cmp, err := Compare(basePlan(), BasisRetirementAge, 60, 65)
	require.NoError(t, err)
	assert.Equal(t, "Retire at 65", cmp.OptionB.Label)

	cmp, err = Compare(basePlan(), BasisAnnualRate, 10, 6)
	require.NoError(t, err)
	assert.Equal(t, "A", cmp.Better)

	_, err = Compare(basePlan(), "inflation", 1, 2)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCompare_RejectsFractionalAges(t *testing.T) {
	for _, ages := range [][2]float64{{65.7, 70}, {60, 64.5}, {math.NaN(), 65}, {60, math.Inf(1)}} {
		_, err := Compare(basePlan(), BasisRetirementAge, ages[0], ages[1])
		var ve *common.ValidationError
		require.ErrorAs(t, err, &ve, "%v", ages)
		assert.Contains(t, []string{"option_a", "option_b"}, ve.Field)
	}
}
