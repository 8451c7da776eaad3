package bond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

func TestDefaultSweep(t *testing.T) {
	sweep := DefaultSweep()
	require.Len(t, sweep, 39)
	assert.Equal(t, 1.0, sweep[0])
	assert.Equal(t, 20.0, sweep[38])
	for i := 1; i < len(sweep); i++ {
		assert.InDelta(t, 0.5, sweep[i]-sweep[i-1], 1e-12)
	}
}

func TestSensitivity_MatchesValueAtEachRate(t *testing.T) {
	p := semiAnnualBond()
	points, err := Sensitivity(p, []float64{3, 6, 7, 11})
	require.NoError(t, err)
	require.Len(t, points, 4)

	for _, pt := range points {
		q := p
		q.DiscountRatePercent = pt.RatePercent
		v, err := Value(q)
		require.NoError(t, err)
		assert.Equal(t, v.TotalPresentValue, pt.PresentValue, "rate %g", pt.RatePercent)
	}
}

func TestSensitivity_DefaultSweepIsDecreasing(t *testing.T) {
	points, err := Sensitivity(semiAnnualBond(), nil)
	require.NoError(t, err)
	require.Len(t, points, 39)

	for i := 1; i < len(points); i++ {
		assert.Less(t, points[i].PresentValue, points[i-1].PresentValue)
	}
}

func TestSensitivity_RejectsNegativeRate(t *testing.T) {
	_, err := Sensitivity(semiAnnualBond(), []float64{5, -1})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	bad := semiAnnualBond()
	bad.FaceValue = 0
	_, err = Sensitivity(bad, nil)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSensitivity_CapsRateList(t *testing.T) {
	rates := make([]float64, MaxSensitivityPoints)
	for i := range rates {
		rates[i] = 1 + float64(i%20)
	}
	points, err := Sensitivity(semiAnnualBond(), rates)
	require.NoError(t, err)
	assert.Len(t, points, MaxSensitivityPoints)

	_, err = Sensitivity(semiAnnualBond(), append(rates, 5))
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "rates", ve.Field)
}

func TestScenarios_Defaults(t *testing.T) {
	s, err := Scenarios(semiAnnualBond(), nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 5.0, s.Optimistic.RatePercent)
	assert.Equal(t, 7.0, s.Base.RatePercent)
	assert.Equal(t, 9.0, s.Pessimistic.RatePercent)

	assert.Greater(t, s.Optimistic.PresentValue, s.Base.PresentValue)
	assert.Greater(t, s.Base.PresentValue, s.Pessimistic.PresentValue)
	assert.Equal(t, models.BondPremium, s.Optimistic.Classification)
	assert.Equal(t, models.BondDiscount, s.Base.Classification)

	v, err := Value(semiAnnualBond())
	require.NoError(t, err)
	assert.Equal(t, v.TotalPresentValue, s.Base.PresentValue)
	assert.Equal(t, s.Base.PresentValue-1000, s.Base.Difference)

	names := []string{}
	for _, sc := range s.All() {
		names = append(names, sc.Name)
	}
	assert.Equal(t, []string{"optimistic", "base", "pessimistic"}, names)
}

func TestScenarios_LowBaseFloorsOptimistic(t *testing.T) {
	p := semiAnnualBond()
	p.DiscountRatePercent = 1.5

	s, err := Scenarios(p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Optimistic.RatePercent)
	assert.Equal(t, 3.5, s.Pessimistic.RatePercent)
}

func TestScenarios_Overrides(t *testing.T) {
	opt, pess := 4.25, 12.0
	s, err := Scenarios(semiAnnualBond(), &opt, &pess)
	require.NoError(t, err)
	assert.Equal(t, 4.25, s.Optimistic.RatePercent)
	assert.Equal(t, 12.0, s.Pessimistic.RatePercent)

	neg := -3.0
	_, err = Scenarios(semiAnnualBond(), &neg, nil)
	require.ErrorIs(t, err, common.ErrInvalidInput)
	var ve *common.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "optimistic_rate_percent", ve.Field)
}

func TestScenarios_ClassificationMatchesDifferenceSign(t *testing.T) {
	p := semiAnnualBond()
	p.CouponRatePercent = p.DiscountRatePercent

	s, err := Scenarios(p, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BondPar, s.Base.Classification)
	assert.InDelta(t, 0, s.Base.Difference, 1e-6)
	assert.Equal(t, models.BondPremium, s.Optimistic.Classification)
	assert.Positive(t, s.Optimistic.Difference)
	assert.Equal(t, models.BondDiscount, s.Pessimistic.Classification)
	assert.Negative(t, s.Pessimistic.Difference)
}
