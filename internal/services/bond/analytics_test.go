package bond

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

func TestDuration_ZeroCouponEqualsTerm(t *testing.T) {
	p := semiAnnualBond()
	p.CouponRatePercent = 0

	v, err := Value(p)
	require.NoError(t, err)

	d := Duration(v)
	assert.InDelta(t, 5.0, d.Macaulay, 1e-9)
	assert.InDelta(t, 5.0/(1+v.PeriodicDiscountRate), d.Modified, 1e-9)
}

func TestDuration_CouponBondShorterThanTerm(t *testing.T) {
	v, err := Value(semiAnnualBond())
	require.NoError(t, err)

	d := Duration(v)
	assert.Greater(t, d.Macaulay, 4.0)
	assert.Less(t, d.Macaulay, 5.0)
	assert.Less(t, d.Modified, d.Macaulay)
}

func TestDuration_Nil(t *testing.T) {
	assert.Equal(t, models.BondDuration{}, Duration(nil))
}

func TestYield_RoundTrip(t *testing.T) {
	for _, f := range models.Frequencies {
		for _, pct := range []float64{0.5, 4, 7, 15} {
			p := semiAnnualBond()
			p.Frequency = f
			p.DiscountRatePercent = pct

			v, err := Value(p)
			require.NoError(t, err)

			y, err := Yield(p, v.TotalPresentValue)
			require.NoError(t, err, "%s %g", f, pct)
			assert.InDelta(t, pct, y.AnnualRatePercent, 1e-6, "%s %g", f, pct)
			assert.InDelta(t, v.PeriodicDiscountRate, y.PeriodicRate, 1e-9)
			assert.Positive(t, y.Iterations)
		}
	}
}

func TestYield_AtParIsCouponRate(t *testing.T) {
	y, err := Yield(semiAnnualBond(), 1000)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, y.AnnualRatePercent, 1e-6)
}

func TestYield_ZeroCouponUsesFallbackGuess(t *testing.T) {
	p := semiAnnualBond()
	p.CouponRatePercent = 0

	y, err := Yield(p, 700)
	require.NoError(t, err)
	assert.Greater(t, y.AnnualRatePercent, 0.0)
}

func TestYield_Errors(t *testing.T) {
	_, err := Yield(semiAnnualBond(), 0)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Yield(semiAnnualBond(), -5)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = Yield(semiAnnualBond(), 0.001)
	assert.ErrorIs(t, err, ErrNoConvergence)
	assert.False(t, common.IsInvalidInput(err))
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		coupon   float64
		headline string
		first    string
	}{
		{9, "Premium bond (above par)", "The bond is attractive to buy (it trades at a premium)"},
		{6, "Discount bond (below par)", "The bond may be a buying opportunity (it trades at a discount)"},
		{7, "Bond at par", "The bond trades at its fair value"},
	}

	for _, tt := range tests {
		p := semiAnnualBond()
		p.CouponRatePercent = tt.coupon
		v, err := Value(p)
		require.NoError(t, err)

		in := Interpret(v)
		assert.Equal(t, tt.headline, in.Headline)
		require.Len(t, in.Recommendations, 3)
		assert.Equal(t, tt.first, in.Recommendations[0])
		assert.NotEmpty(t, in.Reason)
	}

	v, err := Value(semiAnnualBond())
	require.NoError(t, err)
	in := Interpret(v)
	assert.Contains(t, in.Detail, "$40.41 below face value")
	assert.Contains(t, in.Reason, "(6.00%)")
	assert.Contains(t, in.Reason, "(7.00%)")
}
