package bond

import (
	"errors"
	"fmt"
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/rates"
)

// ErrNoConvergence is returned when the yield solver cannot price the bond.
var ErrNoConvergence = errors.New("yield solver did not converge")

// Newton-Raphson settings. Tolerance is relative to the target price.
const (
	yieldTolerance = 1e-9
	yieldMaxIter   = 100
	yieldFloor     = -0.5
	yieldCeiling   = 1.0
	yieldFallback  = 0.01
)

// Duration returns the Macaulay and modified duration of a valuation, in
// years.
func Duration(v *models.BondValuation) models.BondDuration {
	if v == nil || v.TotalPresentValue == 0 {
		return models.BondDuration{}
	}

	var weighted float64
	for _, e := range v.Payments() {
		weighted += *e.YearFraction * e.PresentValue
	}
	mac := weighted / v.TotalPresentValue
	return models.BondDuration{
		Macaulay: mac,
		Modified: mac / (1 + v.PeriodicDiscountRate),
	}
}

// Yield solves for the annual effective discount rate at which the bond's
// total present value equals price.
func Yield(p models.BondParams, price float64) (*models.BondYield, error) {
	if err := validate(p); err != nil {
		return nil, err
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil, common.InvalidInput("price", "must be a positive amount, got %g", price)
	}

	flows, err := bondFlows(p)
	if err != nil {
		return nil, err
	}
	guess, err := rates.Periodic(p.CouponRatePercent, p.Frequency)
	if err != nil {
		return nil, err
	}
	if guess == 0 {
		guess = yieldFallback
	}

	y, iterations, err := solveYield(flows, price, guess)
	if err != nil {
		return nil, err
	}
	annual, err := rates.Annual(y, p.Frequency)
	if err != nil {
		return nil, err
	}

	return &models.BondYield{
		Price:             price,
		AnnualRatePercent: annual,
		PeriodicRate:      y,
		Iterations:        iterations,
	}, nil
}

func solveYield(flows []float64, target, guess float64) (float64, int, error) {
	y := clamp(guess, yieldFloor, yieldCeiling)
	tol := yieldTolerance * math.Max(1, target)

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(flows, y)
		f := price - target
		if math.Abs(f) < tol {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("%w: derivative vanished at iteration %d", ErrNoConvergence, iter)
		}

		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("%w after %d iterations", ErrNoConvergence, yieldMaxIter)
}

// priceAndDeriv returns the present value of flows at periodic rate y and
// its derivative:
//
//	P     = sum CF_k / (1+y)^k
//	dP/dy = sum -k CF_k / (1+y)^(k+1)
func priceAndDeriv(flows []float64, y float64) (float64, float64) {
	var price, deriv float64
	for i, cf := range flows {
		k := float64(i + 1)
		disc := math.Pow(1+y, k)
		price += cf / disc
		deriv -= k * cf / (disc * (1 + y))
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
