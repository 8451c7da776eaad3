// Package growth projects invested balances with level periodic contributions.
package growth

import (
	"math"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
)

// MaxPeriods bounds a projection: 100 years of monthly contributions.
const MaxPeriods = 1200

// Project builds the ledger for periods 0..periods. For period i the closing
// balance is the future value of the initial balance plus the future value of
// an ordinary annuity of contribution:
//
//	P(1+r)^i + C((1+r)^i - 1)/r      (C*i when r == 0)
//
// The Age column carries the period index.
func Project(initialBalance, contribution, periodicRate float64, periods int) (*models.GrowthLedger, error) {
	return project(initialBalance, contribution, periodicRate, periods, func(i int) int { return i })
}

func validateProjection(initialBalance, contribution, periodicRate float64, periods int) error {
	if math.IsNaN(initialBalance) || math.IsInf(initialBalance, 0) || initialBalance < 0 {
		return common.InvalidInput("initial_balance", "must be a finite non-negative amount, got %g", initialBalance)
	}
	if math.IsNaN(contribution) || math.IsInf(contribution, 0) || contribution < 0 {
		return common.InvalidInput("contribution", "must be a finite non-negative amount, got %g", contribution)
	}
	if periods < 0 {
		return common.InvalidInput("periods", "must not be negative, got %d", periods)
	}
	if periods > MaxPeriods {
		return common.InvalidInput("periods", "must not exceed %d, got %d", MaxPeriods, periods)
	}
	if math.IsNaN(periodicRate) || math.IsInf(periodicRate, 0) || 1+periodicRate <= 0 {
		return common.InvalidInput("periodic_rate", "must keep 1 + rate positive, got %g", periodicRate)
	}
	// Closing balances are monotonic in i, so a finite final balance bounds
	// every row.
	if periods > 0 {
		factor := math.Pow(1+periodicRate, float64(periods))
		final := initialBalance*factor + annuity(contribution, periodicRate, factor, periods)
		if !finite(final) {
			return common.InvalidInput("periodic_rate", "balance overflows within %d periods at rate %g", periods, periodicRate)
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func project(initialBalance, contribution, periodicRate float64, periods int, age func(period int) int) (*models.GrowthLedger, error) {
	if err := validateProjection(initialBalance, contribution, periodicRate, periods); err != nil {
		return nil, err
	}

	entries := make([]models.GrowthEntry, 0, periods+1)
	entries = append(entries, models.GrowthEntry{
		Period:                  0,
		Age:                     age(0),
		OpeningBalance:          initialBalance,
		ClosingBalance:          initialBalance,
		CumulativeContributions: initialBalance,
	})

	for i := 1; i <= periods; i++ {
		factor := math.Pow(1+periodicRate, float64(i))
		closing := initialBalance*factor + annuity(contribution, periodicRate, factor, i)
		cumulative := initialBalance + contribution*float64(i)

		entries = append(entries, models.GrowthEntry{
			Period:                  i,
			Age:                     age(i),
			OpeningBalance:          entries[i-1].ClosingBalance,
			Interest:                closing - cumulative,
			Contribution:            contribution,
			ClosingBalance:          closing,
			CumulativeContributions: cumulative,
		})
	}

	last := entries[len(entries)-1]
	return &models.GrowthLedger{
		Entries:          entries,
		PeriodicRate:     periodicRate,
		FinalBalance:     last.ClosingBalance,
		TotalContributed: last.CumulativeContributions,
	}, nil
}

// annuity is the future value after i periods of a level contribution paid at
// the end of each period. factor is (1+r)^i.
func annuity(contribution, periodicRate, factor float64, i int) float64 {
	if periodicRate == 0 {
		return contribution * float64(i)
	}
	return contribution * (factor - 1) / periodicRate
}
