package models

// BondParams describes a plain coupon bond. Rates are annual effective
// percentages.
type BondParams struct {
	FaceValue           float64   `json:"face_value" yaml:"face_value"`
	CouponRatePercent   float64   `json:"coupon_rate_percent" yaml:"coupon_rate_percent"`
	Frequency           Frequency `json:"frequency" yaml:"frequency"`
	TermYears           int       `json:"term_years" yaml:"term_years"`
	DiscountRatePercent float64   `json:"discount_rate_percent" yaml:"discount_rate_percent"`
}

// BondEntry is one payment of the ledger, or the trailing totals row.
// On the totals row YearFraction and CashFlow are nil: not applicable, as
// opposed to zero.
type BondEntry struct {
	Period       int      `json:"period"`
	YearFraction *float64 `json:"year_fraction"`
	CashFlow     *float64 `json:"cash_flow"`
	PresentValue float64  `json:"present_value"`
	IsTotal      bool     `json:"is_total,omitempty"`
}

// BondClass is the price position of a bond relative to its face value.
type BondClass string

const (
	BondPremium  BondClass = "premium"
	BondDiscount BondClass = "discount"
	BondPar      BondClass = "par"
)

// Label returns the human readable name used in reports.
func (c BondClass) Label() string {
	switch c {
	case BondPremium:
		return "Premium"
	case BondDiscount:
		return "Discount"
	case BondPar:
		return "Par"
	}
	return string(c)
}

// BondValuation is the discounted cash-flow valuation of a bond.
type BondValuation struct {
	Params                 BondParams  `json:"params"`
	Ledger                 []BondEntry `json:"ledger"`
	TotalPresentValue      float64     `json:"total_present_value"`
	PeriodicCoupon         float64     `json:"periodic_coupon"`
	PeriodicCouponRate     float64     `json:"periodic_coupon_rate"`
	PeriodicDiscountRate   float64     `json:"periodic_discount_rate"`
	TotalPeriods           int         `json:"total_periods"`
	PeriodsPerYear         int         `json:"periods_per_year"`
	Classification         BondClass   `json:"classification"`
	Difference             float64     `json:"difference"`
	DifferencePercent      float64     `json:"difference_percent"`
	CumulativePresentValue []float64   `json:"cumulative_present_value"`
}

// Payments returns the ledger without the totals row.
func (v *BondValuation) Payments() []BondEntry {
	if n := len(v.Ledger); n > 0 && v.Ledger[n-1].IsTotal {
		return v.Ledger[:n-1]
	}
	return v.Ledger
}

// SensitivityPoint is the total present value at one discount rate.
type SensitivityPoint struct {
	RatePercent  float64 `json:"rate_percent"`
	PresentValue float64 `json:"present_value"`
}

// BondScenario is one column of a rate scenario comparison.
type BondScenario struct {
	Name           string    `json:"name"` // "optimistic", "base", "pessimistic"
	RatePercent    float64   `json:"rate_percent"`
	PresentValue   float64   `json:"present_value"`
	Difference     float64   `json:"difference"`
	Classification BondClass `json:"classification"`
}

// BondScenarios compares the base discount rate against a lower and a
// higher one.
type BondScenarios struct {
	Optimistic  BondScenario `json:"optimistic"`
	Base        BondScenario `json:"base"`
	Pessimistic BondScenario `json:"pessimistic"`
}

// All returns the scenarios in display order.
func (s *BondScenarios) All() []BondScenario {
	return []BondScenario{s.Optimistic, s.Base, s.Pessimistic}
}

// BondDuration holds interest rate sensitivity measures, in years.
type BondDuration struct {
	Macaulay float64 `json:"macaulay"`
	Modified float64 `json:"modified"`
}

// BondYield is the annual effective yield that prices the bond at Price.
type BondYield struct {
	Price             float64 `json:"price"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	PeriodicRate      float64 `json:"periodic_rate"`
	Iterations        int     `json:"iterations"`
}

// BondInterpretation is the narrative attached to a valuation.
type BondInterpretation struct {
	Headline        string   `json:"headline"`
	Detail          string   `json:"detail"`
	Reason          string   `json:"reason"`
	Recommendations []string `json:"recommendations"`
}

// Canonical resolves frequency aliases.
func (p BondParams) Canonical() (BondParams, error) {
	f, err := ParseFrequency(string(p.Frequency))
	if err != nil {
		return p, err
	}
	p.Frequency = f
	return p, nil
}
