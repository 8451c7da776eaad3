package models

// GrowthEntry is one period of a growth ledger. Period 0 is the seed row.
// Interest is accumulated interest: closing balance less contributions to date.
type GrowthEntry struct {
	Period                  int     `json:"period"`
	Age                     int     `json:"age"`
	OpeningBalance          float64 `json:"opening_balance"`
	Interest                float64 `json:"interest"`
	Contribution            float64 `json:"contribution"`
	ClosingBalance          float64 `json:"closing_balance"`
	CumulativeContributions float64 `json:"cumulative_contributions"`
}

// GrowthLedger is the period-by-period projection, periods 0..N.
type GrowthLedger struct {
	Entries          []GrowthEntry `json:"entries"`
	PeriodicRate     float64       `json:"periodic_rate"`
	FinalBalance     float64       `json:"final_balance"`
	TotalContributed float64       `json:"total_contributed"`
}

// Periods returns N, the number of contribution periods after the seed row.
func (l *GrowthLedger) Periods() int {
	return len(l.Entries) - 1
}

// AnnualEntries keeps the rows that close a year, seed row included.
func (l *GrowthLedger) AnnualEntries(periodsPerYear int) []GrowthEntry {
	if periodsPerYear <= 0 {
		return nil
	}
	out := make([]GrowthEntry, 0, len(l.Entries)/periodsPerYear+1)
	for _, e := range l.Entries {
		if e.Period%periodsPerYear == 0 {
			out = append(out, e)
		}
	}
	return out
}

// PensionSummary describes a dividend-style monthly pension drawn from the
// final balance.
type PensionSummary struct {
	RetirementRatePercent float64 `json:"retirement_rate_percent"`
	GrossAnnualDividend   float64 `json:"gross_annual_dividend"`
	NetAnnualDividend     float64 `json:"net_annual_dividend"`
	MonthlyPension        float64 `json:"monthly_pension"`
	TotalNetDividends     float64 `json:"total_net_dividends"`
}

// GrowthSummary holds end-of-horizon aggregates. Exactly one of NetPayout and
// Pension is set, matching Withdrawal.
type GrowthSummary struct {
	FinalBalance     float64         `json:"final_balance"`
	TotalContributed float64         `json:"total_contributed"`
	GrossGain        float64         `json:"gross_gain"`
	TaxRate          float64         `json:"tax_rate"`
	Tax              float64         `json:"tax"`
	ROIPercent       float64         `json:"roi_percent"`
	Withdrawal       WithdrawalKind  `json:"withdrawal"`
	NetPayout        *float64        `json:"net_payout,omitempty"`
	Pension          *PensionSummary `json:"pension,omitempty"`
}

// Payout returns the figure used to rank scenarios: net payout for a lump
// sum, monthly pension otherwise.
func (s GrowthSummary) Payout() float64 {
	if s.NetPayout != nil {
		return *s.NetPayout
	}
	if s.Pension != nil {
		return s.Pension.MonthlyPension
	}
	return 0
}

// GrowthPlan is an investment projection request. Set either HorizonYears or
// RetirementAge; RetirementAge wins when both are set.
type GrowthPlan struct {
	CurrentAge            int            `json:"current_age" yaml:"current_age"`
	InitialAmount         float64        `json:"initial_amount" yaml:"initial_amount"`
	Contribution          float64        `json:"contribution" yaml:"contribution"`
	AnnualRatePercent     float64        `json:"annual_rate_percent" yaml:"annual_rate_percent"`
	Frequency             Frequency      `json:"frequency" yaml:"frequency"`
	HorizonYears          int            `json:"horizon_years,omitempty" yaml:"horizon_years"`
	RetirementAge         int            `json:"retirement_age,omitempty" yaml:"retirement_age"`
	TaxType               TaxType        `json:"tax_type" yaml:"tax_type"`
	Withdrawal            WithdrawalKind `json:"withdrawal" yaml:"withdrawal"`
	RetirementRatePercent float64        `json:"retirement_rate_percent,omitempty" yaml:"retirement_rate_percent"`
}

// GrowthResult is a fully evaluated plan.
type GrowthResult struct {
	Plan           GrowthPlan    `json:"plan"`
	HorizonYears   int           `json:"horizon_years"`
	PeriodsPerYear int           `json:"periods_per_year"`
	FinalAge       int           `json:"final_age"`
	Ledger         *GrowthLedger `json:"ledger"`
	Summary        GrowthSummary `json:"summary"`
}

// ScenarioOption is one side of a growth comparison.
type ScenarioOption struct {
	Label   string        `json:"label"`
	Plan    GrowthPlan    `json:"plan"`
	Summary GrowthSummary `json:"summary"`
	Payout  float64       `json:"payout"`
}

// ScenarioComparison ranks two plan variants by payout.
type ScenarioComparison struct {
	Basis      string         `json:"basis"` // "retirement_age" or "annual_rate"
	OptionA    ScenarioOption `json:"option_a"`
	OptionB    ScenarioOption `json:"option_b"`
	Better     string         `json:"better"` // "A" or "B"
	Difference float64        `json:"difference"`
}

// Canonical resolves frequency aliases and defaults an empty tax type to
// local and an empty withdrawal to lump sum.
func (p GrowthPlan) Canonical() (GrowthPlan, error) {
	f, err := ParseFrequency(string(p.Frequency))
	if err != nil {
		return p, err
	}
	p.Frequency = f
	if p.TaxType == "" {
		p.TaxType = TaxLocal
	}
	if p.Withdrawal == "" {
		p.Withdrawal = WithdrawLumpSum
	}
	return p, nil
}
