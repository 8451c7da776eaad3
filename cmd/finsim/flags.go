package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finsim/internal/models"
)

type planFlags struct {
	age           int
	initial       float64
	contribution  float64
	rate          float64
	frequency     string
	years         int
	retirementAge int
	tax           string
	withdrawal    string
	retireRate    float64
}

func (f *planFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.age, "age", 0, "Current age (18-100)")
	fs.Float64Var(&f.initial, "initial", 0, "Initial amount")
	fs.Float64Var(&f.contribution, "contribution", 0, "Contribution per period")
	fs.Float64Var(&f.rate, "rate", 0, "Annual effective rate, percent")
	fs.StringVar(&f.frequency, "frequency", "monthly", "Contribution frequency")
	fs.IntVar(&f.years, "years", 0, "Horizon in years (1-70)")
	fs.IntVar(&f.retirementAge, "retire-at", 0, "Retirement age, overrides --years")
	fs.StringVar(&f.tax, "tax", string(models.TaxLocal), "Tax type: local or foreign")
	fs.StringVar(&f.withdrawal, "withdrawal", string(models.WithdrawLumpSum), "Withdrawal: lump_sum or pension")
	fs.Float64Var(&f.retireRate, "retirement-rate", 0, "Dividend rate in retirement, percent (pension only)")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("rate")
}

func (f *planFlags) plan() (models.GrowthPlan, error) {
	return models.GrowthPlan{
		CurrentAge:            f.age,
		InitialAmount:         f.initial,
		Contribution:          f.contribution,
		AnnualRatePercent:     f.rate,
		Frequency:             models.Frequency(f.frequency),
		HorizonYears:          f.years,
		RetirementAge:         f.retirementAge,
		TaxType:               models.TaxType(f.tax),
		Withdrawal:            models.WithdrawalKind(f.withdrawal),
		RetirementRatePercent: f.retireRate,
	}.Canonical()
}

type bondFlags struct {
	face      float64
	coupon    float64
	frequency string
	years     int
	discount  float64
}

func (f *bondFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.face, "face", 0, "Face value")
	fs.Float64Var(&f.coupon, "coupon", 0, "Annual effective coupon rate, percent")
	fs.StringVar(&f.frequency, "frequency", "semiannual", "Coupon frequency")
	fs.IntVar(&f.years, "years", 0, "Term in years")
	fs.Float64Var(&f.discount, "discount", 0, "Annual effective discount rate, percent")
	_ = cmd.MarkFlagRequired("face")
	_ = cmd.MarkFlagRequired("years")
}

func (f *bondFlags) params() (models.BondParams, error) {
	return models.BondParams{
		FaceValue:           f.face,
		CouponRatePercent:   f.coupon,
		Frequency:           models.Frequency(f.frequency),
		TermYears:           f.years,
		DiscountRatePercent: f.discount,
	}.Canonical()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeMetrics(w io.Writer, metrics []models.Metric) error {
	tw := newTable(w)
	for _, m := range metrics {
		fmt.Fprintf(tw, "%s\t%s\n", m.Label, m.Value)
	}
	return tw.Flush()
}
