package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
	"github.com/bobmcallan/finsim/internal/services/rates"
	"github.com/bobmcallan/finsim/internal/services/report"
)

func newRateCmd() *cobra.Command {
	var frequency string
	cmd := &cobra.Command{
		Use:   "rate <annual-percent>",
		Short: "Convert an annual effective rate to a periodic rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var annual float64
			if _, err := fmt.Sscan(args[0], &annual); err != nil {
				return fmt.Errorf("annual rate %q is not a number", args[0])
			}

			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintln(tw, "FREQUENCY\tDAYS\tPERIODIC RATE")

			freqs := models.Frequencies
			if frequency != "" {
				f, err := models.ParseFrequency(frequency)
				if err != nil {
					return err
				}
				freqs = []models.Frequency{f}
			}
			for _, f := range freqs {
				r, err := rates.Periodic(annual, f)
				if err != nil {
					return err
				}
				days, _ := rates.DayCount(f)
				fmt.Fprintf(tw, "%s\t%d\t%.6f%%\n", f.Label(), days, r*100)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&frequency, "frequency", "", "Single frequency (default: all)")
	return cmd
}

func newGrowthCmd() *cobra.Command {
	var pf planFlags
	var ledger bool
	cmd := &cobra.Command{
		Use:   "growth",
		Short: "Project an investment plan",
		Example: `  finsim growth --age 30 --initial 10000 --contribution 500 --rate 8 --years 30
  finsim growth --age 40 --contribution 300 --rate 7 --retire-at 65 --withdrawal pension`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := pf.plan()
			if err != nil {
				return err
			}
			res, err := growth.Run(plan)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := writeMetrics(out, report.GrowthMetrics(res)); err != nil {
				return err
			}
			if !ledger {
				return nil
			}

			fmt.Fprintln(out)
			tw := newTable(out)
			fmt.Fprintln(tw, "YEAR\tAGE\tBALANCE\tCONTRIBUTED\tINTEREST")
			for _, e := range res.Ledger.AnnualEntries(res.PeriodsPerYear) {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\n",
					e.Period/res.PeriodsPerYear, e.Age,
					common.FormatMoney(e.ClosingBalance),
					common.FormatMoney(e.CumulativeContributions),
					common.FormatMoney(e.Interest))
			}
			return tw.Flush()
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&ledger, "ledger", false, "Print the annual ledger")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var pf planFlags
	var basis string
	var a, b float64
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a plan under two retirement ages or two rates",
		Example: `  finsim compare --age 30 --contribution 500 --rate 8 --basis retirement_age --a 60 --b 65
  finsim compare --age 30 --contribution 500 --rate 8 --years 30 --basis annual_rate --a 6 --b 9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := pf.plan()
			if err != nil {
				return err
			}

			c, err := growth.Compare(plan, basis, a, b)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := newTable(out)
			fmt.Fprintln(tw, "OPTION\tFINAL BALANCE\tGROSS GAIN\tPAYOUT")
			for _, o := range []struct {
				name string
				opt  models.ScenarioOption
			}{{"A", c.OptionA}, {"B", c.OptionB}} {
				fmt.Fprintf(tw, "%s: %s\t%s\t%s\t%s\n", o.name, o.opt.Label,
					common.FormatMoney(o.opt.Summary.FinalBalance),
					common.FormatMoney(o.opt.Summary.GrossGain),
					common.FormatMoney(o.opt.Payout))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nBetter option: %s, ahead by %s\n", c.Better, common.FormatMoney(c.Difference))
			return nil
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&basis, "basis", growth.BasisRetirementAge, "retirement_age or annual_rate")
	cmd.Flags().Float64Var(&a, "a", 0, "Option A value")
	cmd.Flags().Float64Var(&b, "b", 0, "Option B value")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

func newBondCmd() *cobra.Command {
	var bf bondFlags
	var scenarios, sensitivity bool
	var price float64
	cmd := &cobra.Command{
		Use:     "bond",
		Short:   "Value a coupon bond",
		Example: `  finsim bond --face 1000 --coupon 6 --frequency semiannual --years 5 --discount 7 --scenarios`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := bf.params()
			if err != nil {
				return err
			}
			v, err := bond.Value(p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			in := bond.Interpret(v)
			fmt.Fprintf(out, "%s\n%s\n\n", in.Headline, in.Detail)
			if err := writeMetrics(out, report.BondMetrics(v)); err != nil {
				return err
			}

			fmt.Fprintln(out)
			tw := newTable(out)
			fmt.Fprintln(tw, "PERIOD\tYEAR\tCASH FLOW\tPRESENT VALUE")
			for _, e := range v.Ledger {
				if e.IsTotal {
					fmt.Fprintf(tw, "TOTAL\t\t\t%s\n", common.FormatMoney(e.PresentValue))
					continue
				}
				fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\n", e.Period, *e.YearFraction,
					common.FormatMoney(*e.CashFlow), common.FormatMoney(e.PresentValue))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			d := bond.Duration(v)
			fmt.Fprintf(out, "\nMacaulay duration %.2f years, modified %.2f years\n", d.Macaulay, d.Modified)

			if scenarios {
				s, err := bond.Scenarios(p, nil, nil)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				tw := newTable(out)
				fmt.Fprintln(tw, "SCENARIO\tRATE\tPRESENT VALUE\tDIFFERENCE\tTYPE")
				for _, sc := range s.All() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", strings.ToUpper(sc.Name[:1])+sc.Name[1:],
						common.FormatPercent(sc.RatePercent), common.FormatMoney(sc.PresentValue),
						common.FormatMoney(sc.Difference), sc.Classification.Label())
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if sensitivity {
				points, err := bond.Sensitivity(p, bond.DefaultSweep())
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				tw := newTable(out)
				fmt.Fprintln(tw, "RATE\tPRESENT VALUE")
				for _, pt := range points {
					fmt.Fprintf(tw, "%s\t%s\n", common.FormatPercent(pt.RatePercent), common.FormatMoney(pt.PresentValue))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("price") {
				y, err := bond.Yield(p, price)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\nYield at %s: %.4f%% annual\n", common.FormatMoney(price), y.AnnualRatePercent)
			}
			return nil
		},
	}
	bf.register(cmd)
	cmd.Flags().BoolVar(&scenarios, "scenarios", false, "Print optimistic, base and pessimistic scenarios")
	cmd.Flags().BoolVar(&sensitivity, "sensitivity", false, "Print the 1% to 20% discount rate sweep")
	cmd.Flags().Float64Var(&price, "price", 0, "Solve the yield for this market price")
	return cmd
}
