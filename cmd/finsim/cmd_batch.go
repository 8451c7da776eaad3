package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/finsim/internal/common"
	"github.com/bobmcallan/finsim/internal/models"
	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
)

// batchFile is the YAML document read by `finsim batch`.
//
//	plans:
//	  - name: early start
//	    current_age: 25
//	    contribution: 300
//	    annual_rate_percent: 8
//	    frequency: monthly
//	    horizon_years: 40
//	bonds:
//	  - name: treasury 5y
//	    face_value: 1000
//	    coupon_rate_percent: 6
//	    frequency: semiannual
//	    term_years: 5
//	    discount_rate_percent: 7
type batchFile struct {
	Plans []batchPlan `yaml:"plans"`
	Bonds []batchBond `yaml:"bonds"`
}

type batchPlan struct {
	Name              string `yaml:"name"`
	models.GrowthPlan `yaml:",inline"`
}

type batchBond struct {
	Name              string `yaml:"name"`
	models.BondParams `yaml:",inline"`
}

type batchRow struct {
	name   string
	kind   string
	figure string
	detail string
	err    error
}

func loadBatch(path string) (*batchFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	var b batchFile
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}
	if len(b.Plans)+len(b.Bonds) == 0 {
		return nil, fmt.Errorf("batch file %s holds no plans or bonds", path)
	}
	return &b, nil
}

func runPlanRow(p batchPlan) batchRow {
	row := batchRow{name: p.Name, kind: "plan"}
	plan, err := p.GrowthPlan.Canonical()
	if err != nil {
		row.err = err
		return row
	}
	res, err := growth.Run(plan)
	if err != nil {
		row.err = err
		return row
	}
	row.figure = common.FormatMoney(res.Summary.FinalBalance)
	if res.Summary.Pension != nil {
		row.detail = common.FormatMoney(res.Summary.Pension.MonthlyPension) + "/month pension"
	} else {
		row.detail = common.FormatMoney(res.Summary.Payout()) + " net gain"
	}
	return row
}

func runBondRow(b batchBond) batchRow {
	row := batchRow{name: b.Name, kind: "bond"}
	p, err := b.BondParams.Canonical()
	if err != nil {
		row.err = err
		return row
	}
	v, err := bond.Value(p)
	if err != nil {
		row.err = err
		return row
	}
	row.figure = common.FormatMoney(v.TotalPresentValue)
	row.detail = fmt.Sprintf("%s (%s vs face)", v.Classification.Label(), common.FormatMoney(v.Difference))
	return row
}

func newBatchCmd() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Evaluate every plan and bond in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBatch(args[0])
			if err != nil {
				return err
			}

			rows := make([]batchRow, len(b.Plans)+len(b.Bonds))
			var g errgroup.Group
			g.SetLimit(max(workers, 1))
			for i, p := range b.Plans {
				g.Go(func() error {
					rows[i] = runPlanRow(p)
					return nil
				})
			}
			for i, bd := range b.Bonds {
				g.Go(func() error {
					rows[len(b.Plans)+i] = runBondRow(bd)
					return nil
				})
			}
			_ = g.Wait()

			failed := 0
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "NAME\tKIND\tVALUE\tDETAIL")
			for _, r := range rows {
				if r.err != nil {
					failed++
					fmt.Fprintf(tw, "%s\t%s\t-\terror: %v\n", r.name, r.kind, r.err)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.name, r.kind, r.figure, r.detail)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d calculations failed", failed, len(rows))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "Concurrent calculations")
	return cmd
}
