// Package main implements the finsim command line calculator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finsim/internal/common"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "finsim",
		Short: "Investment growth and bond valuation calculator",
		Long: `finsim projects investment growth and values coupon bonds.

Rates are annual effective percentages converted on a 360-day year.
Frequencies: monthly, bimonthly, quarterly, four_monthly, semiannual, annual.`,
		Version:       common.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default: FINSIM_CONFIG or config/finsim.toml)")

	root.AddCommand(newRateCmd())
	root.AddCommand(newGrowthCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newBondCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newMCPCmd())
	return root
}

func main() {
	common.LoadVersionFromFile()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
