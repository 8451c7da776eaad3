package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/bobmcallan/finsim/internal/models"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// GrowthCSV writes the full ledger, one row per period.
func GrowthCSV(res *models.GrowthResult) ([]byte, error) {
	rows := [][]string{{"period", "age", "opening_balance", "interest", "contribution", "closing_balance", "cumulative_contributions"}}
	for _, e := range res.Ledger.Entries {
		rows = append(rows, []string{
			strconv.Itoa(e.Period),
			strconv.Itoa(e.Age),
			formatFloat(e.OpeningBalance),
			formatFloat(e.Interest),
			formatFloat(e.Contribution),
			formatFloat(e.ClosingBalance),
			formatFloat(e.CumulativeContributions),
		})
	}
	return writeCSV(rows)
}

// BondCSV writes the cash-flow ledger. The totals row leaves year and cash
// flow empty.
func BondCSV(v *models.BondValuation) ([]byte, error) {
	rows := [][]string{{"period", "year", "cash_flow", "present_value"}}
	for _, e := range v.Ledger {
		if e.IsTotal {
			rows = append(rows, []string{"TOTAL", "", "", formatFloat(e.PresentValue)})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(e.Period),
			strconv.FormatFloat(*e.YearFraction, 'f', -1, 64),
			formatFloat(*e.CashFlow),
			formatFloat(e.PresentValue),
		})
	}
	return writeCSV(rows)
}

func writeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}
