package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestGrowthCSV_EveryPeriod(t *testing.T) {
	res, err := growth.Run(testPlan())
	require.NoError(t, err)

	data, err := GrowthCSV(res)
	require.NoError(t, err)
	rows := readCSV(t, data)

	require.Len(t, rows, 1+121)
	assert.Equal(t, "period", rows[0][0])
	assert.Equal(t, []string{"0", "30", "10000.00", "0.00", "0.00", "10000.00", "10000.00"}, rows[1])
	assert.Equal(t, "120", rows[121][0])
	assert.Equal(t, "40", rows[121][1])
}

func TestBondCSV_TotalRow(t *testing.T) {
	v, err := bond.Value(testBond())
	require.NoError(t, err)

	data, err := BondCSV(v)
	require.NoError(t, err)
	rows := readCSV(t, data)

	require.Len(t, rows, 1+10+1)
	assert.Equal(t, []string{"period", "year", "cash_flow", "present_value"}, rows[0])
	assert.Equal(t, []string{"1", "0.5", "29.56"}, rows[1][:3])
	assert.Equal(t, []string{"TOTAL", "", "", "959.59"}, rows[11])
}

func TestCharts_NeedTwoPoints(t *testing.T) {
	_, err := RenderSensitivityChart(1000, nil)
	assert.Error(t, err)

	points, err := bond.Sensitivity(testBond(), bond.DefaultSweep())
	require.NoError(t, err)
	png, err := RenderSensitivityChart(1000, points)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
