package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finsim/internal/services/bond"
	"github.com/bobmcallan/finsim/internal/services/growth"
)

var testMeta = DocumentMeta{Author: "Test Desk", GeneratedAt: fixedNow}

func TestRenderGrowthPDF_ReadsBack(t *testing.T) {
	plan := testPlan()
	plan.HorizonYears = 30
	res, err := growth.Run(plan)
	require.NoError(t, err)

	chart, err := RenderGrowthChart(res)
	require.NoError(t, err)

	data, err := RenderGrowthPDF(GrowthDocument{Result: res, Chart: chart, Analysis: "Contributions dominate early years."}, testMeta)
	require.NoError(t, err)

	text, err := ExtractPDFText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Investment Projection Report")
	assert.Contains(t, text, "Prepared by Test Desk")
	assert.Contains(t, text, "Executive Summary")
	assert.Contains(t, text, "Showing the first 24 of 30 years")
	assert.Contains(t, text, "AI Analysis")
	assert.Contains(t, text, "Contributions dominate early years.")
	assert.Contains(t, text, "Disclaimer")
}

func TestRenderGrowthPDF_NoChartNoAnalysis(t *testing.T) {
	res, err := growth.Run(testPlan())
	require.NoError(t, err)

	data, err := RenderGrowthPDF(GrowthDocument{Result: res}, testMeta)
	require.NoError(t, err)

	text, err := ExtractPDFText(data)
	require.NoError(t, err)
	assert.NotContains(t, text, "AI Analysis")
	assert.NotContains(t, text, "Growth Chart")
	assert.NotContains(t, text, "Showing the first")
}

func TestRenderBondPDF_ReadsBack(t *testing.T) {
	v, err := bond.Value(testBond())
	require.NoError(t, err)
	scenarios, err := bond.Scenarios(testBond(), nil, nil)
	require.NoError(t, err)

	data, err := RenderBondPDF(BondDocument{
		Valuation:      v,
		Interpretation: bond.Interpret(v),
		Duration:       bond.Duration(v),
		Scenarios:      scenarios,
	}, testMeta)
	require.NoError(t, err)

	text, err := ExtractPDFText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "Bond Valuation Report")
	assert.Contains(t, text, "TOTAL")
	assert.Contains(t, text, "$959.59")
	assert.Contains(t, text, "Optimistic")
	assert.Contains(t, text, "Pessimistic")
	assert.Contains(t, text, "Recommendations")
}

func TestExtractPDFText_RejectsGarbage(t *testing.T) {
	_, err := ExtractPDFText([]byte("not a pdf"))
	assert.Error(t, err)
}
