package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/finsim/internal/models"
)

const (
	chartWidth  = 900
	chartHeight = 400
)

func moneyTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		if f >= 1_000_000 || f <= -1_000_000 {
			return fmt.Sprintf("$%.1fM", f/1_000_000)
		}
		return fmt.Sprintf("$%.0fk", f/1000)
	}
	return ""
}

// RenderGrowthChart renders balance and contributions per year as a PNG.
// Two series: Balance (blue solid) and Contributed (gray dashed).
func RenderGrowthChart(res *models.GrowthResult) ([]byte, error) {
	annual := res.Ledger.AnnualEntries(res.PeriodsPerYear)
	if len(annual) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(annual))
	}

	years := make([]float64, len(annual))
	balance := make([]float64, len(annual))
	contributed := make([]float64, len(annual))
	for i, e := range annual {
		years[i] = float64(e.Period / res.PeriodsPerYear)
		balance[i] = e.ClosingBalance
		contributed[i] = e.CumulativeContributions
	}

	graph := chart.Chart{
		Title:  "Investment Growth",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Year",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{ValueFormatter: moneyTick},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Balance",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
					StrokeWidth: 2.5,
				},
				XValues: years,
				YValues: balance,
			},
			chart.ContinuousSeries{
				Name: "Contributed",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: years,
				YValues: contributed,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return renderPNG(&graph)
}

// RenderSensitivityChart plots present value against discount rate, with
// face value as a reference line.
func RenderSensitivityChart(face float64, points []models.SensitivityPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	rates := make([]float64, len(points))
	values := make([]float64, len(points))
	faceLine := make([]float64, len(points))
	for i, p := range points {
		rates[i] = p.RatePercent
		values[i] = p.PresentValue
		faceLine[i] = face
	}

	graph := chart.Chart{
		Title:  "Bond Value vs Discount Rate",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Discount rate (%)",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Present Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("16a34a"), // green-600
					StrokeWidth: 2.5,
				},
				XValues: rates,
				YValues: values,
			},
			chart.ContinuousSeries{
				Name: "Face Value",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("dc2626"), // red-600
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: rates,
				YValues: faceLine,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	return renderPNG(&graph)
}

func renderPNG(graph *chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
