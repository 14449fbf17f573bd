// Package chart renders projection series as PNG images.
package chart

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mtlprog/sipplan/internal/domain"
)

// RenderGrowth renders a PNG line chart of a yearly projection with two series:
// Projected Value (solid) and Total Invested (dashed).
func RenderGrowth(title string, points []domain.YearPoint) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(points))
	}

	years := make([]float64, len(points))
	valueY := make([]float64, len(points))
	investedY := make([]float64, len(points))
	for i, p := range points {
		years[i] = float64(p.Year)
		valueY[i] = p.Value
		investedY[i] = p.Invested
	}

	valueSeries := chart.ContinuousSeries{
		Name: "Projected Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("16a34a"),
			StrokeWidth: 2.5,
		},
		XValues: years,
		YValues: valueY,
	}

	investedSeries := chart.ContinuousSeries{
		Name: "Total Invested",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: years,
		YValues: investedY,
	}

	if title == "" {
		title = "SIP Growth"
	}
	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name:           "Year",
			ValueFormatter: formatYear,
		},
		YAxis: chart.YAxis{
			ValueFormatter: formatAmount,
		},
		Series: []chart.Series{valueSeries, investedSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func formatYear(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("Y%d", int(f))
	}
	return ""
}

// formatAmount abbreviates axis amounts to thousands, lakhs or crores.
func formatAmount(v any) string {
	f, ok := v.(float64)
	if !ok {
		return ""
	}
	d := decimal.NewFromFloat(f)
	switch abs := d.Abs(); {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(10_000_000)):
		return d.Div(decimal.NewFromInt(10_000_000)).StringFixed(1) + "Cr"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(100_000)):
		return d.Div(decimal.NewFromInt(100_000)).StringFixed(1) + "L"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return d.Div(decimal.NewFromInt(1_000)).StringFixed(0) + "k"
	default:
		return d.StringFixed(0)
	}
}
