package analysis

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/sanketp/holdwatch/internal/models"
)

var (
	upColor   = drawing.Color{R: 46, G: 160, B: 67, A: 255}
	downColor = drawing.Color{R: 218, G: 54, B: 51, A: 255}
)

// RenderVariationChart renders the report as a bar chart of percent variation
// per symbol and writes a PNG to path. Gains are green, losses red.
func RenderVariationChart(report *models.VariationReport, path string) error {
	if report == nil || len(report.Results) == 0 {
		return fmt.Errorf("nothing to chart")
	}

	bars := make([]chart.Value, 0, len(report.Results))
	for _, r := range report.Results {
		color := downColor
		if r.Direction == models.DirectionUp {
			color = upColor
		}
		bars = append(bars, chart.Value{
			Label: r.Symbol,
			Value: r.VariationPercent,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		})
	}

	graph := chart.BarChart{
		Title:    "Holdings price variation (%)",
		Width:    chartWidth(len(bars)),
		Height:   512,
		BarWidth: 48,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.1f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func chartWidth(bars int) int {
	w := 128 + bars*80
	if w < 512 {
		return 512
	}
	return w
}
