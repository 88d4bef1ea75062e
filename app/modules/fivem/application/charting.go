package fivemservice

import (
	"bytes"
	"context"

	fivemdomain "github.com/Black-And-White-Club/fivem-portal/app/modules/fivem/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth        = 800
	chartHeight       = 400
	placeholderWidth  = 400
	placeholderHeight = 200
	maxChartJobs      = 10
	maxBarLabel       = 14
)

// ChartPalette holds the colours used by dashboard charts.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	BarStroke  drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette matches the portal's dark theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("111827"),
	Bar:        drawing.ColorFromHex("3b82f6"),
	BarStroke:  drawing.ColorFromHex("1d4ed8"),
	TextColor:  drawing.ColorFromHex("e5e7eb"),
}

// WealthChartPNG renders the wealth distribution as a bar chart.
func (s *FiveMService) WealthChartPNG(ctx context.Context) ([]byte, error) {
	return query(s, ctx, "WealthChartPNG", func(ctx context.Context) ([]byte, error) {
		holdings, err := s.holdings(ctx)
		if err != nil {
			return nil, err
		}
		buckets := fivemdomain.Distribute(holdings)
		bars := make([]chart.Value, len(buckets))
		for i, b := range buckets {
			bars[i] = chart.Value{Label: b.Label, Value: float64(b.Count)}
		}
		return renderBarChart("Wealth distribution", bars, s.palette, "No characters found")
	})
}

// JobChartPNG renders the most held jobs as a bar chart.
func (s *FiveMService) JobChartPNG(ctx context.Context) ([]byte, error) {
	return query(s, ctx, "JobChartPNG", func(ctx context.Context) ([]byte, error) {
		jobs, err := s.jobs(ctx)
		if err != nil {
			return nil, err
		}
		if len(jobs) > maxChartJobs {
			jobs = jobs[:maxChartJobs]
		}
		bars := make([]chart.Value, len(jobs))
		for i, j := range jobs {
			bars[i] = chart.Value{Label: shorten(j.Label, maxBarLabel), Value: float64(j.Count)}
		}
		return renderBarChart("Jobs", bars, s.palette, "No jobs found")
	})
}

func renderBarChart(title string, bars []chart.Value, palette ChartPalette, empty string) ([]byte, error) {
	if !hasData(bars) {
		return renderNoDataPlaceholder(palette, empty)
	}

	for i := range bars {
		bars[i].Style = chart.Style{
			FillColor:   palette.Bar,
			StrokeColor: palette.BarStroke,
			StrokeWidth: 1,
		}
	}

	barWidth := chartWidth / (2*len(bars) + 2)
	graph := chart.BarChart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: palette.TextColor},
		Width:      chartWidth,
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  chart.Style{FontColor: palette.TextColor, StrokeColor: palette.TextColor},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontColor: palette.TextColor, StrokeColor: palette.TextColor},
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg centred on a blank canvas. go-chart refuses to render charts
// without data, so this goes straight to the PNG renderer.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	r, err := chart.PNG(placeholderWidth, placeholderHeight)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(placeholderWidth, 0)
	r.LineTo(placeholderWidth, placeholderHeight)
	r.LineTo(0, placeholderHeight)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (placeholderWidth-tb.Width())/2, (placeholderHeight+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func hasData(bars []chart.Value) bool {
	for _, b := range bars {
		if b.Value > 0 {
			return true
		}
	}
	return false
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
