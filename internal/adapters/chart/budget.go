// Package chart renders budget charts as PNG images.
package chart

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const noDataMessage = "No expenses recorded"

// Bar is one month's spending.
type Bar struct {
	Label string
	Total float64
}

// Palette colours a chart.
type Palette struct {
	Bar        drawing.Color
	Background drawing.Color
	Text       drawing.Color
}

// DefaultPalette matches the default club theme colour.
var DefaultPalette = Palette{
	Bar:        drawing.ColorFromHex("8B5CF6"),
	Background: drawing.ColorWhite,
	Text:       drawing.ColorFromHex("333333"),
}

// PaletteFor returns DefaultPalette with bars in the club's theme colour, if it has one.
func PaletteFor(themeColor string) Palette {
	p := DefaultPalette
	if len(themeColor) == 7 && themeColor[0] == '#' {
		p.Bar = drawing.ColorFromHex(themeColor[1:])
	}
	return p
}

// RenderMonthlySpending draws a bar per month.
// POST: returns a PNG; a placeholder when every total is zero
func RenderMonthlySpending(title string, bars []Bar, palette Palette) ([]byte, error) {
	if !hasSpending(bars) {
		return renderNoData(palette)
	}

	values := make([]gochart.Value, len(bars))
	for i, b := range bars {
		values[i] = gochart.Value{
			Label: b.Label,
			Value: b.Total,
			Style: gochart.Style{FillColor: palette.Bar, StrokeColor: palette.Bar},
		}
	}

	graph := gochart.BarChart{
		Title:      title,
		Width:      800,
		Height:     400,
		BarWidth:   60,
		Background: gochart.Style{FillColor: palette.Background},
		Canvas:     gochart.Style{FillColor: palette.Background},
		TitleStyle: gochart.Style{FontColor: palette.Text},
		XAxis:      gochart.Style{FontColor: palette.Text},
		YAxis: gochart.YAxis{
			Style:          gochart.Style{FontColor: palette.Text},
			ValueFormatter: func(v any) string { return fmt.Sprintf("%.0f", v) },
		},
		Bars: values,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func hasSpending(bars []Bar) bool {
	for _, b := range bars {
		if b.Total > 0 {
			return true
		}
	}
	return false
}

// renderNoData draws the placeholder message. go-chart needs at least one
// visible series, so a line in the background colour anchors the canvas.
func renderNoData(palette Palette) ([]byte, error) {
	graph := gochart.Chart{
		Width:          400,
		Height:         200,
		Background:     gochart.Style{FillColor: palette.Background},
		Canvas:         gochart.Style{FillColor: palette.Background},
		XAxis:          gochart.XAxis{Style: gochart.Hidden()},
		YAxis:          gochart.YAxis{Style: gochart.Hidden()},
		YAxisSecondary: gochart.YAxis{Style: gochart.Hidden()},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Style:   gochart.Style{StrokeColor: palette.Background, StrokeWidth: 1},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []gochart.Renderable{
			func(r gochart.Renderer, cb gochart.Box, defaults gochart.Style) {
				r.SetFont(defaults.Font)
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(noDataMessage)
				r.Text(noDataMessage, cb.Left+(cb.Width()-tb.Width())/2, cb.Top+(cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
