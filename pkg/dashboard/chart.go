package dashboard

import (
	"bytes"
	"errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/wallet-dash/pkg/viewport"
)

var errNoPoints = errors.New("no points to draw")

const maxXTicks = 8

var lineColor = drawing.ColorFromHex("3b82f6")

// renderChart draws the visible window as a PNG. X positions are indexes into
// the window; ticks carry the date labels. The y axis is hidden when numbers
// are masked.
func renderChart(visible viewport.Series, title string, showValues bool, w, h int) ([]byte, error) {
	n := len(visible)
	if n == 0 {
		return nil, errNoPoints
	}
	xs := make([]float64, n)
	ys := make([]float64, n)
	minY, maxY := visible[0].Value, visible[0].Value
	for i, p := range visible {
		xs[i] = float64(i + 1)
		ys[i] = p.Value
		if p.Value < minY {
			minY = p.Value
		}
		if p.Value > maxY {
			maxY = p.Value
		}
	}

	step := 1
	if n > maxXTicks {
		step = (n + maxXTicks - 1) / maxXTicks
	}
	ticks := make([]chart.Tick, 0, maxXTicks+2)
	for i := 0; i < n; i += step {
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: visible[i].Label})
	}
	minR, maxR := 0.5, float64(n)+0.5
	if n == 1 {
		// a single point still needs a non-zero x range
		xs = append(xs, 2)
		ys = append(ys, ys[0])
		maxR = 2.0
		ticks = append(ticks, chart.Tick{Value: 2, Label: ""})
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}

	yAxis := chart.YAxis{
		Name:  "USD",
		Range: &chart.ContinuousRange{Min: minY, Max: maxY},
	}
	if !showValues {
		yAxis = chart.YAxis{
			Range: &chart.ContinuousRange{Min: minY, Max: maxY},
			Style: chart.Style{Hidden: true},
		}
	}

	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 36}},
		XAxis:      chart.XAxis{Range: &chart.ContinuousRange{Min: minR, Max: maxR}, Ticks: ticks},
		YAxis:      yAxis,
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    title,
				XValues: xs,
				YValues: ys,
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: lineColor},
			},
		},
	}
	ch.Width = w
	ch.Height = h

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
