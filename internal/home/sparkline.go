package home

import (
	"bytes"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"palantir/internal/charts"
)

const (
	sparkWidth  = 420
	sparkHeight = 110
)

var sparkColors = map[SparkMetric]string{
	SparkOrders:    charts.Teal,
	SparkRevenue:   charts.Green,
	SparkDelivered: charts.LightBlue,
}

// renderSparkline draws a small filled line chart with hidden axes, sized
// for the home page tiles.
func renderSparkline(points []DailyPoint, hex string) ([]byte, error) {
	xs := make([]time.Time, 0, len(points)+1)
	ys := make([]float64, 0, len(points)+1)
	for _, p := range points {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, err
		}
		xs = append(xs, d)
		ys = append(ys, p.Value)
	}
	if len(xs) == 1 {
		// go-chart needs two X values to span a range.
		xs = append(xs, xs[0].Add(24*time.Hour))
		ys = append(ys, ys[0])
	}

	stroke := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	ch := chart.Chart{
		Width:  sparkWidth,
		Height: sparkHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 6, Left: 6, Right: 6, Bottom: 6},
		},
		XAxis: chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{Style: chart.Hidden()},
		Series: []chart.Series{
			chart.TimeSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 1.5,
					StrokeColor: stroke,
					FillColor:   stroke.WithAlpha(40),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
