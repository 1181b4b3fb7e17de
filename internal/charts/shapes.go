package charts

import (
	"math"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Donut renders a ring chart of the given slices.
func Donut(title string, items []NameValue, colors []string) Snippet {
	if len(items) == 0 {
		return Empty(title, NoDataMessage)
	}
	pie := echarts.NewPie()
	globalOpts := []echarts.GlobalOpts{
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	}
	if len(colors) > 0 {
		globalOpts = append(globalOpts, echarts.WithColorsOpts(opts.Colors(colors)))
	}
	pie.SetGlobalOptions(globalOpts...)

	data := make([]opts.PieData, len(items))
	for i, it := range items {
		data[i] = opts.PieData{Name: it.Name, Value: it.Value}
	}
	pie.AddSeries(title, data,
		echarts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return snippetOf(pie.Renderer)
}

// Gauge renders a 0-100 dial for a single score.
func Gauge(title, label string, value float64) Snippet {
	gauge := echarts.NewGauge()
	gauge.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithColorsOpts(opts.Colors{gaugeBand(value)}),
	)
	gauge.AddSeries(label, []opts.GaugeData{{Name: label, Value: round1(value)}})
	return snippetOf(gauge.Renderer)
}

// gaugeBand colors the dial by score band: below 70 brown, 70 to 85 sage,
// 85 and up green.
func gaugeBand(v float64) string {
	switch {
	case v < 70:
		return Brown
	case v < 85:
		return Sage
	default:
		return Green
	}
}

// Heatmap renders a category grid. cells is indexed [y][x]; nil cells are
// skipped so they render blank.
func Heatmap(title string, xLabels, yLabels []string, cells [][]float64, maxValue float64) Snippet {
	if len(xLabels) == 0 || len(yLabels) == 0 || len(cells) == 0 {
		return Empty(title, NoDataMessage)
	}
	hm := echarts.NewHeatMap()
	hm.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: "500px"}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xLabels}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yLabels}),
		echarts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxValue),
			InRange:    &opts.VisualMapInRange{Color: []string{Sage, Teal, Brown}},
		}),
	)

	var data []opts.HeatMapData
	for y, row := range cells {
		for x, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, round1(v)}})
		}
	}
	hm.AddSeries("count", data,
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
	)
	return snippetOf(hm.Renderer)
}

// Scatter renders x/y points on value axes.
func Scatter(title, xName, yName string, points []Point, color string, symbolSize int) Snippet {
	if len(points) == 0 {
		return Empty(title, NoDataMessage)
	}
	sc := echarts.NewScatter()
	sc.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName}),
	)

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: symbolSize,
		}
	}
	sc.AddSeries(yName, data)
	return snippetOf(sc.Renderer)
}

// BubbleScatter renders points with individual sizes and names, used for
// the volume bubble and the state map.
func BubbleScatter(title, xName, yName string, bubbles []Bubble, color string) Snippet {
	if len(bubbles) == 0 {
		return Empty(title, NoDataMessage)
	}
	sc := echarts.NewScatter()
	sc.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: "500px"}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
		echarts.WithXAxisOpts(opts.XAxis{Type: "value", Name: xName}),
		echarts.WithYAxisOpts(opts.YAxis{Type: "value", Name: yName}),
	)

	data := make([]opts.ScatterData, len(bubbles))
	for i, b := range bubbles {
		size := int(b.Size)
		if size < 1 {
			size = 1
		}
		data[i] = opts.ScatterData{
			Name:       b.Name,
			Value:      []interface{}{b.X, b.Y},
			SymbolSize: size,
		}
	}
	sc.AddSeries(yName, data)
	return snippetOf(sc.Renderer)
}

// BoxPlot renders one box per category; each box is [min, q1, median, q3,
// max].
func BoxPlot(title string, names []string, boxes [][]float64, color string) Snippet {
	if len(names) == 0 || len(boxes) == 0 {
		return Empty(title, NoDataMessage)
	}
	bp := echarts.NewBoxPlot()
	bp.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
	)

	data := make([]opts.BoxPlotData, len(boxes))
	for i, b := range boxes {
		data[i] = opts.BoxPlotData{Value: b}
	}
	bp.SetXAxis(names).AddSeries("distribution", data)
	return snippetOf(bp.Renderer)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
