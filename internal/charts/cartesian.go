package charts

import (
	"fmt"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"palantir/internal/stats"
)

// Bar renders a vertical bar chart with a single series.
func Bar(title string, xs []string, seriesName string, values []float64, color string) Snippet {
	if len(xs) == 0 || len(values) == 0 {
		return Empty(title, NoDataMessage)
	}
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
	)
	bar.SetXAxis(xs).AddSeries(seriesName, barData(values, nil))
	return snippetOf(bar.Renderer)
}

// ColoredBar renders a vertical bar chart with one color per bar.
// labelFormatter defaults to the bare value.
func ColoredBar(title string, xs []string, seriesName string, values []float64, colors []string, labelFormatter string) Snippet {
	if len(xs) == 0 || len(values) == 0 {
		return Empty(title, NoDataMessage)
	}
	if labelFormatter == "" {
		labelFormatter = "{c}"
	}
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)
	bar.SetXAxis(xs).AddSeries(seriesName, barData(values, colors),
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top", Formatter: labelFormatter}),
	)
	return snippetOf(bar.Renderer)
}

// HorizontalBar renders a bar chart with swapped axes, tall enough for the
// category count. labelFormatter defaults to the bare value.
func HorizontalBar(title string, categories []string, seriesName string, values []float64, color, labelFormatter string) Snippet {
	if len(categories) == 0 || len(values) == 0 {
		return Empty(title, NoDataMessage)
	}
	if labelFormatter == "" {
		labelFormatter = "{c}"
	}
	height := fmt.Sprintf("%dpx", 400+20*len(categories))

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: height}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
	)
	bar.SetXAxis(categories).AddSeries(seriesName, barData(values, nil),
		echarts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: labelFormatter}),
	)
	bar.XYReversal()
	return snippetOf(bar.Renderer)
}

// Line renders one or more line series over a shared category axis.
func Line(title string, xs []string, series []LineSeries) Snippet {
	if len(xs) == 0 || len(series) == 0 {
		return Empty(title, NoDataMessage)
	}
	line := echarts.NewLine()
	colors := make(opts.Colors, 0, len(series))
	for _, s := range series {
		colors = append(colors, s.Color)
	}
	line.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(series) > 1)}),
		echarts.WithColorsOpts(colors),
	)
	line.SetXAxis(xs)
	for _, s := range series {
		seriesOpts := []echarts.SeriesOpts{
			echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		}
		if s.Dashed {
			seriesOpts = append(seriesOpts,
				echarts.WithLineStyleOpts(opts.LineStyle{Type: "dashed"}),
			)
		}
		line.AddSeries(s.Name, lineData(s.Values), seriesOpts...)
	}
	return snippetOf(line.Renderer)
}

// Mark labels one category position on a chart with a vertical line.
type Mark struct {
	Label string
	Index int
}

// MarkedLine renders a single smoothed series with labeled vertical marker
// lines at the given category positions.
func MarkedLine(title string, xs []string, seriesName string, values []float64, color string, marks []Mark) Snippet {
	if len(xs) == 0 || len(values) == 0 {
		return Empty(title, NoDataMessage)
	}
	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
	)
	seriesOpts := []echarts.SeriesOpts{
		echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	}
	for _, m := range marks {
		seriesOpts = append(seriesOpts,
			echarts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{Name: m.Label, XAxis: m.Index}),
		)
	}
	if len(marks) > 0 {
		seriesOpts = append(seriesOpts,
			echarts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol: []string{"none", "none"},
				Label:  &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
			}),
		)
	}
	line.SetXAxis(xs)
	line.AddSeries(seriesName, lineData(values), seriesOpts...)
	return snippetOf(line.Renderer)
}

// BarWithLine overlays a line (typically a moving average) on bars.
func BarWithLine(title string, xs []string, barName string, bars []float64, barColor, lineName string, lineValues []float64, lineColor string) Snippet {
	if len(xs) == 0 || len(bars) == 0 {
		return Empty(title, NoDataMessage)
	}
	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		echarts.WithColorsOpts(opts.Colors{barColor, lineColor}),
	)
	bar.SetXAxis(xs).AddSeries(barName, barData(bars, nil))

	line := echarts.NewLine()
	line.SetXAxis(xs).AddSeries(lineName, lineData(lineValues),
		echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
	)
	bar.Overlap(line)
	return snippetOf(bar.Renderer)
}

// StackedBars renders series stacked on a shared axis.
func StackedBars(title string, xs []string, series []BarSeries) Snippet {
	if len(xs) == 0 || len(series) == 0 {
		return Empty(title, NoDataMessage)
	}
	bar := echarts.NewBar()
	colors := make(opts.Colors, 0, len(series))
	for _, s := range series {
		colors = append(colors, s.Color)
	}
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		echarts.WithColorsOpts(colors),
	)
	bar.SetXAxis(xs)
	for _, s := range series {
		bar.AddSeries(s.Name, barData(s.Values, nil),
			echarts.WithBarChartOpts(opts.BarChart{Stack: "total"}),
		)
	}
	return snippetOf(bar.Renderer)
}

// Histogram buckets values and renders the counts, optionally marking one
// value with a labeled vertical line.
func Histogram(title string, values []float64, bins int, color string, mark *float64, markLabel string) Snippet {
	counts, edges := stats.Histogram(values, bins)
	if len(counts) == 0 {
		return Empty(title, NoDataMessage)
	}

	labels := make([]string, len(counts))
	for i := range counts {
		labels[i] = fmt.Sprintf("%.1f", (edges[i]+edges[i+1])/2)
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: fullWidth, Height: defaultHeight}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		echarts.WithColorsOpts(opts.Colors{color}),
	)

	seriesOpts := []echarts.SeriesOpts{}
	if mark != nil {
		idx := markBin(*mark, edges)
		seriesOpts = append(seriesOpts,
			echarts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  markLabel,
				XAxis: idx,
			}),
			echarts.WithMarkLineStyleOpts(opts.MarkLineStyle{
				Symbol: []string{"none", "none"},
				Label:  &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
			}),
		)
	}
	bar.SetXAxis(labels).AddSeries("Count", barData(counts, nil), seriesOpts...)
	return snippetOf(bar.Renderer)
}

// Lorenz renders a concentration curve against the equality diagonal. xs
// and ys are percents including the leading origin point.
func Lorenz(title string, xs, ys []float64) Snippet {
	if len(xs) < 2 || len(xs) != len(ys) {
		return Empty(title, NoDataMessage)
	}
	labels := make([]string, len(xs))
	for i, x := range xs {
		labels[i] = fmt.Sprintf("%.0f%%", x)
	}
	return Line(title, labels, []LineSeries{
		{Name: "Cumulative share", Values: ys, Color: Teal},
		{Name: "Perfect equality", Values: xs, Color: Sage, Dashed: true},
	})
}

func markBin(v float64, edges []float64) int {
	last := len(edges) - 2
	for i := 0; i < len(edges)-1; i++ {
		if v < edges[i+1] {
			return i
		}
	}
	if last < 0 {
		return 0
	}
	return last
}

func barData(values []float64, colors []string) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
		if i < len(colors) && colors[i] != "" {
			data[i].ItemStyle = &opts.ItemStyle{Color: colors[i]}
		}
	}
	return data
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: v}
	}
	return data
}
