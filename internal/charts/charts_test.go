package charts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmpty(t *testing.T) {
	s := Empty("Delay Distribution", "No Delayed Orders Found")

	assert.Contains(t, string(s.Element), "Delay Distribution")
	assert.Contains(t, string(s.Element), "No Delayed Orders Found")
	assert.Empty(t, string(s.Script))
}

func TestEmpty_EscapesHTML(t *testing.T) {
	s := Empty("<b>x</b>", "a & b")
	assert.NotContains(t, string(s.Element), "<b>x</b>")
	assert.Contains(t, string(s.Element), "&lt;b&gt;")
}

func TestBar_RendersSnippet(t *testing.T) {
	s := Bar("Revenue by Category", []string{"a", "b"}, "Revenue", []float64{10, 20}, Teal)

	assert.True(t, strings.Contains(string(s.Element), "<div"))
	assert.True(t, strings.Contains(string(s.Script), "echarts"))
}

func TestBar_EmptyInput(t *testing.T) {
	s := Bar("Revenue by Category", nil, "Revenue", nil, Teal)
	assert.Contains(t, string(s.Element), NoDataMessage)
}

func TestHorizontalBar_RendersSnippet(t *testing.T) {
	s := HorizontalBar("Top States", []string{"SP", "RJ"}, "Orders", []float64{100, 50}, Green, "")
	assert.NotEmpty(t, string(s.Script))
}

func TestLine_RendersSnippet(t *testing.T) {
	s := Line("Trend", []string{"2018-01-01", "2018-01-02"}, []LineSeries{
		{Name: "rate", Values: []float64{1, 2}, Color: Teal},
		{Name: "orders", Values: []float64{3, 4}, Color: Sage, Dashed: true},
	})
	assert.NotEmpty(t, string(s.Script))
}

func TestBarWithLine_RendersSnippet(t *testing.T) {
	s := BarWithLine("Daily Revenue", []string{"d1", "d2"}, "Revenue", []float64{5, 6}, Teal, "7-day avg", []float64{5, 5.5}, Brown)
	assert.NotEmpty(t, string(s.Script))
}

func TestHistogram_RendersSnippet(t *testing.T) {
	mark := 2.5
	s := Histogram("Delays", []float64{1, 2, 3, 4, 5}, 5, Brown, &mark, "Avg: 2.5 days")
	assert.NotEmpty(t, string(s.Script))
	assert.Contains(t, string(s.Script), "Avg: 2.5 days")
}

func TestHistogram_Empty(t *testing.T) {
	s := Histogram("Delays", nil, 30, Brown, nil, "")
	assert.Contains(t, string(s.Element), NoDataMessage)
}

func TestDonut_RendersSnippet(t *testing.T) {
	s := Donut("Delivery Split", []NameValue{
		{Name: "Delivered", Value: 90},
		{Name: "Not Delivered", Value: 10},
	}, []string{Green, Brown})
	assert.NotEmpty(t, string(s.Script))
	assert.Contains(t, string(s.Script), "Delivered")
}

func TestHeatmap_RendersSnippet(t *testing.T) {
	s := Heatmap("Delay vs Stage", []string{"0-10 %", "10-20 %"}, []string{"-30 to -20", "-20 to -10"},
		[][]float64{{1, 2}, {3, 4}}, 4)
	assert.NotEmpty(t, string(s.Script))
}

func TestScatter_RendersSnippet(t *testing.T) {
	s := Scatter("Freight vs Weight", "weight", "freight", []Point{{X: 1, Y: 2}}, Teal, 6)
	assert.NotEmpty(t, string(s.Script))
}

func TestBubbleScatter_RendersSnippet(t *testing.T) {
	s := BubbleScatter("States", "lon", "lat", []Bubble{
		{X: -46.6, Y: -23.5, Size: 30, Name: "SP: 100"},
	}, Teal)
	assert.NotEmpty(t, string(s.Script))
	assert.Contains(t, string(s.Script), "SP: 100")
}

func TestBoxPlot_RendersSnippet(t *testing.T) {
	s := BoxPlot("Stage Shares", []string{"Site", "Seller"}, [][]float64{
		{0, 1, 2, 3, 4},
		{1, 2, 3, 4, 5},
	}, Teal)
	assert.NotEmpty(t, string(s.Script))
}

func TestGauge_RendersSnippet(t *testing.T) {
	s := Gauge("Delivery Score", "Score", 87.35)
	assert.NotEmpty(t, string(s.Script))
	assert.Contains(t, string(s.Script), "87.4")
	assert.Contains(t, string(s.Script), Green)
}

func TestGaugeBand(t *testing.T) {
	assert.Equal(t, Brown, gaugeBand(69.9))
	assert.Equal(t, Sage, gaugeBand(70))
	assert.Equal(t, Sage, gaugeBand(84.9))
	assert.Equal(t, Green, gaugeBand(85))
}

func TestLorenz_RendersSnippet(t *testing.T) {
	s := Lorenz("Concentration", []float64{0, 50, 100}, []float64{0, 20, 100})
	assert.NotEmpty(t, string(s.Script))
}

func TestStackedBars_RendersSnippet(t *testing.T) {
	s := StackedBars("Breakdown", []string{"o1", "o2"}, []BarSeries{
		{Name: "Site", Values: []float64{1, 2}, Color: Teal},
		{Name: "Seller", Values: []float64{3, 4}, Color: Green},
	})
	assert.NotEmpty(t, string(s.Script))
}

func TestMarkBin(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	assert.Equal(t, 0, markBin(0.5, edges))
	assert.Equal(t, 1, markBin(1.5, edges))
	assert.Equal(t, 2, markBin(2.5, edges))
	// Values past the last edge clamp to the final bin.
	assert.Equal(t, 2, markBin(99, edges))
}
