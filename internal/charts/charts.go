// Package charts wraps go-echarts behind small builders returning HTML
// snippets. Every builder degrades to a placeholder when it gets no data,
// so report pages never render a broken chart.
package charts

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/render"
)

// Report palette.
const (
	Teal      = "#2C7D8B"
	Green     = "#2A927A"
	Sage      = "#C9D2BA"
	Brown     = "#8B4513"
	DarkRed   = "#8B0000"
	LightBlue = "#7fb4ca"
	Tan       = "#D4B483"
)

const (
	defaultHeight = "420px"
	fullWidth     = "100%"
)

// Snippet is a chart ready to embed: a target element and the script that
// mounts the chart into it.
type Snippet struct {
	Element template.HTML
	Script  template.HTML
}

type NameValue struct {
	Name  string
	Value float64
}

type Point struct {
	X float64
	Y float64
}

type Bubble struct {
	X    float64
	Y    float64
	Size float64
	Name string
}

type LineSeries struct {
	Name   string
	Values []float64
	Color  string
	Dashed bool
}

type BarSeries struct {
	Name   string
	Values []float64
	Color  string
}

func snippetOf(r render.Renderer) Snippet {
	s := r.RenderSnippet()
	return Snippet{
		Element: template.HTML(s.Element),
		Script:  template.HTML(s.Script),
	}
}

// Empty renders the no-data placeholder used wherever a chart has nothing
// to show.
func Empty(title, message string) Snippet {
	el := fmt.Sprintf(
		`<div class="chart-empty"><h4>%s</h4><p>%s</p></div>`,
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(message),
	)
	return Snippet{Element: template.HTML(el)}
}

const NoDataMessage = "No Data Available"
