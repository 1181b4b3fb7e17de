// Package render turns page view models into HTML. The layout template
// carries the nav, the palette and the chart mount points; usecases only
// assemble Page values.
package render

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"palantir/internal/charts"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var layoutTmpl = template.Must(template.ParseFS(templateFS, "templates/*.gohtml"))

// Page is one rendered report page.
type Page struct {
	Title    string
	Subtitle string
	Active   string
	Warnings []string
	Sections []Section
	Footer   string
}

type Section struct {
	Title  string
	Note   string
	Cards  []Card
	Form   *Form
	Charts []charts.Snippet
	Images []Image
	Tables []Table
	Links  []Link
	Text   []string
}

// Card is a KPI tile. Color is the accent hex, defaulting to the text
// color when empty.
type Card struct {
	Label string
	Value string
	Hint  string
	Color string
}

type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

type Link struct {
	Label string
	Href  string
}

// Image is a server-rendered figure, such as a sparkline PNG.
type Image struct {
	Title string
	Src   string
	Alt   string
}

// Form renders as an HTML form on the same page. Method defaults to GET
// and Submit to "Apply".
type Form struct {
	Action  string
	Method  string
	Submit  string
	Selects []Select
	Numbers []NumberInput
}

type Select struct {
	Label   string
	Name    string
	Options []Option
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type NumberInput struct {
	Label string
	Name  string
	Value int
	Min   int
	Max   int
}

type NavItem struct {
	Key   string
	Label string
	Href  string
}

var nav = []NavItem{
	{Key: "home", Label: "Home", Href: "/"},
	{Key: "insights", Label: "Main Insights", Href: "/insights"},
	{Key: "revenue", Label: "Revenue", Href: "/revenue"},
	{Key: "categories", Label: "Categories", Href: "/revenue/categories"},
	{Key: "vendors", Label: "Vendors", Href: "/revenue/vendors"},
	{Key: "freight", Label: "Freight", Href: "/revenue/freight"},
	{Key: "timelines", Label: "Timelines", Href: "/orders/timelines"},
	{Key: "delays", Label: "Delays", Href: "/orders/delays"},
	{Key: "geography", Label: "Geography", Href: "/orders/geography"},
	{Key: "performance", Label: "Performance", Href: "/orders/performance"},
}

type pageView struct {
	Page
	Nav []NavItem
}

type Renderer struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Renderer {
	return &Renderer{logger: logger}
}

// Page writes the rendered page, or a plain 500 if the template fails.
func (r *Renderer) Page(w http.ResponseWriter, p Page) {
	r.pageStatus(w, http.StatusOK, p)
}

// Unavailable is the friendly empty page shown on HTML routes before the
// first successful dataset load.
func (r *Renderer) Unavailable(w http.ResponseWriter, active string) {
	r.pageStatus(w, http.StatusServiceUnavailable, Page{
		Title:    "Dataset Not Loaded",
		Subtitle: "The report data is not available yet",
		Active:   active,
		Warnings: []string{"The dataset has not been loaded yet. Check the data source configuration and try a refresh from the home page."},
	})
}

func (r *Renderer) pageStatus(w http.ResponseWriter, status int, p Page) {
	var buf bytes.Buffer
	if err := layoutTmpl.ExecuteTemplate(&buf, "layout.gohtml", pageView{Page: p, Nav: nav}); err != nil {
		r.logger.Error("rendering page failed", zap.String("page", p.Title), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("writing page failed", zap.Error(err))
	}
}
