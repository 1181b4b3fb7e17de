package revenue

import (
	"context"
	"fmt"

	"palantir/internal/charts"
	"palantir/internal/render"
	"palantir/internal/stats"
)

type analysisUseCase struct {
	service Service
}

func NewUseCase(service Service) UseCase {
	return &analysisUseCase{service: service}
}

func basisLabel(basis string) string {
	switch basis {
	case BasisPrice:
		return "Product Revenue"
	case BasisFreight:
		return "Freight Revenue"
	default:
		return "Total Revenue"
	}
}

func basisOptions(selected string) []render.Option {
	return []render.Option{
		{Value: BasisTotal, Label: "Total (price + freight)", Selected: selected == BasisTotal},
		{Value: BasisPrice, Label: "Product price", Selected: selected == BasisPrice},
		{Value: BasisFreight, Label: "Freight value", Selected: selected == BasisFreight},
	}
}

func giniLabel(g float64) string {
	switch {
	case g > 0.5:
		return "High inequality"
	case g > 0.3:
		return "Moderate inequality"
	default:
		return "Low inequality"
	}
}

func corrLabel(r float64) string {
	abs := r
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 0.7:
		return "strong"
	case abs > 0.3:
		return "moderate"
	default:
		return "weak"
	}
}

// topNChart renders the leading entries as a horizontal bar, largest on
// top.
func topNChart(title string, entries []RankedEntry, n int, color, labelFormatter string) charts.Snippet {
	if len(entries) > n {
		entries = entries[:n]
	}
	names := make([]string, len(entries))
	values := make([]float64, len(entries))
	for i, e := range entries {
		// Reversed so the largest bar renders at the top.
		j := len(entries) - 1 - i
		names[j] = e.Name
		values[j] = e.Revenue
	}
	return charts.HorizontalBar(title, names, "Revenue", values, color, labelFormatter)
}

func rankingTable(title string, entries []RankedEntry, n int, nameHeader string) render.Table {
	if len(entries) > n {
		entries = entries[:n]
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			e.Name,
			render.Money2(e.Revenue),
			render.Pct(e.SharePct),
			render.Pct(e.CumulativePct),
		}
	}
	return render.Table{
		Title:   title,
		Headers: []string{"#", nameHeader, "Revenue", "Share", "Cumulative"},
		Rows:    rows,
	}
}

func (uc *analysisUseCase) OverviewPage(ctx context.Context, q OverviewQuery) (*render.Page, error) {
	sum, err := uc.service.Summary(ctx)
	if err != nil {
		return nil, err
	}
	ca, err := uc.service.Categories(ctx, q.Basis)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Revenue Overview",
		Subtitle: "Totals, composition and the leading categories and vendors",
		Active:   "revenue",
		Warnings: sum.Warnings,
	}

	metricCards := render.Section{
		Title: "Key Metrics",
		Cards: []render.Card{
			{Label: "Total Revenue", Value: render.Money(sum.TotalRevenue), Color: charts.Green},
			{Label: "Total Orders", Value: render.Count(sum.TotalOrders)},
			{Label: "Avg Order Value", Value: render.Money2(sum.AvgOrderValue), Color: charts.Teal},
			{Label: "Items Sold", Value: render.Count(sum.TotalItems)},
			{Label: "Avg Items per Order", Value: render.F2(sum.AvgItemsPerOrder)},
		},
	}
	page.Sections = append(page.Sections, metricCards)

	composition := render.Section{
		Title: "Revenue Composition",
		Cards: []render.Card{
			{Label: "Product Amount", Value: render.Money(sum.ProductAmount), Color: charts.Teal},
			{Label: "Freight Amount", Value: render.Money(sum.FreightAmount), Color: charts.Sage},
			{Label: "Freight Share", Value: render.Pct(sum.FreightSharePct)},
		},
	}
	if sum.OrdersWithoutItems > 0 {
		composition.Note = fmt.Sprintf(
			"%s orders carry no line items and contribute no revenue; order counts above come from items.",
			render.Count(sum.OrdersWithoutItems),
		)
	}
	page.Sections = append(page.Sections, composition)

	page.Sections = append(page.Sections, render.Section{
		Title: "Marketplace",
		Cards: []render.Card{
			{Label: "Categories", Value: render.Count(sum.CategoryCount)},
			{Label: "Vendors", Value: render.Count(sum.VendorCount)},
			{Label: "Avg Revenue per Vendor", Value: render.Money2(sum.AvgRevenuePerVendor)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: fmt.Sprintf("Top Categories by %s", basisLabel(q.Basis)),
		Form: &render.Form{
			Action:  "/revenue",
			Selects: []render.Select{{Label: "Revenue basis", Name: "basis", Options: basisOptions(q.Basis)}},
			Numbers: []render.NumberInput{{Label: "Top N", Name: "n", Value: q.N, Min: 5, Max: 30}},
		},
		Charts: []charts.Snippet{
			topNChart(fmt.Sprintf("Top %d Categories", q.N), ca.Entries, q.N, charts.Teal, ""),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Leaders",
		Tables: []render.Table{rankingTable("Top 5 Categories", sum.TopCategories, 5, "Category"), rankingTable("Top 5 Vendors", sum.TopVendors, 5, "Vendor")},
		Cards: []render.Card{
			{Label: "Top 10 Categories Share", Value: render.Pct(sum.Top10CategoryShare)},
			{Label: "Category Revenue Std Dev", Value: render.Money(sum.CategoryStd)},
		},
	})

	page.Footer = fmt.Sprintf("%s revenue across %s orders and %s items",
		render.Money(sum.TotalRevenue), render.Count(sum.TotalOrders), render.Count(sum.TotalItems))
	return page, nil
}

func (uc *analysisUseCase) CategoriesPage(ctx context.Context, q CategoriesQuery) (*render.Page, error) {
	ca, err := uc.service.Categories(ctx, q.Basis)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Category Analysis",
		Subtitle: "Revenue distribution across product categories",
		Active:   "categories",
		Warnings: ca.Warnings,
	}

	top := render.Card{Label: "Top Category", Value: "n/a"}
	if len(ca.Entries) > 0 {
		top = render.Card{
			Label: "Top Category",
			Value: ca.Entries[0].Name,
			Hint:  fmt.Sprintf("%s of revenue", render.Pct(ca.Entries[0].SharePct)),
			Color: charts.Green,
		}
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "Categories", Value: render.Count(len(ca.Entries))},
			{Label: "Total Revenue", Value: render.Money(ca.TotalRevenue), Color: charts.Green},
			{Label: "Avg Revenue per Category", Value: render.Money(ca.AvgRevenue)},
			top,
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Concentration",
		Cards: []render.Card{
			{Label: "Top 5 Share", Value: render.Pct(ca.Top5Share), Color: charts.Teal},
			{Label: "Top 10 Share", Value: render.Pct(ca.Top10Share), Color: charts.Teal},
			{Label: "Categories for 50% of Revenue", Value: render.Count(ca.HalfCoverCount)},
			{Label: "Gini Coefficient", Value: render.F2(ca.Gini), Hint: giniLabel(ca.Gini), Color: charts.Brown},
		},
		Charts: []charts.Snippet{
			charts.Lorenz("Category Revenue Concentration", ca.LorenzXs, ca.LorenzYs),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: fmt.Sprintf("Top Categories by %s", basisLabel(q.Basis)),
		Form: &render.Form{
			Action:  "/revenue/categories",
			Selects: []render.Select{{Label: "Revenue basis", Name: "basis", Options: basisOptions(q.Basis)}},
			Numbers: []render.NumberInput{{Label: "Top N", Name: "n", Value: q.N, Min: 5, Max: 30}},
		},
		Charts: []charts.Snippet{
			topNChart(fmt.Sprintf("Top %d Categories", q.N), ca.Entries, q.N, charts.Teal, ""),
		},
		Cards: []render.Card{
			{Label: "Top 10 vs Bottom 10 Avg", Value: fmt.Sprintf("%.1fx", ca.TopBottomRatio)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Detail",
		Tables: []render.Table{rankingTable("Category Ranking", ca.Entries, 20, "Category")},
		Links:  []render.Link{{Label: "Download categories.csv", Href: "/revenue/categories.csv"}},
	})

	page.Footer = fmt.Sprintf("%s categories, %s total revenue",
		render.Count(len(ca.Entries)), render.Money(ca.TotalRevenue))
	return page, nil
}

func (uc *analysisUseCase) VendorsPage(ctx context.Context, q VendorsQuery) (*render.Page, error) {
	va, err := uc.service.Vendors(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Vendor Analysis",
		Subtitle: "Marketplace concentration and vendor health",
		Active:   "vendors",
		Warnings: va.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "Vendors", Value: render.Count(va.VendorCount)},
			{Label: "Total Revenue", Value: render.Money(va.TotalRevenue), Color: charts.Green},
			{Label: "Median Vendor Revenue", Value: render.Money2(va.MedianRevenue)},
			{Label: "Top 10 Vendors Share", Value: render.Pct(va.Top10Share), Color: charts.Teal},
		},
	})

	segItems := make([]charts.NameValue, 0, len(va.Segments))
	segRows := make([][]string, 0, len(va.Segments))
	for _, seg := range va.Segments {
		segItems = append(segItems, charts.NameValue{Name: seg.Name, Value: seg.Revenue})
		segRows = append(segRows, []string{
			seg.Name,
			render.Count(seg.Vendors),
			render.Money(seg.Revenue),
			render.Money2(seg.AvgRevenue),
			render.Pct(seg.SharePct),
		})
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Segments",
		Note:  "Vendors bucketed by revenue share: Micro up to 0.1%, Small up to 1%, Medium up to 5%, Large above.",
		Charts: []charts.Snippet{
			charts.Donut("Revenue by Vendor Segment", segItems,
				[]string{charts.Sage, charts.LightBlue, charts.Teal, charts.Green}),
		},
		Tables: []render.Table{{
			Title:   "Segment Summary",
			Headers: []string{"Segment", "Vendors", "Revenue", "Avg Revenue", "Share"},
			Rows:    segRows,
		}},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Concentration",
		Cards: []render.Card{
			{Label: "Gini Coefficient", Value: render.F2(va.Gini), Hint: giniLabel(va.Gini), Color: charts.Brown},
			{Label: "Coefficient of Variation", Value: render.F2(va.CV)},
			{Label: "Top 5 Share", Value: render.Pct(va.Top5Share)},
		},
		Charts: []charts.Snippet{
			charts.Lorenz("Vendor Revenue Concentration", va.LorenzXs, va.LorenzYs),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: fmt.Sprintf("Top %d Vendors", q.N),
		Form: &render.Form{
			Action:  "/revenue/vendors",
			Numbers: []render.NumberInput{{Label: "Top N", Name: "n", Value: q.N, Min: 5, Max: 30}},
		},
		Charts: []charts.Snippet{
			topNChart(fmt.Sprintf("Top %d Vendors by Revenue", q.N), va.Entries, q.N, charts.Green, ""),
		},
	})

	risk := render.Card{Label: "Dependence Risk", Value: "No", Color: charts.Green, Hint: "Top 5 vendors hold at most half of revenue"}
	if va.DependenceRisk {
		risk = render.Card{Label: "Dependence Risk", Value: "Yes", Color: charts.Brown, Hint: "Top 5 vendors hold more than half of revenue"}
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Health Check",
		Cards: []render.Card{
			{Label: "Upper Quartile Revenue", Value: render.Money2(va.UpperQuartile)},
			{Label: "Lower Quartile Revenue", Value: render.Money2(va.LowerQuartile)},
			risk,
		},
		Tables: []render.Table{rankingTable("Vendor Ranking", va.Entries, 20, "Vendor")},
		Links:  []render.Link{{Label: "Download vendors.csv", Href: "/revenue/vendors.csv"}},
	})

	page.Footer = fmt.Sprintf("%s vendors, Gini %s", render.Count(va.VendorCount), render.F2(va.Gini))
	return page, nil
}

func (uc *analysisUseCase) FreightPage(ctx context.Context) (*render.Page, error) {
	fa, err := uc.service.Freight(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Freight Analysis",
		Subtitle: "Shipping cost structure and its drivers",
		Active:   "freight",
		Warnings: fa.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Totals",
		Cards: []render.Card{
			{Label: "Total Freight", Value: render.Money(fa.TotalFreight), Color: charts.Sage},
			{Label: "Total Product Price", Value: render.Money(fa.TotalPrice)},
			{Label: "Freight to Price Ratio", Value: render.Pct(fa.FreightRatioPct), Color: charts.Teal},
			{Label: "Avg Freight per Item", Value: render.Money2(fa.AvgFreightPerItem)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Distribution",
		Note:  "Outliers beyond 1.5 IQR are excluded from the histogram.",
		Charts: []charts.Snippet{
			charts.Histogram("Freight Value Distribution", stats.FilterIQR(fa.FreightValues), 50, charts.Teal, nil, ""),
		},
	})

	catNames := make([]string, len(fa.CategoryAvg))
	catValues := make([]float64, len(fa.CategoryAvg))
	for i, c := range fa.CategoryAvg {
		j := len(fa.CategoryAvg) - 1 - i
		catNames[j] = c.Category
		catValues[j] = c.AvgFreight
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Average Freight by Category",
		Note:  "Top 20 categories by item count.",
		Charts: []charts.Snippet{
			charts.HorizontalBar("Avg Freight (R$)", catNames, "Avg freight", catValues, charts.Green, ""),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Correlations",
		Cards: []render.Card{
			{Label: "Freight vs Weight", Value: render.F2(fa.WeightCorr), Hint: corrLabel(fa.WeightCorr) + " correlation"},
			{Label: "Freight vs Volume", Value: render.F2(fa.VolumeCorr), Hint: corrLabel(fa.VolumeCorr) + " correlation"},
			{Label: "Freight vs Price", Value: render.F2(fa.PriceCorr), Hint: corrLabel(fa.PriceCorr) + " correlation"},
		},
		Charts: []charts.Snippet{
			charts.Scatter("Freight vs Weight (g)", "weight (g)", "freight (R$)", toPoints(fa.WeightPairs), charts.Teal, 6),
			charts.Scatter("Freight vs Volume (cm3)", "volume (cm3)", "freight (R$)", toPoints(fa.VolumePairs), charts.Green, 6),
			charts.Scatter("Freight vs Price (R$)", "price (R$)", "freight (R$)", toPoints(fa.PricePairs), charts.Sage, 6),
			bubbleChart(fa.BubbleRows),
		},
	})

	effRows := [][]string{
		statsRow("Freight per kg", fa.FreightPerKg),
		statsRow("Freight per m3", fa.FreightPerM3),
		statsRow("Price to freight ratio", fa.PriceToFreight),
	}
	missRows := make([][]string, len(fa.MissingDims))
	for i, m := range fa.MissingDims {
		missRows[i] = []string{m.Column, render.Count(m.Missing)}
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Unit Economics",
		Cards: []render.Card{
			{Label: "Dimension Coverage", Value: render.Pct(fa.DimCoveragePct), Hint: "items with full weight and size data"},
		},
		Tables: []render.Table{
			{
				Title:   "Efficiency Statistics",
				Headers: []string{"Metric", "Count", "Mean", "Median", "Std Dev", "Q1", "Q3"},
				Rows:    effRows,
			},
			{
				Title:   "Missing Dimensions",
				Headers: []string{"Column", "Missing values"},
				Rows:    missRows,
			},
		},
	})

	page.Footer = fmt.Sprintf("%s freight over %s items (%s of product price)",
		render.Money(fa.TotalFreight), render.Count(len(fa.FreightValues)), render.Pct(fa.FreightRatioPct))
	return page, nil
}

func (uc *analysisUseCase) CategoriesCSV(ctx context.Context) ([]string, [][]string, error) {
	ca, err := uc.service.Categories(ctx, BasisTotal)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(ca.Entries))
	for i, e := range ca.Entries {
		rows[i] = []string{e.Name, render.F2(e.Revenue), render.F2(e.SharePct), render.F2(e.CumulativePct)}
	}
	return []string{"category", "revenue", "share_pct", "cumulative_pct"}, rows, nil
}

func (uc *analysisUseCase) VendorsCSV(ctx context.Context) ([]string, [][]string, error) {
	va, err := uc.service.Vendors(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(va.Entries))
	for i, e := range va.Entries {
		rows[i] = []string{e.Name, render.F2(e.Revenue), render.F2(e.SharePct), render.F2(e.CumulativePct)}
	}
	return []string{"seller_id", "revenue", "share_pct", "cumulative_pct"}, rows, nil
}

func (uc *analysisUseCase) SummaryJSON(ctx context.Context) (*SummaryResponse, error) {
	sum, err := uc.service.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		TotalRevenue:        sum.TotalRevenue,
		ProductAmount:       sum.ProductAmount,
		FreightAmount:       sum.FreightAmount,
		FreightSharePct:     sum.FreightSharePct,
		TotalOrders:         sum.TotalOrders,
		AvgOrderValue:       sum.AvgOrderValue,
		TotalItems:          sum.TotalItems,
		AvgItemsPerOrder:    sum.AvgItemsPerOrder,
		CategoryCount:       sum.CategoryCount,
		VendorCount:         sum.VendorCount,
		AvgRevenuePerVendor: sum.AvgRevenuePerVendor,
	}, nil
}

func toPoints(pairs [][2]float64) []charts.Point {
	out := make([]charts.Point, len(pairs))
	for i, p := range pairs {
		out[i] = charts.Point{X: p[0], Y: p[1]}
	}
	return out
}

func bubbleChart(rows []BubbleRow) charts.Snippet {
	bubbles := make([]charts.Bubble, len(rows))
	for i, r := range rows {
		bubbles[i] = charts.Bubble{
			X:    r.WeightG,
			Y:    r.Price,
			Size: r.VolumeCm / 1000,
			Name: fmt.Sprintf("%.0fg / %s", r.WeightG, render.Money2(r.Price)),
		}
	}
	return charts.BubbleScatter("Weight vs Price (bubble = volume)", "weight (g)", "price (R$)", bubbles, charts.Tan)
}

func statsRow(name string, b StatsBlock) []string {
	return []string{
		name,
		render.Count(b.Count),
		render.F2(b.Mean),
		render.F2(b.Median),
		render.F2(b.Std),
		render.F2(b.Q1),
		render.F2(b.Q3),
	}
}

