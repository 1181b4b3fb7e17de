package insights

import (
	"context"
	"fmt"

	"palantir/internal/charts"
	"palantir/internal/render"
	"palantir/internal/stats"
)

type insightsUseCase struct {
	service Service
}

func NewUseCase(service Service) UseCase {
	return &insightsUseCase{service: service}
}

func kpiColor(v, good, fair float64) string {
	switch {
	case v >= good:
		return charts.Green
	case v >= fair:
		return charts.Sage
	default:
		return charts.Brown
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (uc *insightsUseCase) InsightsPage(ctx context.Context) (*render.Page, error) {
	ins, err := uc.service.Insights(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Main Insights",
		Subtitle: "Executive summary of key metrics, trends and performance indicators",
		Active:   "insights",
		Warnings: ins.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Executive Summary",
		Cards: []render.Card{
			{
				Label: "Total Revenue",
				Value: render.Money(ins.TotalRevenue),
				Hint:  fmt.Sprintf("%s orders", render.Count(ins.TotalOrders)),
				Color: charts.Green,
			},
			{
				Label: "Delivery Rate",
				Value: render.Pct(ins.DeliveryRatePct),
				Hint:  fmt.Sprintf("%s delivered", render.Count(ins.DeliveredCount)),
				Color: kpiColor(ins.DeliveryRatePct, 95, 90),
			},
			{
				Label: "On-Time Delivery",
				Value: render.Pct(ins.OnTimeRatePct),
				Hint:  fmt.Sprintf("Avg delay: %s", render.Days(ins.AvgDelayDays)),
				Color: kpiColor(ins.OnTimeRatePct, 85, 75),
			},
			{
				Label: "Avg Order Value",
				Value: render.Money2(ins.AvgOrderValue),
				Hint:  fmt.Sprintf("%s items per order", render.F1(ins.AvgItemsPerOrder)),
				Color: charts.Teal,
			},
		},
	})

	performance := render.Section{
		Title: "Revenue & Performance",
		Note:  "Score target is 85: below 70 reads brown, 70 to 85 sage, 85 and up green.",
		Charts: []charts.Snippet{
			uc.trendChart(ins),
			charts.Gauge("Overall Performance Score", "Score", ins.PerformanceScore),
		},
		Cards: []render.Card{
			{Label: "Total Orders", Value: render.Count(ins.TotalOrders)},
			{Label: "Items Sold", Value: render.Count(ins.TotalItemsSold)},
			{Label: "Total Vendors", Value: render.Count(ins.TotalVendors)},
			{Label: "Freight Ratio", Value: render.Pct(ins.FreightRatioPct)},
		},
	}
	if ins.HasGrowth {
		performance.Note = fmt.Sprintf("Month-over-month revenue growth: %+.1f%%. %s",
			ins.GrowthRatePct, performance.Note)
	}
	page.Sections = append(page.Sections, performance)

	page.Sections = append(page.Sections, render.Section{
		Title: "Top Performers",
		Charts: []charts.Snippet{
			uc.categoriesChart(ins),
			uc.statesChart(ins),
		},
		Tables: []render.Table{uc.vendorsTable(ins)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Strengths",
		Text: []string{
			fmt.Sprintf("High delivery rate: %s of orders successfully delivered.", render.Pct(ins.DeliveryRatePct)),
			fmt.Sprintf("Strong revenue generation: %s total revenue.", render.Money(ins.TotalRevenue)),
			fmt.Sprintf("Geographic reach: orders from %s states.", render.Count(ins.StateCount)),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Growth Opportunities",
		Text: []string{
			fmt.Sprintf("Increase the average order value from %s.", render.Money2(ins.AvgOrderValue)),
			fmt.Sprintf("Optimize freight costs, currently %s of product value.", render.Pct(ins.FreightRatioPct)),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Areas for Improvement",
		Text: []string{
			fmt.Sprintf("Delivery timeliness: %s on-time rate.", render.Pct(ins.OnTimeRatePct)),
			fmt.Sprintf("Delay management: late deliveries average %s.", render.Days(ins.AvgDelayDays)),
			fmt.Sprintf("Market concentration: the top 3 states account for %s of orders.", render.Pct(ins.Top3ConcentrationPct)),
			fmt.Sprintf("Order volume: %s items per order on average.", render.F1(ins.AvgItemsPerOrder)),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Data Summary",
		Tables: []render.Table{
			{
				Title:   "Performance Metrics",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Delivery Rate", render.Pct(ins.DeliveryRatePct)},
					{"On-Time Rate", render.Pct(ins.OnTimeRatePct)},
					{"Delay Rate", render.Pct(ins.DelayRatePct)},
					{"Avg Order Value", render.Money2(ins.AvgOrderValue)},
				},
			},
			{
				Title:   "Financial Summary",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Total Revenue", render.Money(ins.TotalRevenue)},
					{"Total Freight", render.Money(ins.TotalFreight)},
					{"Avg Freight per Item", render.Money2(ins.AvgFreightPerItem)},
					{"Freight Ratio", render.Pct(ins.FreightRatioPct)},
				},
			},
			{
				Title:   "Operational Stats",
				Headers: []string{"Metric", "Value"},
				Rows: [][]string{
					{"Total Orders", render.Count(ins.TotalOrders)},
					{"Items Sold", render.Count(ins.TotalItemsSold)},
					{"Avg Items per Order", render.F1(ins.AvgItemsPerOrder)},
					{"Total Vendors", render.Count(ins.TotalVendors)},
				},
			},
		},
	})

	page.Footer = fmt.Sprintf("Performance score %s: delivery %s, on-time %s",
		render.F1(ins.PerformanceScore), render.Pct(ins.DeliveryRatePct), render.Pct(ins.OnTimeRatePct))
	return page, nil
}

func (uc *insightsUseCase) trendChart(ins *Insights) charts.Snippet {
	if len(ins.Trend) == 0 {
		return charts.Empty("Revenue Trend", charts.NoDataMessage)
	}
	dates := make([]string, len(ins.Trend))
	values := make([]float64, len(ins.Trend))
	for i, p := range ins.Trend {
		dates[i] = p.Date
		values[i] = p.Revenue
	}
	return charts.BarWithLine("Revenue Trend (7-Day Moving Average)", dates,
		"Daily Revenue", values, charts.Sage,
		"7-Day Avg", stats.RollingMean(values, 7), charts.Teal)
}

func (uc *insightsUseCase) categoriesChart(ins *Insights) charts.Snippet {
	n := len(ins.TopCategoriesRevenue)
	names := make([]string, n)
	values := make([]float64, n)
	for i, e := range ins.TopCategoriesRevenue {
		// Reversed so the largest bar renders at the top.
		j := n - 1 - i
		names[j] = e.Name
		values[j] = e.Value
	}
	return charts.HorizontalBar("Top 5 Product Categories by Revenue", names, "Revenue", values, charts.Green, "R${c}")
}

func (uc *insightsUseCase) statesChart(ins *Insights) charts.Snippet {
	n := len(ins.TopStates)
	names := make([]string, n)
	values := make([]float64, n)
	for i, e := range ins.TopStates {
		j := n - 1 - i
		names[j] = e.Name
		values[j] = float64(e.Count)
	}
	return charts.HorizontalBar("Top 5 States by Order Volume", names, "Orders", values, charts.Sage, "")
}

func (uc *insightsUseCase) vendorsTable(ins *Insights) render.Table {
	rows := make([][]string, len(ins.TopVendors))
	for i, e := range ins.TopVendors {
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			shortID(e.Name),
			render.Money(e.Value),
		}
	}
	return render.Table{
		Title:   "Top Vendors",
		Headers: []string{"#", "Vendor", "Revenue"},
		Rows:    rows,
	}
}

func (uc *insightsUseCase) InsightsJSON(ctx context.Context) (*InsightsResponse, error) {
	ins, err := uc.service.Insights(ctx)
	if err != nil {
		return nil, err
	}
	resp := &InsightsResponse{
		TotalRevenue:     ins.TotalRevenue,
		AvgOrderValue:    ins.AvgOrderValue,
		TotalOrders:      ins.TotalOrders,
		TotalItemsSold:   ins.TotalItemsSold,
		TotalVendors:     ins.TotalVendors,
		DeliveryRatePct:  ins.DeliveryRatePct,
		OnTimeRatePct:    ins.OnTimeRatePct,
		DelayRatePct:     ins.DelayRatePct,
		AvgDelayDays:     ins.AvgDelayDays,
		FreightRatioPct:  ins.FreightRatioPct,
		PerformanceScore: ins.PerformanceScore,
	}
	if ins.HasGrowth {
		growth := ins.GrowthRatePct
		resp.RevenueGrowthPct = &growth
	}
	return resp, nil
}
