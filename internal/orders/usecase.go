package orders

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

func stageLabel(stage string) string {
	switch stage {
	case StageSeller:
		return "Seller"
	case StageShipping:
		return "Shipping"
	default:
		return "Site"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clampWindow(w, def int) int {
	if w == 0 {
		return def
	}
	if w < 1 {
		return 1
	}
	if w > 30 {
		return 30
	}
	return w
}

func (uc *analysisUseCase) TimelinesPage(ctx context.Context, q TimelinesQuery) (*render.Page, error) {
	ts, err := uc.service.Timelines(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Order Timelines",
		Subtitle: "How long delivered orders spend in each fulfillment stage",
		Active:   "timelines",
		Warnings: ts.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "Delivered Orders", Value: render.Count(ts.DeliveredCount)},
			{Label: "Median Delivery Time", Value: render.Days(ts.MedianTotalDays), Color: charts.Teal},
			{Label: "Mean", Value: render.Days(ts.MeanTotalDays)},
			{Label: "Std Dev", Value: render.Days(ts.StdTotalDays)},
			{Label: "90th Percentile", Value: render.Days(ts.P90TotalDays), Color: charts.Brown},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Stage Medians",
		Note:  fmt.Sprintf("Fastest stage: %s.", stageLabel(ts.FastestStage)),
		Cards: []render.Card{
			{Label: "Site Median", Value: render.Hours(ts.MedianSiteHours), Hint: fmt.Sprintf("%s of total time", render.Pct(ts.AvgSiteSharePct))},
			{Label: "Seller Median", Value: render.Hours(ts.MedianSellerHours), Hint: fmt.Sprintf("%s of total time", render.Pct(ts.AvgSellerSharePct))},
			{Label: "Shipping Median", Value: render.Hours(ts.MedianShippingHours), Hint: fmt.Sprintf("%s of total time", render.Pct(ts.AvgShippingSharePct))},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Stage Distributions",
		Note:  "Outliers beyond 1.5 IQR are excluded; the marker sits on the stage median.",
		Charts: []charts.Snippet{
			stageHistogram("Site Hours", ts.SiteHours, charts.Teal),
			stageHistogram("Seller Hours", ts.SellerHours, charts.Green),
			stageHistogram("Shipping Hours", ts.ShippingHours, charts.Brown),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Per-Order Breakdown",
		Note:   fmt.Sprintf("Stage hours for a %d-order sample.", len(ts.Sample)),
		Charts: []charts.Snippet{stageBreakdown(ts.Sample)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Cumulative Distribution",
		Charts: []charts.Snippet{cumulativeDays(ts.TotalDays)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Daily Trend",
		Form: &render.Form{
			Action: "/orders/timelines",
			Selects: []render.Select{{
				Label: "Metric",
				Name:  "metric",
				Options: []render.Option{
					{Value: TrendOrders, Label: "Distinct orders", Selected: q.Metric != TrendDays},
					{Value: TrendDays, Label: "Average delivery days", Selected: q.Metric == TrendDays},
				},
			}},
			Numbers: []render.NumberInput{{Label: "Rolling window (days)", Name: "window", Value: q.Window, Min: 1, Max: 30}},
		},
		Charts: []charts.Snippet{dailyTrend(ts.Daily, q)},
	})

	page.Footer = fmt.Sprintf("%s delivered orders, median %s",
		render.Count(ts.DeliveredCount), render.Days(ts.MedianTotalDays))
	return page, nil
}

func stageHistogram(title string, hours []float64, color string) charts.Snippet {
	filtered := stats.FilterIQR(hours)
	if len(filtered) == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	median := stats.Median(filtered)
	label := fmt.Sprintf("Median: %.1fh", median)
	return charts.Histogram(title, filtered, 30, color, &median, label)
}

func stageBreakdown(samples []StageSample) charts.Snippet {
	if len(samples) == 0 {
		return charts.Empty("Stage Breakdown", charts.NoDataMessage)
	}
	xs := make([]string, len(samples))
	site := make([]float64, len(samples))
	seller := make([]float64, len(samples))
	shipping := make([]float64, len(samples))
	for i, sm := range samples {
		xs[i] = shortID(sm.OrderID)
		site[i] = sm.SiteHours
		seller[i] = sm.SellerHours
		shipping[i] = sm.ShippingHours
	}
	return charts.StackedBars("Stage Breakdown", xs, []charts.BarSeries{
		{Name: "Site", Values: site, Color: charts.Teal},
		{Name: "Seller", Values: seller, Color: charts.Green},
		{Name: "Shipping", Values: shipping, Color: charts.Brown},
	})
}

// cumulativeDays plots the share of orders delivered within x days, with
// markers on the 50/75/90/95th percentiles.
func cumulativeDays(totalDays []float64) charts.Snippet {
	if len(totalDays) == 0 {
		return charts.Empty("Cumulative Delivery Time", charts.NoDataMessage)
	}
	const points = 200
	xs := make([]string, points)
	ys := make([]float64, points)
	var marks []charts.Mark
	for i := 0; i < points; i++ {
		q := float64(i+1) / points
		v := stats.Quantile(totalDays, q)
		xs[i] = fmt.Sprintf("%.1f", v)
		ys[i] = q * 100
		switch i + 1 {
		case points / 2:
			marks = append(marks, charts.Mark{Label: fmt.Sprintf("P50: %.1fd", v), Index: i})
		case points * 3 / 4:
			marks = append(marks, charts.Mark{Label: fmt.Sprintf("P75: %.1fd", v), Index: i})
		case points * 9 / 10:
			marks = append(marks, charts.Mark{Label: fmt.Sprintf("P90: %.1fd", v), Index: i})
		case points * 19 / 20:
			marks = append(marks, charts.Mark{Label: fmt.Sprintf("P95: %.1fd", v), Index: i})
		}
	}
	return charts.MarkedLine("Cumulative Delivery Time", xs, "Orders within (%)", ys, charts.Teal, marks)
}

func dailyTrend(daily []DailyDelivery, q TimelinesQuery) charts.Snippet {
	if len(daily) == 0 {
		return charts.Empty("Daily Trend", charts.NoDataMessage)
	}
	xs := make([]string, len(daily))
	values := make([]float64, len(daily))
	name := "Distinct orders"
	for i, d := range daily {
		xs[i] = d.Date
		if q.Metric == TrendDays {
			values[i] = d.AvgDays
		} else {
			values[i] = float64(d.Orders)
		}
	}
	if q.Metric == TrendDays {
		name = "Average delivery days"
	}
	rolled := stats.RollingMean(values, q.Window)
	return charts.Line("Daily Trend", xs, []charts.LineSeries{
		{Name: name, Values: values, Color: charts.Sage},
		{Name: fmt.Sprintf("%d-day average", q.Window), Values: rolled, Color: charts.Teal},
	})
}
