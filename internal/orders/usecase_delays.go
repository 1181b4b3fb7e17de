package orders

import (
	"context"
	"fmt"

	"palantir/internal/charts"
	"palantir/internal/render"
	"palantir/internal/stats"
)

const (
	noDelayedOrders  = "No Delayed Orders Found"
	noHeatmapMatches = "No delayed orders available for the selected filters"
)

const delaySampleSize = 10

func (uc *analysisUseCase) DelaysPage(ctx context.Context, q DelaysQuery) (*render.Page, error) {
	da, err := uc.service.Delays(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Delay Analysis",
		Subtitle: "Late orders, their severity and the stages that drive them",
		Active:   "delays",
		Warnings: da.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "Total Delayed", Value: render.Count(da.LateCount), Color: charts.DarkRed},
			{Label: "Delay Rate", Value: render.Pct(da.DelayRatePct), Hint: fmt.Sprintf("of %s measurable orders", render.Count(da.CleanCount))},
			{Label: "Average Delay", Value: render.Days(da.AvgDelayDays)},
			{Label: "Longest Delay", Value: render.Days(da.MaxDelayDays), Color: charts.Brown},
			{Label: "Delayed and Delivered", Value: render.Pct(da.DeliveredLateRatePct)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Impact",
		Cards: []render.Card{
			{Label: "Delivered Late", Value: render.Count(da.DeliveredLate), Hint: fmt.Sprintf("%s of late orders", render.Pct(da.DeliveredLateRatePct))},
			{Label: "Stuck and Late", Value: render.Count(da.NotDeliveredLate), Hint: fmt.Sprintf("%s of late orders", render.Pct(da.NotDeliveredLateRatePct)), Color: charts.DarkRed},
			{Label: "Total Lost Days", Value: render.Days(da.LostDays)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Distribution",
		Charts: []charts.Snippet{delayHistogram(da)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Severity",
		Charts: []charts.Snippet{severityChart(da)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Stage Shares of Late Orders",
		Note:  "Shares beyond 1.5 IQR are excluded.",
		Cards: []render.Card{
			stageShareCard("Site Share", da.SiteBox),
			stageShareCard("Seller Share", da.SellerBox),
			stageShareCard("Shipping Share", da.ShippingBox),
		},
		Charts: []charts.Snippet{stageBoxes(da)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Daily Delay Rate",
		Charts: []charts.Snippet{delayTrend(da)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Delay vs Stage Share",
		Form: &render.Form{
			Action: "/orders/delays",
			Selects: []render.Select{
				{
					Label: "Stage",
					Name:  "stage",
					Options: []render.Option{
						{Value: StageSite, Label: "Site share", Selected: q.Stage == StageSite || q.Stage == ""},
						{Value: StageSeller, Label: "Seller share", Selected: q.Stage == StageSeller},
						{Value: StageShipping, Label: "Shipping share", Selected: q.Stage == StageShipping},
					},
				},
				{
					Label: "Status",
					Name:  "status",
					Options: []render.Option{
						{Value: StatusAll, Label: "All", Selected: q.Status == "" || q.Status == StatusAll},
						{Value: "Delivered", Label: "Delivered", Selected: q.Status == "Delivered"},
						{Value: "Not_Delivered", Label: "Not delivered", Selected: q.Status == "Not_Delivered"},
					},
				},
			},
		},
		Charts: []charts.Snippet{heatmapChart(da.Heatmap)},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Explorer",
		Tables: []render.Table{delaySample(da.Rows)},
		Links:  []render.Link{{Label: "Download delays.csv", Href: "/orders/delays.csv"}},
	})

	page.Footer = fmt.Sprintf("%s delayed orders (%s), average %s late",
		render.Count(da.LateCount), render.Pct(da.DelayRatePct), render.Days(da.AvgDelayDays))
	return page, nil
}

func delayHistogram(da *DelayAnalysis) charts.Snippet {
	if da.LateCount == 0 {
		return charts.Empty("Delay Distribution (days)", noDelayedOrders)
	}
	mark := da.MeanDelayDays
	label := fmt.Sprintf("Avg: %.1f days", da.AvgDelayDays)
	return charts.Histogram("Delay Distribution (days)", da.DelayValues, 30, charts.DarkRed, &mark, label)
}

func severityChart(da *DelayAnalysis) charts.Snippet {
	if da.LateCount == 0 {
		return charts.Empty("Delay Severity", noDelayedOrders)
	}
	labels := make([]string, len(da.Severity))
	counts := make([]float64, len(da.Severity))
	for i, b := range da.Severity {
		labels[i] = b.Label
		counts[i] = float64(b.Count)
	}
	colors := []string{charts.DarkRed, charts.Brown, charts.Tan, charts.Sage, charts.LightBlue}
	return charts.ColoredBar("Delay Severity", labels, "Orders", counts, colors, "")
}

func stageShareCard(label string, box BoxStats) render.Card {
	return render.Card{
		Label: label,
		Value: render.Pct(box.Mean),
		Hint:  fmt.Sprintf("median %s, std %.1f", render.Pct(box.Median), box.Std),
	}
}

func stageBoxes(da *DelayAnalysis) charts.Snippet {
	if da.LateCount == 0 {
		return charts.Empty("Stage Shares", noDelayedOrders)
	}
	names := []string{"Site", "Seller", "Shipping"}
	boxes := [][]float64{
		{da.SiteBox.Min, da.SiteBox.Q1, da.SiteBox.Median, da.SiteBox.Q3, da.SiteBox.Max},
		{da.SellerBox.Min, da.SellerBox.Q1, da.SellerBox.Median, da.SellerBox.Q3, da.SellerBox.Max},
		{da.ShippingBox.Min, da.ShippingBox.Q1, da.ShippingBox.Median, da.ShippingBox.Q3, da.ShippingBox.Max},
	}
	return charts.BoxPlot("Stage Shares", names, boxes, charts.Teal)
}

// delayTrend plots the rolled daily delay rate with order volume rescaled
// onto the same axis for context.
func delayTrend(da *DelayAnalysis) charts.Snippet {
	if len(da.DailyTrend) == 0 {
		return charts.Empty("Daily Delay Rate", noDelayedOrders)
	}
	xs := make([]string, len(da.DailyTrend))
	rates := make([]float64, len(da.DailyTrend))
	orders := make([]float64, len(da.DailyTrend))
	maxOrders := 0.0
	for i, pt := range da.DailyTrend {
		xs[i] = pt.Date
		rates[i] = pt.RatePct
		orders[i] = float64(pt.Orders)
		if orders[i] > maxOrders {
			maxOrders = orders[i]
		}
	}
	rolled := stats.RollingMean(rates, 7)
	maxRate := stats.Max(rolled)
	scale := 0.0
	if maxOrders > 0 {
		scale = maxRate / maxOrders
	}
	scaled := make([]float64, len(orders))
	for i, o := range orders {
		scaled[i] = o * scale
	}
	return charts.Line("Daily Delay Rate", xs, []charts.LineSeries{
		{Name: "Delay rate (7-day avg)", Values: rolled, Color: charts.DarkRed},
		{Name: "Orders (scaled)", Values: scaled, Color: charts.Sage, Dashed: true},
	})
}

// heatmapChart flips the grid so the most severe bin lands on the top row.
func heatmapChart(hm HeatmapResult) charts.Snippet {
	title := fmt.Sprintf("Delay vs %s Share", stageLabel(hm.Stage))
	if hm.Total == 0 {
		return charts.Empty(title, noHeatmapMatches)
	}
	n := len(hm.YLabels)
	yLabels := make([]string, n)
	cells := make([][]float64, n)
	maxCell := 0.0
	for i := 0; i < n; i++ {
		yLabels[i] = hm.YLabels[n-1-i]
		cells[i] = hm.Cells[n-1-i]
		for _, v := range cells[i] {
			if v > maxCell {
				maxCell = v
			}
		}
	}
	return charts.Heatmap(title, hm.XLabels, yLabels, cells, maxCell)
}

func delaySample(rows []DelayRow) render.Table {
	sample := thin(rows, delaySampleSize)
	out := make([][]string, len(sample))
	for i, r := range sample {
		out[i] = []string{
			r.OrderID,
			r.NetState,
			render.F2(r.DelayDays),
			render.Pct(r.SitePct),
			render.Pct(r.SellerPct),
			render.Pct(r.ShippingPct),
		}
	}
	return render.Table{
		Title:   "Late Order Sample",
		Headers: []string{"Order", "Net State", "Delay (days)", "Site", "Seller", "Shipping"},
		Rows:    out,
	}
}

func (uc *analysisUseCase) DelaysCSV(ctx context.Context) ([]string, [][]string, error) {
	da, err := uc.service.Delays(ctx, DelaysQuery{Stage: StageSite, Status: StatusAll})
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(da.Rows))
	for i, r := range da.Rows {
		rows[i] = []string{
			r.OrderID,
			r.NetState,
			render.F2(r.DelayDays),
			render.F2(r.SitePct),
			render.F2(r.SellerPct),
			render.F2(r.ShippingPct),
		}
	}
	headers := []string{"order_id", "Net_State", "delay_days", "Site_Real_PCT", "Seller_Real_PCT", "Shipping_Real_PCT"}
	return headers, rows, nil
}
