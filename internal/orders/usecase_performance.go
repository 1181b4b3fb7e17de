package orders

import (
	"context"
	"fmt"
	"math"

	"palantir/internal/charts"
	"palantir/internal/render"
	"palantir/internal/stats"
)

func qualityColor(v, good, fair float64) string {
	switch {
	case v >= good:
		return charts.Green
	case v >= fair:
		return charts.Sage
	default:
		return charts.Brown
	}
}

func performanceLabel(deliveryRate, onTimeRate float64) string {
	switch {
	case deliveryRate >= 95 && onTimeRate >= 85:
		return "Excellent"
	case deliveryRate >= 90 && onTimeRate >= 80:
		return "Good"
	case deliveryRate >= 80 && onTimeRate >= 70:
		return "Needs Improvement"
	default:
		return "Critical Attention Needed"
	}
}

func (uc *analysisUseCase) PerformancePage(ctx context.Context, q PerformanceQuery) (*render.Page, error) {
	p, err := uc.service.Performance(ctx)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Delivery Performance",
		Subtitle: "Delivery success, timeliness and SLA compliance",
		Active:   "performance",
		Warnings: p.Warnings,
	}

	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "Total Orders", Value: render.Count(p.Total)},
			{Label: "Delivered", Value: render.Count(p.Delivered), Color: charts.Green},
			{Label: "Not Delivered", Value: render.Count(p.NotDelivered), Color: charts.Brown},
			{Label: "Delivery Rate", Value: render.Pct(p.DeliveryRatePct), Color: qualityColor(p.DeliveryRatePct, 90, 80)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Timeliness",
		Cards: []render.Card{
			{Label: "On Time", Value: render.Pct(p.OnTimeRatePct), Hint: fmt.Sprintf("%s orders", render.Count(p.OnTime))},
			{Label: "Early", Value: render.Pct(p.EarlyRatePct), Hint: fmt.Sprintf("%s orders", render.Count(p.Early)), Color: charts.Green},
			{Label: "Delayed", Value: render.Pct(p.DelayRatePct), Hint: fmt.Sprintf("%s orders", render.Count(p.Late)), Color: charts.DarkRed},
		},
		Charts: []charts.Snippet{
			charts.Donut("Delivery Outcome", []charts.NameValue{
				{Name: "Delivered", Value: float64(p.Delivered)},
				{Name: "Not Delivered", Value: float64(p.NotDelivered)},
			}, []string{charts.Green, charts.Brown}),
			timelinessChart(p),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "SLA Compliance",
		Charts: []charts.Snippet{slaChart(p)},
		Cards: []render.Card{
			{Label: "SLA Score", Value: render.Pct(p.SLAScore), Hint: "100 minus the delay rate", Color: qualityColor(p.SLAScore, 90, 80)},
			{Label: "Avg Delay", Value: render.Days(p.AvgDelayDays)},
			{Label: "Median Delay", Value: render.Days(p.MedianDelayDays)},
		},
	})

	metricLabel := "Delivery Rate"
	target := 95.0
	current := p.DeliveryRatePct
	direction := "or higher"
	if q.Metric == MetricDelayRate {
		metricLabel = "Delay Rate"
		target = 5.0
		current = p.DelayRatePct
		direction = "or lower"
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Performance Trend",
		Form: &render.Form{
			Action: "/orders/performance",
			Selects: []render.Select{
				{
					Label: "Metric",
					Name:  "metric",
					Options: []render.Option{
						{Value: MetricDeliveryRate, Label: "Delivery rate", Selected: q.Metric != MetricDelayRate},
						{Value: MetricDelayRate, Label: "Delay rate", Selected: q.Metric == MetricDelayRate},
					},
				},
			},
			Numbers: []render.NumberInput{{Label: "Smoothing window (days)", Name: "window", Value: q.Window, Min: 1, Max: 30}},
		},
		Charts: []charts.Snippet{performanceTrend(p.Daily, q)},
		Text: []string{
			fmt.Sprintf("Current performance: %s.", render.Pct(current)),
			fmt.Sprintf("Target benchmark: %s %s.", render.Pct(target), direction),
			fmt.Sprintf("Performance gap: %s against the %s target.", render.Pct(math.Abs(current-target)), metricLabel),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: "Status Split",
		Form: &render.Form{
			Action: "/orders/performance",
			Selects: []render.Select{{
				Label: "Group",
				Name:  "split",
				Options: []render.Option{
					{Value: "delivered", Label: "Delivered", Selected: q.Split != "not_delivered"},
					{Value: "not_delivered", Label: "Not delivered", Selected: q.Split == "not_delivered"},
				},
			}},
		},
		Charts: []charts.Snippet{splitChart(p, q.Split)},
	})

	gap := 95 - p.DeliveryRatePct
	status := "Below"
	gapColor := charts.Brown
	switch {
	case gap < 0:
		status, gapColor = "Exceeding", charts.Green
	case gap <= 5:
		status, gapColor = "Meeting", charts.Sage
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Benchmarks",
		Tables: []render.Table{{
			Title:   "Reference Points",
			Headers: []string{"Benchmark", "Delivery Rate", "On-Time Rate"},
			Rows: [][]string{
				{"Industry Average", "95%", "85%"},
				{"Best Practice", "98%", "90%"},
			},
		}},
		Cards: []render.Card{
			{Label: "Gap to Industry", Value: render.Pct(math.Abs(gap)), Hint: fmt.Sprintf("%s standards", status), Color: gapColor},
			{Label: "Delivery Quality", Value: render.Pct(p.DeliveryRatePct), Color: qualityColor(p.DeliveryRatePct, 90, 80)},
			{Label: "On-Time Quality", Value: render.Pct(p.OnTimeRatePct), Color: qualityColor(p.OnTimeRatePct, 80, 70)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Explorer",
		Tables: []render.Table{metricsTable(p), slaTable(p), sampleTable(p)},
		Links:  []render.Link{{Label: "Download delivered.csv", Href: "/orders/delivered.csv"}},
	})

	page.Footer = fmt.Sprintf("Delivery rate %s, on-time %s: %s",
		render.Pct(p.DeliveryRatePct), render.Pct(p.OnTimeRatePct),
		performanceLabel(p.DeliveryRatePct, p.OnTimeRatePct))
	return page, nil
}

func timelinessChart(p *Performance) charts.Snippet {
	if p.Delivered == 0 {
		return charts.Empty("Timeliness", charts.NoDataMessage)
	}
	round1 := func(v float64) float64 { return math.Round(v*10) / 10 }
	return charts.ColoredBar("Timeliness (% of delivered)",
		[]string{"On Time", "Early", "Delayed"},
		"Share",
		[]float64{round1(p.OnTimeRatePct), round1(p.EarlyRatePct), round1(p.DelayRatePct)},
		[]string{charts.Teal, charts.Green, charts.DarkRed},
		"{c}%",
	)
}

func slaChart(p *Performance) charts.Snippet {
	if p.Delivered == 0 {
		return charts.Empty("SLA Compliance", charts.NoDataMessage)
	}
	n := len(p.SLATiers)
	names := make([]string, n)
	values := make([]float64, n)
	for i, tier := range p.SLATiers {
		// Reversed so the first tier renders at the top.
		j := n - 1 - i
		names[j] = fmt.Sprintf("%s (%s)", tier.Label, render.Count(tier.Count))
		values[j] = math.Round(tier.Pct*10) / 10
	}
	return charts.HorizontalBar("SLA Compliance", names, "Share of delivered", values, charts.Teal, "{c}%")
}

func performanceTrend(daily []RatePoint, q PerformanceQuery) charts.Snippet {
	title := "Delivery Rate Trend"
	color := charts.Teal
	if q.Metric == MetricDelayRate {
		title = "Delay Rate Trend"
		color = charts.Brown
	}
	if len(daily) == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	xs := make([]string, len(daily))
	values := make([]float64, len(daily))
	for i, pt := range daily {
		xs[i] = pt.Date
		if q.Metric == MetricDelayRate {
			values[i] = pt.DelayRatePct
		} else {
			values[i] = pt.DeliveryRatePct
		}
	}
	rolled := stats.RollingMean(values, q.Window)
	return charts.Line(title, xs, []charts.LineSeries{
		{Name: "Daily", Values: values, Color: charts.Sage},
		{Name: fmt.Sprintf("%d-day average", q.Window), Values: rolled, Color: color},
	})
}

func splitChart(p *Performance, split string) charts.Snippet {
	title := "Delivered Orders by Delay"
	noDelay, withDelay := p.DeliveredNoDelay, p.DeliveredWithDelay
	if split == "not_delivered" {
		title = "Undelivered Orders by Delay"
		noDelay, withDelay = p.NotDeliveredNoDelay, p.NotDeliveredWithDelay
	}
	if noDelay == 0 && withDelay == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	return charts.ColoredBar(title,
		[]string{"No Delay", "With Delay"},
		"Orders",
		[]float64{float64(noDelay), float64(withDelay)},
		[]string{charts.Green, charts.DarkRed},
		"",
	)
}

func metricsTable(p *Performance) render.Table {
	return render.Table{
		Title:   "Metrics",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total orders", render.Count(p.Total)},
			{"Delivered", render.Count(p.Delivered)},
			{"Not delivered", render.Count(p.NotDelivered)},
			{"Delivery rate", render.Pct(p.DeliveryRatePct)},
			{"On-time rate", render.Pct(p.OnTimeRatePct)},
			{"Early rate", render.Pct(p.EarlyRatePct)},
			{"Delay rate", render.Pct(p.DelayRatePct)},
			{"Avg delay", render.Days(p.AvgDelayDays)},
			{"Median delay", render.Days(p.MedianDelayDays)},
			{"SLA score", render.Pct(p.SLAScore)},
		},
	}
}

func slaTable(p *Performance) render.Table {
	rows := make([][]string, len(p.SLATiers))
	for i, tier := range p.SLATiers {
		rows[i] = []string{tier.Label, render.Count(tier.Count), render.Pct(tier.Pct)}
	}
	return render.Table{
		Title:   "SLA Detail",
		Headers: []string{"Tier", "Orders", "Share of delivered"},
		Rows:    rows,
	}
}

func sampleTable(p *Performance) render.Table {
	sample := thin(p.Sample, 10)
	rows := make([][]string, len(sample))
	for i, r := range sample {
		delay := ""
		if r.HasDelay {
			delay = render.F2(r.DelayDays)
		}
		rows[i] = []string{r.OrderID, r.Status, r.Purchased, r.Delivered, r.Estimated, delay}
	}
	return render.Table{
		Title:   "Delivered Sample",
		Headers: []string{"Order", "Status", "Purchased", "Delivered", "Estimated", "Delay (days)"},
		Rows:    rows,
	}
}

func (uc *analysisUseCase) DeliveredCSV(ctx context.Context) ([]string, [][]string, error) {
	p, err := uc.service.Performance(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(p.Sample))
	for i, r := range p.Sample {
		delay := ""
		if r.HasDelay {
			delay = render.F2(r.DelayDays)
		}
		rows[i] = []string{r.OrderID, r.Status, r.Purchased, r.Delivered, r.Estimated, delay}
	}
	headers := []string{"order_id", "order_status", "purchase_date", "delivered_date", "estimated_date", "delay_days"}
	return headers, rows, nil
}

func (uc *analysisUseCase) PerformanceJSON(ctx context.Context) (*PerformanceResponse, error) {
	p, err := uc.service.Performance(ctx)
	if err != nil {
		return nil, err
	}
	return &PerformanceResponse{
		TotalOrders:        p.Total,
		DeliveredOrders:    p.Delivered,
		NotDeliveredOrders: p.NotDelivered,
		DeliveryRatePct:    p.DeliveryRatePct,
		OnTimeRatePct:      p.OnTimeRatePct,
		EarlyRatePct:       p.EarlyRatePct,
		DelayRatePct:       p.DelayRatePct,
		AvgDelayDays:       p.AvgDelayDays,
		MedianDelayDays:    p.MedianDelayDays,
		SLAScore:           p.SLAScore,
	}, nil
}
