package orders

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"palantir/internal/charts"
	"palantir/internal/render"
)

func geoMetricLabel(metric string) string {
	switch metric {
	case GeoMetricDelivery:
		return "Delivery Rate"
	case GeoMetricDelay:
		return "Delay Rate"
	case GeoMetricShare:
		return "National Share"
	default:
		return "Total Orders"
	}
}

func geoMetricIsPct(metric string) bool {
	return metric == GeoMetricDelivery || metric == GeoMetricDelay || metric == GeoMetricShare
}

func geoMetricValue(st StateStats, metric string) float64 {
	switch metric {
	case GeoMetricDelivery:
		return st.DeliveryRatePct
	case GeoMetricDelay:
		return st.DelayRatePct
	case GeoMetricShare:
		return st.NationalSharePct
	default:
		return float64(st.TotalOrders)
	}
}

func (uc *analysisUseCase) GeographyPage(ctx context.Context, q GeographyQuery) (*render.Page, error) {
	ga, err := uc.service.Geography(ctx, q)
	if err != nil {
		return nil, err
	}

	page := &render.Page{
		Title:    "Geographic Analysis",
		Subtitle: "Order volume and delivery performance across Brazilian states",
		Active:   "geography",
		Warnings: ga.Warnings,
	}
	if ga.MissingState {
		page.Warnings = append(page.Warnings, "orders carry no customer state values; geographic statistics are empty")
	}

	topState := render.Card{Label: "Top State", Value: "n/a"}
	if ga.TopState != "" {
		topState = render.Card{
			Label: "Top State",
			Value: ga.TopState,
			Hint:  fmt.Sprintf("%s, %s orders", stateName(ga.TopState), render.Count(ga.TopStateOrders)),
			Color: charts.Green,
		}
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Overview",
		Cards: []render.Card{
			{Label: "States with Orders", Value: render.Count(ga.StateCount)},
			{Label: "National Orders", Value: render.Count(ga.NationalOrders)},
			topState,
			{Label: "Avg State Delivery Rate", Value: render.Pct(ga.AvgDeliveryRatePct)},
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title: fmt.Sprintf("Top States by %s", geoMetricLabel(q.Metric)),
		Form: &render.Form{
			Action: "/orders/geography",
			Selects: []render.Select{{
				Label: "Metric",
				Name:  "metric",
				Options: []render.Option{
					{Value: GeoMetricOrders, Label: "Total orders", Selected: q.Metric == GeoMetricOrders || q.Metric == ""},
					{Value: GeoMetricDelivery, Label: "Delivery rate", Selected: q.Metric == GeoMetricDelivery},
					{Value: GeoMetricDelay, Label: "Delay rate", Selected: q.Metric == GeoMetricDelay},
					{Value: GeoMetricShare, Label: "National share", Selected: q.Metric == GeoMetricShare},
				},
			}},
			Numbers: []render.NumberInput{{Label: "Top N", Name: "n", Value: q.N, Min: 5, Max: 27}},
		},
		Charts: []charts.Snippet{stateRanking(ga.States, q)},
	})

	mapSection := render.Section{
		Title: "Brazil Map",
		Form: &render.Form{
			Action: "/orders/geography",
			Selects: []render.Select{
				{
					Label: "Bubble metric",
					Name:  "bubble_metric",
					Options: []render.Option{
						{Value: BubbleOrders, Label: "Orders", Selected: q.BubbleMetric == BubbleOrders || q.BubbleMetric == ""},
						{Value: BubbleDelayed, Label: "Delayed orders", Selected: q.BubbleMetric == BubbleDelayed},
						{Value: BubbleRevenue, Label: "Revenue", Selected: q.BubbleMetric == BubbleRevenue},
					},
				},
				{
					Label:   "Status",
					Name:    "bubble_status",
					Options: statusOptions(ga.Statuses, q.BubbleStatus),
				},
				{
					Label: "Delayed only",
					Name:  "delayed_only",
					Options: []render.Option{
						{Value: "no", Label: "No", Selected: !q.DelayedOnly},
						{Value: "yes", Label: "Yes", Selected: q.DelayedOnly},
					},
				},
			},
		},
		Charts: []charts.Snippet{bubbleMap(ga.Bubbles, ga.BubbleMetric)},
	}
	if ga.RevenueFallback {
		mapSection.Note = "No order items available; the map falls back to order counts."
	}
	page.Sections = append(page.Sections, mapSection)

	page.Sections = append(page.Sections, render.Section{
		Title: "Concentration",
		Cards: []render.Card{
			{Label: "Top 3 States", Value: render.Pct(ga.Top3SharePct), Hint: "of national orders"},
			{Label: "Top 5 States", Value: render.Pct(ga.Top5SharePct), Hint: "of national orders"},
			{Label: "HHI", Value: render.F1(ga.HHI), Hint: ga.HHILabel, Color: charts.Brown},
			{Label: "Gini Coefficient", Value: render.F2(ga.Gini)},
		},
		Charts: []charts.Snippet{
			charts.Lorenz("State Order Concentration", ga.LorenzXs, ga.LorenzYs),
		},
	})

	page.Sections = append(page.Sections, render.Section{
		Title:  "Regional Performance Matrix",
		Note:   "Top states by volume, min-max normalized per row.",
		Charts: []charts.Snippet{performanceMatrixChart(ga)},
	})

	segRows := make([][]string, len(ga.Segments))
	for i, seg := range ga.Segments {
		segRows[i] = []string{seg.Name, render.Count(seg.States), render.Count(seg.Orders), render.Pct(seg.SharePct)}
	}
	page.Sections = append(page.Sections, render.Section{
		Title: "Volume Segments",
		Note:  "States bucketed by order volume: up to 100 Very Low, 500 Low, 2000 Medium, above that High.",
		Tables: []render.Table{{
			Title:   "Segment Summary",
			Headers: []string{"Segment", "States", "Orders", "Share"},
			Rows:    segRows,
		}},
		Links: []render.Link{{Label: "Download geography.csv", Href: "/orders/geography.csv"}},
	})

	page.Footer = fmt.Sprintf("%s states, %s orders, HHI %s (%s)",
		render.Count(ga.StateCount), render.Count(ga.NationalOrders), render.F1(ga.HHI), ga.HHILabel)
	return page, nil
}

func statusOptions(statuses []string, selected string) []render.Option {
	opts := []render.Option{{Value: StatusAll, Label: "All", Selected: selected == "" || selected == StatusAll}}
	for _, st := range statuses {
		opts = append(opts, render.Option{Value: st, Label: st, Selected: st == selected})
	}
	return opts
}

func stateRanking(states []StateStats, q GeographyQuery) charts.Snippet {
	title := fmt.Sprintf("Top %d States by %s", q.N, geoMetricLabel(q.Metric))
	if len(states) == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	ranked := make([]StateStats, len(states))
	copy(ranked, states)
	sort.SliceStable(ranked, func(i, j int) bool {
		return geoMetricValue(ranked[i], q.Metric) > geoMetricValue(ranked[j], q.Metric)
	})
	n := q.N
	if n > len(ranked) {
		n = len(ranked)
	}
	names := make([]string, n)
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		// Reversed so the leader renders at the top.
		j := n - 1 - i
		names[j] = ranked[i].Code
		v := geoMetricValue(ranked[i], q.Metric)
		if geoMetricIsPct(q.Metric) {
			v = math.Round(v*10) / 10
		}
		values[j] = v
	}
	formatter := ""
	if geoMetricIsPct(q.Metric) {
		formatter = "{c}%"
	}
	return charts.HorizontalBar(title, names, geoMetricLabel(q.Metric), values, charts.Teal, formatter)
}

// bubbleMap projects the state centroids as a lon/lat scatter.
func bubbleMap(bubbles []StateBubble, metric string) charts.Snippet {
	title := fmt.Sprintf("Orders by State (%s)", geoBubbleLabel(metric))
	if len(bubbles) == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	points := make([]charts.Bubble, len(bubbles))
	for i, b := range bubbles {
		label := fmt.Sprintf("%s: %s", b.Name, render.Count(int(math.Round(b.Value))))
		if metric == BubbleRevenue {
			label = fmt.Sprintf("%s: %s", b.Name, render.Money(b.Value))
		}
		points[i] = charts.Bubble{X: b.Lon, Y: b.Lat, Size: b.Size, Name: label}
	}
	return charts.BubbleScatter(title, "longitude", "latitude", points, charts.Teal)
}

func geoBubbleLabel(metric string) string {
	switch metric {
	case BubbleDelayed:
		return "delayed orders"
	case BubbleRevenue:
		return "revenue"
	default:
		return "orders"
	}
}

// performanceMatrixChart flips the rows so volume lands on the top row.
func performanceMatrixChart(ga *GeoAnalysis) charts.Snippet {
	title := "Regional Performance Matrix"
	if len(ga.MatrixStates) == 0 {
		return charts.Empty(title, charts.NoDataMessage)
	}
	n := len(ga.MatrixRows)
	rows := make([]string, n)
	cells := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = ga.MatrixRows[n-1-i]
		cells[i] = ga.MatrixCells[n-1-i]
	}
	return charts.Heatmap(title, ga.MatrixStates, rows, cells, 1)
}

func (uc *analysisUseCase) GeographyCSV(ctx context.Context) ([]string, [][]string, error) {
	ga, err := uc.service.Geography(ctx, GeographyQuery{Metric: GeoMetricOrders, N: 15, BubbleMetric: BubbleOrders})
	if err != nil {
		return nil, nil, err
	}
	rows := make([][]string, len(ga.States))
	for i, st := range ga.States {
		rows[i] = []string{
			st.Code,
			st.Name,
			strconv.Itoa(st.TotalOrders),
			strconv.Itoa(st.DeliveredOrders),
			strconv.Itoa(st.DelayedOrders),
			render.F2(st.DeliveryRatePct),
			render.F2(st.DelayRatePct),
			render.F2(st.NationalSharePct),
			st.Segment,
		}
	}
	headers := []string{"state", "state_name", "total_orders", "delivered_orders", "delayed_orders", "delivery_rate_pct", "delay_rate_pct", "national_share_pct", "segment"}
	return headers, rows, nil
}
