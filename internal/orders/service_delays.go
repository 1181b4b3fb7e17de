package orders

import (
	"context"
	"fmt"
	"math"
	"sort"

	"palantir/internal/domain"
	"palantir/internal/stats"
)

// DelayRow is one late order in the explorer and the CSV export.
type DelayRow struct {
	OrderID     string
	NetState    string
	DelayDays   float64
	SitePct     float64
	SellerPct   float64
	ShippingPct float64
}

type SeverityBucket struct {
	Label string
	Count int
}

// BoxStats summarizes an IQR-filtered distribution for a box plot and its
// insight cards.
type BoxStats struct {
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
	Std    float64
}

type DelayTrendPoint struct {
	Date    string
	Orders  int
	Late    int
	RatePct float64
}

// HeatmapResult is the delay-vs-stage-share grid. YLabels run most severe
// first; Cells[i] belongs to YLabels[i].
type HeatmapResult struct {
	Stage   string
	Status  string
	XLabels []string
	YLabels []string
	Cells   [][]float64
	Total   int
}

type DelayAnalysis struct {
	CleanCount              int
	LateCount               int
	DelayRatePct            float64
	AvgDelayDays            float64
	MaxDelayDays            float64
	MeanDelayDays           float64
	DeliveredLate           int
	NotDeliveredLate        int
	DeliveredLateRatePct    float64
	NotDeliveredLateRatePct float64
	LostDays                float64
	DelayValues             []float64
	Severity                []SeverityBucket
	SiteBox                 BoxStats
	SellerBox               BoxStats
	ShippingBox             BoxStats
	DailyTrend              []DelayTrendPoint
	Heatmap                 HeatmapResult
	Rows                    []DelayRow
	Warnings                []string
}

var severityLabels = []string{
	"Very Severe (>20 days)",
	"Severe (10-20 days)",
	"Moderate (5-10 days)",
	"Mild (2-5 days)",
	"Minor (<2 days)",
}

// severityIndex buckets a negative delay by its magnitude. The buckets
// partition the late set completely.
func severityIndex(delayDays float64) int {
	switch {
	case delayDays <= -20:
		return 0
	case delayDays <= -10:
		return 1
	case delayDays <= -5:
		return 2
	case delayDays <= -2:
		return 3
	default:
		return 4
	}
}

func (s *analysisService) Delays(ctx context.Context, q DelaysQuery) (*DelayAnalysis, error) {
	f, err := s.frames(ctx)
	if err != nil {
		return nil, err
	}

	da := &DelayAnalysis{Warnings: f.Warnings}
	da.Severity = make([]SeverityBucket, len(severityLabels))
	for i, label := range severityLabels {
		da.Severity[i].Label = label
	}

	type dayAgg struct {
		orders int
		late   int
	}
	byDay := make(map[string]*dayAgg)
	var sitePcts, sellerPcts, shippingPcts []float64

	for _, o := range f.Orders {
		delayDays, ok := o.DelayDays()
		if !ok {
			continue
		}
		da.CleanCount++

		if d, ok := o.PurchaseDate(); ok {
			a := byDay[d]
			if a == nil {
				a = &dayAgg{}
				byDay[d] = a
			}
			a.orders++
			if delayDays < 0 {
				a.late++
			}
		}

		if delayDays >= 0 {
			continue
		}
		da.LateCount++
		da.DelayValues = append(da.DelayValues, delayDays)
		da.Severity[severityIndex(delayDays)].Count++

		site, seller, shipping := o.StageShares()
		sitePcts = append(sitePcts, site)
		sellerPcts = append(sellerPcts, seller)
		shippingPcts = append(shippingPcts, shipping)

		da.Rows = append(da.Rows, DelayRow{
			OrderID:     o.ID,
			NetState:    o.NetState(),
			DelayDays:   delayDays,
			SitePct:     site,
			SellerPct:   seller,
			ShippingPct: shipping,
		})
		if o.NetState() == domain.NetStateDelivered {
			da.DeliveredLate++
		} else {
			da.NotDeliveredLate++
		}
		if abs := -delayDays; abs > da.MaxDelayDays {
			da.MaxDelayDays = abs
		}
	}

	if da.CleanCount > 0 {
		da.DelayRatePct = float64(da.LateCount) / float64(da.CleanCount) * 100
	}
	if da.LateCount > 0 {
		da.MeanDelayDays = stats.Mean(da.DelayValues)
		da.AvgDelayDays = -da.MeanDelayDays
		da.DeliveredLateRatePct = float64(da.DeliveredLate) / float64(da.LateCount) * 100
		da.NotDeliveredLateRatePct = float64(da.NotDeliveredLate) / float64(da.LateCount) * 100
		da.LostDays = math.Abs(float64(da.LateCount) * da.AvgDelayDays)
	}

	da.SiteBox = boxStats(sitePcts)
	da.SellerBox = boxStats(sellerPcts)
	da.ShippingBox = boxStats(shippingPcts)

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		a := byDay[d]
		rate := 0.0
		if a.orders > 0 {
			rate = float64(a.late) / float64(a.orders) * 100
		}
		da.DailyTrend = append(da.DailyTrend, DelayTrendPoint{
			Date:    d,
			Orders:  a.orders,
			Late:    a.late,
			RatePct: rate,
		})
	}

	da.Heatmap = buildHeatmap(da.Rows, q)
	return da, nil
}

func boxStats(xs []float64) BoxStats {
	fx := stats.FilterIQR(xs)
	if len(fx) == 0 {
		return BoxStats{}
	}
	return BoxStats{
		Count:  len(fx),
		Min:    stats.Min(fx),
		Q1:     stats.Quantile(fx, 0.25),
		Median: stats.Median(fx),
		Q3:     stats.Quantile(fx, 0.75),
		Max:    stats.Max(fx),
		Mean:   stats.Mean(fx),
		Std:    stats.Std(fx),
	}
}

var heatmapDelayEdges = []float64{-30, -20, -10, -5, -2, 0}

// delayBinIndex places a delay into the (-30,-20], (-20,-10], (-10,-5],
// (-5,-2], (-2,0] grid, most severe first. Delays at or below -30 fall
// outside the grid.
func delayBinIndex(delayDays float64) int {
	if delayDays <= heatmapDelayEdges[0] || delayDays >= 0 {
		return -1
	}
	for i := 1; i < len(heatmapDelayEdges); i++ {
		if delayDays <= heatmapDelayEdges[i] {
			return i - 1
		}
	}
	return -1
}

// shareBinIndex places a stage share into the (0,10] ... (90,100] grid.
// Zero and out-of-range shares are excluded, mirroring a right-closed cut.
func shareBinIndex(pct float64) int {
	if pct <= 0 || pct > 100 {
		return -1
	}
	return int(math.Ceil(pct/10)) - 1
}

func buildHeatmap(rows []DelayRow, q DelaysQuery) HeatmapResult {
	hm := HeatmapResult{Stage: q.Stage, Status: q.Status}
	for i := 1; i < len(heatmapDelayEdges); i++ {
		hm.YLabels = append(hm.YLabels, fmt.Sprintf("(%g, %g]", heatmapDelayEdges[i-1], heatmapDelayEdges[i]))
	}
	for lo := 0; lo < 100; lo += 10 {
		hm.XLabels = append(hm.XLabels, fmt.Sprintf("(%d, %d]", lo, lo+10))
	}
	hm.Cells = make([][]float64, len(hm.YLabels))
	for i := range hm.Cells {
		hm.Cells[i] = make([]float64, len(hm.XLabels))
	}

	for _, row := range rows {
		if q.Status != "" && q.Status != StatusAll && row.NetState != q.Status {
			continue
		}
		pct := row.SitePct
		switch q.Stage {
		case StageSeller:
			pct = row.SellerPct
		case StageShipping:
			pct = row.ShippingPct
		}
		y := delayBinIndex(row.DelayDays)
		x := shareBinIndex(pct)
		if y < 0 || x < 0 {
			continue
		}
		hm.Cells[y][x]++
		hm.Total++
	}
	return hm
}
