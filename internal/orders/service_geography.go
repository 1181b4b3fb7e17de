package orders

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"palantir/internal/dataset"
	"palantir/internal/domain"
	"palantir/internal/stats"
)

// StateStats aggregates orders for one customer state.
type StateStats struct {
	Code             string
	Name             string
	TotalOrders      int
	DeliveredOrders  int
	DelayedOrders    int
	DeliveryRatePct  float64
	DelayRatePct     float64
	NationalSharePct float64
	Segment          string
	Lat              float64
	Lon              float64
	Known            bool
}

type GeoSegment struct {
	Name     string
	States   int
	Orders   int
	SharePct float64
}

// StateBubble is one positioned point on the Brazil bubble map.
type StateBubble struct {
	Code  string
	Name  string
	Lat   float64
	Lon   float64
	Value float64
	Size  float64
}

type GeoAnalysis struct {
	States             []StateStats
	StateCount         int
	NationalOrders     int
	TopState           string
	TopStateOrders     int
	AvgDeliveryRatePct float64
	Top3SharePct       float64
	Top5SharePct       float64
	HHI                float64
	HHILabel           string
	Gini               float64
	LorenzXs           []float64
	LorenzYs           []float64
	Segments           []GeoSegment
	Bubbles            []StateBubble
	BubbleMetric       string
	RevenueFallback    bool
	MatrixStates       []string
	MatrixRows         []string
	MatrixCells        [][]float64
	MissingState       bool
	Statuses           []string
	Warnings           []string
}

var segmentOrder = []string{"Very Low", "Low", "Medium", "High"}

// volumeSegment cuts state order volume at 100, 500 and 2000.
func volumeSegment(orders int) string {
	switch {
	case orders <= 100:
		return "Very Low"
	case orders <= 500:
		return "Low"
	case orders <= 2000:
		return "Medium"
	default:
		return "High"
	}
}

func hhiLabel(hhi float64) string {
	switch {
	case hhi > 2500:
		return "Highly Concentrated"
	case hhi > 1500:
		return "Moderately Concentrated"
	default:
		return "Unconcentrated"
	}
}

func (s *analysisService) Geography(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) {
	f, err := s.frames(ctx)
	if err != nil {
		return nil, err
	}

	ga := &GeoAnalysis{Warnings: f.Warnings, BubbleMetric: q.BubbleMetric}

	type stateAgg struct {
		total     int
		delivered int
		delayed   int
	}
	byState := make(map[string]*stateAgg)
	statusSet := make(map[string]struct{})
	for _, o := range f.Orders {
		if o.Status != "" {
			statusSet[o.Status] = struct{}{}
		}
		st := o.State()
		if st == "" {
			continue
		}
		a := byState[st]
		if a == nil {
			a = &stateAgg{}
			byState[st] = a
		}
		a.total++
		if o.NetState() == domain.NetStateDelivered {
			a.delivered++
		}
		if o.IsDelayed() {
			a.delayed++
		}
	}
	for st := range statusSet {
		ga.Statuses = append(ga.Statuses, st)
	}
	sort.Strings(ga.Statuses)

	if len(byState) == 0 {
		ga.MissingState = len(f.Orders) > 0
		return ga, nil
	}

	for st, a := range byState {
		ga.NationalOrders += a.total
		info, known := brazilStates[st]
		ss := StateStats{
			Code:            st,
			Name:            stateName(st),
			TotalOrders:     a.total,
			DeliveredOrders: a.delivered,
			DelayedOrders:   a.delayed,
			Segment:         volumeSegment(a.total),
			Lat:             info.Lat,
			Lon:             info.Lon,
			Known:           known,
		}
		ss.DeliveryRatePct = float64(a.delivered) / float64(a.total) * 100
		if a.delivered > 0 {
			ss.DelayRatePct = float64(a.delayed) / float64(a.delivered) * 100
		}
		ga.States = append(ga.States, ss)
	}
	sort.Slice(ga.States, func(i, j int) bool {
		if ga.States[i].TotalOrders != ga.States[j].TotalOrders {
			return ga.States[i].TotalOrders > ga.States[j].TotalOrders
		}
		return ga.States[i].Code < ga.States[j].Code
	})

	ga.StateCount = len(ga.States)
	ga.TopState = ga.States[0].Code
	ga.TopStateOrders = ga.States[0].TotalOrders

	var rateSum float64
	counts := make([]float64, len(ga.States))
	for i := range ga.States {
		share := float64(ga.States[i].TotalOrders) / float64(ga.NationalOrders) * 100
		ga.States[i].NationalSharePct = share
		ga.HHI += share * share
		rateSum += ga.States[i].DeliveryRatePct
		counts[i] = float64(ga.States[i].TotalOrders)
		if i < 3 {
			ga.Top3SharePct += share
		}
		if i < 5 {
			ga.Top5SharePct += share
		}
	}
	ga.AvgDeliveryRatePct = rateSum / float64(len(ga.States))
	ga.HHILabel = hhiLabel(ga.HHI)
	ga.Gini = stats.Gini(counts)
	ga.LorenzXs, ga.LorenzYs = stats.LorenzPoints(counts)

	ga.Segments = geoSegments(ga.States, ga.NationalOrders)
	ga.Bubbles, ga.RevenueFallback = s.stateBubbles(f, q)
	ga.MatrixStates, ga.MatrixRows, ga.MatrixCells = performanceMatrix(ga.States)
	return ga, nil
}

func geoSegments(states []StateStats, national int) []GeoSegment {
	segs := make([]GeoSegment, len(segmentOrder))
	for i, name := range segmentOrder {
		segs[i].Name = name
	}
	idx := map[string]int{"Very Low": 0, "Low": 1, "Medium": 2, "High": 3}
	for _, st := range states {
		i := idx[st.Segment]
		segs[i].States++
		segs[i].Orders += st.TotalOrders
	}
	for i := range segs {
		if national > 0 {
			segs[i].SharePct = float64(segs[i].Orders) / float64(national) * 100
		}
	}
	return segs
}

// stateBubbles aggregates the bubble metric per state under the status and
// delayed-only filters. Revenue is the per-order item total; when the
// dataset has no items at all it falls back to order counts.
func (s *analysisService) stateBubbles(f *dataset.Frames, q GeographyQuery) ([]StateBubble, bool) {
	fallback := false
	metric := q.BubbleMetric
	var orderTotals map[string]float64
	if metric == BubbleRevenue {
		if len(f.Items) == 0 {
			metric = BubbleOrders
			fallback = true
		} else {
			orderTotals = make(map[string]float64, len(f.Items))
			sums := make(map[string]decimal.Decimal, len(f.Items))
			for _, it := range f.Items {
				sums[it.OrderID] = sums[it.OrderID].Add(decimal.NewFromFloat(it.Total()))
			}
			for id, d := range sums {
				orderTotals[id] = d.InexactFloat64()
			}
		}
	}

	values := make(map[string]float64)
	for _, o := range f.Orders {
		st := o.State()
		if st == "" {
			continue
		}
		if _, known := brazilStates[st]; !known {
			continue
		}
		if q.BubbleStatus != "" && !strings.EqualFold(q.BubbleStatus, StatusAll) && !strings.EqualFold(o.Status, q.BubbleStatus) {
			continue
		}
		if q.DelayedOnly && !o.IsDelayed() {
			continue
		}
		switch metric {
		case BubbleDelayed:
			if o.IsDelayed() {
				values[st]++
			}
		case BubbleRevenue:
			values[st] += orderTotals[o.ID]
		default:
			values[st]++
		}
	}
	if len(values) == 0 {
		return nil, fallback
	}

	codes := make([]string, 0, len(values))
	min, max := 0.0, 0.0
	first := true
	for st, v := range values {
		codes = append(codes, st)
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	sort.Strings(codes)

	bubbles := make([]StateBubble, 0, len(codes))
	for _, st := range codes {
		info := brazilStates[st]
		v := values[st]
		size := 20.0
		if max > min {
			size = 10 + 30*(v-min)/(max-min)
		}
		bubbles = append(bubbles, StateBubble{
			Code:  st,
			Name:  info.Name,
			Lat:   info.Lat,
			Lon:   info.Lon,
			Value: v,
			Size:  size,
		})
	}
	return bubbles, fallback
}

var matrixRows = []string{"Order Volume", "Delivery Rate", "Delay Rate"}

const matrixTopStates = 15

// performanceMatrix min-max normalizes volume, delivery rate and delay rate
// within the top states so the rows share one color scale.
func performanceMatrix(states []StateStats) ([]string, []string, [][]float64) {
	n := len(states)
	if n > matrixTopStates {
		n = matrixTopStates
	}
	if n == 0 {
		return nil, matrixRows, nil
	}

	codes := make([]string, n)
	volume := make([]float64, n)
	delivery := make([]float64, n)
	delay := make([]float64, n)
	for i := 0; i < n; i++ {
		codes[i] = states[i].Code
		volume[i] = float64(states[i].TotalOrders)
		delivery[i] = states[i].DeliveryRatePct
		delay[i] = states[i].DelayRatePct
	}
	cells := [][]float64{
		stats.MinMaxNorm(volume),
		stats.MinMaxNorm(delivery),
		stats.MinMaxNorm(delay),
	}
	return codes, matrixRows, cells
}
