package insights

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"palantir/internal/domain"
	"palantir/internal/stats"
)

// TrendPoint is one day of revenue attributed to the purchase date.
type TrendPoint struct {
	Date    string
	Revenue float64
}

type RankedAmount struct {
	Name  string
	Value float64
}

type RankedCount struct {
	Name  string
	Count int
}

// Insights is the cross-domain executive summary. Rates are percentages
// in 0..100; the delay block covers delivered orders only.
type Insights struct {
	TotalRevenue     float64
	AvgOrderValue    float64
	TotalOrders      int
	TotalItemsSold   int
	AvgItemsPerOrder float64

	Trend         []TrendPoint
	HasGrowth     bool
	GrowthRatePct float64

	DeliveredCount  int
	DeliveryRatePct float64
	DelayedCount    int
	DelayRatePct    float64
	OnTimeRatePct   float64
	AvgDelayDays    float64

	TopStates            []RankedCount
	StateCount           int
	Top3ConcentrationPct float64

	TopCategoriesRevenue []RankedAmount
	TopCategoriesVolume  []RankedCount

	TopVendors             []RankedAmount
	TotalVendors           int
	VendorConcentrationPct float64

	TotalFreight      float64
	AvgFreightPerItem float64
	FreightRatioPct   float64

	PerformanceScore float64

	Warnings []string
}

const topListSize = 5

type insightsService struct {
	source Source
}

func NewService(source Source) Service {
	return &insightsService{source: source}
}

func (s *insightsService) Insights(ctx context.Context) (*Insights, error) {
	f, err := s.source.Frames(ctx)
	if err != nil {
		return nil, err
	}

	ins := &Insights{Warnings: f.Warnings}
	lines := domain.JoinLineItems(f.Items, f.Products)

	purchaseDates := make(map[string]string, len(f.Orders))
	for _, o := range f.Orders {
		if d, ok := o.PurchaseDate(); ok {
			purchaseDates[o.ID] = d
		}
	}

	s.revenueBlock(ins, lines, purchaseDates)
	s.deliveryBlock(ins, f.Orders)
	s.geographyBlock(ins, f.Orders)
	s.vendorBlock(ins, lines)
	s.freightBlock(ins, lines)

	ins.PerformanceScore = ins.DeliveryRatePct*0.6 + ins.OnTimeRatePct*0.4
	return ins, nil
}

func (s *insightsService) revenueBlock(ins *Insights, lines []domain.LineItem, purchaseDates map[string]string) {
	ins.TotalItemsSold = len(lines)
	if len(lines) == 0 {
		return
	}

	var total decimal.Decimal
	perOrder := make(map[string]decimal.Decimal)
	daily := make(map[string]decimal.Decimal)
	catRevenue := make(map[string]decimal.Decimal)
	catVolume := make(map[string]int)
	for _, li := range lines {
		t := decimal.NewFromFloat(li.Total)
		total = total.Add(t)
		perOrder[li.OrderID] = perOrder[li.OrderID].Add(t)
		catRevenue[li.Category] = catRevenue[li.Category].Add(t)
		catVolume[li.Category]++
		if d, ok := purchaseDates[li.OrderID]; ok {
			daily[d] = daily[d].Add(t)
		}
	}

	ins.TotalRevenue = round2(total)
	ins.TotalOrders = len(perOrder)
	orderValues := make([]float64, 0, len(perOrder))
	for _, v := range perOrder {
		orderValues = append(orderValues, v.InexactFloat64())
	}
	ins.AvgOrderValue = stats.Mean(orderValues)
	ins.AvgItemsPerOrder = float64(len(lines)) / float64(len(perOrder))

	ins.TopCategoriesRevenue = topAmounts(catRevenue, topListSize)
	ins.TopCategoriesVolume = topCounts(catVolume, topListSize)

	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	for _, d := range dates {
		ins.Trend = append(ins.Trend, TrendPoint{Date: d, Revenue: round2(daily[d])})
	}

	// Growth only makes sense once the data spans more than a month.
	if len(ins.Trend) > 30 {
		monthly := make(map[string]decimal.Decimal)
		months := make([]string, 0)
		for _, d := range dates {
			m := d[:7]
			if _, ok := monthly[m]; !ok {
				months = append(months, m)
			}
			monthly[m] = monthly[m].Add(daily[d])
		}
		if len(months) > 1 {
			last := round2(monthly[months[len(months)-1]])
			prev := round2(monthly[months[len(months)-2]])
			if prev != 0 {
				ins.HasGrowth = true
				ins.GrowthRatePct = (last - prev) / prev * 100
			}
		}
	}
}

func (s *insightsService) deliveryBlock(ins *Insights, orders []domain.Order) {
	if len(orders) == 0 {
		return
	}
	var delayValues []float64
	for _, o := range orders {
		if o.NetState() != domain.NetStateDelivered {
			continue
		}
		ins.DeliveredCount++
		if o.IsDelayed() {
			ins.DelayedCount++
			if d, ok := o.DelayDays(); ok {
				delayValues = append(delayValues, d)
			}
		}
	}
	ins.DeliveryRatePct = float64(ins.DeliveredCount) / float64(len(orders)) * 100
	if ins.DeliveredCount > 0 {
		ins.DelayRatePct = float64(ins.DelayedCount) / float64(ins.DeliveredCount) * 100
		ins.OnTimeRatePct = 100 - ins.DelayRatePct
	}
	if len(delayValues) > 0 {
		m := stats.Mean(delayValues)
		if m < 0 {
			m = -m
		}
		ins.AvgDelayDays = m
	}
}

func (s *insightsService) geographyBlock(ins *Insights, orders []domain.Order) {
	counts := make(map[string]int)
	for _, o := range orders {
		if st := o.State(); st != "" {
			counts[st]++
		}
	}
	ins.StateCount = len(counts)
	ins.TopStates = topCounts(counts, topListSize)
	if len(orders) > 0 {
		top3 := 0
		for i, e := range ins.TopStates {
			if i >= 3 {
				break
			}
			top3 += e.Count
		}
		ins.Top3ConcentrationPct = float64(top3) / float64(len(orders)) * 100
	}
}

func (s *insightsService) vendorBlock(ins *Insights, lines []domain.LineItem) {
	revenue := make(map[string]decimal.Decimal)
	for _, li := range lines {
		if li.SellerID == "" {
			continue
		}
		revenue[li.SellerID] = revenue[li.SellerID].Add(decimal.NewFromFloat(li.Total))
	}
	ins.TotalVendors = len(revenue)
	if len(revenue) == 0 {
		return
	}

	amounts := topAmounts(revenue, len(revenue))
	ins.TopVendors = amounts
	if len(ins.TopVendors) > topListSize {
		ins.TopVendors = ins.TopVendors[:topListSize]
	}

	// Revenue share of the top decile of vendors, floor of 10%.
	k := len(amounts) / 10
	if k > 0 && ins.TotalRevenue > 0 {
		var topSum float64
		for _, e := range amounts[:k] {
			topSum += e.Value
		}
		ins.VendorConcentrationPct = topSum / ins.TotalRevenue * 100
	}
}

func (s *insightsService) freightBlock(ins *Insights, lines []domain.LineItem) {
	if len(lines) == 0 {
		return
	}
	var freight, price decimal.Decimal
	for _, li := range lines {
		freight = freight.Add(decimal.NewFromFloat(li.Freight))
		price = price.Add(decimal.NewFromFloat(li.Price))
	}
	ins.TotalFreight = round2(freight)
	ins.AvgFreightPerItem = ins.TotalFreight / float64(len(lines))
	if p := round2(price); p > 0 {
		ins.FreightRatioPct = ins.TotalFreight / p * 100
	}
}

// topAmounts ranks a revenue map descending, ties broken by name.
func topAmounts(m map[string]decimal.Decimal, n int) []RankedAmount {
	out := make([]RankedAmount, 0, len(m))
	for k, v := range m {
		out = append(out, RankedAmount{Name: k, Value: round2(v)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func topCounts(m map[string]int, n int) []RankedCount {
	out := make([]RankedCount, 0, len(m))
	for k, v := range m {
		out = append(out, RankedCount{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
