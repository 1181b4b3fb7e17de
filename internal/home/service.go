package home

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"palantir/internal/dataset"
	"palantir/internal/domain"
)

// SparkMetric selects which daily series a sparkline shows.
type SparkMetric string

const (
	SparkOrders    SparkMetric = "orders"
	SparkRevenue   SparkMetric = "revenue"
	SparkDelivered SparkMetric = "delivered"
)

// DailyPoint is one calendar day of a sparkline series. Date uses the
// 2006-01-02 layout.
type DailyPoint struct {
	Date  string
	Value float64
}

// Overview is the home page data: store status plus the first rows of each
// table for the preview block. The row slices are empty before the first
// successful load.
type Overview struct {
	Status   dataset.Status
	Orders   []domain.Order
	Items    []domain.OrderItem
	Products []domain.Product
}

const previewRows = 5

type homeService struct {
	store Store
}

func NewService(store Store) Service {
	return &homeService{store: store}
}

// Overview never triggers the initial load. The home page must stay
// reachable when the dataset is missing, because the refresh action that
// fixes that lives on it.
func (s *homeService) Overview(ctx context.Context) (*Overview, error) {
	st := s.store.Status()
	ov := &Overview{Status: st}
	if !st.Loaded {
		return ov, nil
	}

	f, err := s.store.Frames(ctx)
	if err != nil {
		return nil, err
	}
	ov.Orders = head(f.Orders, previewRows)
	ov.Items = head(f.Items, previewRows)
	ov.Products = head(f.Products, previewRows)
	return ov, nil
}

func (s *homeService) DailySeries(ctx context.Context, metric SparkMetric) ([]DailyPoint, error) {
	f, err := s.store.Frames(ctx)
	if err != nil {
		return nil, err
	}
	switch metric {
	case SparkRevenue:
		return dailyRevenue(f), nil
	case SparkDelivered:
		return dailyDelivered(f.Orders), nil
	default:
		return dailyOrders(f.Orders), nil
	}
}

func dailyOrders(orders []domain.Order) []DailyPoint {
	counts := make(map[string]int)
	for _, o := range orders {
		if d, ok := o.PurchaseDate(); ok {
			counts[d]++
		}
	}
	return countPoints(counts)
}

// dailyDelivered counts orders by the day they actually arrived, not the
// day they were bought.
func dailyDelivered(orders []domain.Order) []DailyPoint {
	counts := make(map[string]int)
	for _, o := range orders {
		if o.NetState() != domain.NetStateDelivered || o.DeliveredAt == nil {
			continue
		}
		counts[o.DeliveredAt.Format("2006-01-02")]++
	}
	return countPoints(counts)
}

func dailyRevenue(f *dataset.Frames) []DailyPoint {
	dates := make(map[string]string, len(f.Orders))
	for _, o := range f.Orders {
		if d, ok := o.PurchaseDate(); ok {
			dates[o.ID] = d
		}
	}
	daily := make(map[string]decimal.Decimal)
	for _, it := range f.Items {
		if d, ok := dates[it.OrderID]; ok {
			daily[d] = daily[d].Add(decimal.NewFromFloat(it.Total()))
		}
	}
	out := make([]DailyPoint, 0, len(daily))
	for d, v := range daily {
		out = append(out, DailyPoint{Date: d, Value: v.Round(2).InexactFloat64()})
	}
	sortPoints(out)
	return out
}

func countPoints(counts map[string]int) []DailyPoint {
	out := make([]DailyPoint, 0, len(counts))
	for d, n := range counts {
		out = append(out, DailyPoint{Date: d, Value: float64(n)})
	}
	sortPoints(out)
	return out
}

func sortPoints(points []DailyPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		s = s[:n]
	}
	return s
}
