package insights

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"palantir/internal/dataset"
	"palantir/internal/domain"
	apperrors "palantir/internal/errors"
)

func at(s string) *time.Time {
	v, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return &v
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

type mockSource struct {
	frames *dataset.Frames
	err    error
}

func (m *mockSource) Frames(ctx context.Context) (*dataset.Frames, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.frames, nil
}

// testFrames covers every insight block with hand-checkable numbers:
// three delivered orders (two of them late by 1 and 4 days), one shipped,
// one canceled without a state, and four line items across two sellers
// and two known categories plus one unmatched product.
func testFrames() *dataset.Frames {
	return &dataset.Frames{
		Orders: []domain.Order{
			{
				ID:            "o1",
				Status:        "delivered",
				CustomerState: strPtr("SP"),
				PurchasedAt:   at("2017-01-01 00:00:00"),
				DeliveredAt:   at("2017-01-03 00:00:00"),
				EstimatedAt:   at("2017-01-05 00:00:00"),
			},
			{
				ID:            "o2",
				Status:        "delivered",
				CustomerState: strPtr("SP"),
				PurchasedAt:   at("2017-01-01 06:00:00"),
				DeliveredAt:   at("2017-01-05 06:00:00"),
				EstimatedAt:   at("2017-01-04 06:00:00"),
			},
			{
				ID:            "o3",
				Status:        "delivered",
				CustomerState: strPtr("RJ"),
				PurchasedAt:   at("2017-01-02 00:00:00"),
				DeliveredAt:   at("2017-01-05 00:00:00"),
				EstimatedAt:   at("2017-01-01 00:00:00"),
			},
			{
				ID:            "o4",
				Status:        "shipped",
				CustomerState: strPtr("RJ"),
				PurchasedAt:   at("2017-01-03 00:00:00"),
				EstimatedAt:   at("2017-01-06 00:00:00"),
			},
			{
				ID:          "o5",
				Status:      "canceled",
				PurchasedAt: at("2017-01-03 12:00:00"),
				DeliveredAt: at("2017-01-08 00:00:00"),
				EstimatedAt: at("2017-01-06 00:00:00"),
			},
		},
		Items: []domain.OrderItem{
			{OrderID: "o1", ProductID: "p1", SellerID: "s1", Price: floatPtr(100), FreightValue: floatPtr(20)},
			{OrderID: "o1", ProductID: "p2", SellerID: "s2", Price: floatPtr(50), FreightValue: floatPtr(10)},
			{OrderID: "o2", ProductID: "p1", SellerID: "s1", Price: floatPtr(30), FreightValue: floatPtr(5)},
			{OrderID: "o4", ProductID: "p3", SellerID: "s2", Price: floatPtr(10), FreightValue: floatPtr(5)},
		},
		Products: []domain.Product{
			{ID: "p1", Category: "electronics"},
			{ID: "p2", Category: "toys"},
		},
	}
}

func insightsOf(t *testing.T, frames *dataset.Frames) *Insights {
	t.Helper()
	svc := NewService(&mockSource{frames: frames})
	ins, err := svc.Insights(context.Background())
	assert.NoError(t, err)
	return ins
}

func TestService_Insights_Revenue(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.InDelta(t, 230.0, ins.TotalRevenue, 0.001)
	assert.Equal(t, 3, ins.TotalOrders)
	assert.Equal(t, 4, ins.TotalItemsSold)
	assert.InDelta(t, 230.0/3, ins.AvgOrderValue, 0.001)
	assert.InDelta(t, 4.0/3, ins.AvgItemsPerOrder, 0.001)
}

func TestService_Insights_Trend(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.Equal(t, []TrendPoint{
		{Date: "2017-01-01", Revenue: 215},
		{Date: "2017-01-03", Revenue: 15},
	}, ins.Trend)
	assert.False(t, ins.HasGrowth)
}

func TestService_Insights_Delivery(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.Equal(t, 3, ins.DeliveredCount)
	assert.InDelta(t, 60.0, ins.DeliveryRatePct, 0.001)
	assert.Equal(t, 2, ins.DelayedCount)
	assert.InDelta(t, 200.0/3, ins.DelayRatePct, 0.001)
	assert.InDelta(t, 100.0/3, ins.OnTimeRatePct, 0.001)
	assert.InDelta(t, 2.5, ins.AvgDelayDays, 0.001)
	assert.InDelta(t, 60*0.6+100.0/3*0.4, ins.PerformanceScore, 0.001)
}

func TestService_Insights_Geography(t *testing.T) {
	ins := insightsOf(t, testFrames())

	// RJ and SP tie at two orders each; ties resolve alphabetically.
	assert.Equal(t, []RankedCount{{Name: "RJ", Count: 2}, {Name: "SP", Count: 2}}, ins.TopStates)
	assert.Equal(t, 2, ins.StateCount)
	assert.InDelta(t, 80.0, ins.Top3ConcentrationPct, 0.001)
}

func TestService_Insights_Categories(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.Equal(t, []RankedAmount{
		{Name: "electronics", Value: 155},
		{Name: "toys", Value: 60},
		{Name: "Others", Value: 15},
	}, ins.TopCategoriesRevenue)
	assert.Equal(t, []RankedCount{
		{Name: "electronics", Count: 2},
		{Name: "Others", Count: 1},
		{Name: "toys", Count: 1},
	}, ins.TopCategoriesVolume)
}

func TestService_Insights_Vendors(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.Equal(t, []RankedAmount{{Name: "s1", Value: 155}, {Name: "s2", Value: 75}}, ins.TopVendors)
	assert.Equal(t, 2, ins.TotalVendors)
	// The top decile of two vendors is empty, so no concentration is reported.
	assert.Zero(t, ins.VendorConcentrationPct)
}

func TestService_Insights_Freight(t *testing.T) {
	ins := insightsOf(t, testFrames())

	assert.InDelta(t, 40.0, ins.TotalFreight, 0.001)
	assert.InDelta(t, 10.0, ins.AvgFreightPerItem, 0.001)
	assert.InDelta(t, 40.0/190*100, ins.FreightRatioPct, 0.001)
}

func TestService_Insights_Growth(t *testing.T) {
	frames := &dataset.Frames{Products: []domain.Product{{ID: "p1", Category: "misc"}}}
	start := time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 35; i++ {
		ts := start.AddDate(0, 0, i)
		id := fmt.Sprintf("g%02d", i)
		frames.Orders = append(frames.Orders, domain.Order{
			ID:          id,
			Status:      "shipped",
			PurchasedAt: &ts,
		})
		frames.Items = append(frames.Items, domain.OrderItem{
			OrderID:   id,
			ProductID: "p1",
			SellerID:  "s1",
			Price:     floatPtr(10),
		})
	}

	ins := insightsOf(t, frames)

	// January sells 310, the four February days 40.
	assert.True(t, ins.HasGrowth)
	assert.InDelta(t, (40.0-310)/310*100, ins.GrowthRatePct, 0.001)
	assert.Len(t, ins.Trend, 35)
}

func TestService_Insights_VendorConcentration(t *testing.T) {
	frames := &dataset.Frames{}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("v%d", i)
		frames.Orders = append(frames.Orders, domain.Order{ID: id, Status: "shipped"})
		frames.Items = append(frames.Items, domain.OrderItem{
			OrderID:   id,
			ProductID: "p1",
			SellerID:  fmt.Sprintf("s%d", i),
			Price:     floatPtr(float64(100 - 10*i)),
		})
	}

	ins := insightsOf(t, frames)

	assert.Equal(t, 10, ins.TotalVendors)
	assert.Len(t, ins.TopVendors, 5)
	assert.Equal(t, RankedAmount{Name: "s0", Value: 100}, ins.TopVendors[0])
	// One vendor makes the top decile of ten; it holds 100 of 550.
	assert.InDelta(t, 100.0/550*100, ins.VendorConcentrationPct, 0.001)
}

func TestService_Insights_EmptyDataset(t *testing.T) {
	ins := insightsOf(t, &dataset.Frames{})

	assert.Zero(t, ins.TotalRevenue)
	assert.Zero(t, ins.TotalOrders)
	assert.Zero(t, ins.DeliveryRatePct)
	assert.Zero(t, ins.OnTimeRatePct)
	assert.Zero(t, ins.PerformanceScore)
	assert.Empty(t, ins.Trend)
	assert.Empty(t, ins.TopStates)
	assert.False(t, ins.HasGrowth)
}

func TestService_Insights_SourceError(t *testing.T) {
	svc := NewService(&mockSource{err: apperrors.NewDataUnavailableError("no snapshot", nil)})

	_, err := svc.Insights(context.Background())

	assert.Error(t, err)
	_, ok := apperrors.IsDataUnavailableError(err)
	assert.True(t, ok)
}
