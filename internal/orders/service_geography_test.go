package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"palantir/internal/dataset"
	"palantir/internal/domain"
)

func defaultGeoQuery() GeographyQuery {
	return GeographyQuery{
		Metric:       GeoMetricOrders,
		N:            15,
		BubbleMetric: BubbleOrders,
		BubbleStatus: StatusAll,
	}
}

func TestService_Geography_States(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Equal(t, 2, ga.StateCount)
	// o5 has no customer state and stays out of the totals.
	assert.Equal(t, 4, ga.NationalOrders)

	// RJ and SP tie on volume; ties resolve by code.
	assert.Equal(t, "RJ", ga.TopState)
	assert.Equal(t, 2, ga.TopStateOrders)

	rj, sp := ga.States[0], ga.States[1]
	assert.Equal(t, "Rio de Janeiro", rj.Name)
	assert.InDelta(t, 50.0, rj.DeliveryRatePct, 0.001)
	assert.InDelta(t, 100.0, rj.DelayRatePct, 0.001)
	assert.InDelta(t, 100.0, sp.DeliveryRatePct, 0.001)
	assert.InDelta(t, 50.0, sp.DelayRatePct, 0.001)
	assert.InDelta(t, 50.0, sp.NationalSharePct, 0.001)
}

func TestService_Geography_Concentration(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.InDelta(t, 75.0, ga.AvgDeliveryRatePct, 0.001)
	assert.InDelta(t, 100.0, ga.Top3SharePct, 0.001)
	assert.InDelta(t, 100.0, ga.Top5SharePct, 0.001)
	assert.InDelta(t, 5000.0, ga.HHI, 0.001)
	assert.Equal(t, "Highly Concentrated", ga.HHILabel)
	assert.InDelta(t, 0.0, ga.Gini, 0.001)
	assert.Len(t, ga.LorenzXs, 3)
}

func TestService_Geography_Statuses(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Equal(t, []string{"canceled", "delivered", "shipped"}, ga.Statuses)
}

func TestService_Geography_Segments(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Len(t, ga.Segments, 4)
	assert.Equal(t, "Very Low", ga.Segments[0].Name)
	assert.Equal(t, 2, ga.Segments[0].States)
	assert.Equal(t, 4, ga.Segments[0].Orders)
	assert.InDelta(t, 100.0, ga.Segments[0].SharePct, 0.001)
	assert.Equal(t, 0, ga.Segments[3].States)
}

func TestVolumeSegment(t *testing.T) {
	assert.Equal(t, "Very Low", volumeSegment(100))
	assert.Equal(t, "Low", volumeSegment(101))
	assert.Equal(t, "Medium", volumeSegment(2000))
	assert.Equal(t, "High", volumeSegment(2001))
}

func TestHHILabel(t *testing.T) {
	assert.Equal(t, "Unconcentrated", hhiLabel(1500))
	assert.Equal(t, "Moderately Concentrated", hhiLabel(2000))
	assert.Equal(t, "Highly Concentrated", hhiLabel(2600))
}

func TestService_Geography_Bubbles(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Len(t, ga.Bubbles, 2)
	// Equal volumes share the default size.
	assert.Equal(t, "RJ", ga.Bubbles[0].Code)
	assert.InDelta(t, 2.0, ga.Bubbles[0].Value, 0.001)
	assert.InDelta(t, 20.0, ga.Bubbles[0].Size, 0.001)
	assert.InDelta(t, -22.9068, ga.Bubbles[0].Lat, 0.001)
	assert.InDelta(t, -43.1729, ga.Bubbles[0].Lon, 0.001)
}

func TestService_Geography_BubbleStatusFilter(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})
	q := defaultGeoQuery()
	q.BubbleStatus = "delivered"

	ga, err := svc.Geography(context.Background(), q)

	assert.NoError(t, err)
	assert.Len(t, ga.Bubbles, 2)
	rj, sp := ga.Bubbles[0], ga.Bubbles[1]
	assert.InDelta(t, 1.0, rj.Value, 0.001)
	assert.InDelta(t, 10.0, rj.Size, 0.001)
	assert.InDelta(t, 2.0, sp.Value, 0.001)
	assert.InDelta(t, 40.0, sp.Size, 0.001)
}

func TestService_Geography_BubbleDelayedOnly(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})
	q := defaultGeoQuery()
	q.DelayedOnly = true

	ga, err := svc.Geography(context.Background(), q)

	assert.NoError(t, err)
	assert.Len(t, ga.Bubbles, 2)
	assert.InDelta(t, 1.0, ga.Bubbles[0].Value, 0.001)
	assert.InDelta(t, 1.0, ga.Bubbles[1].Value, 0.001)
}

func TestService_Geography_BubbleRevenue(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})
	q := defaultGeoQuery()
	q.BubbleMetric = BubbleRevenue

	ga, err := svc.Geography(context.Background(), q)

	assert.NoError(t, err)
	assert.False(t, ga.RevenueFallback)
	assert.Len(t, ga.Bubbles, 2)
	// All items belong to SP orders.
	assert.InDelta(t, 0.0, ga.Bubbles[0].Value, 0.001)
	assert.InDelta(t, 180.0, ga.Bubbles[1].Value, 0.001)
	assert.InDelta(t, 40.0, ga.Bubbles[1].Size, 0.001)
}

func TestService_Geography_BubbleRevenueFallback(t *testing.T) {
	frames := testFrames()
	frames.Items = nil
	svc := NewService(&mockSource{frames: frames})
	q := defaultGeoQuery()
	q.BubbleMetric = BubbleRevenue

	ga, err := svc.Geography(context.Background(), q)

	assert.NoError(t, err)
	assert.True(t, ga.RevenueFallback)
	// Falls back to order counts.
	assert.InDelta(t, 2.0, ga.Bubbles[0].Value, 0.001)
}

func TestService_Geography_Matrix(t *testing.T) {
	svc := NewService(&mockSource{frames: testFrames()})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Equal(t, []string{"RJ", "SP"}, ga.MatrixStates)
	assert.Equal(t, []string{"Order Volume", "Delivery Rate", "Delay Rate"}, ga.MatrixRows)
	// Equal volumes normalize to the midpoint.
	assert.Equal(t, []float64{0.5, 0.5}, ga.MatrixCells[0])
	assert.Equal(t, []float64{0, 1}, ga.MatrixCells[1])
	assert.Equal(t, []float64{1, 0}, ga.MatrixCells[2])
}

func TestService_Geography_MissingState(t *testing.T) {
	frames := &dataset.Frames{
		Orders: []domain.Order{{ID: "o1", Status: domain.StatusDelivered}},
	}
	svc := NewService(&mockSource{frames: frames})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.True(t, ga.MissingState)
	assert.Empty(t, ga.States)
	assert.Equal(t, 0, ga.NationalOrders)
}

func TestService_Geography_UnknownStateCode(t *testing.T) {
	frames := &dataset.Frames{
		Orders: []domain.Order{{
			ID:            "o1",
			Status:        domain.StatusDelivered,
			CustomerState: strPtr("XX"),
		}},
	}
	svc := NewService(&mockSource{frames: frames})

	ga, err := svc.Geography(context.Background(), defaultGeoQuery())

	assert.NoError(t, err)
	assert.Len(t, ga.States, 1)
	assert.Equal(t, "XX", ga.States[0].Name)
	assert.False(t, ga.States[0].Known)
	// Unknown codes cannot be placed on the map.
	assert.Empty(t, ga.Bubbles)
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "São Paulo", stateName("SP"))
	assert.Equal(t, "Distrito Federal", stateName("DF"))
	assert.Equal(t, "ZZ", stateName("ZZ"))
}
