package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixtureGeo() *GeoAnalysis {
	return &GeoAnalysis{
		States: []StateStats{
			{Code: "SP", Name: "São Paulo", TotalOrders: 3000, DeliveredOrders: 2900, DelayedOrders: 200, DeliveryRatePct: 96.7, DelayRatePct: 6.9, NationalSharePct: 60, Segment: "High", Known: true},
			{Code: "RJ", Name: "Rio de Janeiro", TotalOrders: 2000, DeliveredOrders: 1800, DelayedOrders: 300, DeliveryRatePct: 90, DelayRatePct: 16.7, NationalSharePct: 40, Segment: "Medium", Known: true},
		},
		StateCount:         2,
		NationalOrders:     5000,
		TopState:           "SP",
		TopStateOrders:     3000,
		AvgDeliveryRatePct: 93.3,
		Top3SharePct:       100,
		Top5SharePct:       100,
		HHI:                5200,
		HHILabel:           "Highly Concentrated",
		Gini:               0.1,
		LorenzXs:           []float64{0, 50, 100},
		LorenzYs:           []float64{0, 40, 100},
		Segments: []GeoSegment{
			{Name: "Very Low"},
			{Name: "Low"},
			{Name: "Medium", States: 1, Orders: 2000, SharePct: 40},
			{Name: "High", States: 1, Orders: 3000, SharePct: 60},
		},
		Bubbles: []StateBubble{
			{Code: "RJ", Name: "Rio de Janeiro", Lat: -22.9068, Lon: -43.1729, Value: 2000, Size: 10},
			{Code: "SP", Name: "São Paulo", Lat: -23.5505, Lon: -46.6333, Value: 3000, Size: 40},
		},
		BubbleMetric: BubbleOrders,
		MatrixStates: []string{"SP", "RJ"},
		MatrixRows:   []string{"Order Volume", "Delivery Rate", "Delay Rate"},
		MatrixCells:  [][]float64{{1, 0}, {1, 0}, {0, 1}},
		Statuses:     []string{"canceled", "delivered", "shipped"},
	}
}

func TestUseCase_GeographyPage(t *testing.T) {
	var gotQuery GeographyQuery
	uc := NewUseCase(&mockService{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) {
			gotQuery = q
			return fixtureGeo(), nil
		},
	})
	q := GeographyQuery{Metric: GeoMetricOrders, N: 15, BubbleMetric: BubbleOrders, BubbleStatus: StatusAll}

	page, err := uc.GeographyPage(context.Background(), q)

	assert.NoError(t, err)
	assert.Equal(t, q, gotQuery)
	assert.Equal(t, "Geographic Analysis", page.Title)
	assert.Equal(t, "geography", page.Active)

	overview := findSection(page, "Overview")
	assert.NotNil(t, overview)
	assert.Equal(t, "2", overview.Cards[0].Value)
	assert.Equal(t, "SP", overview.Cards[2].Value)
	assert.Contains(t, overview.Cards[2].Hint, "São Paulo")

	ranking := findSection(page, "Top States by Total Orders")
	assert.NotNil(t, ranking)
	assert.NotNil(t, ranking.Form)

	conc := findSection(page, "Concentration")
	assert.NotNil(t, conc)
	assert.Equal(t, "5200.0", conc.Cards[2].Value)
	assert.Equal(t, "Highly Concentrated", conc.Cards[2].Hint)

	segs := findSection(page, "Volume Segments")
	assert.NotNil(t, segs)
	assert.Len(t, segs.Tables[0].Rows, 4)
	assert.Equal(t, "/orders/geography.csv", segs.Links[0].Href)

	assert.Contains(t, page.Footer, "Highly Concentrated")
}

func TestUseCase_GeographyPage_StatusOptionsFromData(t *testing.T) {
	uc := NewUseCase(&mockService{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) { return fixtureGeo(), nil },
	})
	q := GeographyQuery{Metric: GeoMetricOrders, N: 15, BubbleMetric: BubbleOrders, BubbleStatus: "shipped"}

	page, err := uc.GeographyPage(context.Background(), q)

	assert.NoError(t, err)
	mapSec := findSection(page, "Brazil Map")
	assert.NotNil(t, mapSec)

	status := mapSec.Form.Selects[1]
	assert.Equal(t, "bubble_status", status.Name)
	assert.Len(t, status.Options, 4)
	assert.Equal(t, StatusAll, status.Options[0].Value)
	assert.False(t, status.Options[0].Selected)
	assert.True(t, status.Options[3].Selected)
}

func TestUseCase_GeographyPage_RevenueFallbackNote(t *testing.T) {
	ga := fixtureGeo()
	ga.RevenueFallback = true
	uc := NewUseCase(&mockService{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) { return ga, nil },
	})

	page, err := uc.GeographyPage(context.Background(), GeographyQuery{Metric: GeoMetricOrders, N: 15, BubbleMetric: BubbleRevenue})

	assert.NoError(t, err)
	mapSec := findSection(page, "Brazil Map")
	assert.NotNil(t, mapSec)
	assert.Contains(t, mapSec.Note, "falls back to order counts")
}

func TestUseCase_GeographyPage_MissingStateWarning(t *testing.T) {
	uc := NewUseCase(&mockService{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) {
			return &GeoAnalysis{MissingState: true}, nil
		},
	})

	page, err := uc.GeographyPage(context.Background(), GeographyQuery{Metric: GeoMetricOrders, N: 15})

	assert.NoError(t, err)
	assert.NotEmpty(t, page.Warnings)
	assert.Contains(t, page.Warnings[0], "no customer state values")

	overview := findSection(page, "Overview")
	assert.NotNil(t, overview)
	assert.Equal(t, "n/a", overview.Cards[2].Value)
}

func TestGeoMetricLabel(t *testing.T) {
	assert.Equal(t, "Total Orders", geoMetricLabel(GeoMetricOrders))
	assert.Equal(t, "Delivery Rate", geoMetricLabel(GeoMetricDelivery))
	assert.Equal(t, "Delay Rate", geoMetricLabel(GeoMetricDelay))
	assert.Equal(t, "National Share", geoMetricLabel(GeoMetricShare))
}

func TestGeoMetricValue(t *testing.T) {
	st := StateStats{TotalOrders: 10, DeliveryRatePct: 90, DelayRatePct: 5, NationalSharePct: 25}

	assert.Equal(t, 10.0, geoMetricValue(st, GeoMetricOrders))
	assert.Equal(t, 90.0, geoMetricValue(st, GeoMetricDelivery))
	assert.Equal(t, 5.0, geoMetricValue(st, GeoMetricDelay))
	assert.Equal(t, 25.0, geoMetricValue(st, GeoMetricShare))
}

func TestUseCase_GeographyCSV(t *testing.T) {
	uc := NewUseCase(&mockService{
		geographyFunc: func(ctx context.Context, q GeographyQuery) (*GeoAnalysis, error) { return fixtureGeo(), nil },
	})

	headers, rows, err := uc.GeographyCSV(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "state", headers[0])
	assert.Equal(t, "segment", headers[8])
	assert.Len(t, rows, 2)
	assert.Equal(t, []string{"SP", "São Paulo", "3000", "2900", "200", "96.70", "6.90", "60.00", "High"}, rows[0])
}
