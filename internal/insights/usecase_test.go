package insights

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"palantir/internal/charts"
	"palantir/internal/render"
)

type mockService struct {
	insightsFunc func(ctx context.Context) (*Insights, error)
}

func (m *mockService) Insights(ctx context.Context) (*Insights, error) {
	return m.insightsFunc(ctx)
}

func findSection(p *render.Page, title string) *render.Section {
	for i := range p.Sections {
		if p.Sections[i].Title == title {
			return &p.Sections[i]
		}
	}
	return nil
}

func chartContains(s charts.Snippet, needle string) bool {
	return strings.Contains(string(s.Element), needle) || strings.Contains(string(s.Script), needle)
}

func fixtureInsights() *Insights {
	return &Insights{
		TotalRevenue:     500000,
		AvgOrderValue:    160.5,
		TotalOrders:      3100,
		TotalItemsSold:   3500,
		AvgItemsPerOrder: 1.1,
		Trend: []TrendPoint{
			{Date: "2017-01-01", Revenue: 215},
			{Date: "2017-01-02", Revenue: 180},
		},
		HasGrowth:            true,
		GrowthRatePct:        12.3,
		DeliveredCount:       3000,
		DeliveryRatePct:      96.8,
		DelayedCount:         210,
		DelayRatePct:         7,
		OnTimeRatePct:        93,
		AvgDelayDays:         9.8,
		TopStates:            []RankedCount{{Name: "SP", Count: 1300}, {Name: "RJ", Count: 400}},
		StateCount:           27,
		Top3ConcentrationPct: 66.2,
		TopCategoriesRevenue: []RankedAmount{
			{Name: "bed_bath_table", Value: 120000},
			{Name: "health_beauty", Value: 90000},
		},
		TopCategoriesVolume:    []RankedCount{{Name: "bed_bath_table", Count: 400}},
		TopVendors:             []RankedAmount{{Name: "48436dade18ac8b2bce089ec2a041202", Value: 229472}},
		TotalVendors:           900,
		VendorConcentrationPct: 63.1,
		TotalFreight:           80000,
		AvgFreightPerItem:      22.8,
		FreightRatioPct:        19,
		PerformanceScore:       95.28,
		Warnings:               []string{"products: column \"product_weight_g\" missing"},
	}
}

func TestUseCase_InsightsPage(t *testing.T) {
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) { return fixtureInsights(), nil },
	})

	page, err := uc.InsightsPage(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "Main Insights", page.Title)
	assert.Equal(t, "insights", page.Active)
	assert.Equal(t, []string{"products: column \"product_weight_g\" missing"}, page.Warnings)

	summary := findSection(page, "Executive Summary")
	assert.NotNil(t, summary)
	assert.Len(t, summary.Cards, 4)
	assert.Equal(t, "96.8%", summary.Cards[1].Value)
	assert.Equal(t, charts.Green, summary.Cards[1].Color)
	assert.Equal(t, charts.Green, summary.Cards[2].Color)
	assert.Equal(t, "3,100 orders", summary.Cards[0].Hint)

	perf := findSection(page, "Revenue & Performance")
	assert.NotNil(t, perf)
	assert.Contains(t, perf.Note, "+12.3%")
	assert.Len(t, perf.Charts, 2)
	assert.Len(t, perf.Cards, 4)
	assert.Equal(t, "19.0%", perf.Cards[3].Value)

	top := findSection(page, "Top Performers")
	assert.NotNil(t, top)
	assert.Len(t, top.Charts, 2)
	assert.Len(t, top.Tables, 1)
	assert.Equal(t, []string{"1", "48436dad", "R$229,472"}, top.Tables[0].Rows[0])

	strengths := findSection(page, "Strengths")
	assert.NotNil(t, strengths)
	assert.Len(t, strengths.Text, 3)
	assert.Contains(t, strengths.Text[2], "27 states")

	improve := findSection(page, "Areas for Improvement")
	assert.NotNil(t, improve)
	assert.Len(t, improve.Text, 4)
	assert.Contains(t, improve.Text[2], "66.2%")

	summaryTables := findSection(page, "Data Summary")
	assert.NotNil(t, summaryTables)
	assert.Len(t, summaryTables.Tables, 3)
	assert.Equal(t, []string{"On-Time Rate", "93.0%"}, summaryTables.Tables[0].Rows[1])

	assert.Contains(t, page.Footer, "95.3")
}

func TestUseCase_InsightsPage_KPIColors(t *testing.T) {
	ins := fixtureInsights()
	ins.DeliveryRatePct = 91
	ins.OnTimeRatePct = 70
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) { return ins, nil },
	})

	page, err := uc.InsightsPage(context.Background())

	assert.NoError(t, err)
	summary := findSection(page, "Executive Summary")
	assert.NotNil(t, summary)
	assert.Equal(t, charts.Sage, summary.Cards[1].Color)
	assert.Equal(t, charts.Brown, summary.Cards[2].Color)
}

func TestUseCase_InsightsPage_NoTrend(t *testing.T) {
	ins := fixtureInsights()
	ins.Trend = nil
	ins.HasGrowth = false
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) { return ins, nil },
	})

	page, err := uc.InsightsPage(context.Background())

	assert.NoError(t, err)
	perf := findSection(page, "Revenue & Performance")
	assert.NotNil(t, perf)
	assert.NotContains(t, perf.Note, "Month-over-month")
	assert.True(t, chartContains(perf.Charts[0], "No Data Available"))
}

func TestUseCase_InsightsPage_Error(t *testing.T) {
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) {
			return nil, assert.AnError
		},
	})

	_, err := uc.InsightsPage(context.Background())

	assert.Error(t, err)
}

func TestUseCase_InsightsJSON(t *testing.T) {
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) { return fixtureInsights(), nil },
	})

	resp, err := uc.InsightsJSON(context.Background())

	assert.NoError(t, err)
	assert.InDelta(t, 500000.0, resp.TotalRevenue, 0.001)
	assert.Equal(t, 3100, resp.TotalOrders)
	assert.Equal(t, 900, resp.TotalVendors)
	assert.InDelta(t, 95.28, resp.PerformanceScore, 0.001)
	assert.NotNil(t, resp.RevenueGrowthPct)
	assert.InDelta(t, 12.3, *resp.RevenueGrowthPct, 0.001)
}

func TestUseCase_InsightsJSON_NoGrowth(t *testing.T) {
	ins := fixtureInsights()
	ins.HasGrowth = false
	uc := NewUseCase(&mockService{
		insightsFunc: func(ctx context.Context) (*Insights, error) { return ins, nil },
	})

	resp, err := uc.InsightsJSON(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, resp.RevenueGrowthPct)
}

func TestKpiColor(t *testing.T) {
	assert.Equal(t, charts.Green, kpiColor(96, 95, 90))
	assert.Equal(t, charts.Sage, kpiColor(92, 95, 90))
	assert.Equal(t, charts.Brown, kpiColor(80, 95, 90))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "48436dad", shortID("48436dade18ac8b2bce089ec2a041202"))
	assert.Equal(t, "s1", shortID("s1"))
}
