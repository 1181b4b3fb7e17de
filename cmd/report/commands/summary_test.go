package commands

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"palantir/internal/dataset"
	"palantir/internal/domain"
	"palantir/internal/insights"
)

func TestSummaryMarkdown(t *testing.T) {
	f := &dataset.Frames{
		Source:   "csv",
		Orders:   make([]domain.Order, 3),
		Items:    make([]domain.OrderItem, 4),
		Products: make([]domain.Product, 2),
	}
	ins := &insights.Insights{
		TotalRevenue:           45200,
		AvgOrderValue:          150.5,
		TotalOrders:            300,
		TotalItemsSold:         420,
		AvgItemsPerOrder:       1.4,
		DeliveredCount:         290,
		DeliveryRatePct:        96.7,
		DelayedCount:           20,
		DelayRatePct:           6.9,
		OnTimeRatePct:          93.1,
		AvgDelayDays:           8.2,
		TopStates:              []insights.RankedCount{{Name: "SP", Count: 120}, {Name: "RJ", Count: 60}},
		StateCount:             12,
		Top3ConcentrationPct:   64.2,
		TopCategoriesRevenue:   []insights.RankedAmount{{Name: "electronics", Value: 20000}},
		TopVendors:             []insights.RankedAmount{{Name: "vendor-123456789", Value: 9000}},
		TotalVendors:           35,
		VendorConcentrationPct: 41.3,
		TotalFreight:           5200,
		AvgFreightPerItem:      12.38,
		FreightRatioPct:        13.0,
		PerformanceScore:       95.3,
	}

	now := time.Date(2018, 9, 1, 12, 0, 0, 0, time.UTC)
	md := summaryMarkdown(f, ins, now)

	assert.True(t, strings.HasPrefix(md, "# Olist E-Commerce Executive Summary\n"))
	assert.Contains(t, md, "Generated 2018-09-01 12:00 from the csv source: 3 orders, 4 order items, 2 products.")
	assert.Contains(t, md, "- Total revenue: R$45,200")
	assert.Contains(t, md, "- Average order value: R$150.50")
	assert.Contains(t, md, "- Delivered orders: 290 (96.7% of all orders)")
	assert.Contains(t, md, "- Delayed deliveries: 20 (6.9%), averaging 8.2 days late")
	assert.Contains(t, md, "| 1 | SP | 120 |")
	assert.Contains(t, md, "| 1 | electronics | R$20,000 |")
	assert.Contains(t, md, "| 1 | vendor-1 | R$9,000 |")
	assert.Contains(t, md, "- Top vendor decile earns 41.3% of revenue")
	assert.Contains(t, md, "95.3 / 100")
	assert.NotContains(t, md, "Month-over-month")
}

func TestSummaryMarkdown_WithGrowth(t *testing.T) {
	f := &dataset.Frames{Source: "mysql"}
	ins := &insights.Insights{HasGrowth: true, GrowthRatePct: 12.34}

	md := summaryMarkdown(f, ins, time.Now())

	assert.Contains(t, md, "- Month-over-month revenue growth: +12.3%")
	// Empty ranking tables are omitted entirely.
	assert.NotContains(t, md, "Top Categories by Revenue")
	assert.NotContains(t, md, "Top Vendors by Revenue")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcd", shortID("abcd"))
	assert.Equal(t, "12345678", shortID("123456789abc"))
}
