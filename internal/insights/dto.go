package insights

type InsightsResponse struct {
	TotalRevenue     float64  `json:"totalRevenue"`
	AvgOrderValue    float64  `json:"avgOrderValue"`
	TotalOrders      int      `json:"totalOrders"`
	TotalItemsSold   int      `json:"totalItemsSold"`
	TotalVendors     int      `json:"totalVendors"`
	DeliveryRatePct  float64  `json:"deliveryRatePct"`
	OnTimeRatePct    float64  `json:"onTimeRatePct"`
	DelayRatePct     float64  `json:"delayRatePct"`
	AvgDelayDays     float64  `json:"avgDelayDays"`
	FreightRatioPct  float64  `json:"freightRatioPct"`
	PerformanceScore float64  `json:"performanceScore"`
	RevenueGrowthPct *float64 `json:"revenueGrowthPct,omitempty"`
}
