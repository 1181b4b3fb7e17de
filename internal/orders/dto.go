package orders

// Stage selectors on the delay heatmap and the timeline histograms.
const (
	StageSite     = "site"
	StageSeller   = "seller"
	StageShipping = "shipping"
)

// Timeline trend metrics.
const (
	TrendOrders = "orders"
	TrendDays   = "days"
)

// Performance trend metrics.
const (
	MetricDeliveryRate = "delivery_rate"
	MetricDelayRate    = "delay_rate"
)

// Geography ranking metrics.
const (
	GeoMetricOrders   = "total_orders"
	GeoMetricDelivery = "delivery_rate"
	GeoMetricDelay    = "delay_rate"
	GeoMetricShare    = "national_share"
)

// Geography bubble metrics.
const (
	BubbleOrders  = "orders"
	BubbleDelayed = "delayed"
	BubbleRevenue = "revenue"
)

// StatusAll disables a status filter.
const StatusAll = "All"

type TimelinesQuery struct {
	Metric string
	Window int
}

type DelaysQuery struct {
	Stage  string
	Status string
}

type GeographyQuery struct {
	Metric       string
	N            int
	BubbleMetric string
	BubbleStatus string
	DelayedOnly  bool
}

type PerformanceQuery struct {
	Metric string
	Window int
	Split  string
}

type PerformanceResponse struct {
	TotalOrders        int     `json:"totalOrders"`
	DeliveredOrders    int     `json:"deliveredOrders"`
	NotDeliveredOrders int     `json:"notDeliveredOrders"`
	DeliveryRatePct    float64 `json:"deliveryRatePct"`
	OnTimeRatePct      float64 `json:"onTimeRatePct"`
	EarlyRatePct       float64 `json:"earlyRatePct"`
	DelayRatePct       float64 `json:"delayRatePct"`
	AvgDelayDays       float64 `json:"avgDelayDays"`
	MedianDelayDays    float64 `json:"medianDelayDays"`
	SLAScore           float64 `json:"slaScore"`
}
