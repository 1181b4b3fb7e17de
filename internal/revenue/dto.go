package revenue

// Revenue bases selectable on the overview and category pages.
const (
	BasisTotal   = "total"
	BasisPrice   = "price"
	BasisFreight = "freight_value"
)

type OverviewQuery struct {
	Basis string
	N     int
}

type CategoriesQuery struct {
	Basis string
	N     int
}

type VendorsQuery struct {
	N int
}

type SummaryResponse struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	ProductAmount       float64 `json:"productAmount"`
	FreightAmount       float64 `json:"freightAmount"`
	FreightSharePct     float64 `json:"freightSharePct"`
	TotalOrders         int     `json:"totalOrders"`
	AvgOrderValue       float64 `json:"avgOrderValue"`
	TotalItems          int     `json:"totalItems"`
	AvgItemsPerOrder    float64 `json:"avgItemsPerOrder"`
	CategoryCount       int     `json:"categoryCount"`
	VendorCount         int     `json:"vendorCount"`
	AvgRevenuePerVendor float64 `json:"avgRevenuePerVendor"`
}
