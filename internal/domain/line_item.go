package domain

// LineItem is an order item joined with its product. Items without a
// product match keep nil dimensions and the fallback category.
type LineItem struct {
	OrderID   string
	ProductID string
	SellerID  string
	Category  string
	Price     float64
	Freight   float64
	Total     float64
	WeightG   *float64
	LengthCm  *float64
	HeightCm  *float64
	WidthCm   *float64
	VolumeCm  *float64
}

// JoinLineItems merges items with products on product id. Category falls
// back to FallbackCategory when the product is unknown or unnamed.
func JoinLineItems(items []OrderItem, products []Product) []LineItem {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]LineItem, 0, len(items))
	for _, it := range items {
		li := LineItem{
			OrderID:   it.OrderID,
			ProductID: it.ProductID,
			SellerID:  it.SellerID,
			Price:     it.PriceValue(),
			Freight:   it.FreightAmount(),
			Total:     it.Total(),
			Category:  FallbackCategory,
		}
		if p, ok := byID[it.ProductID]; ok {
			if p.Category != "" {
				li.Category = p.Category
			}
			li.WeightG = p.WeightG
			li.LengthCm = p.LengthCm
			li.HeightCm = p.HeightCm
			li.WidthCm = p.WidthCm
			if v, ok := p.VolumeCm(); ok {
				vol := v
				li.VolumeCm = &vol
			}
		}
		lines = append(lines, li)
	}
	return lines
}
