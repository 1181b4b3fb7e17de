package domain

// OrderItem is one row of the order_items table.
type OrderItem struct {
	OrderID      string
	ProductID    string
	SellerID     string
	Price        *float64
	FreightValue *float64
}

// Total is price plus freight, the line-item revenue. Missing components
// count as zero.
func (i OrderItem) Total() float64 {
	var t float64
	if i.Price != nil {
		t += *i.Price
	}
	if i.FreightValue != nil {
		t += *i.FreightValue
	}
	return t
}

func (i OrderItem) PriceValue() float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}

func (i OrderItem) FreightAmount() float64 {
	if i.FreightValue == nil {
		return 0
	}
	return *i.FreightValue
}
