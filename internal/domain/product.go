package domain

// FallbackCategory is assigned to items whose product is unknown or has no
// category name.
const FallbackCategory = "Others"

// Product is one row of the products table. Dimension pointers are nil when
// the source cell is empty.
type Product struct {
	ID       string
	Category string
	WeightG  *float64
	LengthCm *float64
	HeightCm *float64
	WidthCm  *float64
}

// VolumeCm is length * height * width in cubic centimeters. ok is false
// when any dimension is missing.
func (p Product) VolumeCm() (float64, bool) {
	if p.LengthCm == nil || p.HeightCm == nil || p.WidthCm == nil {
		return 0, false
	}
	return *p.LengthCm * *p.HeightCm * *p.WidthCm, true
}

// HasDimensions reports whether weight and all three sizes are present.
func (p Product) HasDimensions() bool {
	return p.WeightG != nil && p.LengthCm != nil && p.HeightCm != nil && p.WidthCm != nil
}
