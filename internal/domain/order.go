package domain

import (
	"strings"
	"time"
)

// Order is one row of the orders table. Timestamp pointers are nil when the
// source cell is empty; derived metrics report ok=false in that case.
type Order struct {
	ID            string
	CustomerID    string
	Status        string
	CustomerState *string
	PurchasedAt   *time.Time
	ApprovedAt    *time.Time
	CarrierAt     *time.Time
	DeliveredAt   *time.Time
	EstimatedAt   *time.Time
}

const (
	NetStateDelivered    = "Delivered"
	NetStateNotDelivered = "Not_Delivered"

	StatusDelivered = "delivered"
)

// NetState collapses the raw order status into the two values the reports
// work with. Anything that is not "delivered" counts as not delivered.
func (o Order) NetState() string {
	if strings.EqualFold(o.Status, StatusDelivered) {
		return NetStateDelivered
	}
	return NetStateNotDelivered
}

// Delay is estimated delivery minus actual delivery. Negative means the
// order arrived after the promised date.
func (o Order) Delay() (time.Duration, bool) {
	if o.EstimatedAt == nil || o.DeliveredAt == nil {
		return 0, false
	}
	return o.EstimatedAt.Sub(*o.DeliveredAt), true
}

// DelayDays is Delay expressed in fractional days, keeping the sign
// convention of Delay.
func (o Order) DelayDays() (float64, bool) {
	d, ok := o.Delay()
	if !ok {
		return 0, false
	}
	return d.Hours() / 24, true
}

func (o Order) IsDelayed() bool {
	d, ok := o.Delay()
	return ok && d < 0
}

// RealTime is the full purchase-to-delivery duration.
func (o Order) RealTime() (time.Duration, bool) {
	if o.PurchasedAt == nil || o.DeliveredAt == nil {
		return 0, false
	}
	return o.DeliveredAt.Sub(*o.PurchasedAt), true
}

// Stage durations in hours, clipped at zero because a handful of source
// rows carry out-of-order timestamps.

func (o Order) SiteHours() (float64, bool) {
	return clippedHours(o.PurchasedAt, o.ApprovedAt)
}

func (o Order) SellerHours() (float64, bool) {
	return clippedHours(o.ApprovedAt, o.CarrierAt)
}

func (o Order) ShippingHours() (float64, bool) {
	return clippedHours(o.CarrierAt, o.DeliveredAt)
}

func (o Order) TotalHours() (float64, bool) {
	return clippedHours(o.PurchasedAt, o.DeliveredAt)
}

func clippedHours(from, to *time.Time) (float64, bool) {
	if from == nil || to == nil {
		return 0, false
	}
	h := to.Sub(*from).Hours()
	if h < 0 {
		h = 0
	}
	return h, true
}

// StageShares splits RealTime across the site, seller and shipping stages,
// in percent. A share is zero when its inputs are missing or RealTime is
// zero; shares are not clipped, so out-of-order timestamps can produce
// values outside 0..100.
func (o Order) StageShares() (site, seller, shipping float64) {
	rt, ok := o.RealTime()
	if !ok || rt == 0 {
		return 0, 0, 0
	}
	real := rt.Hours()
	if o.PurchasedAt != nil && o.ApprovedAt != nil {
		site = o.ApprovedAt.Sub(*o.PurchasedAt).Hours() / real * 100
	}
	if o.ApprovedAt != nil && o.CarrierAt != nil {
		seller = o.CarrierAt.Sub(*o.ApprovedAt).Hours() / real * 100
	}
	if o.CarrierAt != nil && o.DeliveredAt != nil {
		shipping = o.DeliveredAt.Sub(*o.CarrierAt).Hours() / real * 100
	}
	return site, seller, shipping
}

// PurchaseDate is the calendar day of purchase, used for daily groupings.
func (o Order) PurchaseDate() (string, bool) {
	if o.PurchasedAt == nil {
		return "", false
	}
	return o.PurchasedAt.Format("2006-01-02"), true
}

// State returns the customer state code, or "" when unknown.
func (o Order) State() string {
	if o.CustomerState == nil {
		return ""
	}
	return *o.CustomerState
}
