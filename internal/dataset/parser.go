package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"palantir/internal/domain"
)

// Columns are located by header name, case-insensitive; order never
// matters. A missing optional column produces a warning and nil fields, a
// missing id column fails the parse.

const (
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

type csvTable struct {
	cols map[string]int
	rows [][]string
}

func readCSV(r io.Reader) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimPrefix(h, "\uFEFF")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return &csvTable{cols: cols, rows: records[1:]}, nil
}

// column resolves an optional header, appending a warning when absent.
func (t *csvTable) column(table, name string, warnings *[]string) int {
	if idx, ok := t.cols[name]; ok {
		return idx
	}
	*warnings = append(*warnings, fmt.Sprintf("%s: column %q missing", table, name))
	return -1
}

func (t *csvTable) field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	if ts, err := time.Parse(timestampLayout, s); err == nil {
		return &ts
	}
	if ts, err := time.Parse(dateLayout, s); err == nil {
		return &ts
	}
	return nil
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func ParseOrders(r io.Reader) ([]domain.Order, []string, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, nil, fmt.Errorf("orders: %w", err)
	}

	idIdx, ok := t.cols["order_id"]
	if !ok {
		return nil, nil, fmt.Errorf("orders: required column %q missing", "order_id")
	}

	var warnings []string
	customerIdx := t.column("orders", "customer_id", &warnings)
	purchasedIdx := t.column("orders", "order_purchase_timestamp", &warnings)
	approvedIdx := t.column("orders", "order_approved_at", &warnings)
	carrierIdx := t.column("orders", "order_delivered_carrier_date", &warnings)
	deliveredIdx := t.column("orders", "order_delivered_customer_date", &warnings)
	estimatedIdx := t.column("orders", "order_estimated_delivery_date", &warnings)
	stateIdx := t.column("orders", "customer_state", &warnings)

	statusIdx, hasStatus := t.cols["order_status"]
	if !hasStatus {
		warnings = append(warnings,
			"orders: column \"order_status\" missing; all orders default to delivered")
	}

	orders := make([]domain.Order, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.field(row, idIdx)
		if id == "" {
			continue
		}
		o := domain.Order{
			ID:          id,
			CustomerID:  t.field(row, customerIdx),
			PurchasedAt: parseTimePtr(t.field(row, purchasedIdx)),
			ApprovedAt:  parseTimePtr(t.field(row, approvedIdx)),
			CarrierAt:   parseTimePtr(t.field(row, carrierIdx)),
			DeliveredAt: parseTimePtr(t.field(row, deliveredIdx)),
			EstimatedAt: parseTimePtr(t.field(row, estimatedIdx)),
		}
		if hasStatus {
			o.Status = strings.ToLower(t.field(row, statusIdx))
		} else {
			o.Status = domain.StatusDelivered
		}
		if state := t.field(row, stateIdx); state != "" {
			st := strings.ToUpper(state)
			o.CustomerState = &st
		}
		orders = append(orders, o)
	}
	return orders, warnings, nil
}

func ParseOrderItems(r io.Reader) ([]domain.OrderItem, []string, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, nil, fmt.Errorf("order_items: %w", err)
	}

	orderIdx, ok := t.cols["order_id"]
	if !ok {
		return nil, nil, fmt.Errorf("order_items: required column %q missing", "order_id")
	}
	productIdx, ok := t.cols["product_id"]
	if !ok {
		return nil, nil, fmt.Errorf("order_items: required column %q missing", "product_id")
	}

	var warnings []string
	sellerIdx := t.column("order_items", "seller_id", &warnings)
	priceIdx := t.column("order_items", "price", &warnings)
	freightIdx := t.column("order_items", "freight_value", &warnings)

	items := make([]domain.OrderItem, 0, len(t.rows))
	for _, row := range t.rows {
		orderID := t.field(row, orderIdx)
		if orderID == "" {
			continue
		}
		items = append(items, domain.OrderItem{
			OrderID:      orderID,
			ProductID:    t.field(row, productIdx),
			SellerID:     t.field(row, sellerIdx),
			Price:        parseFloatPtr(t.field(row, priceIdx)),
			FreightValue: parseFloatPtr(t.field(row, freightIdx)),
		})
	}
	return items, warnings, nil
}

func ParseProducts(r io.Reader) ([]domain.Product, []string, error) {
	t, err := readCSV(r)
	if err != nil {
		return nil, nil, fmt.Errorf("products: %w", err)
	}

	idIdx, ok := t.cols["product_id"]
	if !ok {
		return nil, nil, fmt.Errorf("products: required column %q missing", "product_id")
	}

	var warnings []string
	categoryIdx := t.column("products", "product_category_name", &warnings)
	weightIdx := t.column("products", "product_weight_g", &warnings)
	lengthIdx := t.column("products", "product_length_cm", &warnings)
	heightIdx := t.column("products", "product_height_cm", &warnings)
	widthIdx := t.column("products", "product_width_cm", &warnings)

	products := make([]domain.Product, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.field(row, idIdx)
		if id == "" {
			continue
		}
		products = append(products, domain.Product{
			ID:       id,
			Category: t.field(row, categoryIdx),
			WeightG:  parseFloatPtr(t.field(row, weightIdx)),
			LengthCm: parseFloatPtr(t.field(row, lengthIdx)),
			HeightCm: parseFloatPtr(t.field(row, heightIdx)),
			WidthCm:  parseFloatPtr(t.field(row, widthIdx)),
		})
	}
	return products, warnings, nil
}
