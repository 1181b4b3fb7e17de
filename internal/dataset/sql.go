package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"palantir/internal/domain"
)

// SQLLoader reads the three tables from a database holding the same schema
// as the CSV files.
type SQLLoader struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLLoader(db *sql.DB, logger *zap.Logger) *SQLLoader {
	return &SQLLoader{db: db, logger: logger}
}

func (l *SQLLoader) Load(ctx context.Context) (*Frames, error) {
	orders, err := l.loadOrders(ctx)
	if err != nil {
		return nil, err
	}
	items, err := l.loadOrderItems(ctx)
	if err != nil {
		return nil, err
	}
	products, err := l.loadProducts(ctx)
	if err != nil {
		return nil, err
	}

	f := &Frames{
		SnapshotID: uuid.New(),
		LoadedAt:   time.Now(),
		Source:     "mysql",
		Orders:     orders,
		Items:      items,
		Products:   products,
	}
	l.logger.Info("dataset loaded from mysql",
		zap.Int("orders", len(orders)),
		zap.Int("order_items", len(items)),
		zap.Int("products", len(products)),
	)
	return f, nil
}

func (l *SQLLoader) loadOrders(ctx context.Context) ([]domain.Order, error) {
	query := `
		SELECT order_id, customer_id, order_status, customer_state,
		       order_purchase_timestamp, order_approved_at,
		       order_delivered_carrier_date, order_delivered_customer_date,
		       order_estimated_delivery_date
		FROM orders`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o          domain.Order
			status     sql.NullString
			state      sql.NullString
			purchased  sql.NullTime
			approved   sql.NullTime
			carrier    sql.NullTime
			delivered  sql.NullTime
			estimated  sql.NullTime
			customerID sql.NullString
		)
		err := rows.Scan(
			&o.ID, &customerID, &status, &state,
			&purchased, &approved, &carrier, &delivered, &estimated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		o.CustomerID = customerID.String
		o.Status = status.String
		if state.Valid && state.String != "" {
			s := state.String
			o.CustomerState = &s
		}
		o.PurchasedAt = nullTimePtr(purchased)
		o.ApprovedAt = nullTimePtr(approved)
		o.CarrierAt = nullTimePtr(carrier)
		o.DeliveredAt = nullTimePtr(delivered)
		o.EstimatedAt = nullTimePtr(estimated)
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}
	return orders, nil
}

func (l *SQLLoader) loadOrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	query := `
		SELECT order_id, product_id, seller_id, price, freight_value
		FROM order_items`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var (
			it      domain.OrderItem
			seller  sql.NullString
			price   sql.NullFloat64
			freight sql.NullFloat64
		)
		if err := rows.Scan(&it.OrderID, &it.ProductID, &seller, &price, &freight); err != nil {
			return nil, fmt.Errorf("scanning order item row: %w", err)
		}
		it.SellerID = seller.String
		it.Price = nullFloatPtr(price)
		it.FreightValue = nullFloatPtr(freight)
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order item rows: %w", err)
	}
	return items, nil
}

func (l *SQLLoader) loadProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT product_id, product_category_name, product_weight_g,
		       product_length_cm, product_height_cm, product_width_cm
		FROM products`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p        domain.Product
			category sql.NullString
			weight   sql.NullFloat64
			length   sql.NullFloat64
			height   sql.NullFloat64
			width    sql.NullFloat64
		)
		if err := rows.Scan(&p.ID, &category, &weight, &length, &height, &width); err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		p.Category = category.String
		p.WeightG = nullFloatPtr(weight)
		p.LengthCm = nullFloatPtr(length)
		p.HeightCm = nullFloatPtr(height)
		p.WidthCm = nullFloatPtr(width)
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}
	return products, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullFloatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
