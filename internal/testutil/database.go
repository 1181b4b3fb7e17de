package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the MySQL test database, skipping the test when no
// server is reachable. Expects a database named 'palantir_test' on
// localhost:3306.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/palantir_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the dataset tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "products"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the three dataset tables with the column names
// the SQL loader queries.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id VARCHAR(64) NOT NULL PRIMARY KEY,
		customer_id VARCHAR(64),
		order_status VARCHAR(32),
		customer_state VARCHAR(8),
		order_purchase_timestamp DATETIME,
		order_approved_at DATETIME,
		order_delivered_carrier_date DATETIME,
		order_delivered_customer_date DATETIME,
		order_estimated_delivery_date DATETIME
	)`

	createOrderItemsTable := `
	CREATE TABLE IF NOT EXISTS order_items (
		order_id VARCHAR(64) NOT NULL,
		order_item_id INT NOT NULL DEFAULT 1,
		product_id VARCHAR(64),
		seller_id VARCHAR(64),
		price DECIMAL(10,2),
		freight_value DECIMAL(10,2),
		INDEX idx_order (order_id),
		INDEX idx_product (product_id)
	)`

	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		product_id VARCHAR(64) NOT NULL PRIMARY KEY,
		product_category_name VARCHAR(100),
		product_weight_g DECIMAL(10,1),
		product_length_cm DECIMAL(10,1),
		product_height_cm DECIMAL(10,1),
		product_width_cm DECIMAL(10,1)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"orders", createOrdersTable},
		{"order_items", createOrderItemsTable},
		{"products", createProductsTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
