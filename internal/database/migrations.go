package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Schema creates the tables the demo storefront persists orders in
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	number VARCHAR(32) UNIQUE NOT NULL,
	store_id VARCHAR(255) NOT NULL,
	customer_name VARCHAR(255) NOT NULL,
	customer_phone VARCHAR(64) NOT NULL DEFAULT '',
	total_cents BIGINT NOT NULL,
	currency VARCHAR(3) NOT NULL,
	status VARCHAR(50) NOT NULL,
	contact_link TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS order_items (
	order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	product_id VARCHAR(255) NOT NULL,
	name VARCHAR(255) NOT NULL,
	unit_price_cents BIGINT NOT NULL,
	quantity INTEGER NOT NULL,
	PRIMARY KEY (order_id, position)
);

CREATE INDEX IF NOT EXISTS idx_orders_store ON orders(store_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create order tables: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}
