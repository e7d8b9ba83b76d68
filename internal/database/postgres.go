package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a connection pool to the configured PostgreSQL database
func Connect(cfg *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
