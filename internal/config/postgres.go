package config

import (
	"errors"
	"fmt"
)

// ErrPostgresNotConfigured is returned when no database settings are present.
// The demo storefront then keeps orders in memory.
var ErrPostgresNotConfigured = errors.New("postgres not configured")

// PostgresConfig holds configuration for the demo storefront's PostgreSQL order store
type PostgresConfig struct {
	URL      string
	User     string
	Password string
	Database string
	Host     string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables.
// DATABASE_URL wins over the individual POSTGRES_* variables.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	if url := getenv("DATABASE_URL"); url != "" {
		return &PostgresConfig{URL: url}, nil
	}

	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
	}

	if *config == (PostgresConfig{}) {
		return nil, ErrPostgresNotConfigured
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("POSTGRES_PASSWORD is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if config.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}

	return config, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database)
}
