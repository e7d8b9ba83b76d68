package config

import (
	"fmt"
	"strings"
)

// ServerConfig holds demo storefront server configuration
type ServerConfig struct {
	Port string
	// StoreID is the tenant the demo catalog is seeded for
	StoreID string
	// Currency is the ISO code every catalog price is expressed in
	Currency string
	// ContactURL, when set, is returned as the contact link of created orders
	ContactURL string
}

// LoadServerConfig loads server configuration using the provided getenv function
func LoadServerConfig(getenv func(string) string) ServerConfig {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	currency := strings.ToUpper(getenv("STORE_CURRENCY"))
	if currency == "" {
		currency = "USD"
	}

	storeID := getenv("STORE_ID")
	if storeID == "" {
		storeID = "demo"
	}

	return ServerConfig{
		Port:       port,
		StoreID:    storeID,
		Currency:   currency,
		ContactURL: getenv("STORE_CONTACT_URL"),
	}
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%s", c.Port)
}
