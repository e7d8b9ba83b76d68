package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/database"
	"github.com/adyen/storefront-e2e/internal/handlers"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/repository"
	"github.com/adyen/storefront-e2e/internal/services"
)

// DemoCatalog returns the products the demo storefront sells in storeID.
// One product is sold out so the unavailability scenarios have a target.
func DemoCatalog(storeID string) []models.Product {
	return []models.Product{
		{ID: "citrus-soda", StoreID: storeID, Name: "Citrus Soda", PriceCents: 1250, Stock: 50},
		{ID: "mint-gum", StoreID: storeID, Name: "Mint Gum", PriceCents: 725, Stock: 25},
		{ID: "ginger-beer", StoreID: storeID, Name: "Ginger Beer", PriceCents: 499, Stock: 40},
		{ID: "vintage-cola", StoreID: storeID, Name: "Vintage Cola", PriceCents: 990, Stock: 0},
	}
}

// BuildServerDependencies wires the demo storefront. Orders go to db when it
// is set and stay in memory otherwise; notifications are forwarded only when
// telegram is enabled.
func BuildServerDependencies(serverConfig config.ServerConfig, telegram config.TelegramConfig, db *sql.DB) (ServerDependencies, error) {
	deps := ServerDependencies{ServerConfig: serverConfig}

	// Create repositories
	products := repository.NewProductRepository(DemoCatalog(serverConfig.StoreID))
	var orderRepo services.OrderRepository
	if db != nil {
		orderRepo = repository.NewOrderRepository(db)
	} else {
		log.Println("No database configured, keeping orders in memory")
		orderRepo = repository.NewMemoryOrderRepository()
	}

	// Create service layer
	catalog := services.NewCatalogService(products)
	orderService := services.NewOrderService(orderRepo, products, serverConfig.Currency, serverConfig.ContactURL)

	var telegramClient services.TelegramClient
	if telegram.Enabled() {
		telegramClient = services.NewTelegramClient(&telegram)
	} else {
		log.Println("Telegram not configured, notifications will not be forwarded")
	}
	notifications := services.NewNotificationService(telegramClient, orderService)

	// Create handlers
	tmpl, err := handlers.ParseTemplates()
	if err != nil {
		return deps, fmt.Errorf("failed to create page handlers: %w", err)
	}
	deps.HomeHandler = handlers.NewHomeHandler(tmpl, catalog)
	deps.CatalogHandler = handlers.NewCatalogHandler(tmpl, catalog)
	deps.ProductHandler = handlers.NewProductHandler(tmpl, catalog)
	deps.CartHandler = handlers.NewCartHandler(tmpl, catalog)
	deps.CheckoutHandler = handlers.NewCheckoutHandler(tmpl, catalog)
	deps.ConfirmationHandler = handlers.NewConfirmationHandler(tmpl, orderService)
	deps.CreateOrderHandler = handlers.NewCreateOrderHandler(orderService)
	deps.NotifyOrderHandler = handlers.NewNotifyOrderHandler(notifications)

	return deps, nil
}

// ServeDemo runs the demo storefront with configuration from getenv until a
// shutdown signal arrives
func ServeDemo(getenv func(string) string, port string) error {
	serverConfig := config.LoadServerConfig(getenv)
	if port != "" {
		serverConfig.Port = port
	}

	var db *sql.DB
	pgConfig, err := config.LoadPostgresConfig(getenv)
	switch {
	case errors.Is(err, config.ErrPostgresNotConfigured):
	case err != nil:
		return fmt.Errorf("invalid database configuration: %w", err)
	default:
		db, err = database.Connect(pgConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		log.Println("Connected to database successfully")

		if err := database.RunMigrations(db); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	deps, err := BuildServerDependencies(serverConfig, config.LoadTelegramConfig(getenv), db)
	if err != nil {
		return err
	}

	return RunServe(deps)
}
