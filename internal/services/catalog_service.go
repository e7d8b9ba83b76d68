package services

import (
	"fmt"

	"github.com/adyen/storefront-e2e/internal/models"
)

// ProductRepository defines the interface for catalog and stock persistence
type ProductRepository interface {
	ListProducts(storeID string) ([]models.Product, error)
	GetProduct(storeID, productID string) (*models.Product, error)
	ReserveStock(storeID string, items []models.LineItem) error
	ReleaseStock(storeID string, items []models.LineItem) error
}

// CatalogService answers what a store sells and prices carts against it
type CatalogService interface {
	Products(storeID string) ([]models.Product, error)
	Product(storeID, productID string) (*models.Product, error)
	Lines(storeID string, cart *models.Cart) ([]models.LineItem, error)
}

// CatalogServiceImpl implements CatalogService
type CatalogServiceImpl struct {
	products ProductRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(products ProductRepository) CatalogService {
	return &CatalogServiceImpl{products: products}
}

// Products lists the catalog of a store
func (s *CatalogServiceImpl) Products(storeID string) ([]models.Product, error) {
	products, err := s.products.ListProducts(storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Product returns one product of a store
func (s *CatalogServiceImpl) Product(storeID, productID string) (*models.Product, error) {
	product, err := s.products.GetProduct(storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// Lines prices every cart entry at the current catalog price
func (s *CatalogServiceImpl) Lines(storeID string, cart *models.Cart) ([]models.LineItem, error) {
	lines := make([]models.LineItem, 0, len(cart.ProductIDs()))
	for _, id := range cart.ProductIDs() {
		product, err := s.Product(storeID, id)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.NewLineItem(*product, cart.Quantity(id)))
	}
	return lines, nil
}

// TotalCents sums the line subtotals
func TotalCents(lines []models.LineItem) int64 {
	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	return total
}
