package repository

import (
	"fmt"
	"sync"
	"time"

	"github.com/adyen/storefront-e2e/internal/models"
)

// MemoryOrderRepository keeps orders in memory when no database is configured
type MemoryOrderRepository struct {
	mu      sync.RWMutex
	orders  map[string]*models.Order
	numbers map[string]bool
}

// NewMemoryOrderRepository creates an empty in-memory order store
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders:  make(map[string]*models.Order),
		numbers: make(map[string]bool),
	}
}

// CreateOrder stores a copy of order
func (r *MemoryOrderRepository) CreateOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok || r.numbers[order.Number] {
		return fmt.Errorf("%w: %s", ErrDuplicateOrder, order.Number)
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	stored := *order
	stored.Items = append([]models.LineItem(nil), order.Items...)
	r.orders[order.ID] = &stored
	r.numbers[order.Number] = true
	return nil
}

// GetOrder returns a copy of the order with id
func (r *MemoryOrderRepository) GetOrder(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.orders[id]
	if !ok {
		return nil, models.ErrOrderNotFound
	}
	order := *stored
	order.Items = append([]models.LineItem(nil), stored.Items...)
	return &order, nil
}

// UpdateOrderStatus updates the status of an order
func (r *MemoryOrderRepository) UpdateOrderStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return models.ErrOrderNotFound
	}
	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

// ProductRepository holds store catalogs and their stock in memory.
// Stock changes are all-or-nothing per order.
type ProductRepository struct {
	mu     sync.RWMutex
	stores map[string][]*models.Product
}

// NewProductRepository seeds the repository with products, grouped by StoreID
func NewProductRepository(products []models.Product) *ProductRepository {
	r := &ProductRepository{stores: make(map[string][]*models.Product)}
	for _, p := range products {
		r.stores[p.StoreID] = append(r.stores[p.StoreID], &p)
	}
	return r
}

// ListProducts returns the catalog of storeID in seed order
func (r *ProductRepository) ListProducts(storeID string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products, ok := r.stores[storeID]
	if !ok {
		return nil, models.ErrStoreNotFound
	}
	out := make([]models.Product, len(products))
	for i, p := range products {
		out[i] = *p
	}
	return out, nil
}

// GetProduct returns one product of storeID
func (r *ProductRepository) GetProduct(storeID, productID string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, err := r.find(storeID, productID)
	if err != nil {
		return nil, err
	}
	product := *p
	return &product, nil
}

// ReserveStock removes the items' quantities from stock, or nothing if any item is short
func (r *ProductRepository) ReserveStock(storeID string, items []models.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]int)
	for _, item := range items {
		wanted[item.ProductID] += item.Quantity
	}
	for id, qty := range wanted {
		p, err := r.find(storeID, id)
		if err != nil {
			return err
		}
		if p.Stock < qty {
			return fmt.Errorf("%w: %s has %d, %d requested", models.ErrOutOfStock, p.Name, p.Stock, qty)
		}
	}
	for id, qty := range wanted {
		p, _ := r.find(storeID, id)
		p.Stock -= qty
	}
	return nil
}

// ReleaseStock returns previously reserved quantities to stock
func (r *ProductRepository) ReleaseStock(storeID string, items []models.LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		p, err := r.find(storeID, item.ProductID)
		if err != nil {
			return err
		}
		p.Stock += item.Quantity
	}
	return nil
}

// find locates a product; callers hold r.mu
func (r *ProductRepository) find(storeID, productID string) (*models.Product, error) {
	products, ok := r.stores[storeID]
	if !ok {
		return nil, models.ErrStoreNotFound
	}
	for _, p := range products {
		if p.ID == productID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, productID)
}
