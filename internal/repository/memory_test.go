package repository

import (
	"errors"
	"sync"
	"testing"

	"github.com/adyen/storefront-e2e/internal/models"
)

func seedProducts() []models.Product {
	return []models.Product{
		{ID: "citrus-soda", StoreID: "demo", Name: "Citrus Soda", PriceCents: 1250, Stock: 3},
		{ID: "mint-gum", StoreID: "demo", Name: "Mint Gum", PriceCents: 725, Stock: 1},
		{ID: "vintage-cola", StoreID: "demo", Name: "Vintage Cola", PriceCents: 990, Stock: 0},
		{ID: "citrus-soda", StoreID: "other", Name: "Citrus Soda", PriceCents: 1300, Stock: 5},
	}
}

func TestProductRepository_ListProducts(t *testing.T) {
	repo := NewProductRepository(seedProducts())

	products, err := repo.ListProducts("demo")
	if err != nil {
		t.Fatalf("ListProducts() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].ID != "citrus-soda" || products[2].InStock() {
		t.Errorf("unexpected catalog order or stock: %+v", products)
	}

	if _, err := repo.ListProducts("missing"); !errors.Is(err, models.ErrStoreNotFound) {
		t.Errorf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestProductRepository_GetProduct(t *testing.T) {
	repo := NewProductRepository(seedProducts())

	tests := []struct {
		name      string
		storeID   string
		productID string
		wantPrice int64
		wantErr   error
	}{
		{name: "existing product", storeID: "demo", productID: "citrus-soda", wantPrice: 1250},
		{name: "same id in another store", storeID: "other", productID: "citrus-soda", wantPrice: 1300},
		{name: "unknown product", storeID: "demo", productID: "nope", wantErr: models.ErrProductNotFound},
		{name: "unknown store", storeID: "nope", productID: "citrus-soda", wantErr: models.ErrStoreNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := repo.GetProduct(tt.storeID, tt.productID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("GetProduct() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && p.PriceCents != tt.wantPrice {
				t.Errorf("PriceCents = %d, want %d", p.PriceCents, tt.wantPrice)
			}
		})
	}
}

func TestProductRepository_ReserveStock(t *testing.T) {
	tests := []struct {
		name       string
		items      []models.LineItem
		wantErr    error
		wantCitrus int
		wantMint   int
	}{
		{
			name:       "reserves every line",
			items:      []models.LineItem{{ProductID: "citrus-soda", Quantity: 2}, {ProductID: "mint-gum", Quantity: 1}},
			wantCitrus: 1,
			wantMint:   0,
		},
		{
			name:       "short line reserves nothing",
			items:      []models.LineItem{{ProductID: "citrus-soda", Quantity: 1}, {ProductID: "mint-gum", Quantity: 2}},
			wantErr:    models.ErrOutOfStock,
			wantCitrus: 3,
			wantMint:   1,
		},
		{
			name:       "repeated lines are summed",
			items:      []models.LineItem{{ProductID: "citrus-soda", Quantity: 2}, {ProductID: "citrus-soda", Quantity: 2}},
			wantErr:    models.ErrOutOfStock,
			wantCitrus: 3,
			wantMint:   1,
		},
		{
			name:       "sold-out product",
			items:      []models.LineItem{{ProductID: "vintage-cola", Quantity: 1}},
			wantErr:    models.ErrOutOfStock,
			wantCitrus: 3,
			wantMint:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewProductRepository(seedProducts())

			err := repo.ReserveStock("demo", tt.items)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReserveStock() error = %v, want %v", err, tt.wantErr)
			}

			citrus, _ := repo.GetProduct("demo", "citrus-soda")
			mint, _ := repo.GetProduct("demo", "mint-gum")
			if citrus.Stock != tt.wantCitrus || mint.Stock != tt.wantMint {
				t.Errorf("stock = %d/%d, want %d/%d", citrus.Stock, mint.Stock, tt.wantCitrus, tt.wantMint)
			}
		})
	}
}

func TestProductRepository_ConcurrentReservationsNeverOversell(t *testing.T) {
	repo := NewProductRepository(seedProducts())
	items := []models.LineItem{{ProductID: "citrus-soda", Quantity: 1}}

	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.ReserveStock("demo", items) == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if reserved != 3 {
		t.Errorf("expected exactly 3 reservations, got %d", reserved)
	}
}

func TestProductRepository_ReleaseStock(t *testing.T) {
	repo := NewProductRepository(seedProducts())
	items := []models.LineItem{{ProductID: "mint-gum", Quantity: 1}}

	if err := repo.ReserveStock("demo", items); err != nil {
		t.Fatalf("ReserveStock() error = %v", err)
	}
	if err := repo.ReleaseStock("demo", items); err != nil {
		t.Fatalf("ReleaseStock() error = %v", err)
	}
	mint, _ := repo.GetProduct("demo", "mint-gum")
	if mint.Stock != 1 {
		t.Errorf("stock = %d, want 1", mint.Stock)
	}
}

func TestMemoryOrderRepository(t *testing.T) {
	repo := NewMemoryOrderRepository()
	order, err := models.NewOrder("demo", models.Customer{Name: "E2E Customer"},
		[]models.LineItem{{ProductID: "citrus-soda", Name: "Citrus Soda", UnitPriceCents: 1250, Quantity: 1}}, "USD")
	if err != nil {
		t.Fatalf("NewOrder() error = %v", err)
	}

	if err := repo.CreateOrder(order); err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if err := repo.CreateOrder(order); !errors.Is(err, ErrDuplicateOrder) {
		t.Errorf("expected ErrDuplicateOrder, got %v", err)
	}

	// Returned orders are copies
	got, err := repo.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	got.Items[0].Quantity = 99
	again, _ := repo.GetOrder(order.ID)
	if again.Items[0].Quantity != 1 {
		t.Error("stored order was mutated through a returned copy")
	}

	if err := repo.UpdateOrderStatus(order.ID, models.OrderStatusConfirmed); err != nil {
		t.Fatalf("UpdateOrderStatus() error = %v", err)
	}
	again, _ = repo.GetOrder(order.ID)
	if !again.IsConfirmed() {
		t.Errorf("Status = %s, want confirmed", again.Status)
	}

	if _, err := repo.GetOrder("missing"); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if err := repo.UpdateOrderStatus("missing", models.OrderStatusConfirmed); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}
