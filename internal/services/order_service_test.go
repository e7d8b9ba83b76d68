package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/adyen/storefront-e2e/internal/models"
)

// MockOrderRepository is a mock implementation of OrderRepository for testing
type MockOrderRepository struct {
	CreateOrderFunc       func(*models.Order) error
	GetOrderFunc          func(string) (*models.Order, error)
	UpdateOrderStatusFunc func(string, models.OrderStatus) error
}

func (m *MockOrderRepository) CreateOrder(order *models.Order) error {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(order)
	}
	return nil
}

func (m *MockOrderRepository) GetOrder(id string) (*models.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(id)
	}
	return &models.Order{ID: id, StoreID: "demo", Status: models.OrderStatusPending}, nil
}

func (m *MockOrderRepository) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(id, status)
	}
	return nil
}

// MockProductRepository is a mock implementation of ProductRepository for testing
type MockProductRepository struct {
	Products         map[string]models.Product
	ReserveStockFunc func(string, []models.LineItem) error
	ReleaseStockFunc func(string, []models.LineItem) error
}

func (m *MockProductRepository) ListProducts(storeID string) ([]models.Product, error) {
	var products []models.Product
	for _, p := range m.Products {
		if p.StoreID == storeID {
			products = append(products, p)
		}
	}
	if products == nil {
		return nil, models.ErrStoreNotFound
	}
	return products, nil
}

func (m *MockProductRepository) GetProduct(storeID, productID string) (*models.Product, error) {
	p, ok := m.Products[productID]
	if !ok || p.StoreID != storeID {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductRepository) ReserveStock(storeID string, items []models.LineItem) error {
	if m.ReserveStockFunc != nil {
		return m.ReserveStockFunc(storeID, items)
	}
	return nil
}

func (m *MockProductRepository) ReleaseStock(storeID string, items []models.LineItem) error {
	if m.ReleaseStockFunc != nil {
		return m.ReleaseStockFunc(storeID, items)
	}
	return nil
}

func testProducts() *MockProductRepository {
	return &MockProductRepository{Products: map[string]models.Product{
		"citrus-soda": {ID: "citrus-soda", StoreID: "demo", Name: "Citrus Soda", PriceCents: 1250, Stock: 10},
		"mint-gum":    {ID: "mint-gum", StoreID: "demo", Name: "Mint Gum", PriceCents: 725, Stock: 4},
	}}
}

func validRequest() models.CreateOrderRequest {
	return models.CreateOrderRequest{
		StoreID:  "demo",
		Customer: models.Customer{Name: "Test Customer", Phone: "+15550100"},
		Items: []models.OrderItemRequest{
			{ProductID: "citrus-soda", Quantity: 2},
			{ProductID: "mint-gum", Quantity: 1},
		},
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*models.CreateOrderRequest)
		reserveErr error
		createErr  error
		wantErr    error
		wantTotal  int64
		released   bool
	}{
		{
			name:      "successful order",
			wantTotal: 3225,
		},
		{
			name: "repeated product lines are merged",
			modify: func(r *models.CreateOrderRequest) {
				r.Items = append(r.Items, models.OrderItemRequest{ProductID: "citrus-soda", Quantity: 1})
			},
			wantTotal: 4475,
		},
		{
			name:    "unknown product",
			modify:  func(r *models.CreateOrderRequest) { r.Items[0].ProductID = "nope" },
			wantErr: models.ErrProductNotFound,
		},
		{
			name:    "non-positive quantity",
			modify:  func(r *models.CreateOrderRequest) { r.Items[0].Quantity = 0 },
			wantErr: models.ErrInvalidQuantity,
		},
		{
			name:    "missing customer name",
			modify:  func(r *models.CreateOrderRequest) { r.Customer.Name = " " },
			wantErr: models.ErrInvalidCustomer,
		},
		{
			name:    "empty order",
			modify:  func(r *models.CreateOrderRequest) { r.Items = nil },
			wantErr: models.ErrEmptyOrder,
		},
		{
			name:       "insufficient stock",
			reserveErr: models.ErrOutOfStock,
			wantErr:    models.ErrOutOfStock,
		},
		{
			name:      "repository error releases stock",
			createErr: errors.New("database error"),
			wantErr:   errors.New("database error"),
			released:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			released := false
			products := testProducts()
			products.ReserveStockFunc = func(string, []models.LineItem) error { return tt.reserveErr }
			products.ReleaseStockFunc = func(string, []models.LineItem) error {
				released = true
				return nil
			}
			orders := &MockOrderRepository{
				CreateOrderFunc: func(*models.Order) error { return tt.createErr },
			}
			service := NewOrderService(orders, products, "USD", "")

			req := validRequest()
			if tt.modify != nil {
				tt.modify(&req)
			}

			order, err := service.PlaceOrder(req)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("Expected error but got none")
				}
				if tt.createErr == nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("Expected %v, got %v", tt.wantErr, err)
				}
				if released != tt.released {
					t.Errorf("Expected released=%v, got %v", tt.released, released)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if order.TotalCents != tt.wantTotal {
				t.Errorf("Expected total %d, got %d", tt.wantTotal, order.TotalCents)
			}
			if order.Status != models.OrderStatusPending {
				t.Errorf("Expected status pending, got %s", order.Status)
			}
			if order.ContactLink != "" {
				t.Errorf("Expected no contact link, got %s", order.ContactLink)
			}
		})
	}
}

func TestOrderService_PlaceOrder_ContactLink(t *testing.T) {
	service := NewOrderService(&MockOrderRepository{}, testProducts(), "USD", "https://t.me/demo_store")

	order, err := service.PlaceOrder(validRequest())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.HasPrefix(order.ContactLink, "https://t.me/demo_store?order=ORD-") {
		t.Errorf("Unexpected contact link %s", order.ContactLink)
	}
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	tests := []struct {
		name       string
		status     models.OrderStatus
		getErr     error
		wantErr    bool
		wantUpdate bool
	}{
		{name: "pending order", status: models.OrderStatusPending, wantUpdate: true},
		{name: "already confirmed", status: models.OrderStatusConfirmed, wantErr: true},
		{name: "missing order", getErr: models.ErrOrderNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			repo := &MockOrderRepository{
				GetOrderFunc: func(id string) (*models.Order, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return &models.Order{ID: id, Status: tt.status}, nil
				},
				UpdateOrderStatusFunc: func(id string, status models.OrderStatus) error {
					updated = true
					if status != models.OrderStatusConfirmed {
						t.Errorf("Expected confirmed, got %s", status)
					}
					return nil
				},
			}
			service := NewOrderService(repo, testProducts(), "USD", "")

			err := service.ConfirmOrder("order-1")
			if (err != nil) != tt.wantErr {
				t.Errorf("ConfirmOrder() error = %v, wantErr %v", err, tt.wantErr)
			}
			if updated != tt.wantUpdate {
				t.Errorf("Expected update=%v, got %v", tt.wantUpdate, updated)
			}
		})
	}
}

func TestCatalogService_Lines(t *testing.T) {
	catalog := NewCatalogService(testProducts())

	cart := models.NewCart()
	cart.Add("mint-gum", 2)
	cart.Add("citrus-soda", 1)

	lines, err := catalog.Lines("demo", cart)
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	if len(lines) != 2 || lines[0].ProductID != "mint-gum" {
		t.Fatalf("Expected lines in cart order, got %+v", lines)
	}
	if total := TotalCents(lines); total != 2700 {
		t.Errorf("Expected total 2700, got %d", total)
	}

	cart.Add("gone", 1)
	if _, err := catalog.Lines("demo", cart); !errors.Is(err, models.ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}
