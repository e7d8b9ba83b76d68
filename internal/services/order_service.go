package services

import (
	"fmt"
	"log"
	"net/url"

	"github.com/adyen/storefront-e2e/internal/models"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(order *models.Order) error
	GetOrder(id string) (*models.Order, error)
	UpdateOrderStatus(id string, status models.OrderStatus) error
}

// OrderService handles order business logic
type OrderService interface {
	PlaceOrder(req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(id string) (*models.Order, error)
	ConfirmOrder(id string) error
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo  OrderRepository
	products   ProductRepository
	catalog    CatalogService
	currency   string
	contactURL string
}

// NewOrderService creates a new order service. When contactURL is set, every
// order carries a contact link built from it.
func NewOrderService(orderRepo OrderRepository, products ProductRepository, currency, contactURL string) OrderService {
	return &OrderServiceImpl{
		orderRepo:  orderRepo,
		products:   products,
		catalog:    NewCatalogService(products),
		currency:   currency,
		contactURL: contactURL,
	}
}

// PlaceOrder prices the requested items, reserves their stock and stores a pending order
func (s *OrderServiceImpl) PlaceOrder(req models.CreateOrderRequest) (*models.Order, error) {
	cart := models.NewCart()
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("invalid order: %w: %s", models.ErrInvalidQuantity, item.ProductID)
		}
		cart.Add(item.ProductID, item.Quantity)
	}

	lines, err := s.catalog.Lines(req.StoreID, cart)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	// Create order using domain factory method
	order, err := models.NewOrder(req.StoreID, req.Customer, lines, s.currency)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	order.ContactLink = s.contactLink(order)

	if err := s.products.ReserveStock(req.StoreID, order.Items); err != nil {
		return nil, fmt.Errorf("failed to reserve stock: %w", err)
	}

	// Persist, giving the stock back if that fails
	if err := s.orderRepo.CreateOrder(order); err != nil {
		if rerr := s.products.ReleaseStock(req.StoreID, order.Items); rerr != nil {
			log.Printf("Failed to release stock for order %s: %v", order.Number, rerr)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (s *OrderServiceImpl) contactLink(order *models.Order) string {
	if s.contactURL == "" {
		return ""
	}
	u, err := url.Parse(s.contactURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	q.Set("order", order.Number)
	u.RawQuery = q.Encode()
	return u.String()
}

// GetOrder retrieves an order by its ID
func (s *OrderServiceImpl) GetOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrder(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ConfirmOrder marks a pending order as confirmed
func (s *OrderServiceImpl) ConfirmOrder(id string) error {
	order, err := s.orderRepo.GetOrder(id)
	if err != nil {
		return fmt.Errorf("failed to get order: %w", err)
	}

	// Use domain methods to transition state
	if err := order.Confirm(); err != nil {
		return err
	}

	if err := s.orderRepo.UpdateOrderStatus(id, order.Status); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}
