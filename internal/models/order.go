package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Customer holds the contact details entered at checkout
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// LineItem is one product line of an order
type LineItem struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// SubtotalCents returns the line total
func (l LineItem) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Order represents a storefront order with business logic
type Order struct {
	ID          string
	Number      string
	StoreID     string
	Customer    Customer
	Items       []LineItem
	TotalCents  int64
	Currency    string
	Status      OrderStatus
	ContactLink string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Domain errors
var (
	ErrEmptyOrder              = errors.New("order must contain at least one item")
	ErrInvalidQuantity         = errors.New("item quantity must be positive")
	ErrInvalidPrice            = errors.New("item price must be positive")
	ErrInvalidCurrency         = errors.New("currency code must be 3 characters")
	ErrInvalidStore            = errors.New("store identifier cannot be empty")
	ErrInvalidCustomer         = errors.New("customer name cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// NewOrder creates a new pending order with validation
func NewOrder(storeID string, customer Customer, items []LineItem, currency string) (*Order, error) {
	if err := validateOrderInput(storeID, customer, items, currency); err != nil {
		return nil, err
	}

	var total int64
	for _, item := range items {
		total += item.SubtotalCents()
	}

	id := uuid.New()
	now := time.Now()

	return &Order{
		ID:         id.String(),
		Number:     "ORD-" + strings.ToUpper(id.String()[:8]),
		StoreID:    storeID,
		Customer:   customer,
		Items:      append([]LineItem(nil), items...),
		TotalCents: total,
		Currency:   currency,
		Status:     OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// validateOrderInput validates order creation parameters
func validateOrderInput(storeID string, customer Customer, items []LineItem, currency string) error {
	if storeID == "" {
		return ErrInvalidStore
	}
	if strings.TrimSpace(customer.Name) == "" {
		return ErrInvalidCustomer
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidQuantity, item.ProductID)
		}
		if item.UnitPriceCents <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidPrice, item.ProductID)
		}
	}
	return nil
}

// Confirm marks a pending order as confirmed
func (o *Order) Confirm() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot confirm order with status %s", ErrInvalidStatusTransition, o.Status)
	}

	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel marks the order as cancelled
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCancelled {
		return fmt.Errorf("%w: order is already cancelled", ErrInvalidStatusTransition)
	}

	o.Status = OrderStatusCancelled
	o.UpdatedAt = time.Now()
	return nil
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// FormatCents renders an amount in minor units as "$12.50"
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// FormattedTotal returns the order total formatted for display
func (o *Order) FormattedTotal() string {
	return FormatCents(o.TotalCents)
}
