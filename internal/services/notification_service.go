package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/adyen/storefront-e2e/internal/models"
)

// ErrInvalidNotification is returned for notification requests missing an order or tenant
var ErrInvalidNotification = errors.New("notification requires order and tenant identifiers")

// NotificationService forwards placed orders to the store owner
type NotificationService interface {
	Forward(req models.NotifyRequest) (bool, error)
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	telegram     TelegramClient
	orderService OrderService
}

// NewNotificationService creates a new notification service. A nil client
// disables forwarding: requests are validated but never sent.
func NewNotificationService(telegram TelegramClient, orderService OrderService) NotificationService {
	return &NotificationServiceImpl{
		telegram:     telegram,
		orderService: orderService,
	}
}

// Forward sends the order summary and confirms the order once it is delivered.
// It reports false without error when forwarding is disabled.
func (s *NotificationServiceImpl) Forward(req models.NotifyRequest) (bool, error) {
	if req.OrderID == "" || req.TenantID == "" {
		return false, ErrInvalidNotification
	}

	order, err := s.orderService.GetOrder(req.OrderID)
	if err != nil {
		return false, err
	}
	if order.StoreID != req.TenantID {
		return false, fmt.Errorf("%w: %s in store %s", models.ErrOrderNotFound, req.OrderID, req.TenantID)
	}

	if s.telegram == nil {
		log.Printf("Notification forwarding disabled, order %s not sent", order.Number)
		return false, nil
	}

	if err := s.telegram.SendMessage(FormatNotification(order, req)); err != nil {
		return false, fmt.Errorf("failed to forward notification: %w", err)
	}

	if err := s.orderService.ConfirmOrder(order.ID); err != nil {
		log.Printf("Notification sent but order %s not confirmed: %v", order.Number, err)
	}

	log.Printf("Notification forwarded for order %s", order.Number)
	return true, nil
}

// FormatNotification renders the message sent to the store owner
func FormatNotification(order *models.Order, req models.NotifyRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s\n", order.Number)
	fmt.Fprintf(&b, "Customer: %s", req.CustomerName)
	if order.Customer.Phone != "" {
		fmt.Fprintf(&b, " (%s)", order.Customer.Phone)
	}
	b.WriteString("\n")
	for _, item := range req.Items {
		fmt.Fprintf(&b, "- %d x %s @ %s\n", item.Quantity, item.Name, item.Price)
	}
	fmt.Fprintf(&b, "Total: %s", order.FormattedTotal())
	return b.String()
}
