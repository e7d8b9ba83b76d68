package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateOrderHandler handles order creation from the checkout page
type CreateOrderHandler struct {
	orderService services.OrderService
}

// NewCreateOrderHandler creates a new order creation handler
func NewCreateOrderHandler(orderService services.OrderService) *CreateOrderHandler {
	return &CreateOrderHandler{orderService: orderService}
}

// ServeHTTP handles the POST /functions/v1/create-order request
func (h *CreateOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.orderService.PlaceOrder(req)
	if err != nil {
		log.Printf("Error placing order for store %s: %v", req.StoreID, err)
		sendErrorResponse(w, err.Error(), orderErrorStatus(err))
		return
	}

	log.Printf("Order created successfully - ID: %s, Number: %s, Total: %s", order.ID, order.Number, order.FormattedTotal())

	sendJSON(w, http.StatusOK, models.CreateOrderResponse{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		ContactLink: order.ContactLink,
		Total:       order.FormattedTotal(),
	})
}

// orderErrorStatus maps order placement failures to status codes
func orderErrorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrStoreNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrEmptyOrder),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidCustomer),
		errors.Is(err, models.ErrInvalidStore),
		errors.Is(err, models.ErrInvalidCurrency):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NotifyOrderHandler forwards a placed order to the store owner
type NotifyOrderHandler struct {
	notifications services.NotificationService
}

// NewNotifyOrderHandler creates a new notification handler
func NewNotifyOrderHandler(notifications services.NotificationService) *NotifyOrderHandler {
	return &NotifyOrderHandler{notifications: notifications}
}

// ServeHTTP handles the POST /functions/v1/notify-order request
func (h *NotifyOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.NotifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSON(w, http.StatusBadRequest, models.NotifyResponse{Error: "Invalid request body"})
		return
	}

	sent, err := h.notifications.Forward(req)
	if err != nil {
		log.Printf("Error forwarding notification for order %s: %v", req.OrderID, err)
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, services.ErrInvalidNotification):
			status = http.StatusBadRequest
		case errors.Is(err, models.ErrOrderNotFound):
			status = http.StatusNotFound
		}
		sendJSON(w, status, models.NotifyResponse{Error: err.Error()})
		return
	}

	sendJSON(w, http.StatusOK, models.NotifyResponse{Sent: sent})
}

func sendJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
