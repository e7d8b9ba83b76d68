package models

// Wire bodies of the two backend endpoints the storefront calls from the browser.
// The harness decodes intercepted traffic into these; the demo storefront serves them.

// OrderItemRequest is a cart line sent to the order-creation endpoint
type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of the order-creation call
type CreateOrderRequest struct {
	StoreID  string             `json:"storeId"`
	Customer Customer           `json:"customer"`
	Items    []OrderItemRequest `json:"items"`
}

// CreateOrderResponse is the body returned by the order-creation call
type CreateOrderResponse struct {
	OrderID     string `json:"orderId,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
	ContactLink string `json:"contactLink,omitempty"`
	Total       string `json:"total,omitempty"`
	Error       string `json:"error,omitempty"`
}

// NotifyItem is a line forwarded to the notification endpoint
type NotifyItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// NotifyRequest is the body of the notification-forwarding call
type NotifyRequest struct {
	OrderID      string       `json:"orderId"`
	TenantID     string       `json:"tenantId"`
	CustomerName string       `json:"customerName"`
	Items        []NotifyItem `json:"items"`
}

// NotifyResponse is the body returned by the notification-forwarding call
type NotifyResponse struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}
