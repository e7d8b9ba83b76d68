package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

// MockNotificationService is a mock implementation of NotificationService for testing
type MockNotificationService struct {
	ForwardFunc func(models.NotifyRequest) (bool, error)
}

func (m *MockNotificationService) Forward(req models.NotifyRequest) (bool, error) {
	if m.ForwardFunc != nil {
		return m.ForwardFunc(req)
	}
	return true, nil
}

func TestCreateOrderHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name               string
		method             string
		body               string
		placeErr           error
		contactLink        string
		expectedStatus     int
		checkErrorResponse bool
	}{
		{
			name:           "order created",
			method:         http.MethodPost,
			body:           `{"storeId":"demo","customer":{"name":"Test Customer"},"items":[{"productId":"citrus-soda","quantity":1}]}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "order created with contact link",
			method:         http.MethodPost,
			body:           `{"storeId":"demo","customer":{"name":"Test Customer"},"items":[{"productId":"citrus-soda","quantity":1}]}`,
			contactLink:    "https://t.me/demo_store?order=ORD-6F1C2D3E",
			expectedStatus: http.StatusOK,
		},
		{
			name:               "malformed body",
			method:             http.MethodPost,
			body:               `{"storeId":`,
			expectedStatus:     http.StatusBadRequest,
			checkErrorResponse: true,
		},
		{
			name:               "invalid order",
			method:             http.MethodPost,
			body:               `{}`,
			placeErr:           fmt.Errorf("invalid order: %w", models.ErrEmptyOrder),
			expectedStatus:     http.StatusBadRequest,
			checkErrorResponse: true,
		},
		{
			name:               "unknown store",
			method:             http.MethodPost,
			body:               `{}`,
			placeErr:           fmt.Errorf("invalid order: %w", models.ErrStoreNotFound),
			expectedStatus:     http.StatusNotFound,
			checkErrorResponse: true,
		},
		{
			name:               "out of stock",
			method:             http.MethodPost,
			body:               `{}`,
			placeErr:           fmt.Errorf("failed to reserve stock: %w", models.ErrOutOfStock),
			expectedStatus:     http.StatusConflict,
			checkErrorResponse: true,
		},
		{
			name:               "repository failure",
			method:             http.MethodPost,
			body:               `{}`,
			placeErr:           errors.New("failed to create order: connection refused"),
			expectedStatus:     http.StatusInternalServerError,
			checkErrorResponse: true,
		},
		{
			name:           "method not allowed - GET",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &MockOrderService{
				PlaceOrderFunc: func(req models.CreateOrderRequest) (*models.Order, error) {
					if tt.placeErr != nil {
						return nil, tt.placeErr
					}
					if req.StoreID != "demo" || len(req.Items) != 1 || req.Items[0].Quantity != 1 {
						t.Errorf("Unexpected request %+v", req)
					}
					order := testOrder()
					order.ContactLink = tt.contactLink
					return order, nil
				},
			}
			handler := NewCreateOrderHandler(orders)

			req := httptest.NewRequest(tt.method, "/functions/v1/create-order", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}

			if tt.checkErrorResponse {
				var errResp ErrorResponse
				if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
					t.Fatalf("Failed to decode error response: %v", err)
				}
				if errResp.Error != http.StatusText(tt.expectedStatus) || errResp.Message == "" {
					t.Errorf("Unexpected error response %+v", errResp)
				}
				return
			}

			if tt.expectedStatus == http.StatusOK {
				var resp models.CreateOrderResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}
				want := models.CreateOrderResponse{
					OrderID:     testOrder().ID,
					OrderNumber: "ORD-6F1C2D3E",
					ContactLink: tt.contactLink,
					Total:       "$12.50",
				}
				if resp != want {
					t.Errorf("Expected %+v, got %+v", want, resp)
				}
			}
		})
	}
}

func TestNotifyOrderHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		sent           bool
		forwardErr     error
		expectedStatus int
		expectedSent   bool
		expectError    bool
	}{
		{
			name:           "forwarded",
			method:         http.MethodPost,
			body:           `{"orderId":"o-1","tenantId":"demo","customerName":"Test Customer","items":[]}`,
			sent:           true,
			expectedStatus: http.StatusOK,
			expectedSent:   true,
		},
		{
			name:           "forwarding disabled",
			method:         http.MethodPost,
			body:           `{"orderId":"o-1","tenantId":"demo"}`,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed body",
			method:         http.MethodPost,
			body:           `nope`,
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name:           "missing identifiers",
			method:         http.MethodPost,
			body:           `{}`,
			forwardErr:     services.ErrInvalidNotification,
			expectedStatus: http.StatusBadRequest,
			expectError:    true,
		},
		{
			name:           "unknown order",
			method:         http.MethodPost,
			body:           `{"orderId":"o-9","tenantId":"demo"}`,
			forwardErr:     fmt.Errorf("failed to get order: %w", models.ErrOrderNotFound),
			expectedStatus: http.StatusNotFound,
			expectError:    true,
		},
		{
			name:           "telegram failure",
			method:         http.MethodPost,
			body:           `{"orderId":"o-1","tenantId":"demo"}`,
			forwardErr:     errors.New("failed to forward notification: API returned status 400"),
			expectedStatus: http.StatusBadGateway,
			expectError:    true,
		},
		{
			name:           "method not allowed - GET",
			method:         http.MethodGet,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifications := &MockNotificationService{
				ForwardFunc: func(models.NotifyRequest) (bool, error) {
					return tt.sent, tt.forwardErr
				},
			}
			handler := NewNotifyOrderHandler(notifications)

			req := httptest.NewRequest(tt.method, "/functions/v1/notify-order", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if tt.method != http.MethodPost {
				return
			}

			var resp models.NotifyResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Sent != tt.expectedSent {
				t.Errorf("Expected sent=%v, got %v", tt.expectedSent, resp.Sent)
			}
			if (resp.Error != "") != tt.expectError {
				t.Errorf("Expected error=%v, got %q", tt.expectError, resp.Error)
			}
		})
	}
}
