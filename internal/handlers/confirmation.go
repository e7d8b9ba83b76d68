package handlers

import (
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

// ConfirmationHandler handles order confirmation page
type ConfirmationHandler struct {
	template     *template.Template
	orderService services.OrderService
}

// NewConfirmationHandler creates a new confirmation handler
func NewConfirmationHandler(tmpl *template.Template, orderService services.OrderService) *ConfirmationHandler {
	return &ConfirmationHandler{
		template:     tmpl,
		orderService: orderService,
	}
}

// ConfirmationData represents the data for the confirmation template
type ConfirmationData struct {
	PageData
	Order *models.Order
}

// ServeHTTP handles the GET /store/{store}/order/{id} request
func (h *ConfirmationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	storeID := r.PathValue("store")
	orderID := r.PathValue("id")

	order, err := h.orderService.GetOrder(orderID)
	if err == nil && order.StoreID != storeID {
		err = fmt.Errorf("%w: %s in store %s", models.ErrOrderNotFound, orderID, storeID)
	}
	if err != nil {
		log.Printf("Error loading order confirmation: %v", err)
		renderFailure(w, r, h.template, err)
		return
	}

	// The order holds what was bought; the cart starts over
	writeCart(w, storeID, models.NewCart())

	data := ConfirmationData{
		PageData: newPageData(r, "Order "+order.Number),
		Order:    order,
	}
	data.CartCount = 0

	render(w, h.template, "order.html", data)
}
