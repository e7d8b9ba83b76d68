package handlers

import (
	"html/template"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/services"
)

// CheckoutHandler handles the checkout page
type CheckoutHandler struct {
	template *template.Template
	catalog  services.CatalogService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(tmpl *template.Template, catalog services.CatalogService) *CheckoutHandler {
	return &CheckoutHandler{
		template: tmpl,
		catalog:  catalog,
	}
}

// ServeHTTP handles the checkout page request. Orders are placed from the
// page's script through the order endpoints.
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := cartData(r, h.catalog, "Checkout")
	if err != nil {
		renderFailure(w, r, h.template, err)
		return
	}

	render(w, h.template, "checkout.html", data)
}
