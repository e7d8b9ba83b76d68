package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
	"github.com/adyen/storefront-e2e/internal/storefront"
)

// CartHandler shows the cart and adds products to it
type CartHandler struct {
	template *template.Template
	catalog  services.CatalogService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(tmpl *template.Template, catalog services.CatalogService) *CartHandler {
	return &CartHandler{template: tmpl, catalog: catalog}
}

// CartData represents the data passed to the cart and checkout templates
type CartData struct {
	PageData
	Lines      []models.LineItem
	TotalCents int64
}

// AddToCartResponse is returned to script-driven add requests
type AddToCartResponse struct {
	Count int `json:"count"`
}

// ServeHTTP handles GET and POST /store/{store}/cart
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.show(w, r)
	case http.MethodPost:
		h.add(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CartHandler) show(w http.ResponseWriter, r *http.Request) {
	data, err := cartData(r, h.catalog, "Cart")
	if err != nil {
		renderFailure(w, r, h.template, err)
		return
	}
	render(w, h.template, "cart.html", data)
}

// add puts one unit of the posted product in the cart. Script callers get the
// new count as JSON; plain form posts are redirected back.
func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	storeID := r.PathValue("store")
	wantsJSON := strings.Contains(r.Header.Get("Accept"), "application/json")

	product, err := h.catalog.Product(storeID, r.FormValue("product"))
	if err == nil && !product.InStock() {
		err = models.ErrOutOfStock
	}
	if err != nil {
		log.Printf("Rejected add to cart in store %s: %v", storeID, err)
		status := http.StatusNotFound
		if errors.Is(err, models.ErrOutOfStock) {
			status = http.StatusConflict
		}
		if wantsJSON {
			sendErrorResponse(w, err.Error(), status)
			return
		}
		renderFailure(w, r, h.template, err)
		return
	}

	cart := readCart(r, storeID)
	cart.Add(product.ID, 1)
	writeCart(w, storeID, cart)

	if wantsJSON {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(AddToCartResponse{Count: cart.Count()}); err != nil {
			log.Printf("Error encoding response: %v", err)
		}
		return
	}

	back := r.Referer()
	if back == "" {
		back = storefront.Routes{StoreID: storeID}.Cart()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// cartData prices the request's cart against the catalog
func cartData(r *http.Request, catalog services.CatalogService, title string) (CartData, error) {
	storeID := r.PathValue("store")
	if _, err := catalog.Products(storeID); err != nil {
		return CartData{}, err
	}
	lines, err := catalog.Lines(storeID, readCart(r, storeID))
	if err != nil {
		return CartData{}, err
	}
	return CartData{
		PageData:   newPageData(r, title),
		Lines:      lines,
		TotalCents: services.TotalCents(lines),
	}, nil
}
