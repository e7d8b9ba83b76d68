package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/services"
)

// HomeHandler handles the store landing page
type HomeHandler struct {
	template *template.Template
	catalog  services.CatalogService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(tmpl *template.Template, catalog services.CatalogService) *HomeHandler {
	return &HomeHandler{template: tmpl, catalog: catalog}
}

// HomeData represents the data passed to the home template
type HomeData struct {
	PageData
	ProductCount int
}

// ServeHTTP handles the GET /store/{store} request
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.catalog.Products(r.PathValue("store"))
	if err != nil {
		renderFailure(w, r, h.template, err)
		return
	}

	render(w, h.template, "home.html", HomeData{
		PageData:     newPageData(r, "Home"),
		ProductCount: len(products),
	})
}

// CatalogHandler handles the product listing
type CatalogHandler struct {
	template *template.Template
	catalog  services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(tmpl *template.Template, catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{template: tmpl, catalog: catalog}
}

// CatalogData represents the data passed to the catalog template
type CatalogData struct {
	PageData
	Products []models.Product
}

// ServeHTTP handles the GET /store/{store}/catalog request
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.catalog.Products(r.PathValue("store"))
	if err != nil {
		log.Printf("Error listing catalog: %v", err)
		renderFailure(w, r, h.template, err)
		return
	}

	render(w, h.template, "catalog.html", CatalogData{
		PageData: newPageData(r, "Catalog"),
		Products: products,
	})
}

// ProductHandler handles the product detail page
type ProductHandler struct {
	template *template.Template
	catalog  services.CatalogService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(tmpl *template.Template, catalog services.CatalogService) *ProductHandler {
	return &ProductHandler{template: tmpl, catalog: catalog}
}

// ProductData represents the data passed to the product template
type ProductData struct {
	PageData
	Product *models.Product
}

// ServeHTTP handles the GET /store/{store}/product/{id} request
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	product, err := h.catalog.Product(r.PathValue("store"), r.PathValue("id"))
	if err != nil {
		renderFailure(w, r, h.template, err)
		return
	}

	render(w, h.template, "product.html", ProductData{
		PageData: newPageData(r, product.Name),
		Product:  product,
	})
}
