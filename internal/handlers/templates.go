package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/storefront"
)

//go:embed templates/*.html
var templateFS embed.FS

// Cookies the storefront keeps in the browser
const (
	CartCookie        = "cart"
	AgeVerifiedCookie = "age_verified"
)

// ParseTemplates parses every storefront page template
func ParseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"cents": models.FormatCents,
	}

	tmpl, err := template.New("storefront").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// PageData is shared by every page template
type PageData struct {
	Title       string
	Routes      storefront.Routes
	CartCount   int
	AgeVerified bool
}

func newPageData(r *http.Request, title string) PageData {
	storeID := r.PathValue("store")
	_, err := r.Cookie(AgeVerifiedCookie)
	return PageData{
		Title:       title,
		Routes:      storefront.Routes{StoreID: storeID},
		CartCount:   readCart(r, storeID).Count(),
		AgeVerified: err == nil,
	}
}

// readCart returns the cart of storeID; a missing or damaged cookie is an empty cart
func readCart(r *http.Request, storeID string) *models.Cart {
	cookie, err := r.Cookie(CartCookie)
	if err != nil {
		return models.NewCart()
	}
	cart, err := models.ParseCart(cookie.Value)
	if err != nil {
		log.Printf("Discarding unreadable cart cookie for store %s: %v", storeID, err)
		return models.NewCart()
	}
	return cart
}

// writeCart stores the cart in a cookie scoped to storeID's pages
func writeCart(w http.ResponseWriter, storeID string, cart *models.Cart) {
	cookie := &http.Cookie{
		Name:     CartCookie,
		Value:    cart.String(),
		Path:     storefront.Routes{StoreID: storeID}.Home(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if cart.IsEmpty() {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}

func render(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
