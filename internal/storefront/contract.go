// Package storefront holds what the harness knows about the storefront under
// test: its routes, the test identifiers it promises to render, its backend
// endpoints and the scenarios that exercise them.
package storefront

import (
	"net/url"

	"github.com/adyen/storefront-e2e/internal/browser"
)

// Routes builds page paths for one store
type Routes struct {
	StoreID string
}

func (r Routes) base() string {
	return "/store/" + url.PathEscape(r.StoreID)
}

// Home is the store landing page
func (r Routes) Home() string {
	return r.base()
}

// Catalog lists every product of the store
func (r Routes) Catalog() string {
	return r.base() + "/catalog"
}

// Product is the detail page of one product
func (r Routes) Product(productID string) string {
	return r.base() + "/product/" + url.PathEscape(productID)
}

// Cart shows the current cart
func (r Routes) Cart() string {
	return r.base() + "/cart"
}

// Checkout collects customer details and places the order
func (r Routes) Checkout() string {
	return r.base() + "/checkout"
}

// Order is the confirmation page of a placed order
func (r Routes) Order(orderID string) string {
	return r.base() + "/order/" + url.PathEscape(orderID)
}

// Test identifiers the storefront renders as data-testid attributes
const (
	TestIDProductCard    = "product-card"
	TestIDProductLink    = "product-link"
	TestIDProductName    = "product-name"
	TestIDProductPrice   = "product-price"
	TestIDSoldOutBadge   = "sold-out-badge"
	TestIDAddToCart      = "add-to-cart"
	TestIDCartCount      = "cart-count"
	TestIDCartLine       = "cart-line"
	TestIDCartSubtotal   = "cart-subtotal"
	TestIDCheckoutTotal  = "checkout-total"
	TestIDCustomerName   = "customer-name"
	TestIDCustomerPhone  = "customer-phone"
	TestIDPlaceOrder     = "place-order"
	TestIDOrderNumber    = "order-number"
	TestIDOrderTotal     = "order-total"
	TestIDContactLink    = "contact-link"
	TestIDAgeGate        = "age-gate"
	TestIDAgeGateConfirm = "age-gate-confirm"
	TestIDCheckoutLink   = "checkout-link"
	TestIDOrderError     = "order-error"
)

var (
	ProductCard   = browser.ByTestID(TestIDProductCard)
	CartCount     = browser.ByTestID(TestIDCartCount)
	CartLine      = browser.ByTestID(TestIDCartLine)
	CartSubtotal  = browser.ByTestID(TestIDCartSubtotal)
	CheckoutTotal = browser.ByTestID(TestIDCheckoutTotal)
	CustomerName  = browser.ByTestID(TestIDCustomerName)
	CustomerPhone = browser.ByTestID(TestIDCustomerPhone)
	PlaceOrder    = browser.ByTestID(TestIDPlaceOrder)
	OrderNumber   = browser.ByTestID(TestIDOrderNumber)
	OrderTotal    = browser.ByTestID(TestIDOrderTotal)
	ContactLink   = browser.ByTestID(TestIDContactLink)
	OrderError    = browser.ByTestID(TestIDOrderError)

	// AddToCart is the add control of a product detail page
	AddToCart = browser.ByTestID(TestIDAddToCart)
	// SoldOutBadge is the unavailability marker of a product detail page
	SoldOutBadge = browser.ByTestID(TestIDSoldOutBadge)

	// SoldOutCards are catalog cards carrying a sold-out badge
	SoldOutCards = browser.ByCSS(`[data-testid="product-card"]:has([data-testid="sold-out-badge"])`)
	// AvailableCards are catalog cards without one
	AvailableCards = browser.ByCSS(`[data-testid="product-card"]:not(:has([data-testid="sold-out-badge"]))`)

	// AgeGate is the age verification modal shown on first visit
	AgeGate = browser.Interstitial{
		Name:    "age gate",
		Modal:   browser.ByTestID(TestIDAgeGate),
		Dismiss: browser.ByTestID(TestIDAgeGateConfirm),
	}
)

// In returns the element with test identifier id inside card
func In(card browser.Selector, id string) browser.Selector {
	return card.Child(browser.ByTestID(id))
}
