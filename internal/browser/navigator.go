package browser

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/adyen/storefront-e2e/internal/models"
)

// Interstitial is a blocking modal that is not part of the flow under test
type Interstitial struct {
	Name    string
	Modal   Selector
	Dismiss Selector
}

// Navigator loads routes of the target application on a page
type Navigator struct {
	page    Page
	baseURL string
	timeout time.Duration
}

// NewNavigator creates a navigator resolving routes against baseURL
func NewNavigator(page Page, baseURL string, timeout time.Duration) *Navigator {
	return &Navigator{
		page:    page,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// Page returns the page the navigator drives
func (n *Navigator) Page() Page {
	return n.page
}

// URL resolves a route such as "/store/demo/cart" to an absolute URL
func (n *Navigator) URL(route string) string {
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}
	return n.baseURL + "/" + strings.TrimPrefix(route, "/")
}

// Goto loads route and waits for the load event. A driver error or an HTTP
// error status on the main document is a NavigationError.
func (n *Navigator) Goto(ctx context.Context, route string) error {
	if err := ctx.Err(); err != nil {
		return &models.NavigationError{Route: route, Err: err}
	}

	status, err := n.page.Goto(n.URL(route), clip(ctx, n.timeout))
	if err != nil {
		return &models.NavigationError{Route: route, Err: err}
	}
	if status >= 400 {
		return &models.NavigationError{Route: route, Status: status}
	}
	return nil
}

// Reload reloads the current page
func (n *Navigator) Reload(ctx context.Context) error {
	route := n.page.URL()
	if err := ctx.Err(); err != nil {
		return &models.NavigationError{Route: route, Err: err}
	}

	status, err := n.page.Reload(clip(ctx, n.timeout))
	if err != nil {
		return &models.NavigationError{Route: route, Err: err}
	}
	if status >= 400 {
		return &models.NavigationError{Route: route, Status: status}
	}
	return nil
}

// Back navigates one entry back in history
func (n *Navigator) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &models.NavigationError{Route: "history:back", Err: err}
	}
	if err := n.page.GoBack(clip(ctx, n.timeout)); err != nil {
		return &models.NavigationError{Route: "history:back", Err: err}
	}
	return nil
}

// DismissInterstitial waits up to timeout for the interstitial and dismisses it.
// It reports whether one was present and dismissed. Absence is not an error.
func (n *Navigator) DismissInterstitial(ctx context.Context, in Interstitial, timeout time.Duration) bool {
	modal := n.page.Locate(in.Modal)
	if err := modal.WaitFor(StateVisible, clip(ctx, timeout)); err != nil {
		return false
	}

	if err := n.page.Locate(in.Dismiss).Click(ClickOptions{Timeout: clip(ctx, timeout)}); err != nil {
		log.Printf("Failed to dismiss %s: %v", in.Name, err)
		return false
	}

	if err := modal.WaitFor(StateHidden, clip(ctx, timeout)); err != nil {
		log.Printf("%s still visible after dismissal: %v", in.Name, err)
		return false
	}
	return true
}
