// Package browser is the navigation and element layer scenarios drive.
//
// It defines the small driver surface the harness needs (Page, Locator, Route)
// and implements navigation, element lookup and polling assertions on top of it.
// The playwright-go adapter in playwright.go is the production implementation.
package browser

import (
	"context"
	"regexp"
	"time"
)

// WaitState is the element state Locator.WaitFor waits for
type WaitState int

const (
	StateVisible WaitState = iota
	StateHidden
	StateAttached
)

// ClickOptions controls a click
type ClickOptions struct {
	// Force skips actionability checks, so disabled controls receive the click
	Force   bool
	Timeout time.Duration
}

// Locator resolves to zero or more elements each time it is used
type Locator interface {
	Count() (int, error)
	WaitFor(state WaitState, timeout time.Duration) error
	IsVisible() (bool, error)
	IsEnabled(timeout time.Duration) (bool, error)
	Text(timeout time.Duration) (string, error)
	Attribute(name string, timeout time.Duration) (value string, ok bool, err error)
	Click(opts ClickOptions) error
	Fill(value string, timeout time.Duration) error
}

// Page is one browser tab
type Page interface {
	// Goto loads url and returns the main document's HTTP status
	Goto(url string, timeout time.Duration) (int, error)
	Reload(timeout time.Duration) (int, error)
	GoBack(timeout time.Duration) error
	URL() string
	Locate(sel Selector) Locator
	Route(pattern *regexp.Regexp, handler RouteHandler) error
	Unroute(pattern *regexp.Regexp) error
	Screenshot(path string) error
	Close() error
}

// Response is an HTTP response observed or fabricated at the route layer
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Route is an intercepted outbound request. Exactly one of Continue, Fulfill or Abort
// must be called for the request to complete.
type Route interface {
	Method() string
	URL() string
	RequestBody() ([]byte, error)
	// Fetch performs the request against its real destination
	Fetch() (*Response, error)
	// Continue lets the request proceed to its destination unobserved
	Continue() error
	Fulfill(resp *Response) error
	Abort() error
}

// RouteHandler receives every request matching an installed pattern
type RouteHandler func(Route)

// Session is an isolated browser context with a single page
type Session interface {
	Page() Page
	Close() error
}

// SessionFactory opens isolated sessions, one per scenario
type SessionFactory interface {
	NewSession(ctx context.Context) (Session, error)
}
