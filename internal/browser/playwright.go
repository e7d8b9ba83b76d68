package browser

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// LaunchOptions selects and configures the browser engine
type LaunchOptions struct {
	Browser  string
	Headless bool
	SlowMo   time.Duration
}

// Launcher owns one playwright driver and one browser process.
// Sessions opened from it are isolated browser contexts.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// Launch starts playwright and the configured browser
func Launch(opts LaunchOptions) (*Launcher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch opts.Browser {
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		browserType = pw.Chromium
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(float64(opts.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch %s: %w", opts.Browser, err)
	}

	return &Launcher{pw: pw, browser: b}, nil
}

// NewSession opens an isolated browser context with one page
func (l *Launcher) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := l.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	return &pwSession{ctx: bctx, page: &pwPage{page: page}}, nil
}

// Close shuts down the browser and the driver
func (l *Launcher) Close() error {
	if err := l.browser.Close(); err != nil {
		log.Printf("Failed to close browser: %v", err)
	}
	if err := l.pw.Stop(); err != nil {
		return fmt.Errorf("could not stop playwright: %w", err)
	}
	return nil
}

type pwSession struct {
	ctx       playwright.BrowserContext
	page      *pwPage
	closeOnce sync.Once
	closeErr  error
}

func (s *pwSession) Page() Page {
	return s.page
}

func (s *pwSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.ctx.Close()
	})
	return s.closeErr
}

func ms(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

type pwPage struct {
	page playwright.Page
}

func (p *pwPage) Goto(url string, timeout time.Duration) (int, error) {
	resp, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   ms(timeout),
	})
	if err != nil {
		return 0, err
	}
	if resp == nil {
		return 0, nil
	}
	return resp.Status(), nil
}

func (p *pwPage) Reload(timeout time.Duration) (int, error) {
	resp, err := p.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   ms(timeout),
	})
	if err != nil {
		return 0, err
	}
	if resp == nil {
		return 0, nil
	}
	return resp.Status(), nil
}

func (p *pwPage) GoBack(timeout time.Duration) error {
	_, err := p.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   ms(timeout),
	})
	return err
}

func (p *pwPage) URL() string {
	return p.page.URL()
}

func (p *pwPage) Locate(sel Selector) Locator {
	var loc playwright.Locator
	for i, part := range sel.parts {
		var next playwright.Locator
		switch {
		case i == 0 && part.kind == kindTestID:
			next = p.page.GetByTestId(part.value)
		case i == 0 && part.kind == kindText:
			next = p.page.GetByText(part.value)
		case i == 0:
			next = p.page.Locator(part.value)
		case part.kind == kindTestID:
			next = loc.GetByTestId(part.value)
		case part.kind == kindText:
			next = loc.GetByText(part.value)
		default:
			next = loc.Locator(part.value)
		}
		if part.nth >= 0 {
			next = next.Nth(part.nth)
		}
		loc = next
	}
	if loc == nil {
		loc = p.page.Locator(":root")
	}
	return &pwLocator{loc: loc}
}

func (p *pwPage) Route(pattern *regexp.Regexp, handler RouteHandler) error {
	return p.page.Route(pattern, func(r playwright.Route) {
		handler(&pwRoute{route: r})
	})
}

func (p *pwPage) Unroute(pattern *regexp.Regexp) error {
	return p.page.Unroute(pattern)
}

func (p *pwPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

func (p *pwPage) Close() error {
	return p.page.Close()
}

type pwLocator struct {
	loc playwright.Locator
}

func (l *pwLocator) Count() (int, error) {
	return l.loc.Count()
}

func (l *pwLocator) WaitFor(state WaitState, timeout time.Duration) error {
	s := playwright.WaitForSelectorStateVisible
	switch state {
	case StateHidden:
		s = playwright.WaitForSelectorStateHidden
	case StateAttached:
		s = playwright.WaitForSelectorStateAttached
	}
	return l.loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   s,
		Timeout: ms(timeout),
	})
}

func (l *pwLocator) IsVisible() (bool, error) {
	return l.loc.IsVisible()
}

func (l *pwLocator) IsEnabled(timeout time.Duration) (bool, error) {
	return l.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: ms(timeout)})
}

func (l *pwLocator) Text(timeout time.Duration) (string, error) {
	return l.loc.TextContent(playwright.LocatorTextContentOptions{Timeout: ms(timeout)})
}

func (l *pwLocator) Attribute(name string, timeout time.Duration) (string, bool, error) {
	v, err := l.loc.Evaluate(`(el, name) => el.getAttribute(name)`, name,
		playwright.LocatorEvaluateOptions{Timeout: ms(timeout)})
	if err != nil {
		return "", false, err
	}
	s, ok := v.(string)
	return s, ok, nil
}

func (l *pwLocator) Click(opts ClickOptions) error {
	return l.loc.Click(playwright.LocatorClickOptions{
		Force:   playwright.Bool(opts.Force),
		Timeout: ms(opts.Timeout),
	})
}

func (l *pwLocator) Fill(value string, timeout time.Duration) error {
	return l.loc.Fill(value, playwright.LocatorFillOptions{Timeout: ms(timeout)})
}

type pwRoute struct {
	route playwright.Route
}

func (r *pwRoute) Method() string {
	return r.route.Request().Method()
}

func (r *pwRoute) URL() string {
	return r.route.Request().URL()
}

func (r *pwRoute) RequestBody() ([]byte, error) {
	return r.route.Request().PostDataBuffer()
}

func (r *pwRoute) Fetch() (*Response, error) {
	resp, err := r.route.Fetch()
	if err != nil {
		return nil, err
	}
	body, err := resp.Body()
	if err != nil {
		return nil, fmt.Errorf("failed to read fetched body: %w", err)
	}
	return &Response{
		Status:  resp.Status(),
		Headers: resp.Headers(),
		Body:    body,
	}, nil
}

func (r *pwRoute) Continue() error {
	return r.route.Continue()
}

func (r *pwRoute) Fulfill(resp *Response) error {
	opts := playwright.RouteFulfillOptions{
		Status:  playwright.Int(resp.Status),
		Headers: resp.Headers,
		Body:    string(resp.Body),
	}
	if ct, ok := resp.Headers["content-type"]; ok {
		opts.ContentType = playwright.String(ct)
	}
	return r.route.Fulfill(opts)
}

func (r *pwRoute) Abort() error {
	return r.route.Abort()
}
