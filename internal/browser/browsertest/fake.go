// Package browsertest provides an in-memory Page for exercising harness code
// without a browser.
package browsertest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
)

// ErrNotFound is returned by single-element operations on a selector with no match
var ErrNotFound = errors.New("element not found")

// Element is the mutable state of one fake DOM element
type Element struct {
	Text    string
	Value   string
	Visible bool
	Enabled bool
	Attrs   map[string]string
	// OnClick runs after a successful click, outside the page lock
	OnClick func(force bool)
}

// Backend answers requests that are not intercepted or that are fetched by a route
type Backend func(method, url string, body []byte) *browser.Response

type installedRoute struct {
	pattern *regexp.Regexp
	handler browser.RouteHandler
}

// Page is a fake browser.Page. Elements are keyed by Selector.String().
type Page struct {
	mu       sync.Mutex
	elements map[string][]*Element
	routes   []installedRoute
	history  []string
	fetches  map[string]int

	// Statuses maps URLs to the document status Goto reports; default 200
	Statuses map[string]int
	// GotoErr, when set, is returned by every Goto
	GotoErr error
	// OnGoto runs after every Goto and Reload with the loaded URL
	OnGoto func(url string)
	// Backend serves pass-through and unintercepted requests
	Backend Backend
	Closed  bool
	// Broken maps selector strings to the driver error every query on them returns
	Broken map[string]error
}

// NewPage returns an empty fake page
func NewPage() *Page {
	return &Page{
		elements: make(map[string][]*Element),
		fetches:  make(map[string]int),
		Statuses: make(map[string]int),
		Broken:   make(map[string]error),
	}
}

// Set replaces the elements matching sel
func (p *Page) Set(sel browser.Selector, els ...*Element) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements[sel.String()] = els
}

// Reset removes every element, as a new document would
func (p *Page) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.elements = make(map[string][]*Element)
}

// Update mutates the i-th element matching sel under the page lock
func (p *Page) Update(sel browser.Selector, i int, fn func(*Element)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if els := p.elements[sel.String()]; i < len(els) {
		fn(els[i])
	}
}

// Visits returns every URL loaded so far
func (p *Page) Visits() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.history...)
}

// Fetches returns how many times url reached the backend
func (p *Page) Fetches(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches[url]
}

// Request simulates the page issuing a request. The newest matching route
// handles it; without one the backend answers directly.
func (p *Page) Request(method, url string, body []byte) (*browser.Response, error) {
	p.mu.Lock()
	var handler browser.RouteHandler
	for i := len(p.routes) - 1; i >= 0; i-- {
		if p.routes[i].pattern.MatchString(url) {
			handler = p.routes[i].handler
			break
		}
	}
	p.mu.Unlock()

	if handler == nil {
		return p.fetch(method, url, body), nil
	}

	r := &Route{page: p, method: method, url: url, body: body, done: make(chan struct{})}
	go handler(r)

	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("route for %s was never completed", url)
	}
	if r.aborted {
		return nil, fmt.Errorf("request to %s aborted", url)
	}
	return r.fulfilled, nil
}

func (p *Page) fetch(method, url string, body []byte) *browser.Response {
	p.mu.Lock()
	p.fetches[url]++
	backend := p.Backend
	p.mu.Unlock()

	if backend == nil {
		return &browser.Response{Status: 404}
	}
	return backend(method, url, body)
}

func (p *Page) Goto(url string, _ time.Duration) (int, error) {
	if p.GotoErr != nil {
		return 0, p.GotoErr
	}

	p.mu.Lock()
	p.history = append(p.history, url)
	status, ok := p.Statuses[url]
	p.mu.Unlock()

	if p.OnGoto != nil {
		p.OnGoto(url)
	}
	if !ok {
		status = 200
	}
	return status, nil
}

func (p *Page) Reload(_ time.Duration) (int, error) {
	url := p.URL()
	if p.OnGoto != nil {
		p.OnGoto(url)
	}
	return 200, nil
}

func (p *Page) GoBack(_ time.Duration) error {
	p.mu.Lock()
	if len(p.history) < 2 {
		p.mu.Unlock()
		return errors.New("no previous page")
	}
	p.history = p.history[:len(p.history)-1]
	url := p.history[len(p.history)-1]
	p.mu.Unlock()

	if p.OnGoto != nil {
		p.OnGoto(url)
	}
	return nil
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.history) == 0 {
		return "about:blank"
	}
	return p.history[len(p.history)-1]
}

func (p *Page) Locate(sel browser.Selector) browser.Locator {
	return &Locator{page: p, key: sel.String()}
}

func (p *Page) Route(pattern *regexp.Regexp, handler browser.RouteHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes = append(p.routes, installedRoute{pattern: pattern, handler: handler})
	return nil
}

func (p *Page) Unroute(pattern *regexp.Regexp) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.routes[:0]
	for _, r := range p.routes {
		if r.pattern.String() != pattern.String() {
			kept = append(kept, r)
		}
	}
	p.routes = kept
	return nil
}

// Routes returns the number of installed routes
func (p *Page) Routes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.routes)
}

func (p *Page) Screenshot(path string) error {
	return os.WriteFile(path, []byte("\x89PNG fake"), 0o644)
}

func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

var nthSuffix = regexp.MustCompile(`^(.*) >> nth=(\d+)$`)

// resolve returns the elements for key; callers hold p.mu
func (p *Page) resolve(key string) []*Element {
	if els, ok := p.elements[key]; ok {
		return els
	}
	if m := nthSuffix.FindStringSubmatch(key); m != nil {
		i, _ := strconv.Atoi(m[2])
		if els := p.elements[m[1]]; i < len(els) {
			return els[i : i+1]
		}
	}
	return nil
}

// Locator is a fake browser.Locator. State is read at call time; it never waits.
type Locator struct {
	page *Page
	key  string
}

func (l *Locator) one() (*Element, error) {
	if err := l.page.Broken[l.key]; err != nil {
		return nil, err
	}
	els := l.page.resolve(l.key)
	switch len(els) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, l.key)
	case 1:
		return els[0], nil
	default:
		return nil, fmt.Errorf("strict mode violation: %s resolved to %d elements", l.key, len(els))
	}
}

func (l *Locator) Count() (int, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	if err := l.page.Broken[l.key]; err != nil {
		return 0, err
	}
	return len(l.page.resolve(l.key)), nil
}

func (l *Locator) WaitFor(state browser.WaitState, timeout time.Duration) error {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	if err := l.page.Broken[l.key]; err != nil {
		return err
	}

	els := l.page.resolve(l.key)
	visible := len(els) > 0 && els[0].Visible
	switch {
	case state == browser.StateVisible && visible,
		state == browser.StateHidden && !visible,
		state == browser.StateAttached && len(els) > 0:
		return nil
	}
	return fmt.Errorf("timeout %dms exceeded waiting for %s", timeout.Milliseconds(), l.key)
}

func (l *Locator) IsVisible() (bool, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	if err := l.page.Broken[l.key]; err != nil {
		return false, err
	}
	els := l.page.resolve(l.key)
	return len(els) > 0 && els[0].Visible, nil
}

func (l *Locator) IsEnabled(_ time.Duration) (bool, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, err := l.one()
	if err != nil {
		return false, err
	}
	return el.Enabled, nil
}

func (l *Locator) Text(_ time.Duration) (string, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, err := l.one()
	if err != nil {
		return "", err
	}
	return el.Text, nil
}

func (l *Locator) Attribute(name string, _ time.Duration) (string, bool, error) {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, err := l.one()
	if err != nil {
		return "", false, err
	}
	v, ok := el.Attrs[name]
	return v, ok, nil
}

func (l *Locator) Click(opts browser.ClickOptions) error {
	l.page.mu.Lock()
	el, err := l.one()
	if err == nil && !opts.Force && (!el.Enabled || !el.Visible) {
		err = fmt.Errorf("element %s is not actionable", l.key)
	}
	var onClick func(bool)
	if err == nil {
		onClick = el.OnClick
	}
	l.page.mu.Unlock()

	if err != nil {
		return err
	}
	if onClick != nil {
		onClick(opts.Force)
	}
	return nil
}

func (l *Locator) Fill(value string, _ time.Duration) error {
	l.page.mu.Lock()
	defer l.page.mu.Unlock()
	el, err := l.one()
	if err != nil {
		return err
	}
	if !el.Enabled {
		return fmt.Errorf("element %s is not editable", l.key)
	}
	el.Value = value
	return nil
}

// Route is a fake browser.Route
type Route struct {
	page   *Page
	method string
	url    string
	body   []byte

	once      sync.Once
	done      chan struct{}
	fulfilled *browser.Response
	aborted   bool
}

func (r *Route) Method() string { return r.method }

func (r *Route) URL() string { return r.url }

func (r *Route) RequestBody() ([]byte, error) { return r.body, nil }

func (r *Route) Fetch() (*browser.Response, error) {
	return r.page.fetch(r.method, r.url, r.body), nil
}

func (r *Route) Continue() error {
	return r.Fulfill(r.page.fetch(r.method, r.url, r.body))
}

func (r *Route) Fulfill(resp *browser.Response) error {
	handled := false
	r.once.Do(func() {
		r.fulfilled = resp
		handled = true
		close(r.done)
	})
	if !handled {
		return errors.New("route already handled")
	}
	return nil
}

func (r *Route) Abort() error {
	handled := false
	r.once.Do(func() {
		r.aborted = true
		handled = true
		close(r.done)
	})
	if !handled {
		return errors.New("route already handled")
	}
	return nil
}

// Session wraps a fake page as a browser.Session
type Session struct {
	P      *Page
	closed bool
}

func (s *Session) Page() browser.Page { return s.P }

func (s *Session) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether the session was released
func (s *Session) Closed() bool { return s.closed }

// Factory opens sessions from New, one per call
type Factory struct {
	mu       sync.Mutex
	New      func() *Page
	Sessions []*Session
	Err      error
}

func (f *Factory) NewSession(ctx context.Context) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	s := &Session{P: f.New()}
	f.mu.Lock()
	f.Sessions = append(f.Sessions, s)
	f.mu.Unlock()
	return s, nil
}
