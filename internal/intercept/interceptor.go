package intercept

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/models"
)

type armedRule struct {
	Rule
	re        *regexp.Regexp
	exchanges []Exchange
	matched   chan struct{}
}

// Interceptor owns the rules armed on one page. Rules are matched in arming
// order and the first match handles the call.
type Interceptor struct {
	page browser.Page

	mu     sync.Mutex
	rules  []*armedRule
	byName map[string]*armedRule
	closed bool
}

// New creates an interceptor for page
func New(page browser.Page) *Interceptor {
	return &Interceptor{
		page:   page,
		byName: make(map[string]*armedRule),
	}
}

// Arm installs r. Every matching call made after Arm returns passes through it.
func (i *Interceptor) Arm(r Rule) error {
	if r.Name == "" {
		return fmt.Errorf("rule name is required")
	}
	if r.Mode == nil {
		return fmt.Errorf("rule %q has no mode", r.Name)
	}
	re, err := CompileGlob(r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}

	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return fmt.Errorf("interceptor closed")
	}
	if _, dup := i.byName[r.Name]; dup {
		i.mu.Unlock()
		return fmt.Errorf("rule %q already armed", r.Name)
	}
	armed := &armedRule{Rule: r, re: re, matched: make(chan struct{})}
	i.rules = append(i.rules, armed)
	i.byName[r.Name] = armed
	i.mu.Unlock()

	if err := i.page.Route(re, i.handle); err != nil {
		i.mu.Lock()
		delete(i.byName, r.Name)
		kept := i.rules[:0]
		for _, other := range i.rules {
			if other != armed {
				kept = append(kept, other)
			}
		}
		i.rules = kept
		i.mu.Unlock()
		return &models.InterceptionError{Rule: r.Name, Pattern: r.Pattern, Detail: "failed to install route", Err: err}
	}
	return nil
}

func (i *Interceptor) match(url string) *armedRule {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	for _, r := range i.rules {
		if r.re.MatchString(url) {
			return r
		}
	}
	return nil
}

func (i *Interceptor) record(r *armedRule, ex Exchange) {
	i.mu.Lock()
	defer i.mu.Unlock()
	r.exchanges = append(r.exchanges, ex)
	if len(r.exchanges) == 1 {
		close(r.matched)
	}
}

func (i *Interceptor) handle(route browser.Route) {
	r := i.match(route.URL())
	if r == nil {
		if err := route.Continue(); err != nil {
			log.Printf("Failed to continue %s: %v", route.URL(), err)
		}
		return
	}

	body, err := route.RequestBody()
	if err != nil {
		log.Printf("Failed to read request body for %s: %v", r.Name, err)
	}
	ex := Exchange{
		Rule:        r.Name,
		Method:      route.Method(),
		URL:         route.URL(),
		RequestBody: body,
		At:          time.Now(),
	}

	var resp *browser.Response
	switch m := r.Mode.(type) {
	case Substitute:
		resp = m.response()
		ex.Substituted = true
	case PassThrough:
		resp, err = route.Fetch()
		if err != nil {
			ex.Err = err.Error()
			i.record(r, ex)
			log.Printf("Intercepted %s %s (%s): fetch failed: %v", ex.Method, ex.URL, r.Name, err)
			if abortErr := route.Abort(); abortErr != nil {
				log.Printf("Failed to abort %s: %v", ex.URL, abortErr)
			}
			return
		}
	default:
		log.Printf("Rule %s has unsupported mode %T; continuing", r.Name, r.Mode)
		if err := route.Continue(); err != nil {
			log.Printf("Failed to continue %s: %v", ex.URL, err)
		}
		return
	}

	ex.Status = resp.Status
	ex.ResponseBody = resp.Body
	i.record(r, ex)
	log.Printf("Intercepted %s %s (%s, %s) -> %d", ex.Method, ex.URL, r.Name, r.Mode, ex.Status)

	if err := route.Fulfill(resp); err != nil {
		log.Printf("Failed to fulfill %s: %v", ex.URL, err)
	}
}

// Exchanges returns the calls matched by the named rule so far
func (i *Interceptor) Exchanges(name string) []Exchange {
	i.mu.Lock()
	defer i.mu.Unlock()
	r, ok := i.byName[name]
	if !ok {
		return nil
	}
	return append([]Exchange(nil), r.exchanges...)
}

// Await blocks until the named rule has matched a call and returns the first one
func (i *Interceptor) Await(ctx context.Context, name string, timeout time.Duration) (Exchange, error) {
	i.mu.Lock()
	r, ok := i.byName[name]
	i.mu.Unlock()
	if !ok {
		return Exchange{}, &models.InterceptionError{Rule: name, Detail: "rule not armed"}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-r.matched:
	case <-timer.C:
		return Exchange{}, &models.InterceptionError{
			Rule:    name,
			Pattern: r.Pattern,
			Detail:  fmt.Sprintf("no matching call within %s", timeout),
		}
	case <-ctx.Done():
		return Exchange{}, &models.InterceptionError{Rule: name, Pattern: r.Pattern, Detail: "cancelled", Err: ctx.Err()}
	}

	return i.Exchanges(name)[0], nil
}

// Verify reports every required rule that never matched
func (i *Interceptor) Verify() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	var errs []error
	for _, r := range i.rules {
		if r.Required && len(r.exchanges) == 0 {
			errs = append(errs, &models.InterceptionError{
				Rule:    r.Name,
				Pattern: r.Pattern,
				Detail:  "armed but never matched",
			})
		}
	}
	return errors.Join(errs...)
}

// Close removes every installed route. Calls already in flight finish normally.
func (i *Interceptor) Close() error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return nil
	}
	i.closed = true
	rules := append([]*armedRule(nil), i.rules...)
	i.mu.Unlock()

	var errs []error
	for _, r := range rules {
		if err := i.page.Unroute(r.re); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove route %q: %w", r.Name, err))
		}
	}
	return errors.Join(errs...)
}
