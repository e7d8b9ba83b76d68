package browser

import (
	"context"
	"fmt"
	"time"
)

// Element is a located element. It is re-resolved on every use, so it stays
// valid across re-renders of the page.
type Element struct {
	sel Selector
	loc Locator
}

// Locate returns an element for sel without checking that it exists
func Locate(page Page, sel Selector) *Element {
	return &Element{sel: sel, loc: page.Locate(sel)}
}

// Find returns the element matching sel, or nil when nothing matches.
// Absence is not an error; callers decide whether it was expected.
func Find(page Page, sel Selector) (*Element, error) {
	n, err := page.Locate(sel).Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", sel, err)
	}
	if n == 0 {
		return nil, nil
	}
	return Locate(page, sel), nil
}

// FindAll returns one element per current match of sel
func FindAll(page Page, sel Selector) ([]*Element, error) {
	n, err := page.Locate(sel).Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count %s: %w", sel, err)
	}

	elements := make([]*Element, 0, n)
	for i := 0; i < n; i++ {
		elements = append(elements, Locate(page, sel.Nth(i)))
	}
	return elements, nil
}

// Selector returns the selector the element was located with
func (e *Element) Selector() Selector {
	return e.sel
}

// Text returns the element's text content
func (e *Element) Text(ctx context.Context, timeout time.Duration) (string, error) {
	text, err := e.loc.Text(clip(ctx, timeout))
	if err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", e.sel, err)
	}
	return text, nil
}

// Attribute returns the named attribute. ok is false when the attribute is absent.
func (e *Element) Attribute(ctx context.Context, name string, timeout time.Duration) (value string, ok bool, err error) {
	value, ok, err = e.loc.Attribute(name, clip(ctx, timeout))
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s of %s: %w", name, e.sel, err)
	}
	return value, ok, nil
}

// Click clicks the element once it is actionable
func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	if err := e.loc.Click(ClickOptions{Timeout: clip(ctx, timeout)}); err != nil {
		return fmt.Errorf("failed to click %s: %w", e.sel, err)
	}
	return nil
}

// ForceClick dispatches a click even if the element is disabled or covered
func (e *Element) ForceClick(ctx context.Context, timeout time.Duration) error {
	if err := e.loc.Click(ClickOptions{Force: true, Timeout: clip(ctx, timeout)}); err != nil {
		return fmt.Errorf("failed to force click %s: %w", e.sel, err)
	}
	return nil
}

// Fill replaces the value of an input
func (e *Element) Fill(ctx context.Context, value string, timeout time.Duration) error {
	if err := e.loc.Fill(value, clip(ctx, timeout)); err != nil {
		return fmt.Errorf("failed to fill %s: %w", e.sel, err)
	}
	return nil
}
