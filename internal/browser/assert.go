package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/models"
)

// AssertVisible waits up to timeout for el to become visible
func AssertVisible(ctx context.Context, el *Element, timeout time.Duration) error {
	return assertState(ctx, el, timeout, "visible", visibility(el))
}

// AssertHidden waits up to timeout for el to be hidden or detached
func AssertHidden(ctx context.Context, el *Element, timeout time.Duration) error {
	return assertState(ctx, el, timeout, "hidden", visibility(el))
}

// AssertEnabled waits up to timeout for el to be enabled
func AssertEnabled(ctx context.Context, el *Element, timeout time.Duration) error {
	return assertState(ctx, el, timeout, "enabled", enablement(el))
}

// AssertDisabled waits up to timeout for el to be disabled
func AssertDisabled(ctx context.Context, el *Element, timeout time.Duration) error {
	return assertState(ctx, el, timeout, "disabled", enablement(el))
}

// AssertText waits up to timeout for el's text to satisfy m
func AssertText(ctx context.Context, el *Element, m Matcher, timeout time.Duration) error {
	var actual string
	err := Poll(ctx, timeout, func() (bool, error) {
		text, err := el.loc.Text(PollInterval)
		if err != nil {
			return false, err
		}
		actual = text
		return m.Match(text)
	})
	if err != nil {
		return &models.AssertionError{
			Selector: el.sel.String(),
			Expected: m.String(),
			Actual:   actual,
			Detail:   "text mismatch",
			Err:      err,
		}
	}
	return nil
}

// AssertCount waits up to timeout for sel to match exactly want elements
func AssertCount(ctx context.Context, page Page, sel Selector, want int, timeout time.Duration) error {
	loc := page.Locate(sel)
	got := -1
	err := Poll(ctx, timeout, func() (bool, error) {
		n, err := loc.Count()
		if err != nil {
			return false, err
		}
		got = n
		return n == want, nil
	})
	if err != nil {
		return &models.AssertionError{
			Selector: sel.String(),
			Expected: fmt.Sprintf("%d matches", want),
			Actual:   fmt.Sprintf("%d matches", got),
			Detail:   "count mismatch",
			Err:      err,
		}
	}
	return nil
}

func visibility(el *Element) func() (string, error) {
	return func() (string, error) {
		visible, err := el.loc.IsVisible()
		if err != nil {
			return "", err
		}
		if visible {
			return "visible", nil
		}
		return "hidden", nil
	}
}

func enablement(el *Element) func() (string, error) {
	return func() (string, error) {
		enabled, err := el.loc.IsEnabled(PollInterval)
		if err != nil {
			return "", err
		}
		if enabled {
			return "enabled", nil
		}
		return "disabled", nil
	}
}

func assertState(ctx context.Context, el *Element, timeout time.Duration, want string, probe func() (string, error)) error {
	var actual string
	err := Poll(ctx, timeout, func() (bool, error) {
		state, err := probe()
		if err != nil {
			return false, err
		}
		actual = state
		return state == want, nil
	})
	if err != nil {
		return &models.AssertionError{
			Selector: el.sel.String(),
			Expected: want,
			Actual:   actual,
			Detail:   "element state",
			Err:      err,
		}
	}
	return nil
}
