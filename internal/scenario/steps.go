package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/intercept"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/money"
)

// Navigate loads route
func Navigate(route string) Step {
	return Step{
		Name:   "open " + route,
		Kind:   models.StepNavigate,
		Target: route,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			return r.Nav.Goto(ctx, route)
		}),
	}
}

// NavigateCaptured loads the route captured under name, such as a link href
func NavigateCaptured(name string) Step {
	return Step{
		Name:   "open captured " + name,
		Kind:   models.StepNavigate,
		Target: name,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			route, err := Lookup[string](r.Captures, name)
			if err != nil {
				return err
			}
			return r.Nav.Goto(ctx, route)
		}),
	}
}

// Reload reloads the current page
func Reload() Step {
	return Step{
		Name: "reload",
		Kind: models.StepNavigate,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			return r.Nav.Reload(ctx)
		}),
	}
}

// Back navigates back in history
func Back() Step {
	return Step{
		Name: "go back",
		Kind: models.StepNavigate,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			return r.Nav.Back(ctx)
		}),
	}
}

// DismissInterstitial dismisses the interstitial if it shows up. It never fails.
func DismissInterstitial(in browser.Interstitial) Step {
	return Step{
		Name:   "dismiss " + in.Name,
		Kind:   models.StepAct,
		Target: in.Modal.String(),
		run: func(ctx context.Context, r *Run, timeout time.Duration) (string, []Step, error) {
			if r.Nav.DismissInterstitial(ctx, in, timeout) {
				return "dismissed", nil, nil
			}
			return "absent", nil, nil
		},
	}
}

func assertion(name string, sel browser.Selector, check func(ctx context.Context, el *browser.Element, timeout time.Duration) error) Step {
	return Step{
		Name:   name,
		Kind:   models.StepAssert,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			return check(ctx, browser.Locate(r.Page, sel), timeout)
		}),
	}
}

// AssertVisible asserts that sel becomes visible
func AssertVisible(sel browser.Selector) Step {
	return assertion("visible "+sel.String(), sel, browser.AssertVisible)
}

// AssertHidden asserts that sel is hidden or absent
func AssertHidden(sel browser.Selector) Step {
	return assertion("hidden "+sel.String(), sel, browser.AssertHidden)
}

// AssertEnabled asserts that sel is enabled
func AssertEnabled(sel browser.Selector) Step {
	return assertion("enabled "+sel.String(), sel, browser.AssertEnabled)
}

// AssertDisabled asserts that sel is disabled
func AssertDisabled(sel browser.Selector) Step {
	return assertion("disabled "+sel.String(), sel, browser.AssertDisabled)
}

// AssertText asserts that sel's text satisfies m
func AssertText(sel browser.Selector, m browser.Matcher) Step {
	return assertion(fmt.Sprintf("text of %s is %s", sel, m), sel,
		func(ctx context.Context, el *browser.Element, timeout time.Duration) error {
			return browser.AssertText(ctx, el, m, timeout)
		})
}

// AssertCount asserts that sel matches exactly n elements
func AssertCount(sel browser.Selector, n int) Step {
	return Step{
		Name:   fmt.Sprintf("%d × %s", n, sel),
		Kind:   models.StepAssert,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			return browser.AssertCount(ctx, r.Page, sel, n, timeout)
		}),
	}
}

// AssertCapturedText asserts that sel still shows the text captured under name
func AssertCapturedText(sel browser.Selector, name string) Step {
	return Step{
		Name:   fmt.Sprintf("text of %s equals captured %s", sel, name),
		Kind:   models.StepCompare,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			want, err := Lookup[string](r.Captures, name)
			if err != nil {
				return err
			}
			return browser.AssertText(ctx, browser.Locate(r.Page, sel), browser.Equals(want), timeout)
		}),
	}
}

// AssertCapturedMoney asserts that sel shows the amount captured under name, within the configured epsilon
func AssertCapturedMoney(sel browser.Selector, name string) Step {
	return Step{
		Name:   fmt.Sprintf("amount in %s matches captured %s", sel, name),
		Kind:   models.StepCompare,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			want, err := Lookup[money.Amount](r.Captures, name)
			if err != nil {
				return err
			}
			m := browser.MoneyCloseTo(want, r.Config.Epsilon)
			return browser.AssertText(ctx, browser.Locate(r.Page, sel), m, timeout)
		}),
	}
}

func action(name string, sel browser.Selector, fn func(ctx context.Context, el *browser.Element, timeout time.Duration) error) Step {
	return Step{
		Name:   name,
		Kind:   models.StepAct,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			return fn(ctx, browser.Locate(r.Page, sel), timeout)
		}),
	}
}

// Click clicks sel once it is actionable
func Click(sel browser.Selector) Step {
	return action("click "+sel.String(), sel,
		func(ctx context.Context, el *browser.Element, timeout time.Duration) error {
			return el.Click(ctx, timeout)
		})
}

// ForceClick clicks sel even when it is disabled
func ForceClick(sel browser.Selector) Step {
	return action("force click "+sel.String(), sel,
		func(ctx context.Context, el *browser.Element, timeout time.Duration) error {
			return el.ForceClick(ctx, timeout)
		})
}

// Fill types value into the input sel
func Fill(sel browser.Selector, value string) Step {
	return action(fmt.Sprintf("fill %s", sel), sel,
		func(ctx context.Context, el *browser.Element, timeout time.Duration) error {
			return el.Fill(ctx, value, timeout)
		})
}

// CaptureText stores the trimmed text of sel under name once it is visible
func CaptureText(name string, sel browser.Selector) Step {
	return Step{
		Name:   "capture " + name,
		Kind:   models.StepCapture,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			el := browser.Locate(r.Page, sel)
			if err := browser.AssertVisible(ctx, el, timeout); err != nil {
				return err
			}
			text, err := el.Text(ctx, timeout)
			if err != nil {
				return err
			}
			return r.Captures.Set(name, strings.TrimSpace(text))
		}),
	}
}

// CaptureMoney stores the amount shown by sel under name. It waits for the
// text to parse; text that never parses fails the step.
func CaptureMoney(name string, sel browser.Selector) Step {
	return Step{
		Name:   "capture " + name,
		Kind:   models.StepCapture,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			el := browser.Locate(r.Page, sel)
			var amount money.Amount
			var last string
			err := browser.Poll(ctx, timeout, func() (bool, error) {
				text, err := el.Text(ctx, browser.PollInterval)
				if err != nil {
					return false, err
				}
				last = text
				a, err := money.Parse(text)
				if err != nil {
					return false, err
				}
				amount = a
				return true, nil
			})
			if err != nil {
				return &models.AssertionError{
					Selector: sel.String(),
					Expected: "a monetary amount",
					Actual:   last,
					Detail:   "capture " + name,
					Err:      err,
				}
			}
			return r.Captures.Set(name, amount)
		}),
	}
}

// CaptureAttribute stores attribute attr of sel under name. A missing attribute fails the step.
func CaptureAttribute(name string, sel browser.Selector, attr string) Step {
	return Step{
		Name:   "capture " + name,
		Kind:   models.StepCapture,
		Target: sel.String(),
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			v, ok, err := browser.Locate(r.Page, sel).Attribute(ctx, attr, timeout)
			if err != nil {
				return err
			}
			if !ok {
				return &models.AssertionError{Selector: sel.String(), Expected: "attribute " + attr, Detail: "attribute missing"}
			}
			return r.Captures.Set(name, v)
		}),
	}
}

// CaptureSum stores the sum of previously captured amounts under name
func CaptureSum(name string, sources ...string) Step {
	return Step{
		Name: "capture " + name,
		Kind: models.StepCapture,
		run: simple(func(_ context.Context, r *Run, _ time.Duration) error {
			var sum money.Amount
			for _, src := range sources {
				a, err := Lookup[money.Amount](r.Captures, src)
				if err != nil {
					return err
				}
				sum = sum.Add(a)
			}
			return r.Captures.Set(name, sum)
		}),
	}
}

// CompareMoney asserts that the amounts captured under a and b agree within the configured epsilon
func CompareMoney(a, b string) Step {
	return Step{
		Name:   fmt.Sprintf("%s equals %s", a, b),
		Kind:   models.StepCompare,
		Target: a + " ~ " + b,
		run: simple(func(_ context.Context, r *Run, _ time.Duration) error {
			x, err := Lookup[money.Amount](r.Captures, a)
			if err != nil {
				return err
			}
			y, err := Lookup[money.Amount](r.Captures, b)
			if err != nil {
				return err
			}
			if !x.CloseTo(y, r.Config.Epsilon) {
				return &models.AssertionError{
					Expected: fmt.Sprintf("%s ± %s (%s)", x, r.Config.Epsilon, a),
					Actual:   y.String(),
					Detail:   fmt.Sprintf("%s differs from %s", b, a),
				}
			}
			return nil
		}),
	}
}

// Arm installs an interception rule for the rest of the scenario
func Arm(rule intercept.Rule) Step {
	return Step{
		Name:   fmt.Sprintf("arm %s (%s)", rule.Name, rule.Mode),
		Kind:   models.StepIntercept,
		Target: rule.Pattern,
		run: simple(func(_ context.Context, r *Run, _ time.Duration) error {
			return r.Net.Arm(rule)
		}),
	}
}

// AwaitExchange waits for the named rule's first call and captures it under capture
func AwaitExchange(rule, capture string) Step {
	return Step{
		Name:   "await " + rule,
		Kind:   models.StepIntercept,
		Target: rule,
		run: simple(func(ctx context.Context, r *Run, timeout time.Duration) error {
			ex, err := r.Net.Await(ctx, rule, timeout)
			if err != nil {
				return err
			}
			return r.Captures.Set(capture, ex)
		}),
	}
}

// VerifyExchange runs check against the exchange captured under capture
func VerifyExchange(name, capture string, check func(ex intercept.Exchange, c *Captures) error) Step {
	return Step{
		Name:   name,
		Kind:   models.StepCompare,
		Target: capture,
		run: simple(func(_ context.Context, r *Run, _ time.Duration) error {
			ex, err := Lookup[intercept.Exchange](r.Captures, capture)
			if err != nil {
				return err
			}
			return check(ex, r.Captures)
		}),
	}
}

// Settle waits the configured settle delay for asynchronous subscriptions to
// attach. It is the only fixed wait a scenario may use.
func Settle() Step {
	return Step{
		Name: "settle",
		Kind: models.StepWait,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			timer := time.NewTimer(r.Config.SettleDelay)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-ctx.Done():
				return context.Cause(ctx)
			}
		}),
	}
}

// Do runs fn as a step of the given kind
func Do(name string, kind models.StepKind, fn func(ctx context.Context, r *Run) error) Step {
	return Step{
		Name: name,
		Kind: kind,
		run: simple(func(ctx context.Context, r *Run, _ time.Duration) error {
			return fn(ctx, r)
		}),
	}
}
