// Package scenario sequences navigation, assertions and interception into
// business flows and runs them in isolated browser sessions.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/intercept"
	"github.com/adyen/storefront-e2e/internal/models"
)

// Scenario is a named, ordered list of steps verified as a unit
type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

// Run is the state threaded through one scenario execution
type Run struct {
	Config   *config.HarnessConfig
	Page     browser.Page
	Nav      *browser.Navigator
	Net      *intercept.Interceptor
	Captures *Captures

	results []models.StepResult
}

// stepFunc performs a step. It may return a variant label for reporting and
// steps to run next, in place, after the step itself is recorded.
type stepFunc func(ctx context.Context, r *Run, timeout time.Duration) (variant string, next []Step, err error)

// Step is one harness operation. Steps are values; modifiers return copies.
type Step struct {
	Name    string
	Kind    models.StepKind
	Target  string
	Timeout time.Duration
	Soft    bool

	run stepFunc
}

// AsSoft marks the step as soft: a failure is recorded but the scenario continues
func (s Step) AsSoft() Step {
	s.Soft = true
	return s
}

// WithTimeout overrides the step's default bound
func (s Step) WithTimeout(d time.Duration) Step {
	s.Timeout = d
	return s
}

// Named replaces the step's display name
func (s Step) Named(name string) Step {
	s.Name = name
	return s
}

// budget resolves the step's timeout. Each kind has its own default so that
// network round trips and client renders are bounded separately.
func (s Step) budget(cfg *config.HarnessConfig) time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	switch s.Kind {
	case models.StepNavigate:
		return cfg.NavigationTimeout
	case models.StepIntercept:
		return cfg.NetworkTimeout
	default:
		return cfg.AssertTimeout
	}
}

func simple(fn func(ctx context.Context, r *Run, timeout time.Duration) error) stepFunc {
	return func(ctx context.Context, r *Run, timeout time.Duration) (string, []Step, error) {
		return "", nil, fn(ctx, r, timeout)
	}
}

// Probe discovers whether the data a scenario path needs currently exists
type Probe struct {
	Name  string
	check func(ctx context.Context, r *Run, timeout time.Duration) (bool, error)
}

// Present probes for a visible element matching sel. Only an element that never
// showed up is a false probe; a driver error while querying fails the step.
func Present(name string, sel browser.Selector) Probe {
	return Probe{
		Name: name,
		check: func(ctx context.Context, r *Run, timeout time.Duration) (bool, error) {
			loc := r.Page.Locate(sel)
			var queryErr error
			err := browser.Poll(ctx, timeout, func() (bool, error) {
				visible, err := loc.IsVisible()
				queryErr = err
				return visible, err
			})
			switch {
			case err == nil:
				return true, nil
			case ctx.Err() != nil:
				return false, ctx.Err()
			case queryErr != nil:
				return false, fmt.Errorf("querying [%s]: %w", sel, queryErr)
			case errors.Is(err, browser.ErrPollTimeout):
				return false, nil
			}
			return false, err
		},
	}
}

// Check probes with an arbitrary condition over the run state
func Check(name string, fn func(ctx context.Context, r *Run) (bool, error)) Probe {
	return Probe{
		Name: name,
		check: func(ctx context.Context, r *Run, _ time.Duration) (bool, error) {
			return fn(ctx, r)
		},
	}
}

// Branch runs ifTrue when the probe holds and ifFalse otherwise. With no
// ifFalse steps, a false probe is an unmet precondition and the scenario is skipped.
func Branch(p Probe, ifTrue, ifFalse []Step) Step {
	return Step{
		Name:   "branch on " + p.Name,
		Kind:   models.StepProbe,
		Target: p.Name,
		run: func(ctx context.Context, r *Run, timeout time.Duration) (string, []Step, error) {
			ok, err := p.check(ctx, r, timeout)
			if err != nil {
				return "", nil, fmt.Errorf("probe %q: %w", p.Name, err)
			}
			if ok {
				return p.Name, ifTrue, nil
			}
			if ifFalse == nil {
				return "", nil, &models.PreconditionUnmet{Probe: p.Name, Reason: "probe did not hold and no alternative path exists"}
			}
			return "not " + p.Name, ifFalse, nil
		},
	}
}

// Require skips the scenario with reason unless the probe holds
func Require(p Probe, reason string) Step {
	return Step{
		Name:   "require " + p.Name,
		Kind:   models.StepProbe,
		Target: p.Name,
		run: func(ctx context.Context, r *Run, timeout time.Duration) (string, []Step, error) {
			ok, err := p.check(ctx, r, timeout)
			if err != nil {
				return "", nil, fmt.Errorf("probe %q: %w", p.Name, err)
			}
			if !ok {
				return "", nil, &models.PreconditionUnmet{Probe: p.Name, Reason: reason}
			}
			return p.Name, nil, nil
		},
	}
}
