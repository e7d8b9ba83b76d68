package models

import (
	"errors"
	"fmt"
	"strings"
)

// Harness errors
var (
	ErrNotCaptured      = errors.New("value was not captured")
	ErrAlreadyCaptured  = errors.New("value already captured")
	ErrCaptureType      = errors.New("captured value has unexpected type")
	ErrScenarioTimedOut = errors.New("scenario timed out")
)

// NavigationError reports a page that did not reach a stable loaded state
type NavigationError struct {
	Route  string
	Status int
	Err    error
}

func (e *NavigationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("navigation to %s failed: HTTP %d", e.Route, e.Status)
	}
	return fmt.Sprintf("navigation to %s failed: %v", e.Route, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// AssertionError reports an expected UI or value condition that was not met in time
type AssertionError struct {
	Selector string
	Expected string
	Actual   string
	Detail   string
	Err      error
}

func (e *AssertionError) Error() string {
	var b strings.Builder
	b.WriteString("assertion failed")
	if e.Selector != "" {
		fmt.Fprintf(&b, " on [%s]", e.Selector)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, actual %q)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// InterceptionError reports an armed rule that did not behave as the scenario required
type InterceptionError struct {
	Rule    string
	Pattern string
	Detail  string
	Err     error
}

func (e *InterceptionError) Error() string {
	msg := fmt.Sprintf("interception %q (%s): %s", e.Rule, e.Pattern, e.Detail)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InterceptionError) Unwrap() error {
	return e.Err
}

// PreconditionUnmet reports that the environment lacks the data a scenario path needs.
// It maps to a skipped outcome, never a failure.
type PreconditionUnmet struct {
	Probe  string
	Reason string
}

func (e *PreconditionUnmet) Error() string {
	return fmt.Sprintf("precondition %q unmet: %s", e.Probe, e.Reason)
}

// IsPreconditionUnmet reports whether err carries a PreconditionUnmet
func IsPreconditionUnmet(err error) bool {
	var p *PreconditionUnmet
	return errors.As(err, &p)
}
