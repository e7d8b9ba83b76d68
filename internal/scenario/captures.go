package scenario

import (
	"fmt"
	"sort"

	"github.com/adyen/storefront-e2e/internal/models"
)

// Captures holds values read during one scenario run. Each name is written
// at most once, and reading a name that was never written is an error.
// Captures belong to a single run and are not safe for concurrent use.
type Captures struct {
	values map[string]any
}

// NewCaptures returns an empty capture set
func NewCaptures() *Captures {
	return &Captures{values: make(map[string]any)}
}

// Set records v under name
func (c *Captures) Set(name string, v any) error {
	if _, exists := c.values[name]; exists {
		return fmt.Errorf("%w: %q", models.ErrAlreadyCaptured, name)
	}
	c.values[name] = v
	return nil
}

// Get returns the value captured under name
func (c *Captures) Get(name string) (any, error) {
	v, ok := c.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrNotCaptured, name)
	}
	return v, nil
}

// Names lists the captured names in order
func (c *Captures) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the value captured under name as a T
func Lookup[T any](c *Captures, name string) (T, error) {
	var zero T
	v, err := c.Get(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q is %T, not %T", models.ErrCaptureType, name, v, zero)
	}
	return typed, nil
}
