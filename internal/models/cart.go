package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Cart maps product IDs to quantities, in the order products were first added
type Cart struct {
	order []string
	qty   map[string]int
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{qty: make(map[string]int)}
}

// ParseCart decodes the "id:qty|id:qty" form the storefront keeps in its cart cookie
func ParseCart(s string) (*Cart, error) {
	c := NewCart()
	if s == "" {
		return c, nil
	}
	for _, entry := range strings.Split(s, "|") {
		id, q, ok := strings.Cut(entry, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("malformed cart entry %q", entry)
		}
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidQuantity, id)
		}
		c.Add(id, n)
	}
	return c, nil
}

// Add adds n units of productID
func (c *Cart) Add(productID string, n int) {
	if _, ok := c.qty[productID]; !ok {
		c.order = append(c.order, productID)
	}
	c.qty[productID] += n
}

// Quantity returns how many units of productID the cart holds
func (c *Cart) Quantity(productID string) int {
	return c.qty[productID]
}

// ProductIDs returns the products in the order they were first added
func (c *Cart) ProductIDs() []string {
	return append([]string(nil), c.order...)
}

// Count returns the total number of units
func (c *Cart) Count() int {
	n := 0
	for _, q := range c.qty {
		n += q
	}
	return n
}

// IsEmpty reports whether the cart holds nothing
func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// String encodes the cart for its cookie
func (c *Cart) String() string {
	parts := make([]string, len(c.order))
	for i, id := range c.order {
		parts[i] = fmt.Sprintf("%s:%d", id, c.qty[id])
	}
	return strings.Join(parts, "|")
}
