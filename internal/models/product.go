package models

import "errors"

// Product is a catalog entry of a store
type Product struct {
	ID         string
	StoreID    string
	Name       string
	PriceCents int64
	Stock      int
	ImageURL   string
}

// InStock returns true if at least one unit can be sold
func (p Product) InStock() bool {
	return p.Stock > 0
}

// FormattedPrice returns the unit price formatted for display
func (p Product) FormattedPrice() string {
	return FormatCents(p.PriceCents)
}

// Catalog errors
var (
	ErrStoreNotFound   = errors.New("store not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("insufficient stock")
	ErrOrderNotFound   = errors.New("order not found")
)

// NewLineItem prices quantity units of p
func NewLineItem(p Product, quantity int) LineItem {
	return LineItem{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPriceCents: p.PriceCents,
		Quantity:       quantity,
	}
}
