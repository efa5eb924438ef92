// Package model defines the core domain types shared across the storefront.
// All monetary values use shopspring/decimal — never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rating is the aggregate customer rating carried on a catalog product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry as returned by the remote product API.
// Read-only to this service: products are never created or mutated here.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Rating      Rating          `json:"rating"`
}

// CartItem is one line-item in the cart: a product plus its quantity.
// Invariants (maintained by the cart reducer): at most one line-item per
// product id, and Quantity >= 1 — a decrement to zero removes the item.
type CartItem struct {
	Product
	Quantity int64 `json:"quantity"`
}

// Subtotal returns price × quantity for this line-item.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// CartEvent is an append-only record of one cart mutation.
// Once written, these are never modified or deleted.
type CartEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`       // "add", "remove", "update_quantity", "clear"
	ProductID int64     `json:"product_id"` // zero for "clear"
	Quantity  int64     `json:"quantity"`   // resulting quantity; zero for removals
	Timestamp time.Time `json:"timestamp"`
}
