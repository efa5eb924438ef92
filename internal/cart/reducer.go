// Package cart implements the shopping cart: a pure reducer over the
// line-item sequence, a service that serializes mutations and commits a
// durable snapshot after each one, and the HTTP/WebSocket surface.
package cart

import "github.com/Raghu3-3102/E-commerce/internal/model"

// Action is one cart mutation. The concrete variants below are the only
// implementations; Apply is exhaustive over them.
type Action interface {
	actionType() string
}

// AddToCart adds one unit of a product. If a line-item for the product
// already exists its quantity is incremented, preserving insertion order;
// otherwise a new line-item with quantity 1 is appended.
type AddToCart struct {
	Product model.Product
}

// RemoveFromCart deletes the line-item with the given product id.
// Removing an absent id is a no-op, not an error.
type RemoveFromCart struct {
	ProductID int64
}

// UpdateQuantity sets a line-item's quantity. A quantity <= 0 removes the
// line-item. Updating an absent id is a no-op.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int64
}

// ClearCart empties the cart.
type ClearCart struct{}

// LoadCart replaces the entire line-item sequence, used when rehydrating
// from a durable snapshot.
type LoadCart struct {
	Items []model.CartItem
}

func (AddToCart) actionType() string      { return "add" }
func (RemoveFromCart) actionType() string { return "remove" }
func (UpdateQuantity) actionType() string { return "update_quantity" }
func (ClearCart) actionType() string      { return "clear" }
func (LoadCart) actionType() string       { return "load" }

// Apply is the pure state transition: it returns the line-item sequence
// that results from applying the action, never mutating its input. The
// returned sequence maintains the cart invariants: at most one line-item
// per product id, every quantity >= 1, insertion order preserved.
func Apply(items []model.CartItem, action Action) []model.CartItem {
	switch a := action.(type) {
	case AddToCart:
		next := make([]model.CartItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == a.Product.ID {
				next[i].Quantity++
				return next
			}
		}
		return append(next, model.CartItem{Product: a.Product, Quantity: 1})

	case RemoveFromCart:
		next := make([]model.CartItem, 0, len(items))
		for _, item := range items {
			if item.ID != a.ProductID {
				next = append(next, item)
			}
		}
		return next

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Apply(items, RemoveFromCart{ProductID: a.ProductID})
		}
		next := make([]model.CartItem, len(items))
		copy(next, items)
		for i := range next {
			if next[i].ID == a.ProductID {
				next[i].Quantity = a.Quantity
			}
		}
		return next

	case ClearCart:
		return []model.CartItem{}

	case LoadCart:
		next := make([]model.CartItem, len(a.Items))
		copy(next, a.Items)
		return next

	default:
		return items
	}
}
