// Package store defines durable persistence for the cart. Implementations
// include PostgreSQL (source of truth), Redis (durable key-value), and
// in-memory (for testing and development).
package store

import (
	"context"
	"errors"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// ErrNoCart is returned by LoadCart when no snapshot has been saved yet.
// Callers treat it as "start with an empty cart", never as a failure.
var ErrNoCart = errors.New("store: no saved cart")

// SnapshotKey is the fixed key under which the cart snapshot is stored.
// There is exactly one cart per deployment, mirroring a single device's
// local storage.
const SnapshotKey = "cart"

// Store is the cart persistence interface. The snapshot is always written
// whole: SaveCart overwrites the previous state with the full current
// line-item sequence, serialized as a JSON array of product fields plus
// quantity.
type Store interface {
	// LoadCart returns the saved line-item sequence, or ErrNoCart if no
	// snapshot exists.
	LoadCart(ctx context.Context) ([]model.CartItem, error)

	// SaveCart overwrites the snapshot with the given sequence.
	SaveCart(ctx context.Context, items []model.CartItem) error

	// ClearCart deletes the snapshot entirely.
	ClearCart(ctx context.Context) error

	// AppendEvent appends an immutable cart mutation record.
	AppendEvent(ctx context.Context, event *model.CartEvent) error

	// ListEvents returns all recorded cart mutations in append order.
	ListEvents(ctx context.Context) ([]model.CartEvent, error)
}
