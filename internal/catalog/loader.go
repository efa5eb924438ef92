package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Raghu3-3102/E-commerce/internal/metrics"
	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// Source is anything that can produce a full catalog. *Client satisfies it;
// tests substitute a stub.
type Source interface {
	Fetch(ctx context.Context) ([]model.Product, error)
}

// Loader holds the current catalog snapshot. Refresh swaps in a new
// snapshot atomically; a failed fetch keeps the previous snapshot and
// records the error so the failure can be surfaced to clients.
type Loader struct {
	source Source

	mu       sync.RWMutex
	products []model.Product
	loaded   bool
	lastErr  error
}

// NewLoader creates a loader around the given source. The catalog starts
// empty; call Refresh to populate it.
func NewLoader(source Source) *Loader {
	return &Loader{source: source}
}

// Refresh fetches the catalog and replaces the snapshot on success.
// On failure the previous snapshot (possibly empty) is kept and the error
// is recorded and returned.
func (l *Loader) Refresh(ctx context.Context) error {
	start := time.Now()
	products, err := l.source.Fetch(ctx)
	metrics.CatalogFetchDuration.Observe(time.Since(start).Seconds())

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.lastErr = err
		metrics.CatalogFetchErrors.Inc()
		slog.Error("catalog refresh failed", "err", err)
		return err
	}

	l.products = products
	l.loaded = true
	l.lastErr = nil
	metrics.CatalogProducts.Set(float64(len(products)))
	slog.Info("catalog refreshed", "products", len(products))
	return nil
}

// Products returns a copy of the current catalog snapshot.
func (l *Loader) Products() []model.Product {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Product, len(l.products))
	copy(out, l.products)
	return out
}

// Product returns the catalog entry with the given id, if present.
func (l *Loader) Product(id int64) (model.Product, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// Loaded reports whether at least one fetch has succeeded.
func (l *Loader) Loaded() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loaded
}

// Err returns the error from the most recent failed fetch, or nil if the
// last fetch succeeded.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// Categories returns the category vocabulary of the current snapshot.
func (l *Loader) Categories() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Categories(l.products)
}
