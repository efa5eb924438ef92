package store

import (
	"context"
	"sync"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// MemoryStore implements Store with in-memory state. Used for testing
// and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot []model.CartItem
	saved    bool
	events   []model.CartEvent
}

// NewMemoryStore creates a new in-memory store with no saved cart.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) LoadCart(_ context.Context) ([]model.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return nil, ErrNoCart
	}
	items := make([]model.CartItem, len(s.snapshot))
	copy(items, s.snapshot)
	return items, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, items []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Store a copy to avoid external mutation.
	snapshot := make([]model.CartItem, len(items))
	copy(snapshot, items)
	s.snapshot = snapshot
	s.saved = true
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = nil
	s.saved = false
	return nil
}

func (s *MemoryStore) AppendEvent(_ context.Context, event *model.CartEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryStore) ListEvents(_ context.Context) ([]model.CartEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]model.CartEvent, len(s.events))
	copy(events, s.events)
	return events, nil
}
