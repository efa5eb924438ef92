package store

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

func item(id int64, title string, price float64, qty int64) model.CartItem {
	return model.CartItem{
		Product: model.Product{
			ID:       id,
			Title:    title,
			Price:    decimal.NewFromFloat(price),
			Category: "test",
		},
		Quantity: qty,
	}
}

func TestMemoryStore_LoadBeforeSave(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.LoadCart(context.Background()); err != ErrNoCart {
		t.Errorf("expected ErrNoCart, got %v", err)
	}
}

func TestMemoryStore_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	items := []model.CartItem{
		item(1, "Red Shoe", 10, 2),
		item(2, "Blue Hat", 5, 1),
	}
	if err := s.SaveCart(ctx, items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.LoadCart(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(loaded, items) {
		t.Errorf("round-trip mismatch:\nsaved:  %+v\nloaded: %+v", items, loaded)
	}
}

func TestMemoryStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.SaveCart(ctx, []model.CartItem{item(1, "Red Shoe", 10, 1)})
	s.SaveCart(ctx, []model.CartItem{item(2, "Blue Hat", 5, 3)})

	loaded, _ := s.LoadCart(ctx)
	if len(loaded) != 1 || loaded[0].ID != 2 {
		t.Errorf("save should overwrite the full snapshot, got %+v", loaded)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	s.SaveCart(ctx, []model.CartItem{item(1, "Red Shoe", 10, 1)})
	if err := s.ClearCart(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.LoadCart(ctx); err != ErrNoCart {
		t.Errorf("expected ErrNoCart after clear, got %v", err)
	}
}

func TestMemoryStore_Events(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	e1 := &model.CartEvent{ID: "a", Type: "add", ProductID: 1, Quantity: 1, Timestamp: time.Now().UTC()}
	e2 := &model.CartEvent{ID: "b", Type: "remove", ProductID: 1, Timestamp: time.Now().UTC()}
	s.AppendEvent(ctx, e1)
	s.AppendEvent(ctx, e2)

	events, err := s.ListEvents(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Errorf("events should come back in append order: %+v", events)
	}
}
