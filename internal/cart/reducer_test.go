package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// product is a test helper for building catalog products.
func product(id int64, title string, price float64) model.Product {
	return model.Product{
		ID:       id,
		Title:    title,
		Price:    decimal.NewFromFloat(price),
		Category: "test",
	}
}

// --- Add ---

func TestApply_AddNewProduct(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})

	if len(items) != 1 {
		t.Fatalf("expected 1 line-item, got %d", len(items))
	}
	if items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", items[0].Quantity)
	}
}

func TestApply_AddCoalesces(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, AddToCart{Product: product(1, "Red Shoe", 10)})

	if len(items) != 1 {
		t.Fatalf("adding the same product twice should coalesce, got %d line-items", len(items))
	}
	if items[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", items[0].Quantity)
	}
}

func TestApply_AddPreservesInsertionOrder(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, AddToCart{Product: product(2, "Blue Hat", 5)})
	items = Apply(items, AddToCart{Product: product(1, "Red Shoe", 10)})

	if len(items) != 2 {
		t.Fatalf("expected 2 line-items, got %d", len(items))
	}
	if items[0].ID != 1 || items[1].ID != 2 {
		t.Errorf("insertion order not preserved: got ids %d, %d", items[0].ID, items[1].ID)
	}
}

// --- Remove ---

func TestApply_RemoveAbsentIsNoop(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, RemoveFromCart{ProductID: 99})

	if len(items) != 1 {
		t.Errorf("removing an absent id should be a no-op, got %d line-items", len(items))
	}
}

func TestApply_RemoveIsIdempotent(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, AddToCart{Product: product(2, "Blue Hat", 5)})

	once := Apply(items, RemoveFromCart{ProductID: 1})
	twice := Apply(once, RemoveFromCart{ProductID: 1})

	if len(once) != len(twice) {
		t.Fatalf("remove not idempotent: %d vs %d line-items", len(once), len(twice))
	}
	if len(twice) != 1 || twice[0].ID != 2 {
		t.Errorf("unexpected state after double remove: %+v", twice)
	}
}

// --- Update quantity ---

func TestApply_UpdateQuantity(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, UpdateQuantity{ProductID: 1, Quantity: 5})

	if items[0].Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestApply_UpdateQuantityZeroRemoves(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, UpdateQuantity{ProductID: 1, Quantity: 0})

	if len(items) != 0 {
		t.Errorf("quantity 0 should remove the line-item, got %d", len(items))
	}
}

func TestApply_UpdateQuantityNegativeRemoves(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, UpdateQuantity{ProductID: 1, Quantity: -3})

	if len(items) != 0 {
		t.Errorf("negative quantity should remove the line-item, got %d", len(items))
	}
}

func TestApply_UpdateAbsentIsNoop(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	updated := Apply(items, UpdateQuantity{ProductID: 99, Quantity: 5})

	if len(updated) != 1 || updated[0].Quantity != 1 {
		t.Errorf("updating an absent id should be a no-op: %+v", updated)
	}
}

// --- Clear / Load ---

func TestApply_Clear(t *testing.T) {
	items := Apply(nil, AddToCart{Product: product(1, "Red Shoe", 10)})
	items = Apply(items, ClearCart{})

	if len(items) != 0 {
		t.Errorf("expected empty cart, got %d line-items", len(items))
	}
}

func TestApply_LoadReplacesState(t *testing.T) {
	saved := []model.CartItem{
		{Product: product(1, "Red Shoe", 10), Quantity: 2},
		{Product: product(2, "Blue Hat", 5), Quantity: 1},
	}

	items := Apply(nil, AddToCart{Product: product(3, "Green Sock", 1)})
	items = Apply(items, LoadCart{Items: saved})

	if len(items) != 2 {
		t.Fatalf("expected 2 line-items after load, got %d", len(items))
	}
	if items[0].ID != 1 || items[0].Quantity != 2 {
		t.Errorf("loaded state mismatch: %+v", items[0])
	}
}

// --- Purity ---

func TestApply_DoesNotMutateInput(t *testing.T) {
	items := []model.CartItem{{Product: product(1, "Red Shoe", 10), Quantity: 1}}

	Apply(items, AddToCart{Product: product(1, "Red Shoe", 10)})
	if items[0].Quantity != 1 {
		t.Error("AddToCart mutated its input")
	}

	Apply(items, UpdateQuantity{ProductID: 1, Quantity: 7})
	if items[0].Quantity != 1 {
		t.Error("UpdateQuantity mutated its input")
	}
}
