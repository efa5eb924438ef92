package cart

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Raghu3-3102/E-commerce/internal/metrics"
	"github.com/Raghu3-3102/E-commerce/internal/model"
	"github.com/Raghu3-3102/E-commerce/internal/store"
)

// TaxRate is the flat tax applied to the cart subtotal.
var TaxRate = decimal.NewFromFloat(0.10)

// Service owns the authoritative cart state. A mutex serializes every
// dispatch, so concurrent mutations are applied one at a time: the state
// update, the durable snapshot write, and the event append all complete
// before the next action is accepted.
type Service struct {
	store store.Store
	hub   *Hub // optional WebSocket hub for cart update broadcasts

	mu    sync.Mutex
	items []model.CartItem
}

// NewService creates a cart service backed by the given store, restoring
// any saved snapshot. A missing or unreadable snapshot degrades to an
// empty cart; it never fails construction.
// Pass nil for hub if WebSocket broadcasting is not needed.
func NewService(ctx context.Context, st store.Store, hub *Hub) *Service {
	s := &Service{store: st, hub: hub}

	items, err := st.LoadCart(ctx)
	switch {
	case err == store.ErrNoCart:
		// Fresh start.
	case err != nil:
		slog.Warn("cart snapshot unreadable, starting empty", "err", err)
	default:
		s.items = Apply(nil, LoadCart{Items: items})
		slog.Info("cart restored", "items", len(s.items))
	}

	s.publishGauges()
	return s
}

// dispatch applies an action under the lock and commits the result:
// durable snapshot, event record, metrics, broadcast. The snapshot write
// happens on every mutation; a write failure is logged and the in-memory
// state is kept, so callers still observe the new state.
func (s *Service) dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = Apply(s.items, action)

	if _, ok := action.(ClearCart); ok {
		if err := s.store.ClearCart(ctx); err != nil {
			metrics.SnapshotWriteFailures.Inc()
			slog.Error("cart snapshot clear failed", "err", err)
		}
	} else {
		if err := s.store.SaveCart(ctx, s.items); err != nil {
			metrics.SnapshotWriteFailures.Inc()
			slog.Error("cart snapshot write failed", "err", err)
		}
	}

	event := s.eventFor(action)
	if err := s.store.AppendEvent(ctx, event); err != nil {
		slog.Error("cart event append failed", "err", err)
	}

	metrics.CartActionsTotal.WithLabelValues(action.actionType()).Inc()
	s.publishGauges()

	slog.Info("cart action applied",
		"action", action.actionType(),
		"product_id", event.ProductID,
		"quantity", event.Quantity,
		"items", len(s.items),
	)

	if s.hub != nil {
		s.hub.Broadcast(Message{
			Type:     "cart_updated",
			Count:    s.itemsCountLocked(),
			Subtotal: s.subtotalLocked().String(),
			Total:    s.totalLocked().String(),
		})
	}
}

// eventFor builds the mutation record for an applied action. Quantity is
// the line-item's resulting quantity, zero when the item is gone.
func (s *Service) eventFor(action Action) *model.CartEvent {
	event := &model.CartEvent{
		ID:        uuid.New().String(),
		Type:      action.actionType(),
		Timestamp: time.Now().UTC(),
	}

	switch a := action.(type) {
	case AddToCart:
		event.ProductID = a.Product.ID
	case RemoveFromCart:
		event.ProductID = a.ProductID
	case UpdateQuantity:
		event.ProductID = a.ProductID
	}

	if event.ProductID != 0 {
		for _, item := range s.items {
			if item.ID == event.ProductID {
				event.Quantity = item.Quantity
				break
			}
		}
	}
	return event
}

func (s *Service) publishGauges() {
	metrics.CartItems.Set(float64(s.itemsCountLocked()))
	metrics.CartValue.Set(s.subtotalLocked().InexactFloat64())
}

// --- Mutations ---

// AddToCart adds one unit of the product, coalescing into an existing
// line-item when the product is already in the cart.
func (s *Service) AddToCart(ctx context.Context, p model.Product) {
	s.dispatch(ctx, AddToCart{Product: p})
}

// RemoveFromCart deletes the line-item for the product id; no-op if absent.
func (s *Service) RemoveFromCart(ctx context.Context, productID int64) {
	s.dispatch(ctx, RemoveFromCart{ProductID: productID})
}

// UpdateQuantity sets the line-item's quantity; <= 0 removes it.
func (s *Service) UpdateQuantity(ctx context.Context, productID, quantity int64) {
	s.dispatch(ctx, UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// Clear empties the cart and deletes the durable snapshot.
func (s *Service) Clear(ctx context.Context) {
	s.dispatch(ctx, ClearCart{})
}

// --- Derived values ---

// Items returns a copy of the current line-item sequence.
func (s *Service) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Subtotal returns Σ(price × quantity) over all line-items.
func (s *Service) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

// ItemsCount returns Σ quantity — total units, not distinct products.
func (s *Service) ItemsCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemsCountLocked()
}

func (s *Service) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	return subtotal
}

func (s *Service) itemsCountLocked() int64 {
	var count int64
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// totalLocked is subtotal plus tax, computed strictly as their sum so the
// displayed figures always reconcile.
func (s *Service) totalLocked() decimal.Decimal {
	subtotal := s.subtotalLocked()
	return subtotal.Add(subtotal.Mul(TaxRate))
}

// --- HTTP Handlers ---

// CartResponse is the JSON body for GET /api/v1/cart.
type CartResponse struct {
	Items      []model.CartItem `json:"items"`
	ItemsCount int64            `json:"items_count"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
	Tax        decimal.Decimal  `json:"tax"`
	Total      decimal.Decimal  `json:"total"`
}

// UpdateQuantityRequest is the JSON body for PUT /api/v1/cart/items/{productID}.
type UpdateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// GetCart handles GET /api/v1/cart
func (s *Service) GetCart(w http.ResponseWriter, r *http.Request) {
	s.writeCart(w)
}

// AddItem handles POST /api/v1/cart/items
// The body is the product to add; a repeated add coalesces.
func (s *Service) AddItem(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if p.ID <= 0 {
		writeError(w, "product id is required", http.StatusBadRequest)
		return
	}
	if p.Price.IsNegative() {
		writeError(w, "product price must not be negative", http.StatusBadRequest)
		return
	}

	s.AddToCart(r.Context(), p)
	s.writeCart(w)
}

// UpdateItem handles PUT /api/v1/cart/items/{productID}
// A quantity <= 0 removes the line-item.
func (s *Service) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.UpdateQuantity(r.Context(), productID, req.Quantity)
	s.writeCart(w)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productID}
func (s *Service) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	s.RemoveFromCart(r.Context(), productID)
	s.writeCart(w)
}

// ClearCart handles DELETE /api/v1/cart
func (s *Service) ClearCart(w http.ResponseWriter, r *http.Request) {
	s.Clear(r.Context())
	s.writeCart(w)
}

// GetHistory handles GET /api/v1/cart/history
// Returns the append-only mutation log.
func (s *Service) GetHistory(w http.ResponseWriter, r *http.Request) {
	events, err := s.store.ListEvents(r.Context())
	if err != nil {
		writeError(w, "failed to load cart history", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []model.CartEvent{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func (s *Service) writeCart(w http.ResponseWriter) {
	s.mu.Lock()
	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	subtotal := s.subtotalLocked()
	count := s.itemsCountLocked()
	s.mu.Unlock()

	tax := subtotal.Mul(TaxRate)
	resp := CartResponse{
		Items:      items,
		ItemsCount: count,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
