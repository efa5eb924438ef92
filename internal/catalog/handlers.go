package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

// Handler exposes the catalog over HTTP: the filtered product list, the
// product detail view, the category vocabulary, and an explicit refresh.
type Handler struct {
	loader *Loader
}

// NewHandler creates the catalog HTTP handler.
func NewHandler(loader *Loader) *Handler {
	return &Handler{loader: loader}
}

// ListResponse is the JSON body for GET /api/v1/products.
type ListResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"` // catalog size before filtering
}

// ListProducts handles GET /api/v1/products
// Query parameters: search, category, sort (price-asc, price-desc,
// name-asc, name-desc, rating-desc). Runs the filter pipeline over the
// current catalog snapshot.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	q := r.URL.Query()
	criteria := Criteria{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Sort:     ParseSortKey(q.Get("sort")),
	}

	products := h.loader.Products()
	resp := ListResponse{
		Products: Filter(products, criteria),
		Total:    len(products),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetProduct handles GET /api/v1/products/{productID}
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, ok := h.loader.Product(id)
	if !ok {
		writeError(w, "product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// ListCategories handles GET /api/v1/categories
// Returns the category vocabulary: "all" followed by each distinct
// category in first-seen catalog order.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.loader.Categories())
}

// Refresh handles POST /api/v1/catalog/refresh
// Re-fetches the catalog from the remote source. This is the only retry
// path; failed fetches are never retried automatically.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.loader.Refresh(r.Context()); err != nil {
		writeError(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"products": len(h.loader.Products())})
}

// available reports whether the catalog has ever loaded; when it hasn't,
// it writes the failure upstream as 503 with the fetch error.
func (h *Handler) available(w http.ResponseWriter) bool {
	if h.loader.Loaded() {
		return true
	}

	msg := "catalog not loaded"
	if err := h.loader.Err(); err != nil {
		msg = err.Error()
	}
	writeError(w, msg, http.StatusServiceUnavailable)
	return false
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
