package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Raghu3-3102/E-commerce/internal/model"
)

func newCatalogRouter(src Source) (*Loader, chi.Router) {
	loader := NewLoader(src)
	h := NewHandler(loader)

	r := chi.NewRouter()
	r.Get("/api/v1/products", h.ListProducts)
	r.Get("/api/v1/products/{productID}", h.GetProduct)
	r.Get("/api/v1/categories", h.ListCategories)
	r.Post("/api/v1/catalog/refresh", h.Refresh)
	return loader, r
}

func get(router chi.Router, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandlers_UnavailableBeforeFirstLoad(t *testing.T) {
	src := &stubSource{err: errors.New("upstream down")}
	loader, router := newCatalogRouter(src)
	loader.Refresh(context.Background())

	w := get(router, "/api/v1/products")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before a successful load, got %d", w.Code)
	}

	var body map[string]string
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Error("expected the fetch error to be surfaced in the body")
	}
}

func TestHandlers_ListProductsWithCriteria(t *testing.T) {
	src := &stubSource{products: []model.Product{
		p(1, "Red Shoe", "shoes", 10, 4),
		p(2, "Blue Hat", "hats", 5, 3),
		p(3, "Red Hat", "hats", 7, 5),
	}}
	loader, router := newCatalogRouter(src)
	loader.Refresh(context.Background())

	w := get(router, "/api/v1/products?search=red&sort=price-asc")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp ListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Total != 3 {
		t.Errorf("expected total 3, got %d", resp.Total)
	}
	if len(resp.Products) != 2 || resp.Products[0].ID != 3 || resp.Products[1].ID != 1 {
		t.Errorf("unexpected filtered products: %+v", resp.Products)
	}
}

func TestHandlers_GetProduct(t *testing.T) {
	src := &stubSource{products: []model.Product{p(1, "Red Shoe", "shoes", 10, 4)}}
	loader, router := newCatalogRouter(src)
	loader.Refresh(context.Background())

	w := get(router, "/api/v1/products/1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var prod model.Product
	json.Unmarshal(w.Body.Bytes(), &prod)
	if prod.Title != "Red Shoe" {
		t.Errorf("unexpected product: %+v", prod)
	}

	if w := get(router, "/api/v1/products/99"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown product, got %d", w.Code)
	}
	if w := get(router, "/api/v1/products/abc"); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestHandlers_Categories(t *testing.T) {
	src := &stubSource{products: []model.Product{
		p(1, "A", "shoes", 1, 0),
		p(2, "B", "hats", 1, 0),
	}}
	loader, router := newCatalogRouter(src)
	loader.Refresh(context.Background())

	w := get(router, "/api/v1/categories")
	var cats []string
	json.Unmarshal(w.Body.Bytes(), &cats)
	if len(cats) != 3 || cats[0] != "all" {
		t.Errorf("unexpected vocabulary: %v", cats)
	}
}

func TestHandlers_RefreshRecovers(t *testing.T) {
	src := &stubSource{err: errors.New("upstream down")}
	_, router := newCatalogRouter(src)

	req := httptest.NewRequest("POST", "/api/v1/catalog/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 while upstream is down, got %d", w.Code)
	}

	src.err = nil
	src.products = []model.Product{p(1, "Red Shoe", "shoes", 10, 4)}

	req = httptest.NewRequest("POST", "/api/v1/catalog/refresh", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after upstream recovery, got %d", w.Code)
	}

	if w := get(router, "/api/v1/products"); w.Code != http.StatusOK {
		t.Errorf("products should be served after refresh, got %d", w.Code)
	}
}
