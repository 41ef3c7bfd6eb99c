package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/dhnaturally/internal/catalog"
	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/go-chi/chi/v5"
)

type ProductStore interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	GetFeaturedProducts(ctx context.Context) ([]*domain.Product, error)
}

type ProductHandler struct {
	store       ProductStore
	timeout     time.Duration
	defaultLang string
}

func NewProductHandler(store ProductStore, timeout time.Duration, defaultLang string) *ProductHandler {
	return &ProductHandler{
		store:       store,
		timeout:     timeout,
		defaultLang: defaultLang,
	}
}

// List serves the catalog. featured=true wins over category. The store
// page's search and sort run only when q or sort is present, otherwise
// products keep storage order.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := r.URL.Query()
	var (
		products []*domain.Product
		err      error
	)
	switch category := query.Get("category"); {
	case query.Get("featured") == "true":
		products, err = h.store.GetFeaturedProducts(ctx)
	case category != "" && category != catalog.CategoryAll:
		products, err = h.store.GetProductsByCategory(ctx, category)
	default:
		products, err = h.store.GetAllProducts(ctx)
	}
	if err != nil {
		handleStoreError(w, err)
		return
	}

	if query.Has("q") || query.Has("sort") {
		products = catalog.Apply(products, catalog.Query{
			Search: query.Get("q"),
			Sort:   query.Get("sort"),
			Lang:   requestLanguage(r, h.defaultLang),
		})
	}
	if products == nil {
		products = []*domain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, err := h.store.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
