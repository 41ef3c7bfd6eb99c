package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/dhnaturally/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	maxQuantity      = 99
	maxSessionIDSize = 128
)

type CartService interface {
	GetCart(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	AddItem(ctx context.Context, item domain.NewCartItem) (*domain.CartItem, error)
	UpdateQuantity(ctx context.Context, id string, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, id string) (bool, error)
	ClearCart(ctx context.Context, sessionID string) error
}

// ProductLookup checks that an added product exists.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	carts    CartService
	products ProductLookup
	timeout  time.Duration
}

func NewCartHandler(carts CartService, products ProductLookup, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := chi.URLParam(r, "id")
	if !validSessionID(sessionID) {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "session id is required")
		return
	}

	lines, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lines)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validSessionID(req.SessionID) {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "session_id is required")
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity < 0 || req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if product == nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	item, err := h.carts.AddItem(ctx, domain.NewCartItem{
		SessionID: req.SessionID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		handleStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil || *req.Quantity <= 0 || *req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	item, err := h.carts.UpdateQuantity(ctx, chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	removed, err := h.carts.RemoveItem(ctx, chi.URLParam(r, "id"))
	if err != nil {
		handleStoreError(w, err)
		return
	}
	if !removed {
		respondError(w, http.StatusNotFound, "not_found", "cart item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := chi.URLParam(r, "id")
	if !validSessionID(sessionID) {
		respondError(w, http.StatusBadRequest, "invalid_session_id", "session id is required")
		return
	}

	if err := h.carts.ClearCart(ctx, sessionID); err != nil {
		handleStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

func validSessionID(id string) bool {
	return strings.TrimSpace(id) != "" && len(id) <= maxSessionIDSize
}
