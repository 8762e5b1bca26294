package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/service"
)

// CartService covers the per-user cart collection.
type CartService interface {
	List(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddOrIncrement(ctx context.Context, userID string, p service.CartAddParams) ([]domain.CartLine, error)
	SetQuantity(ctx context.Context, userID, cartID string, quantity any) ([]domain.CartLine, error)
	Remove(ctx context.Context, userID, cartID string) ([]domain.CartLine, error)
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

// AddCartLineRequest leaves quantity untyped: clients send numbers,
// strings or nothing at all, and coercion happens downstream.
type AddCartLineRequest struct {
	CartID    string  `json:"cartId"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  any     `json:"quantity"`
}

// UpdateCartLineRequest leaves quantity untyped for the same reason the
// add path does.
type UpdateCartLineRequest struct {
	Quantity any `json:"quantity"`
}

type CartResponse struct {
	Message string            `json:"message,omitempty"`
	Cart    []domain.CartLine `json:"cart"`
}

func (h *CartHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lines, err := h.carts.List(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{Cart: lines})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lines, err := h.carts.AddOrIncrement(ctx, chi.URLParam(r, "id"), service.CartAddParams{
		CartID:    req.CartID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CartResponse{
		Message: "Added to cart",
		Cart:    lines,
	})
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateCartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	lines, err := h.carts.SetQuantity(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "cartId"), req.Quantity)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Message: "Cart updated",
		Cart:    lines,
	})
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	lines, err := h.carts.Remove(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "cartId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CartResponse{
		Message: "Removed from cart",
		Cart:    lines,
	})
}
