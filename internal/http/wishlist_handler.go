package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/koma-shop/account-service/internal/domain"
)

// WishlistService covers the per-user wishlist collection.
type WishlistService interface {
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Add(ctx context.Context, userID string, item domain.WishlistItem) ([]domain.WishlistItem, error)
	Remove(ctx context.Context, userID, productID string) ([]domain.WishlistItem, error)
}

type WishlistHandler struct {
	wishlists WishlistService
	timeout   time.Duration
}

func NewWishlistHandler(wishlists WishlistService, timeout time.Duration) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		timeout:   timeout,
	}
}

type AddWishlistItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

type WishlistResponse struct {
	Message  string                `json:"message,omitempty"`
	Wishlist []domain.WishlistItem `json:"wishlist"`
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.wishlists.List(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, WishlistResponse{Wishlist: items})
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	items, err := h.wishlists.Add(ctx, chi.URLParam(r, "id"), domain.WishlistItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		Price:     req.Price,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, WishlistResponse{
		Message:  "Added to wishlist",
		Wishlist: items,
	})
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.wishlists.Remove(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "productId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, WishlistResponse{
		Message:  "Removed from wishlist",
		Wishlist: items,
	})
}
