package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/koma-shop/account-service/internal/domain"
)

// OrderService covers the per-user order history.
type OrderService interface {
	List(ctx context.Context, userID string) ([]domain.OrderRecord, error)
	Add(ctx context.Context, userID string, record domain.OrderRecord) ([]domain.OrderRecord, error)
}

type OrderHandler struct {
	orders  OrderService
	timeout time.Duration
}

func NewOrderHandler(orders OrderService, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

// AddOrderRequest takes whatever the storefront sends: meta is kept
// opaque and echoed back untouched.
type AddOrderRequest struct {
	OrderID string `json:"orderId"`
	Item    string `json:"item"`
	Status  string `json:"status"`
	Meta    any    `json:"meta"`
}

type OrdersResponse struct {
	Message string               `json:"message,omitempty"`
	Orders  []domain.OrderRecord `json:"orders"`
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.List(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, OrdersResponse{Orders: orders})
}

func (h *OrderHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	orders, err := h.orders.Add(ctx, chi.URLParam(r, "id"), domain.OrderRecord{
		OrderID: req.OrderID,
		Item:    req.Item,
		Status:  req.Status,
		Meta:    req.Meta,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, OrdersResponse{
		Message: "Order placed successfully",
		Orders:  orders,
	})
}
