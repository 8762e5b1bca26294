package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/koma-shop/account-service/internal/repository"
	"github.com/koma-shop/account-service/internal/service"
)

// ErrorResponse is the wire shape for failures: domain errors carry a
// message, unexpected internals carry the raw error text.
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Message: message})
}

// respondServiceError maps domain errors to their status codes. Anything
// unrecognized escaping the domain logic becomes a 500 with the raw
// message exposed.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrCartItemNotFound):
		respondMessage(w, http.StatusNotFound, "Cart item not found")
	case errors.Is(err, repository.ErrUsernameTaken):
		respondMessage(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, service.ErrDuplicateWishlistItem):
		respondMessage(w, http.StatusBadRequest, "Item already in wishlist")
	case errors.Is(err, service.ErrNoValidFields):
		respondMessage(w, http.StatusBadRequest, "No valid fields to update")
	case errors.Is(err, service.ErrIncorrectPassword):
		respondMessage(w, http.StatusUnauthorized, "Incorrect password")
	case errors.Is(err, context.DeadlineExceeded):
		respondJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: "store request timed out"})
	default:
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
