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

// AccountService covers signup, login and profile updates.
type AccountService interface {
	Signup(ctx context.Context, p service.SignupParams) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*domain.User, error)
}

type AccountHandler struct {
	accounts AccountService
	timeout  time.Duration
}

func NewAccountHandler(accounts AccountService, timeout time.Duration) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		timeout:  timeout,
	}
}

type SignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	DOB       string `json:"dob"`
	Address   string `json:"address"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	Message string      `json:"message"`
	User    domain.User `json:"user"`
}

func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, err := h.accounts.Signup(ctx, service.SignupParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Gender:    req.Gender,
		DOB:       req.DOB,
		Address:   req.Address,
		Contact:   req.Contact,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusCreated, "User created successfully")
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.Login(ctx, req.Username, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		Message: "Login successful",
		User:    *user,
	})
}

func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.accounts.UpdateProfile(ctx, chi.URLParam(r, "id"), fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, UserResponse{
		Message: "Profile updated successfully",
		User:    *user,
	})
}
