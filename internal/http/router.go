package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the account, wishlist, order and cart endpoints onto a
// chi mux. The timeout bounds each handler's downstream calls.
func NewRouter(accounts AccountService, wishlists WishlistService, orders OrderService, carts CartService, timeout time.Duration) *chi.Mux {
	accountHandler := NewAccountHandler(accounts, timeout)
	wishlistHandler := NewWishlistHandler(wishlists, timeout)
	orderHandler := NewOrderHandler(orders, timeout)
	cartHandler := NewCartHandler(carts, timeout)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(timeout + time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "ok")
	})

	r.Post("/signup", accountHandler.Signup)
	r.Post("/login", accountHandler.Login)

	r.Route("/users/{id}", func(r chi.Router) {
		r.Put("/", accountHandler.UpdateProfile)

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.List)
			r.Post("/", wishlistHandler.Add)
			r.Delete("/{productId}", wishlistHandler.Remove)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Add)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.List)
			r.Post("/", cartHandler.Add)
			r.Put("/{cartId}", cartHandler.UpdateQuantity)
			r.Delete("/{cartId}", cartHandler.Remove)
		})
	})

	return r
}
