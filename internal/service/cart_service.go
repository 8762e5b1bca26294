package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

// CartAddParams carries one add-or-increment request. Quantity is left
// untyped because callers may send anything; non-numeric values fall back
// to 1.
type CartAddParams struct {
	CartID    string
	ProductID string
	Name      string
	Image     string
	Price     float64
	Quantity  any
}

type CartService struct {
	repo  repository.UserRepository
	cache cache.UserCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewCartService(repo repository.UserRepository, c cache.UserCache) *CartService {
	return &CartService{
		repo:  repo,
		cache: c,
	}
}

func (s *CartService) List(ctx context.Context, userID string) ([]domain.CartLine, error) {
	user, err := getUserCached(ctx, &s.sfg, s.cache, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if user.Cart == nil {
		return []domain.CartLine{}, nil
	}
	return user.Cart, nil
}

// AddOrIncrement resolves the target line by productId first, then by
// cartId, and creates a new line when neither matches. A match increments
// the quantity instead of adding a second line.
func (s *CartService) AddOrIncrement(ctx context.Context, userID string, p CartAddParams) ([]domain.CartLine, error) {
	quantity := normalizeQuantity(p.Quantity)

	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		var line *domain.CartLine
		if p.ProductID != "" {
			for i := range u.Cart {
				if u.Cart[i].ProductID == p.ProductID {
					line = &u.Cart[i]
					break
				}
			}
		}
		if line == nil && p.CartID != "" {
			for i := range u.Cart {
				if u.Cart[i].CartID == p.CartID {
					line = &u.Cart[i]
					break
				}
			}
		}

		if line != nil {
			// A line zeroed through the direct quantity update counts as
			// one when merged into.
			if line.Quantity == 0 {
				line.Quantity = 1
			}
			line.Quantity += quantity
			return nil
		}

		cartID := p.CartID
		if cartID == "" {
			cartID = newCartID()
		}
		u.Cart = append(u.Cart, domain.CartLine{
			CartID:    cartID,
			ProductID: p.ProductID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  quantity,
			AddedAt:   time.Now(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// SetQuantity overwrites the line's quantity verbatim when the caller
// sends a numeric value, in any of the shapes the add path accepts.
// Unlike the add path there is no minimum: zero and negative values are
// stored as sent. Absent and non-numeric values leave the line untouched.
func (s *CartService) SetQuantity(ctx context.Context, userID, cartID string, quantity any) ([]domain.CartLine, error) {
	overwrite := parseQuantity(quantity)

	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		for i := range u.Cart {
			if u.Cart[i].CartID == cartID {
				if overwrite != nil {
					u.Cart[i].Quantity = *overwrite
				}
				return nil
			}
		}
		return ErrCartItemNotFound
	})
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// Remove drops the matching line; removing an absent cartId is a no-op.
func (s *CartService) Remove(ctx context.Context, userID, cartID string) ([]domain.CartLine, error) {
	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		kept := make([]domain.CartLine, 0, len(u.Cart))
		for _, line := range u.Cart {
			if line.CartID != cartID {
				kept = append(kept, line)
			}
		}
		u.Cart = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// normalizeQuantity coerces whatever the caller sent into a usable
// increment: absent, non-numeric and sub-one values all become 1, never 0.
func normalizeQuantity(v any) int {
	var n float64
	switch q := v.(type) {
	case nil:
		return 1
	case float64:
		n = q
	case int:
		n = float64(q)
	case json.Number:
		f, err := q.Float64()
		if err != nil {
			return 1
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return 1
		}
		n = f
	default:
		return 1
	}
	if n < 1 {
		return 1
	}
	return int(n)
}

// parseQuantity converts a raw overwrite value to an int without a
// minimum. Absent and non-numeric values return nil.
func parseQuantity(v any) *int {
	var n int
	switch q := v.(type) {
	case nil:
		return nil
	case float64:
		n = int(q)
	case int:
		n = q
	case json.Number:
		f, err := q.Float64()
		if err != nil {
			return nil
		}
		n = int(f)
	case string:
		f, err := strconv.ParseFloat(q, 64)
		if err != nil {
			return nil
		}
		n = int(f)
	default:
		return nil
	}
	return &n
}

// newCartID builds a unique token for server-generated lines: millisecond
// timestamp prefix plus a short random suffix.
func newCartID() string {
	return fmt.Sprintf("%d%s", time.Now().UnixMilli(), uuid.NewString()[:6])
}
