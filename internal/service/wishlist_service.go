package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

type WishlistService struct {
	repo  repository.UserRepository
	cache cache.UserCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewWishlistService(repo repository.UserRepository, c cache.UserCache) *WishlistService {
	return &WishlistService{
		repo:  repo,
		cache: c,
	}
}

func (s *WishlistService) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	user, err := getUserCached(ctx, &s.sfg, s.cache, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if user.Wishlist == nil {
		return []domain.WishlistItem{}, nil
	}
	return user.Wishlist, nil
}

// Add appends the item with a fresh addedAt. A duplicate productId within
// the same wishlist is rejected, not merged.
func (s *WishlistService) Add(ctx context.Context, userID string, item domain.WishlistItem) ([]domain.WishlistItem, error) {
	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		for _, existing := range u.Wishlist {
			if existing.ProductID == item.ProductID {
				return ErrDuplicateWishlistItem
			}
		}
		item.AddedAt = time.Now()
		u.Wishlist = append(u.Wishlist, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// Remove drops every entry matching productId. Removing an absent product
// is a no-op, not an error.
func (s *WishlistService) Remove(ctx context.Context, userID, productID string) ([]domain.WishlistItem, error) {
	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		kept := make([]domain.WishlistItem, 0, len(u.Wishlist))
		for _, existing := range u.Wishlist {
			if existing.ProductID != productID {
				kept = append(kept, existing)
			}
		}
		u.Wishlist = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}
