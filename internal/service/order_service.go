package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

const defaultOrderStatus = "Processing"

type OrderService struct {
	repo  repository.UserRepository
	cache cache.UserCache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewOrderService(repo repository.UserRepository, c cache.UserCache) *OrderService {
	return &OrderService{
		repo:  repo,
		cache: c,
	}
}

func (s *OrderService) List(ctx context.Context, userID string) ([]domain.OrderRecord, error) {
	user, err := getUserCached(ctx, &s.sfg, s.cache, s.repo, userID)
	if err != nil {
		return nil, err
	}
	if user.Orders == nil {
		return []domain.OrderRecord{}, nil
	}
	return user.Orders, nil
}

// Add appends unconditionally; orderId duplicates are permitted. The meta
// payload is stored opaquely and echoed back as-is.
func (s *OrderService) Add(ctx context.Context, userID string, record domain.OrderRecord) ([]domain.OrderRecord, error) {
	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		if record.Status == "" {
			record.Status = defaultOrderStatus
		}
		record.Date = time.Now()
		u.Orders = append(u.Orders, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Orders, nil
}
