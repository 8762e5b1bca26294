package cache

import (
	"context"
	"errors"

	"github.com/koma-shop/account-service/internal/domain"
)

type UserCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Set(ctx context.Context, userID string, user *domain.User) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
