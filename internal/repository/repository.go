package repository

import (
	"context"
	"errors"

	"github.com/koma-shop/account-service/internal/domain"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
	// ErrVersionConflict is returned by Save in compare-and-swap mode when
	// the document changed since it was loaded.
	ErrVersionConflict = errors.New("user document version conflict")
)

// UserRepository defines persistence for whole user documents. Every
// mutation in the service is read-modify-write at document granularity:
// load the user, change an embedded collection in memory, Save the whole
// document back.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}
