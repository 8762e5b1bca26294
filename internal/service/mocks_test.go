package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

type mockCache struct {
	m    sync.RWMutex
	user *domain.User
	err  error
}

func (m *mockCache) Get(context.Context, string) (*domain.User, error) {
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.user, nil
}

func (m *mockCache) Set(_ context.Context, _ string, user *domain.User) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.user = user
	return m.err
}

func (m *mockCache) Delete(context.Context, string) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.user = nil
	return m.err
}

func (m *mockCache) getUser() *domain.User {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.user
}

// conflictRepo wraps a repository and fails the first n saves with a
// version conflict, to exercise the bounded retry loop.
type conflictRepo struct {
	repository.UserRepository
	m         sync.Mutex
	conflicts int
}

func (r *conflictRepo) Save(ctx context.Context, user *domain.User) error {
	r.m.Lock()
	remaining := r.conflicts
	if remaining > 0 {
		r.conflicts--
	}
	r.m.Unlock()

	if remaining > 0 {
		return repository.ErrVersionConflict
	}
	return r.UserRepository.Save(ctx, user)
}

func seedUser(t *testing.T, repo repository.UserRepository, username string) string {
	t.Helper()
	created, err := repo.Create(context.Background(), &domain.User{
		Username: username,
		Password: "digest",
		Wishlist: []domain.WishlistItem{},
		Orders:   []domain.OrderRecord{},
		Cart:     []domain.CartLine{},
	})
	require.NoError(t, err)
	return created.ID.Hex()
}
