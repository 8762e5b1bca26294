package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/koma-shop/account-service/internal/domain"
)

// MemoryRepository implements UserRepository with in-memory storage. It
// keeps the same contract as the Mongo implementation, including username
// uniqueness and the optional version-checked save.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[string]*domain.User // hex id -> user
	casEnabled bool
}

func NewMemoryRepository(casEnabled bool) *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[string]*domain.User),
		casEnabled: casEnabled,
	}
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			return cloneUser(user), nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, ErrUsernameTaken
		}
	}

	user.ID = primitive.NewObjectID()
	user.Version = 1
	r.users[user.ID.Hex()] = cloneUser(user)
	return user, nil
}

func (r *MemoryRepository) Save(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID.Hex()]
	if !ok {
		return ErrUserNotFound
	}

	if r.casEnabled {
		if stored.Version != user.Version {
			return ErrVersionConflict
		}
	}

	// Renames hit the same uniqueness rule the Mongo index enforces.
	for id, existing := range r.users {
		if id != user.ID.Hex() && existing.Username == user.Username {
			return ErrUsernameTaken
		}
	}

	if r.casEnabled {
		user.Version++
	}

	r.users[user.ID.Hex()] = cloneUser(user)
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.Wishlist != nil {
		c.Wishlist = append([]domain.WishlistItem(nil), u.Wishlist...)
	}
	if u.Orders != nil {
		c.Orders = append([]domain.OrderRecord(nil), u.Orders...)
	}
	if u.Cart != nil {
		c.Cart = append([]domain.CartLine(nil), u.Cart...)
	}
	return &c
}
