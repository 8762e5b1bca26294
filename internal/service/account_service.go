package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/koma-shop/account-service/internal/auth"
	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

// profileFields is the fixed allow-list for profile updates. Anything else
// in the payload is silently ignored.
var profileFields = map[string]bool{
	"firstName": true,
	"lastName":  true,
	"gender":    true,
	"dob":       true,
	"address":   true,
	"contact":   true,
	"email":     true,
	"username":  true,
	"password":  true,
}

type SignupParams struct {
	FirstName string
	LastName  string
	Gender    string
	DOB       string
	Address   string
	Contact   string
	Email     string
	Username  string
	Password  string
}

type AccountService struct {
	repo   repository.UserRepository
	cache  cache.UserCache
	hasher *auth.PasswordHasher
}

func NewAccountService(repo repository.UserRepository, c cache.UserCache, hasher *auth.PasswordHasher) *AccountService {
	return &AccountService{
		repo:   repo,
		cache:  c,
		hasher: hasher,
	}
}

// Signup creates a user with empty wishlist, orders and cart. Profile
// fields other than username and password are stored verbatim, without
// validation.
func (s *AccountService) Signup(ctx context.Context, p SignupParams) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, p.Username); err == nil {
		return nil, repository.ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Gender:    p.Gender,
		DOB:       p.DOB,
		Address:   p.Address,
		Contact:   p.Contact,
		Email:     p.Email,
		Username:  p.Username,
		Password:  digest,
		Wishlist:  []domain.WishlistItem{},
		Orders:    []domain.OrderRecord{},
		Cart:      []domain.CartLine{},
	}

	return s.repo.Create(ctx, user)
}

// Login returns the full user record with the password stripped. No token
// or session is issued; the caller holds onto the returned record.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrIncorrectPassword
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateProfile applies the allow-listed subset of fields. A password in
// the patch is re-hashed before storage. Username changes are not
// pre-checked here; the storage layer's uniqueness rule rejects a rename
// onto a taken name at save time.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, fields map[string]any) (*domain.User, error) {
	updates := filterProfileFields(fields)
	if len(updates) == 0 {
		return nil, ErrNoValidFields
	}

	user, err := mutateUser(ctx, s.repo, s.cache, userID, func(u *domain.User) error {
		for key, value := range updates {
			if key == "password" {
				digest, err := s.hasher.Hash(value)
				if err != nil {
					return err
				}
				u.Password = digest
				continue
			}
			applyProfileField(u, key, value)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func filterProfileFields(fields map[string]any) map[string]string {
	updates := make(map[string]string)
	for key, value := range fields {
		if !profileFields[key] {
			continue
		}
		text, ok := coerceString(value)
		if !ok {
			continue
		}
		updates[key] = text
	}
	return updates
}

// coerceString renders scalar JSON values as the stored string. Objects,
// arrays and null are dropped like unknown keys.
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func applyProfileField(u *domain.User, key, value string) {
	switch key {
	case "firstName":
		u.FirstName = value
	case "lastName":
		u.LastName = value
	case "gender":
		u.Gender = value
	case "dob":
		u.DOB = value
	case "address":
		u.Address = value
	case "contact":
		u.Contact = value
	case "email":
		u.Email = value
	case "username":
		u.Username = value
	}
}
