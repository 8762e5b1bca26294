package service

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/koma-shop/account-service/internal/cache"
	"github.com/koma-shop/account-service/internal/domain"
	"github.com/koma-shop/account-service/internal/repository"
)

// maxSaveAttempts bounds the retry loop when the repository runs in
// compare-and-swap mode. In last-writer-wins mode the first attempt is
// always final.
const maxSaveAttempts = 3

// getUserCached serves read paths: cache first, then the repository, with
// singleflight collapsing concurrent misses for the same user.
func getUserCached(ctx context.Context, sfg *singleflight.Group, c cache.UserCache, repo repository.UserRepository, userID string) (*domain.User, error) {
	v, err, _ := sfg.Do(userID, func() (interface{}, error) {
		user, err := c.Get(ctx, userID)
		if err == nil {
			return user, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cache get error: %v \n", err) // log cache error but continue
		}

		user, errGet := repo.FindByID(ctx, userID)
		if errGet != nil {
			return nil, errGet
		}

		go func() {
			if errSet := c.Set(context.Background(), userID, user); errSet != nil {
				log.Printf("cache set error: %v \n", errSet)
			}
		}()

		return user, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.User), nil
}

// mutateUser is the read-modify-write cycle every mutation goes through:
// load the whole user, apply fn to the in-memory copy, save the whole
// document back. Version conflicts from a compare-and-swap save are
// retried with a fresh load.
func mutateUser(ctx context.Context, repo repository.UserRepository, c cache.UserCache, userID string, fn func(*domain.User) error) (*domain.User, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := fn(user); err != nil {
			return nil, err
		}

		err = repo.Save(ctx, user)
		if err == nil {
			invalidateUser(c, userID)
			return user, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func invalidateUser(c cache.UserCache, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v \n", err)
	}
}
