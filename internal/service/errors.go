package service

import "errors"

var (
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrDuplicateWishlistItem = errors.New("item already in wishlist")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrNoValidFields         = errors.New("no valid fields to update")
)
