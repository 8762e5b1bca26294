package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the single persisted document of the service. The wishlist,
// orders and cart collections are embedded and owned exclusively by the
// user; they have no identity outside the parent document.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"firstName"`
	LastName  string             `bson:"last_name" json:"lastName"`
	Gender    string             `bson:"gender" json:"gender"`
	DOB       string             `bson:"dob" json:"dob"`
	Address   string             `bson:"address" json:"address"`
	Contact   string             `bson:"contact" json:"contact"`
	Email     string             `bson:"email" json:"email"`
	Username  string             `bson:"username" json:"username"`
	Password  string             `bson:"password" json:"password,omitempty"`
	Wishlist  []WishlistItem     `bson:"wishlist" json:"wishlist"`
	Orders    []OrderRecord      `bson:"orders" json:"orders"`
	Cart      []CartLine         `bson:"cart" json:"cart"`

	// Version backs the optional compare-and-swap save mode. It is never
	// exposed on the wire.
	Version int64 `bson:"version" json:"-"`
}

type WishlistItem struct {
	ProductID string    `bson:"product_id" json:"productId"`
	Name      string    `bson:"name" json:"name"`
	Image     string    `bson:"image" json:"image"`
	Price     float64   `bson:"price" json:"price"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

type OrderRecord struct {
	OrderID string    `bson:"order_id" json:"orderId"`
	Item    string    `bson:"item" json:"item"`
	Status  string    `bson:"status" json:"status"`
	Date    time.Time `bson:"date" json:"date"`
	// Meta is stored and echoed back verbatim, never inspected.
	Meta any `bson:"meta,omitempty" json:"meta,omitempty"`
}

type CartLine struct {
	CartID    string    `bson:"cart_id" json:"cartId"`
	ProductID string    `bson:"product_id,omitempty" json:"productId,omitempty"`
	Name      string    `bson:"name" json:"name"`
	Image     string    `bson:"image" json:"image"`
	Price     float64   `bson:"price" json:"price"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// Sanitized returns a copy safe to put on the wire: the password digest is
// stripped and the embedded collections are never null.
func (u User) Sanitized() User {
	u.Password = ""
	if u.Wishlist == nil {
		u.Wishlist = []WishlistItem{}
	}
	if u.Orders == nil {
		u.Orders = []OrderRecord{}
	}
	if u.Cart == nil {
		u.Cart = []CartLine{}
	}
	return u
}
