package domain

import "time"

// Cart is either owned by a user or anonymous. Anonymous carts are
// addressed by id plus a password whose bcrypt hash is stored here;
// owned carts carry no password. At most one cart per user has
// Current set.
type Cart struct {
	ID           int64      `json:"cartid"`
	UserID       *int64     `json:"userid,omitempty"`
	Current      bool       `json:"current"`
	PasswordHash string     `json:"-"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

// Anonymous reports whether the cart has no owning user.
func (c Cart) Anonymous() bool {
	return c.UserID == nil
}

type CartItem struct {
	CartID   int64 `json:"cartid"`
	BookID   int64 `json:"bookid"`
	Quantity int   `json:"quantity"`
}

// CartCredentials is returned once, at anonymous cart creation; the
// plaintext password is never stored.
type CartCredentials struct {
	CartID   int64  `json:"id"`
	Password string `json:"password"`
}

// CartTotal is the aggregate sum(quantity * price) over a cart.
type CartTotal struct {
	CartID int64   `json:"cartid"`
	Total  float64 `json:"total"`
}

// CartQuantity is the aggregate sum(quantity) over a cart.
type CartQuantity struct {
	CartID int64 `json:"cartid"`
	Items  int64 `json:"items"`
}
