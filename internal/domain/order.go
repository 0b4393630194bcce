package domain

import "time"

// Order is the immutable result of checking out a cart. Its line
// items are read through the retired cart it references.
type Order struct {
	ID           int64     `json:"orderid"`
	FirstName    string    `json:"firstname"`
	LastName     string    `json:"lastname"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Street       string    `json:"street"`
	Postcode     string    `json:"postcode"`
	Email        string    `json:"email"`
	Note         string    `json:"note"`
	CartID       int64     `json:"cartid"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OrderStatusCreated is the status every order starts in.
const OrderStatusCreated = "Created"

// OrderCredentials is returned once, at checkout.
type OrderCredentials struct {
	OrderID  int64  `json:"orderid"`
	Password string `json:"password"`
}
