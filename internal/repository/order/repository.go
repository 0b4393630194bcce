package order

import (
	"context"

	"mybooklist/internal/domain"
)

type CreateOrderInput struct {
	FirstName    string
	LastName     string
	Country      string
	City         string
	Street       string
	Postcode     string
	Email        string
	Note         string
	CartID       int64
	PasswordHash string
}

type Repository interface {
	// CreateFromCart retires the cart and inserts the order in one
	// transaction. Returns domain.ErrCartNotCurrent when the cart was
	// already checked out.
	CreateFromCart(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	TotalOf(ctx context.Context, orderID int64) (*domain.CartTotal, error)
}
