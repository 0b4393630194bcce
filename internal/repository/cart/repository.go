package cart

import (
	"context"
	"time"

	"mybooklist/internal/domain"
)

type CreateCartInput struct {
	UserID       *int64
	PasswordHash string
	ExpiryDate   *time.Time
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetCurrentByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	AddBook(ctx context.Context, cartID, bookID int64, quantity int) error
	ReduceBook(ctx context.Context, cartID, bookID int64) error
	DeleteBook(ctx context.Context, cartID, bookID int64) error
	Clear(ctx context.Context, cartID int64) (int64, error)
	TotalOf(ctx context.Context, cartID int64) (*domain.CartTotal, error)
	TotalOfCurrent(ctx context.Context, userID int64) (*domain.CartTotal, error)
	QuantityOf(ctx context.Context, cartID int64) (*domain.CartQuantity, error)
	QuantityOfCurrent(ctx context.Context, userID int64) (*domain.CartQuantity, error)
	DeleteExpiredAnonymous(ctx context.Context) (int64, error)
}
