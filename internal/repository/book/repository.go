package book

import (
	"context"

	"mybooklist/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	ListByCategory(ctx context.Context, categoryName string) ([]domain.Book, error)
	TopSales(ctx context.Context) ([]domain.BookSales, error)
	IDsInCart(ctx context.Context, cartID int64) ([]int64, error)
	InCart(ctx context.Context, cartID int64) ([]domain.BookInCart, error)
	InCurrentCartOf(ctx context.Context, userID int64) ([]domain.BookInCart, error)
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}
