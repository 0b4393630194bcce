package category

import (
	"context"

	"mybooklist/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	Ensure(ctx context.Context, name string) (*domain.Category, error)
}
