package user

import (
	"context"

	"mybooklist/internal/domain"
)

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
}

type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationCode(ctx context.Context, code string) (*domain.User, error)
	MarkVerified(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, in UpdateProfileInput) (*domain.User, error)
}
