package category

import (
	"context"

	"mybooklist/internal/domain"
)

type categoryRepo interface {
	List(ctx context.Context) ([]domain.Category, error)
}

// Service exposes the read side of the category catalog.
type Service struct {
	repo categoryRepo
}

func New(repo categoryRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}
