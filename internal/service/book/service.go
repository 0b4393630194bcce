package book

import (
	"context"
	"strings"

	"mybooklist/internal/domain"
)

type bookRepo interface {
	List(ctx context.Context) ([]domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	ListByCategory(ctx context.Context, categoryName string) ([]domain.Book, error)
	TopSales(ctx context.Context) ([]domain.BookSales, error)
	IDsInCart(ctx context.Context, cartID int64) ([]int64, error)
	InCart(ctx context.Context, cartID int64) ([]domain.BookInCart, error)
	InCurrentCartOf(ctx context.Context, userID int64) ([]domain.BookInCart, error)
}

type cartLocator interface {
	FindByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.Cart, error)
}

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

// Service exposes catalog reads plus the cart/order book views.
type Service struct {
	repo   bookRepo
	carts  cartLocator
	orders orderRepo
}

func New(repo bookRepo, carts cartLocator, orders orderRepo) *Service {
	return &Service{repo: repo, carts: carts, orders: orders}
}

func (s *Service) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, categoryName string) ([]domain.Book, error) {
	if strings.TrimSpace(categoryName) == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.repo.ListByCategory(ctx, categoryName)
}

func (s *Service) TopSales(ctx context.Context) ([]domain.BookSales, error) {
	return s.repo.TopSales(ctx)
}

// IDsInCart is an open lookup by cart id; the original exposes it
// without a password check.
func (s *Service) IDsInCart(ctx context.Context, cartID int64) ([]int64, error) {
	return s.repo.IDsInCart(ctx, cartID)
}

// InCartByIDAndPassword returns the cart view only after the anonymous
// cart guard (exists, not owned, password matches) passes.
func (s *Service) InCartByIDAndPassword(ctx context.Context, cartID int64, password string) ([]domain.BookInCart, error) {
	cart, err := s.carts.FindByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return nil, err
	}
	return s.repo.InCart(ctx, cart.ID)
}

func (s *Service) InCurrentCartOf(ctx context.Context, userID int64) ([]domain.BookInCart, error) {
	return s.repo.InCurrentCartOf(ctx, userID)
}

// IDsInCurrentCartOf lists the ids of the books in the user's current
// cart.
func (s *Service) IDsInCurrentCartOf(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := s.repo.InCurrentCartOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.BookID)
	}
	return ids, nil
}

// InOrder resolves an order to its frozen cart and returns that
// cart's book rows.
func (s *Service) InOrder(ctx context.Context, orderID int64) ([]domain.BookInCart, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.repo.InCart(ctx, o.CartID)
}
