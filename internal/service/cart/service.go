package cart

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"mybooklist/internal/domain"
	cartrepo "mybooklist/internal/repository/cart"
	"golang.org/x/crypto/bcrypt"
)

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetCurrentByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	AddBook(ctx context.Context, cartID, bookID int64, quantity int) error
	ReduceBook(ctx context.Context, cartID, bookID int64) error
	DeleteBook(ctx context.Context, cartID, bookID int64) error
	Clear(ctx context.Context, cartID int64) (int64, error)
	TotalOf(ctx context.Context, cartID int64) (*domain.CartTotal, error)
	TotalOfCurrent(ctx context.Context, userID int64) (*domain.CartTotal, error)
	QuantityOfCurrent(ctx context.Context, userID int64) (*domain.CartQuantity, error)
}

type bookRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
}

// Service owns the cart state machine: anonymous carts addressed by
// id+password, user carts addressed by ownership, and the item
// mutations on both.
type Service struct {
	repo    cartRepo
	books   bookRepo
	cartTTL time.Duration
}

func New(repo cartrepo.Repository, books bookRepo, ttlDays int) *Service {
	return &Service{
		repo:    repo,
		books:   books,
		cartTTL: time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// CreateAnonymous creates a password-protected cart with an expiry
// date and returns the plaintext password exactly once.
func (s *Service) CreateAnonymous(ctx context.Context) (*domain.CartCredentials, error) {
	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	expiry := time.Now().Add(s.cartTTL)
	cart, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
		PasswordHash: string(hashed),
		ExpiryDate:   &expiry,
	})
	if err != nil {
		return nil, err
	}
	return &domain.CartCredentials{CartID: cart.ID, Password: password}, nil
}

// FindByIDAndPassword locates an anonymous cart: ErrNotFound when the
// id does not exist, ErrUnauthorized when the cart belongs to a user
// (only the owner may act on it, via the authenticated path), and
// ErrWrongPassword on a hash mismatch.
func (s *Service) FindByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.Cart, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.Anonymous() {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cart.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongPassword
	}
	return cart, nil
}

// FindCurrentByIDAndPassword adds the retirement check on top of
// FindByIDAndPassword: a checked-out cart yields ErrCartNotCurrent.
func (s *Service) FindCurrentByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.Cart, error) {
	cart, err := s.FindByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return nil, err
	}
	if !cart.Current {
		return nil, domain.ErrCartNotCurrent
	}
	return cart, nil
}

// CurrentCartOf returns the user's current cart, creating one when
// none exists. Every verified user therefore always has exactly one
// current cart.
func (s *Service) CurrentCartOf(ctx context.Context, userID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetCurrentByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return s.repo.Create(ctx, cartrepo.CreateCartInput{UserID: &userID})
}

// AddBookByPassword adds quantity of a book to an anonymous cart.
func (s *Service) AddBookByPassword(ctx context.Context, cartID int64, password string, bookID int64, quantity int) error {
	cart, err := s.FindCurrentByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return err
	}
	return s.addBook(ctx, cart, bookID, quantity)
}

// AddBookForUser adds quantity of a book to the user's current cart.
func (s *Service) AddBookForUser(ctx context.Context, userID, bookID int64, quantity int) error {
	cart, err := s.CurrentCartOf(ctx, userID)
	if err != nil {
		return err
	}
	return s.addBook(ctx, cart, bookID, quantity)
}

func (s *Service) addBook(ctx context.Context, cart *domain.Cart, bookID int64, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}
	return s.repo.AddBook(ctx, cart.ID, bookID, quantity)
}

// ReduceBookByPassword drops the quantity of a book in an anonymous
// cart by one; the row disappears when the quantity reaches zero.
func (s *Service) ReduceBookByPassword(ctx context.Context, cartID int64, password string, bookID int64) error {
	cart, err := s.FindCurrentByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return err
	}
	return s.reduceBook(ctx, cart, bookID)
}

func (s *Service) ReduceBookForUser(ctx context.Context, userID, bookID int64) error {
	cart, err := s.CurrentCartOf(ctx, userID)
	if err != nil {
		return err
	}
	return s.reduceBook(ctx, cart, bookID)
}

func (s *Service) reduceBook(ctx context.Context, cart *domain.Cart, bookID int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}
	return s.repo.ReduceBook(ctx, cart.ID, bookID)
}

// DeleteBookByPassword removes the book from an anonymous cart
// regardless of its quantity.
func (s *Service) DeleteBookByPassword(ctx context.Context, cartID int64, password string, bookID int64) error {
	cart, err := s.FindCurrentByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return err
	}
	return s.deleteBook(ctx, cart, bookID)
}

func (s *Service) DeleteBookForUser(ctx context.Context, userID, bookID int64) error {
	cart, err := s.CurrentCartOf(ctx, userID)
	if err != nil {
		return err
	}
	return s.deleteBook(ctx, cart, bookID)
}

func (s *Service) deleteBook(ctx context.Context, cart *domain.Cart, bookID int64) error {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return err
	}
	return s.repo.DeleteBook(ctx, cart.ID, bookID)
}

// ClearCurrent deletes every item of the user's current cart and
// reports how many rows went away.
func (s *Service) ClearCurrent(ctx context.Context, userID int64) (int64, error) {
	cart, err := s.CurrentCartOf(ctx, userID)
	if err != nil {
		return 0, err
	}
	return s.repo.Clear(ctx, cart.ID)
}

// TotalByIDAndPassword reports the cart total; a nil total means the
// cart holds no items. Retired carts stay readable, so the current
// flag is not checked here.
func (s *Service) TotalByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.CartTotal, error) {
	cart, err := s.FindByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return nil, err
	}
	return s.repo.TotalOf(ctx, cart.ID)
}

func (s *Service) CurrentTotal(ctx context.Context, userID int64) (*domain.CartTotal, error) {
	if _, err := s.CurrentCartOf(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.TotalOfCurrent(ctx, userID)
}

func (s *Service) CurrentQuantity(ctx context.Context, userID int64) (*domain.CartQuantity, error) {
	if _, err := s.CurrentCartOf(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.QuantityOfCurrent(ctx, userID)
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
