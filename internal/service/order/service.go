package order

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"

	"mybooklist/internal/domain"
	"mybooklist/internal/mail"
	orderrepo "mybooklist/internal/repository/order"
	"golang.org/x/crypto/bcrypt"
)

type orderRepo interface {
	CreateFromCart(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	TotalOf(ctx context.Context, orderID int64) (*domain.CartTotal, error)
}

type cartLocator interface {
	FindCurrentByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.Cart, error)
	CurrentCartOf(ctx context.Context, userID int64) (*domain.Cart, error)
}

type cartItems interface {
	QuantityOf(ctx context.Context, cartID int64) (*domain.CartQuantity, error)
}

// Service turns current carts into immutable orders and answers
// order lookups.
type Service struct {
	repo   orderRepo
	carts  cartLocator
	items  cartItems
	mailer mail.Mailer
}

func New(repo orderrepo.Repository, carts cartLocator, items cartItems, mailer mail.Mailer) *Service {
	return &Service{repo: repo, carts: carts, items: items, mailer: mailer}
}

// AddressInput carries the shipping and contact fields of a checkout.
type AddressInput struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Country   string `json:"country"`
	City      string `json:"city"`
	Street    string `json:"street"`
	Postcode  string `json:"postcode"`
	Email     string `json:"email"`
	Note      string `json:"note"`
}

// CheckoutByPassword freezes an anonymous cart into an order. The
// order password is returned once and mailed together with the id.
func (s *Service) CheckoutByPassword(ctx context.Context, cartID int64, password string, in AddressInput) (*domain.OrderCredentials, error) {
	cart, err := s.carts.FindCurrentByIDAndPassword(ctx, cartID, password)
	if err != nil {
		return nil, err
	}
	return s.checkout(ctx, cart, in)
}

// CheckoutForUser freezes the user's current cart into an order; the
// next authenticated cart access lazily creates a fresh cart.
func (s *Service) CheckoutForUser(ctx context.Context, userID int64, in AddressInput) (*domain.OrderCredentials, error) {
	cart, err := s.carts.CurrentCartOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.checkout(ctx, cart, in)
}

func (s *Service) checkout(ctx context.Context, cart *domain.Cart, in AddressInput) (*domain.OrderCredentials, error) {
	if strings.TrimSpace(in.Email) == "" {
		return nil, domain.ErrInvalidInput
	}

	qty, err := s.items.QuantityOf(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if qty == nil || qty.Items == 0 {
		return nil, domain.ErrEmptyCart
	}

	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.CreateFromCart(ctx, orderrepo.CreateOrderInput{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Country:      in.Country,
		City:         in.City,
		Street:       in.Street,
		Postcode:     in.Postcode,
		Email:        in.Email,
		Note:         in.Note,
		CartID:       cart.ID,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendOrderConfirmation(ctx, in.Email, o.ID, password); err != nil {
		return nil, err
	}
	return &domain.OrderCredentials{OrderID: o.ID, Password: password}, nil
}

// GetByIDAndPassword returns the order when the password matches its
// stored hash.
func (s *Service) GetByIDAndPassword(ctx context.Context, orderID int64, password string) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrWrongPassword
	}
	return o, nil
}

// CheckNumber verifies that an (order id, password) pair is valid.
func (s *Service) CheckNumber(ctx context.Context, orderID int64, password string) error {
	_, err := s.GetByIDAndPassword(ctx, orderID, password)
	return err
}

// TotalOf reports the order total through its frozen cart; nil means
// the cart behind the order holds no items.
func (s *Service) TotalOf(ctx context.Context, orderID int64) (*domain.CartTotal, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.TotalOf(ctx, orderID)
}

func (s *Service) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func randomPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
