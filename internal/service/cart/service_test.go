package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"mybooklist/internal/domain"
	cartrepo "mybooklist/internal/repository/cart"
	"golang.org/x/crypto/bcrypt"
)

type stubCartRepo struct {
	nextID int64
	carts  map[int64]*domain.Cart
	items  map[int64]map[int64]int
	prices map[int64]float64
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{
		carts:  map[int64]*domain.Cart{},
		items:  map[int64]map[int64]int{},
		prices: map[int64]float64{},
	}
}

func (s *stubCartRepo) Create(_ context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error) {
	s.nextID++
	c := &domain.Cart{
		ID:           s.nextID,
		UserID:       in.UserID,
		Current:      true,
		PasswordHash: in.PasswordHash,
		ExpiryDate:   in.ExpiryDate,
	}
	s.carts[c.ID] = c
	s.items[c.ID] = map[int64]int{}
	return c, nil
}

func (s *stubCartRepo) GetByID(_ context.Context, id int64) (*domain.Cart, error) {
	c, ok := s.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *stubCartRepo) GetCurrentByUser(_ context.Context, userID int64) (*domain.Cart, error) {
	for _, c := range s.carts {
		if c.UserID != nil && *c.UserID == userID && c.Current {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCartRepo) AddBook(_ context.Context, cartID, bookID int64, quantity int) error {
	s.items[cartID][bookID] += quantity
	return nil
}

func (s *stubCartRepo) ReduceBook(_ context.Context, cartID, bookID int64) error {
	qty, ok := s.items[cartID][bookID]
	if !ok {
		return domain.ErrBookNotInCart
	}
	if qty <= 1 {
		delete(s.items[cartID], bookID)
		return nil
	}
	s.items[cartID][bookID] = qty - 1
	return nil
}

func (s *stubCartRepo) DeleteBook(_ context.Context, cartID, bookID int64) error {
	if _, ok := s.items[cartID][bookID]; !ok {
		return domain.ErrBookNotInCart
	}
	delete(s.items[cartID], bookID)
	return nil
}

func (s *stubCartRepo) Clear(_ context.Context, cartID int64) (int64, error) {
	removed := int64(len(s.items[cartID]))
	s.items[cartID] = map[int64]int{}
	return removed, nil
}

func (s *stubCartRepo) TotalOf(_ context.Context, cartID int64) (*domain.CartTotal, error) {
	if len(s.items[cartID]) == 0 {
		return nil, nil
	}
	var total float64
	for bookID, qty := range s.items[cartID] {
		total += s.prices[bookID] * float64(qty)
	}
	return &domain.CartTotal{CartID: cartID, Total: total}, nil
}

func (s *stubCartRepo) TotalOfCurrent(ctx context.Context, userID int64) (*domain.CartTotal, error) {
	c, err := s.GetCurrentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.TotalOf(ctx, c.ID)
}

func (s *stubCartRepo) QuantityOf(_ context.Context, cartID int64) (*domain.CartQuantity, error) {
	if len(s.items[cartID]) == 0 {
		return nil, nil
	}
	var n int64
	for _, qty := range s.items[cartID] {
		n += int64(qty)
	}
	return &domain.CartQuantity{CartID: cartID, Items: n}, nil
}

func (s *stubCartRepo) QuantityOfCurrent(ctx context.Context, userID int64) (*domain.CartQuantity, error) {
	c, err := s.GetCurrentByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.QuantityOf(ctx, c.ID)
}

func (s *stubCartRepo) DeleteExpiredAnonymous(_ context.Context) (int64, error) {
	var deleted int64
	now := time.Now()
	for id, c := range s.carts {
		if c.UserID == nil && c.Current && c.ExpiryDate != nil && c.ExpiryDate.Before(now) {
			delete(s.carts, id)
			delete(s.items, id)
			deleted++
		}
	}
	return deleted, nil
}

type stubBookRepo struct {
	books map[int64]*domain.Book
}

func (s *stubBookRepo) GetByID(_ context.Context, id int64) (*domain.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func newService(t *testing.T) (*Service, *stubCartRepo) {
	t.Helper()
	repo := newStubCartRepo()
	repo.prices[1] = 9.99
	repo.prices[2] = 12.50
	books := &stubBookRepo{books: map[int64]*domain.Book{
		1: {ID: 1, Title: "The Hobbit", Price: 9.99},
		2: {ID: 2, Title: "Dune", Price: 12.50},
	}}
	return New(repo, books, 14), repo
}

func TestCreateAnonymous(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	creds, err := svc.CreateAnonymous(ctx)
	if err != nil {
		t.Fatalf("create anonymous cart: %v", err)
	}
	if creds.Password == "" {
		t.Fatal("expected a plaintext password")
	}

	stored := repo.carts[creds.CartID]
	if stored == nil {
		t.Fatal("cart was not persisted")
	}
	if !stored.Anonymous() || !stored.Current {
		t.Fatalf("expected current anonymous cart, got %+v", stored)
	}
	if stored.ExpiryDate == nil || !stored.ExpiryDate.After(time.Now()) {
		t.Fatal("expected a future expiry date")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(creds.Password)); err != nil {
		t.Fatal("stored hash does not match the returned password")
	}
}

func TestFindByIDAndPassword_GuardOrder(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	if _, err := svc.FindByIDAndPassword(ctx, 999, "whatever"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing cart: want ErrNotFound, got %v", err)
	}

	userID := int64(7)
	owned, _ := repo.Create(ctx, cartrepo.CreateCartInput{UserID: &userID})
	if _, err := svc.FindByIDAndPassword(ctx, owned.ID, "whatever"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("owned cart: want ErrUnauthorized, got %v", err)
	}

	creds, err := svc.CreateAnonymous(ctx)
	if err != nil {
		t.Fatalf("create anonymous cart: %v", err)
	}
	if _, err := svc.FindByIDAndPassword(ctx, creds.CartID, "wrong"); !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("bad password: want ErrWrongPassword, got %v", err)
	}
	if _, err := svc.FindByIDAndPassword(ctx, creds.CartID, creds.Password); err != nil {
		t.Fatalf("valid lookup failed: %v", err)
	}
}

func TestFindCurrentByIDAndPassword_RetiredCart(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	creds, err := svc.CreateAnonymous(ctx)
	if err != nil {
		t.Fatalf("create anonymous cart: %v", err)
	}
	repo.carts[creds.CartID].Current = false

	if _, err := svc.FindCurrentByIDAndPassword(ctx, creds.CartID, creds.Password); !errors.Is(err, domain.ErrCartNotCurrent) {
		t.Fatalf("retired cart: want ErrCartNotCurrent, got %v", err)
	}
	// Retired carts stay readable through the plain lookup.
	if _, err := svc.FindByIDAndPassword(ctx, creds.CartID, creds.Password); err != nil {
		t.Fatalf("plain lookup of retired cart failed: %v", err)
	}
}

func TestAddBookByPassword(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	creds, err := svc.CreateAnonymous(ctx)
	if err != nil {
		t.Fatalf("create anonymous cart: %v", err)
	}

	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 1, 2); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if got := repo.items[creds.CartID][1]; got != 2 {
		t.Fatalf("want quantity 2, got %d", got)
	}

	// A second add for the same book accumulates.
	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 1, 3); err != nil {
		t.Fatalf("add book again: %v", err)
	}
	if got := repo.items[creds.CartID][1]; got != 5 {
		t.Fatalf("want quantity 5, got %d", got)
	}

	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 1, 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero quantity: want ErrInvalidInput, got %v", err)
	}
	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 404, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown book: want ErrNotFound, got %v", err)
	}
}

func TestReduceBook(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	creds, _ := svc.CreateAnonymous(ctx)
	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 1, 2); err != nil {
		t.Fatalf("add book: %v", err)
	}

	if err := svc.ReduceBookByPassword(ctx, creds.CartID, creds.Password, 1); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	if got := repo.items[creds.CartID][1]; got != 1 {
		t.Fatalf("want quantity 1, got %d", got)
	}

	// Reducing the last copy removes the row.
	if err := svc.ReduceBookByPassword(ctx, creds.CartID, creds.Password, 1); err != nil {
		t.Fatalf("reduce to zero: %v", err)
	}
	if _, ok := repo.items[creds.CartID][1]; ok {
		t.Fatal("expected row to be gone after reducing to zero")
	}

	if err := svc.ReduceBookByPassword(ctx, creds.CartID, creds.Password, 1); !errors.Is(err, domain.ErrBookNotInCart) {
		t.Fatalf("reduce missing: want ErrBookNotInCart, got %v", err)
	}
}

func TestDeleteBook(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	creds, _ := svc.CreateAnonymous(ctx)
	if err := svc.AddBookByPassword(ctx, creds.CartID, creds.Password, 2, 5); err != nil {
		t.Fatalf("add book: %v", err)
	}

	// Delete drops the row no matter the quantity.
	if err := svc.DeleteBookByPassword(ctx, creds.CartID, creds.Password, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.items[creds.CartID][2]; ok {
		t.Fatal("expected row to be gone")
	}

	if err := svc.DeleteBookByPassword(ctx, creds.CartID, creds.Password, 2); !errors.Is(err, domain.ErrBookNotInCart) {
		t.Fatalf("delete missing: want ErrBookNotInCart, got %v", err)
	}
}

func TestCurrentCartOf_LazyCreate(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.CurrentCartOf(ctx, 42)
	if err != nil {
		t.Fatalf("current cart: %v", err)
	}
	if first.UserID == nil || *first.UserID != 42 || !first.Current {
		t.Fatalf("unexpected cart %+v", first)
	}

	second, err := svc.CurrentCartOf(ctx, 42)
	if err != nil {
		t.Fatalf("current cart again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same cart, got %d and %d", first.ID, second.ID)
	}
}

func TestClearCurrent(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	if err := svc.AddBookForUser(ctx, 42, 1, 2); err != nil {
		t.Fatalf("add book: %v", err)
	}
	if err := svc.AddBookForUser(ctx, 42, 2, 1); err != nil {
		t.Fatalf("add book: %v", err)
	}

	removed, err := svc.ClearCurrent(ctx, 42)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 2 {
		t.Fatalf("want 2 rows removed, got %d", removed)
	}

	cart, _ := svc.CurrentCartOf(ctx, 42)
	if len(repo.items[cart.ID]) != 0 {
		t.Fatal("expected an empty cart")
	}
}

func TestCurrentTotalAndQuantity(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	// A fresh user has an empty cart, reported as nil aggregates.
	total, err := svc.CurrentTotal(ctx, 9)
	if err != nil {
		t.Fatalf("current total: %v", err)
	}
	if total != nil {
		t.Fatalf("want nil total for empty cart, got %+v", total)
	}

	if err := svc.AddBookForUser(ctx, 9, 1, 2); err != nil {
		t.Fatalf("add book: %v", err)
	}
	total, err = svc.CurrentTotal(ctx, 9)
	if err != nil {
		t.Fatalf("current total: %v", err)
	}
	if total == nil || total.Total != 19.98 {
		t.Fatalf("want total 19.98, got %+v", total)
	}

	qty, err := svc.CurrentQuantity(ctx, 9)
	if err != nil {
		t.Fatalf("current quantity: %v", err)
	}
	if qty == nil || qty.Items != 2 {
		t.Fatalf("want 2 items, got %+v", qty)
	}
}
