package httpserver

import (
	"context"

	"mybooklist/internal/domain"
	ordersvc "mybooklist/internal/service/order"
	usersvc "mybooklist/internal/service/user"
)

type bookService interface {
	List(ctx context.Context) ([]domain.Book, error)
	GetByID(ctx context.Context, id int64) (*domain.Book, error)
	ListByCategory(ctx context.Context, categoryName string) ([]domain.Book, error)
	TopSales(ctx context.Context) ([]domain.BookSales, error)
	IDsInCart(ctx context.Context, cartID int64) ([]int64, error)
	InCartByIDAndPassword(ctx context.Context, cartID int64, password string) ([]domain.BookInCart, error)
	InCurrentCartOf(ctx context.Context, userID int64) ([]domain.BookInCart, error)
	IDsInCurrentCartOf(ctx context.Context, userID int64) ([]int64, error)
	InOrder(ctx context.Context, orderID int64) ([]domain.BookInCart, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type cartService interface {
	CreateAnonymous(ctx context.Context) (*domain.CartCredentials, error)
	AddBookByPassword(ctx context.Context, cartID int64, password string, bookID int64, quantity int) error
	ReduceBookByPassword(ctx context.Context, cartID int64, password string, bookID int64) error
	DeleteBookByPassword(ctx context.Context, cartID int64, password string, bookID int64) error
	AddBookForUser(ctx context.Context, userID, bookID int64, quantity int) error
	ReduceBookForUser(ctx context.Context, userID, bookID int64) error
	DeleteBookForUser(ctx context.Context, userID, bookID int64) error
	ClearCurrent(ctx context.Context, userID int64) (int64, error)
	TotalByIDAndPassword(ctx context.Context, cartID int64, password string) (*domain.CartTotal, error)
	CurrentTotal(ctx context.Context, userID int64) (*domain.CartTotal, error)
	CurrentQuantity(ctx context.Context, userID int64) (*domain.CartQuantity, error)
}

type orderService interface {
	CheckoutByPassword(ctx context.Context, cartID int64, password string, in ordersvc.AddressInput) (*domain.OrderCredentials, error)
	CheckoutForUser(ctx context.Context, userID int64, in ordersvc.AddressInput) (*domain.OrderCredentials, error)
	GetByIDAndPassword(ctx context.Context, orderID int64, password string) (*domain.Order, error)
	CheckNumber(ctx context.Context, orderID int64, password string) error
	TotalOf(ctx context.Context, orderID int64) (*domain.CartTotal, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
}

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Verify(ctx context.Context, code string) error
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	ResetPassword(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID int64, in usersvc.UpdateInput) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	AccessTTLSeconds() int
}

type tokenParser interface {
	Parse(token string) (int64, error)
}

// Deps carries the services the router dispatches to.
type Deps struct {
	BookSvc     bookService
	CategorySvc categoryService
	CartSvc     cartService
	OrderSvc    orderService
	UserSvc     userService
	Tokens      tokenParser
}
