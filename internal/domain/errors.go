package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized indicates the caller may not act on the entity,
	// e.g. addressing an owned cart through the anonymous path.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrWrongPassword indicates a cart or order password mismatch.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidInput indicates a malformed or out-of-range request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCartNotCurrent indicates the cart has already been checked out.
	ErrCartNotCurrent = errors.New("cart is no longer current")
	// ErrBookNotInCart indicates no cart item exists for the book.
	ErrBookNotInCart = errors.New("book is not in the cart")
	// ErrEmptyCart indicates checkout was attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
)
