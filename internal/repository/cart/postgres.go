package cart

import (
	"context"
	"errors"

	"mybooklist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, current, password_hash, expiry_date)
VALUES ($1, TRUE, $2, $3)
RETURNING id, user_id, current, password_hash, expiry_date
`
	return r.fetchCart(ctx, q, in.UserID, in.PasswordHash, in.ExpiryDate)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	const q = `
SELECT id, user_id, current, password_hash, expiry_date
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetCurrentByUser(ctx context.Context, userID int64) (*domain.Cart, error) {
	const q = `
SELECT id, user_id, current, password_hash, expiry_date
FROM carts
WHERE user_id = $1 AND current
`
	return r.fetchCart(ctx, q, userID)
}

// AddBook increments the quantity of an existing cart item or inserts
// a new one. Concurrent adds to the same (cart, book) pair are
// serialized by the row lock taken inside the transaction.
func (r *postgresRepo) AddBook(ctx context.Context, cartID, bookID int64, quantity int) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND book_id = $2
FOR UPDATE
`, cartID, bookID).Scan(&existing)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, book_id, quantity)
VALUES ($1, $2, $3)
`, cartID, bookID, quantity); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE cart_id = $2 AND book_id = $3
`, existing+quantity, cartID, bookID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ReduceBook decrements the item quantity by one and removes the row
// once it would drop below one.
func (r *postgresRepo) ReduceBook(ctx context.Context, cartID, bookID int64) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var existing int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE cart_id = $1 AND book_id = $2
FOR UPDATE
`, cartID, bookID).Scan(&existing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrBookNotInCart
		}
		return err
	}

	if existing-1 > 0 {
		if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE cart_id = $2 AND book_id = $3
`, existing-1, cartID, bookID); err != nil {
			return err
		}
	} else {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE cart_id = $1 AND book_id = $2
`, cartID, bookID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) DeleteBook(ctx context.Context, cartID, bookID int64) error {
	const q = `
DELETE FROM cart_items
WHERE cart_id = $1 AND book_id = $2
`
	cmd, err := r.pool.Exec(ctx, q, cartID, bookID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookNotInCart
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, cartID int64) (int64, error) {
	const q = `
DELETE FROM cart_items
WHERE cart_id = $1
`
	cmd, err := r.pool.Exec(ctx, q, cartID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) TotalOf(ctx context.Context, cartID int64) (*domain.CartTotal, error) {
	const q = `
SELECT ci.cart_id, SUM(ci.quantity * b.price)
FROM cart_items ci
JOIN books b ON b.id = ci.book_id
WHERE ci.cart_id = $1
GROUP BY ci.cart_id
`
	return r.fetchTotal(ctx, q, cartID)
}

func (r *postgresRepo) TotalOfCurrent(ctx context.Context, userID int64) (*domain.CartTotal, error) {
	const q = `
SELECT ci.cart_id, SUM(ci.quantity * b.price)
FROM cart_items ci
JOIN carts ca ON ca.id = ci.cart_id
JOIN books b ON b.id = ci.book_id
WHERE ca.user_id = $1 AND ca.current
GROUP BY ci.cart_id
`
	return r.fetchTotal(ctx, q, userID)
}

func (r *postgresRepo) QuantityOf(ctx context.Context, cartID int64) (*domain.CartQuantity, error) {
	const q = `
SELECT cart_id, SUM(quantity)
FROM cart_items
WHERE cart_id = $1
GROUP BY cart_id
`
	return r.fetchQuantity(ctx, q, cartID)
}

func (r *postgresRepo) QuantityOfCurrent(ctx context.Context, userID int64) (*domain.CartQuantity, error) {
	const q = `
SELECT ci.cart_id, SUM(ci.quantity)
FROM cart_items ci
JOIN carts ca ON ca.id = ci.cart_id
WHERE ca.user_id = $1 AND ca.current
GROUP BY ci.cart_id
`
	return r.fetchQuantity(ctx, q, userID)
}

// DeleteExpiredAnonymous removes anonymous carts that are still
// current and past their expiry date. Cart items go with them via
// the cascade. The predicate is re-evaluated every sweep, so an
// interrupted run leaves the rest for the next one.
func (r *postgresRepo) DeleteExpiredAnonymous(ctx context.Context) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM carts
WHERE user_id IS NULL
  AND current
  AND expiry_date IS NOT NULL
  AND expiry_date < CURRENT_DATE
`)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, q string, args ...any) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, q, args...).Scan(
		&cart.ID, &cart.UserID, &cart.Current, &cart.PasswordHash, &cart.ExpiryDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// fetchTotal returns nil (without error) when the cart has no items:
// the aggregate query yields no row in that case.
func (r *postgresRepo) fetchTotal(ctx context.Context, q string, args ...any) (*domain.CartTotal, error) {
	var t domain.CartTotal
	err := r.pool.QueryRow(ctx, q, args...).Scan(&t.CartID, &t.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *postgresRepo) fetchQuantity(ctx context.Context, q string, args ...any) (*domain.CartQuantity, error) {
	var t domain.CartQuantity
	err := r.pool.QueryRow(ctx, q, args...).Scan(&t.CartID, &t.Items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
