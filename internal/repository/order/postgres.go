package order

import (
	"context"
	"errors"
	"io"
	"log"

	"mybooklist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const orderColumns = `
id, firstname, lastname, country, city, street, postcode, email, note, cart_id, status, password_hash, created_at
`

func (r *postgresRepo) CreateFromCart(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Flipping current to false freezes the cart; the guard in the
	// WHERE clause rejects a second checkout of the same cart.
	cmd, err := tx.Exec(ctx, `
UPDATE carts
SET current = FALSE
WHERE id = $1 AND current
`, in.CartID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrCartNotCurrent
	}

	const q = `
INSERT INTO orders (firstname, lastname, country, city, street, postcode, email, note, cart_id, password_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderColumns + `
`
	o, err := scanOrder(tx.QueryRow(ctx, q,
		in.FirstName, in.LastName, in.Country, in.City, in.Street,
		in.Postcode, in.Email, in.Note, in.CartID, in.PasswordHash,
	))
	if err != nil {
		r.logger.Printf("create order from cart %d: %v", in.CartID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	const q = `
SELECT o.id, o.firstname, o.lastname, o.country, o.city, o.street, o.postcode, o.email, o.note, o.cart_id, o.status, o.password_hash, o.created_at
FROM orders o
JOIN carts c ON c.id = o.cart_id
WHERE c.user_id = $1
ORDER BY o.created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *postgresRepo) TotalOf(ctx context.Context, orderID int64) (*domain.CartTotal, error) {
	const q = `
SELECT ci.cart_id, SUM(ci.quantity * b.price)
FROM orders o
JOIN cart_items ci ON ci.cart_id = o.cart_id
JOIN books b ON b.id = ci.book_id
WHERE o.id = $1
GROUP BY ci.cart_id
`
	var t domain.CartTotal
	err := r.pool.QueryRow(ctx, q, orderID).Scan(&t.CartID, &t.Total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.FirstName, &o.LastName, &o.Country, &o.City, &o.Street,
		&o.Postcode, &o.Email, &o.Note, &o.CartID, &o.Status, &o.PasswordHash, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
