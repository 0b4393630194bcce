package book

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

const bookColumns = `
b.id, b.title, b.author, b.isbn, b.book_year, b.price, b.url, c.id, c.name
`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
JOIN categories c ON c.id = b.category_id
ORDER BY b.title ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
JOIN categories c ON c.id = b.category_id
WHERE b.id = $1
`
	var b domain.Book
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year, &b.Price, &b.URL,
		&b.Category.ID, &b.Category.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *postgresRepo) ListByCategory(ctx context.Context, categoryName string) ([]domain.Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books b
JOIN categories c ON c.id = b.category_id
WHERE c.name = $1
ORDER BY b.title ASC
`
	rows, err := r.pool.Query(ctx, q, categoryName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooks(rows)
}

// TopSales ranks books by the total quantity held in carts that were
// turned into orders.
func (r *postgresRepo) TopSales(ctx context.Context) ([]domain.BookSales, error) {
	const q = `
SELECT b.id, b.title, b.author, b.isbn, b.book_year, b.price, b.url, SUM(ci.quantity) AS sold
FROM books b
JOIN cart_items ci ON ci.book_id = b.id
JOIN orders o ON o.cart_id = ci.cart_id
GROUP BY b.id, b.title, b.author, b.isbn, b.book_year, b.price, b.url
ORDER BY sold DESC, b.title ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.BookSales
	for rows.Next() {
		var s domain.BookSales
		if err := rows.Scan(&s.BookID, &s.Title, &s.Author, &s.ISBN, &s.Year, &s.Price, &s.URL, &s.Quantity); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *postgresRepo) IDsInCart(ctx context.Context, cartID int64) ([]int64, error) {
	const q = `
SELECT book_id
FROM cart_items
WHERE cart_id = $1
ORDER BY book_id ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *postgresRepo) InCart(ctx context.Context, cartID int64) ([]domain.BookInCart, error) {
	const q = `
SELECT b.id, ci.cart_id, b.title, b.author, b.isbn, b.book_year, b.price, c.name, ci.quantity, b.url
FROM cart_items ci
JOIN books b ON b.id = ci.book_id
JOIN categories c ON c.id = b.category_id
WHERE ci.cart_id = $1
ORDER BY b.title ASC
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooksInCart(rows)
}

func (r *postgresRepo) InCurrentCartOf(ctx context.Context, userID int64) ([]domain.BookInCart, error) {
	const q = `
SELECT b.id, ci.cart_id, b.title, b.author, b.isbn, b.book_year, b.price, c.name, ci.quantity, b.url
FROM cart_items ci
JOIN carts ca ON ca.id = ci.cart_id
JOIN books b ON b.id = ci.book_id
JOIN categories c ON c.id = b.category_id
WHERE ca.user_id = $1 AND ca.current
ORDER BY b.title ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBooksInCart(rows)
}

func (r *postgresRepo) Upsert(ctx context.Context, b domain.Book) (*domain.Book, error) {
	const q = `
INSERT INTO books (title, author, isbn, book_year, price, category_id, url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (isbn) DO UPDATE
SET title = EXCLUDED.title,
    author = EXCLUDED.author,
    book_year = EXCLUDED.book_year,
    price = EXCLUDED.price,
    category_id = EXCLUDED.category_id,
    url = EXCLUDED.url
RETURNING id
`
	out := b
	if err := r.pool.QueryRow(ctx, q, b.Title, b.Author, b.ISBN, b.Year, b.Price, b.Category.ID, b.URL).Scan(&out.ID); err != nil {
		r.logger.Printf("upsert book %s: %v", b.ISBN, err)
		return nil, err
	}
	return &out, nil
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var out []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Year, &b.Price, &b.URL,
			&b.Category.ID, &b.Category.Name,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooksInCart(rows pgx.Rows) ([]domain.BookInCart, error) {
	var out []domain.BookInCart
	for rows.Next() {
		var b domain.BookInCart
		if err := rows.Scan(
			&b.BookID, &b.CartID, &b.Title, &b.Author, &b.ISBN, &b.Year,
			&b.Price, &b.Category, &b.Quantity, &b.URL,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
