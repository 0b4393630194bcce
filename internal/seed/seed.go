package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type bookSeed struct {
	Title    string
	Author   string
	ISBN     string
	Year     int
	Price    float64
	Category string
	URL      string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	books := []bookSeed{
		{
			Title:    "The Hobbit",
			Author:   "J.R.R. Tolkien",
			ISBN:     "9780261103344",
			Year:     1937,
			Price:    9.99,
			Category: "Fantasy",
			URL:      "https://covers.example.com/hobbit.jpg",
		},
		{
			Title:    "Dune",
			Author:   "Frank Herbert",
			ISBN:     "9780441172719",
			Year:     1965,
			Price:    12.50,
			Category: "Science Fiction",
			URL:      "https://covers.example.com/dune.jpg",
		},
		{
			Title:    "Pride and Prejudice",
			Author:   "Jane Austen",
			ISBN:     "9780141439518",
			Year:     1813,
			Price:    7.25,
			Category: "Classics",
			URL:      "https://covers.example.com/pride.jpg",
		},
		{
			Title:    "The Pragmatic Programmer",
			Author:   "Andrew Hunt",
			ISBN:     "9780135957059",
			Year:     2019,
			Price:    39.90,
			Category: "Programming",
			URL:      "https://covers.example.com/pragprog.jpg",
		},
	}

	for _, b := range books {
		categoryID, err := ensureCategory(ctx, pool, b.Category)
		if err != nil {
			return fmt.Errorf("ensure category %s: %w", b.Category, err)
		}
		if err := upsertBook(ctx, pool, categoryID, b); err != nil {
			return fmt.Errorf("upsert book %s: %w", b.ISBN, err)
		}
	}

	return nil
}

func ensureCategory(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	const q = `
INSERT INTO categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertBook(ctx context.Context, pool *pgxpool.Pool, categoryID int64, b bookSeed) error {
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
`
	_, err := pool.Exec(ctx, q, b.Title, b.Author, b.ISBN, b.Year, b.Price, categoryID, b.URL)
	return err
}
