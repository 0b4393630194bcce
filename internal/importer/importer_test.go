package importer

import (
	"context"
	"strings"
	"testing"

	"mybooklist/internal/domain"
)

type stubBookRepo struct {
	items []domain.Book
}

func (s *stubBookRepo) Upsert(_ context.Context, b domain.Book) (*domain.Book, error) {
	b.ID = int64(len(s.items) + 1)
	s.items = append(s.items, b)
	return &b, nil
}

type stubCategoryRepo struct {
	ensured []string
}

func (s *stubCategoryRepo) Ensure(_ context.Context, name string) (*domain.Category, error) {
	s.ensured = append(s.ensured, name)
	return &domain.Category{ID: int64(len(s.ensured)), Name: name}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `title,author,isbn,year,price,category,url
The Hobbit,J.R.R. Tolkien,9780261103344,1937,9.99,Fantasy,https://example.com/hobbit.jpg
Dune,Frank Herbert,9780441172719,1965,12.50,Science Fiction,https://example.com/dune.jpg
The Silmarillion,J.R.R. Tolkien,9780261102736,1977,11.25,Fantasy,`

	books := &stubBookRepo{}
	cats := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), books, cats)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 books imported, got %d", count)
	}
	if len(books.items) != 3 {
		t.Fatalf("expected 3 books saved, got %d", len(books.items))
	}

	first := books.items[0]
	if first.Title != "The Hobbit" || first.ISBN != "9780261103344" || first.Year != 1937 || first.Price != 9.99 {
		t.Fatalf("unexpected book data: %+v", first)
	}
	if first.Category.Name != "Fantasy" {
		t.Fatalf("expected Fantasy category, got %q", first.Category.Name)
	}

	// Fantasy appears twice but must be resolved only once.
	if len(cats.ensured) != 2 {
		t.Fatalf("expected 2 category ensures, got %d (%v)", len(cats.ensured), cats.ensured)
	}
	if books.items[0].Category.ID != books.items[2].Category.ID {
		t.Fatalf("expected both Fantasy books to share a category id")
	}
}

func TestCSVImporter_SkipsBlankRows(t *testing.T) {
	csvData := `title,author,isbn,year,price,category,url
The Hobbit,J.R.R. Tolkien,9780261103344,1937,9.99,Fantasy,
,,,,,,
`
	books := &stubBookRepo{}
	cats := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), books, cats)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 book imported, got %d", count)
	}
}

func TestCSVImporter_RejectsBadPrice(t *testing.T) {
	csvData := `title,author,isbn,year,price,category,url
Broken Book,Nobody,9780000000000,2000,0,Fantasy,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubBookRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for non-positive price")
	}
}

func TestCSVImporter_RejectsMissingFields(t *testing.T) {
	csvData := `title,author,isbn,year,price,category,url
,Nobody,9780000000001,2000,5.00,Fantasy,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubBookRepo{}, &stubCategoryRepo{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing title")
	}
}
