package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mybooklist/internal/domain"
)

type BookWriter interface {
	Upsert(ctx context.Context, b domain.Book) (*domain.Book, error)
}

type CategoryEnsurer interface {
	Ensure(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates books,
// creating categories as they appear.
type CSVImporter struct {
	reader     *csv.Reader
	books      BookWriter
	categories CategoryEnsurer
}

func NewCSVImporter(r io.Reader, books BookWriter, categories CategoryEnsurer) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		books:      books,
		categories: categories,
	}
}

type csvRow struct {
	Title    string
	Author   string
	ISBN     string
	Year     int
	Price    float64
	Category string
	URL      string
}

// Run parses CSV rows and upserts books keyed by ISBN.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	// Categories repeat across rows; resolve each name once.
	known := make(map[string]*domain.Category)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row, known); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow, known map[string]*domain.Category) error {
	if row.Title == "" || row.ISBN == "" || row.Category == "" {
		return fmt.Errorf("invalid book row (missing required fields) for isbn %q", row.ISBN)
	}
	if row.Price <= 0 {
		return fmt.Errorf("invalid price for isbn %q", row.ISBN)
	}

	cat, ok := known[row.Category]
	if !ok {
		var err error
		cat, err = i.categories.Ensure(ctx, row.Category)
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", row.Category, err)
		}
		known[row.Category] = cat
	}

	b := domain.Book{
		Title:    row.Title,
		Author:   row.Author,
		ISBN:     row.ISBN,
		Year:     row.Year,
		Price:    row.Price,
		Category: *cat,
		URL:      row.URL,
	}

	if _, err := i.books.Upsert(ctx, b); err != nil {
		return fmt.Errorf("upsert book %q: %w", row.ISBN, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	title := pick(record, index, "title")
	author := pick(record, index, "author")
	isbn := pick(record, index, "isbn")
	category := pick(record, index, "category")
	url := pick(record, index, "url")
	yearStr := pick(record, index, "year")
	priceStr := pick(record, index, "price")

	if title == "" && isbn == "" {
		return nil
	}

	var year int
	if yearStr != "" {
		year, _ = strconv.Atoi(yearStr)
	}
	var price float64
	if priceStr != "" {
		price, _ = strconv.ParseFloat(priceStr, 64)
	}

	return &csvRow{
		Title:    title,
		Author:   author,
		ISBN:     isbn,
		Year:     year,
		Price:    price,
		Category: category,
		URL:      url,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
