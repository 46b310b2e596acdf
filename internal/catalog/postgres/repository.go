// Package postgres provides the PostgreSQL implementation of the catalog repository.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pagekeep/pagekeep/internal/catalog"
	"github.com/pagekeep/pagekeep/internal/domain"
)

// Repository implements the catalog.Repository interface using PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book. A duplicate ISBN violates the unique
// constraint and is returned as a generic wrapped error.
func (r *Repository) Create(ctx context.Context, book *domain.Book) error {
	query := `
		INSERT INTO books (id, title, author, published_date, isbn)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.PublishedDate,
		book.ISBN,
	).Scan(&book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetByID retrieves a book by id.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	query := `
		SELECT id, title, author, published_date, isbn, cover_image, created_at, updated_at
		FROM books
		WHERE id = $1
	`
	return scanBook(r.db.QueryRow(ctx, query, id))
}

// List retrieves one page of books ordered by creation time.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]domain.Book, error) {
	query := `
		SELECT id, title, author, published_date, isbn, cover_image, created_at, updated_at
		FROM books
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]domain.Book, 0)
	for rows.Next() {
		var book domain.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.PublishedDate,
			&book.ISBN,
			&book.CoverImage,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	return books, nil
}

// Update applies the primary fields to an existing book and refreshes the
// struct from the stored row.
func (r *Repository) Update(ctx context.Context, book *domain.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, published_date = $4, isbn = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING cover_image, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.PublishedDate,
		book.ISBN,
	).Scan(&book.CoverImage, &book.CreatedAt, &book.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.ErrBookNotFound
		}
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes the book and returns the deleted record.
func (r *Repository) Delete(ctx context.Context, id string) (*domain.Book, error) {
	query := `
		DELETE FROM books
		WHERE id = $1
		RETURNING id, title, author, published_date, isbn, cover_image, created_at, updated_at
	`
	return scanBook(r.db.QueryRow(ctx, query, id))
}

// SetCoverImage stores the cover image URL on the book and returns the
// updated record.
func (r *Repository) SetCoverImage(ctx context.Context, id, url string) (*domain.Book, error) {
	query := `
		UPDATE books
		SET cover_image = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, author, published_date, isbn, cover_image, created_at, updated_at
	`
	return scanBook(r.db.QueryRow(ctx, query, id, url))
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var book domain.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.PublishedDate,
		&book.ISBN,
		&book.CoverImage,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &book, nil
}
