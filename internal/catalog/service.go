// Package catalog provides HTTP handlers and business logic for the book catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pagekeep/pagekeep/internal/domain"
)

// DefaultPageLimit is the page size used when the client does not pass one.
const DefaultPageLimit = 10

// CoverStore uploads cover image bytes to object storage and returns the
// URL the image is served from.
type CoverStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

// allowedCoverTypes are the accepted cover image MIME types.
var allowedCoverTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/jpg":  true,
}

// CoverUpload describes an uploaded cover image file.
type CoverUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Service implements book CRUD and cover attachment against the catalog store.
type Service struct {
	repo   Repository
	covers CoverStore
}

// NewService creates a new catalog service.
func NewService(repo Repository, covers CoverStore) *Service {
	return &Service{repo: repo, covers: covers}
}

// Create persists a new book under a generated id. The payload is expected
// to have passed the validation pipeline already. A duplicate ISBN is not
// specially handled and surfaces as a generic error.
func (s *Service) Create(ctx context.Context, book *domain.Book) error {
	book.ID = domain.NewID()
	if err := s.repo.Create(ctx, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// List returns one page of books. The skip offset is (page-1)*limit; an
// empty page is a valid, non-error result.
func (s *Service) List(ctx context.Context, page, limit int) ([]domain.Book, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return s.repo.List(ctx, limit, (page-1)*limit)
}

// GetByID returns the book with the given id. Fails with ErrInvalidID when
// the id is not object-id shaped and ErrBookNotFound when absent.
func (s *Service) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	if !domain.IsValidID(id) {
		return nil, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

// Update applies a validated payload to an existing book and returns the
// updated record. Fails with ErrBookNotFound when the id matches nothing.
func (s *Service) Update(ctx context.Context, id string, book *domain.Book) (*domain.Book, error) {
	book.ID = id
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete removes the book and returns the deleted record.
func (s *Service) Delete(ctx context.Context, id string) (*domain.Book, error) {
	if !domain.IsValidID(id) {
		return nil, ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}

// UpdateCover uploads the file to object storage and sets the returned URL
// on the record. Fails with ErrUnsupportedFileType for non-image uploads.
func (s *Service) UpdateCover(ctx context.Context, id string, upload CoverUpload) (*domain.Book, error) {
	if !domain.IsValidID(id) {
		return nil, ErrInvalidID
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if !allowedCoverTypes[upload.ContentType] {
		return nil, ErrUnsupportedFileType
	}

	if s.covers == nil {
		return nil, errors.New("cover storage is not configured")
	}

	key := "covers/" + uuid.NewString() + filepath.Ext(upload.Filename)
	url, err := s.covers.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}

	book, err := s.repo.SetCoverImage(ctx, id, url)
	if err != nil {
		return nil, err
	}
	return book, nil
}
