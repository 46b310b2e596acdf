package catalog

import (
	"context"

	"github.com/pagekeep/pagekeep/internal/domain"
)

// Repository defines the interface for book persistence.
type Repository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context, limit, offset int) ([]domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	// Delete removes the book and returns the deleted record.
	Delete(ctx context.Context, id string) (*domain.Book, error)
	SetCoverImage(ctx context.Context, id, url string) (*domain.Book, error)
}
