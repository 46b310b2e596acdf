package identity

import (
	"context"

	"github.com/pagekeep/pagekeep/internal/domain"
)

// Repository defines the interface for user persistence.
type Repository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
}
