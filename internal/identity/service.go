// Package identity provides user registration, login, and token issuance.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/pagekeep/pagekeep/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the bcrypt work factor used for password hashing.
const bcryptCost = 10

// Authenticator issues and verifies signed tokens.
type Authenticator interface {
	GenerateToken(ctx context.Context, user *domain.User) (string, error)
	ValidateToken(ctx context.Context, token string) (userID string, role domain.Role, err error)
}

// Service implements registration and login against the credential store.
type Service struct {
	repo Repository
	auth Authenticator
}

// NewService creates a new identity service.
func NewService(repo Repository, auth Authenticator) *Service {
	return &Service{repo: repo, auth: auth}
}

// RegisterInput contains the fields accepted on registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a new user with a hashed password. The role defaults to
// "user" when not provided. Fails with ErrEmailExists if the email is taken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	user := &domain.User{
		ID:       domain.NewID(),
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hash),
		Role:     role,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a signed token embedding the
// user's id and role. Fails with ErrUserNotFound when the email is unknown
// and ErrInvalidPassword when the hash comparison fails.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	token, err := s.auth.GenerateToken(ctx, user)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return token, nil
}

// ValidateToken verifies a bearer token and returns the identity it
// carries. Satisfies httputil.TokenValidator.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, domain.Role, error) {
	return s.auth.ValidateToken(ctx, token)
}
