// Package jwt implements token issuance and verification with HMAC-signed
// JSON Web Tokens.
package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pagekeep/pagekeep/internal/domain"
	"github.com/pagekeep/pagekeep/internal/identity"
)

// Config contains authenticator settings.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
}

// Claims are the token claims: subject id plus the embedded role.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies HS256-signed tokens.
type Authenticator struct {
	secretKey     []byte
	tokenDuration time.Duration
}

// NewAuthenticator creates a new authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	return &Authenticator{
		secretKey:     []byte(cfg.SecretKey),
		tokenDuration: cfg.TokenDuration,
	}
}

// GenerateToken issues a signed token embedding the user's id and role.
func (a *Authenticator) GenerateToken(_ context.Context, user *domain.User) (string, error) {
	now := time.Now()

	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken verifies the signature and expiry and returns the embedded
// identity. Fails with identity.ErrInvalidToken on any verification error.
func (a *Authenticator) ValidateToken(_ context.Context, tokenString string) (string, domain.Role, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secretKey, nil
	})
	if err != nil {
		return "", "", identity.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", identity.ErrInvalidToken
	}

	return claims.Subject, claims.Role, nil
}
