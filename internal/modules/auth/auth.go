package auth

import (
	"context"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// Identity is the verified caller derived from a bearer token. Its claims
// are trusted verbatim for ownership checks.
type Identity struct {
	UserID   uuid.UUID
	Email    string
	Role     string
	UserName string
}

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UserName string `json:"userName"`
	jwt.StandardClaims
}

// Service defines the interface for authentication business logic.
type Service interface {
	// Login verifies the credentials and returns a signed token.
	Login(ctx context.Context, email, password string) (string, *Identity, error)

	// Verify parses and validates a token, returning the caller identity.
	Verify(token string) (*Identity, error)
}
