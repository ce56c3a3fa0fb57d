package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/ewpharma/tradelink-backend/internal/modules/user"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type service struct {
	userRepo user.Repository
	secret   []byte
}

// NewService creates a new auth service signing with the given secret.
func NewService(userRepo user.Repository, secret string) Service {
	return &service{userRepo: userRepo, secret: []byte(secret)}
}

func (s *service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	u, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, storage.ErrUnauthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, storage.ErrUnauthenticated
	}

	claims := &Claims{
		UserID:   u.ID.String(),
		Email:    u.Email,
		Role:     u.Role,
		UserName: u.Name,
		StandardClaims: jwt.StandardClaims{
			Subject:   u.ID.String(),
			ExpiresAt: time.Now().Add(24 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}

	identity := &Identity{UserID: u.ID, Email: u.Email, Role: u.Role, UserName: u.Name}
	return tokenString, identity, nil
}

func (s *service) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, storage.ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, storage.ErrUnauthenticated
	}

	return &Identity{
		UserID:   userID,
		Email:    claims.Email,
		Role:     claims.Role,
		UserName: claims.UserName,
	}, nil
}
