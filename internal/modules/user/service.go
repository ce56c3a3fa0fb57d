package user

import "context"

// Service defines the interface for user-related business logic.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}
