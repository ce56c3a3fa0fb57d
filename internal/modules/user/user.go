package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a marketplace account. ManufacturerIDs is the reverse
// list of manufacturers attached to this account; it is written only by
// the relation manager, in lockstep with Manufacturer.UserID.
type User struct {
	ID              uuid.UUID   `json:"id"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	PasswordHash    string      `json:"-"`
	Role            string      `json:"role"`
	ManufacturerIDs []uuid.UUID `json:"manufacturers"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// SignupRequest is the payload for creating an account.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}
