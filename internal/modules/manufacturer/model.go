package manufacturer

import (
	"time"

	"github.com/google/uuid"
)

// Manufacturer is a producing company on the marketplace. UserID is the
// owner reference; TraderIDs and ProductIDs are the reverse lists kept in
// lockstep with the children's owner references by the relation manager.
type Manufacturer struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	ImagePath   string      `json:"image"`
	UserID      uuid.UUID   `json:"user"`
	TraderIDs   []uuid.UUID `json:"traders"`
	ProductIDs  []uuid.UUID `json:"products"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CreateRequest carries the multipart form fields for a new manufacturer.
type CreateRequest struct {
	Title       string `validate:"required"`
	Description string `validate:"required,min=5"`
	Address     string `validate:"required"`
	ImagePath   string
}

// UpdateRequest is the payload for editing a manufacturer.
type UpdateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
	Address     string `json:"address"`
}
