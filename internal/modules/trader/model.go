package trader

import (
	"time"

	"github.com/google/uuid"
)

// Trader is a distributing company attached to exactly one manufacturer.
// ProductIDs is read from the trader_products edge set, never written
// directly.
type Trader struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	Email          string      `json:"email"`
	Address        string      `json:"address"`
	ImagePath      string      `json:"image"`
	ManufacturerID uuid.UUID   `json:"manufacturer"`
	ProductIDs     []uuid.UUID `json:"products"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// CreateRequest carries the multipart form fields for a new trader.
type CreateRequest struct {
	Title     string `validate:"required"`
	Email     string `validate:"required,email"`
	Address   string `validate:"required"`
	ImagePath string
}

// UpdateRequest is the payload for editing a trader.
type UpdateRequest struct {
	Title   string `json:"title" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address"`
}
