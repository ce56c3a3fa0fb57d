package manufacturer

import "context"

// Repository defines single-record data access for manufacturers.
// Structural writes (create, delete) go through the relation manager.
type Repository interface {
	// GetByID retrieves a manufacturer by its id.
	GetByID(ctx context.Context, id string) (*Manufacturer, error)

	// ListByOwnerUserID returns all manufacturers attached to a user account.
	ListByOwnerUserID(ctx context.Context, userID string) ([]*Manufacturer, error)

	// Update rewrites the mutable fields of an existing manufacturer.
	Update(ctx context.Context, m *Manufacturer) error
}
