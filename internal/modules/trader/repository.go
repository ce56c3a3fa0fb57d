package trader

import "context"

// Repository defines single-record data access for traders. Structural
// writes (create, delete) go through the relation manager.
type Repository interface {
	// GetByID retrieves a trader by its id, with its product edge set.
	GetByID(ctx context.Context, id string) (*Trader, error)

	// ListByManufacturerID returns all traders owned by a manufacturer.
	ListByManufacturerID(ctx context.Context, manufacturerID string) ([]*Trader, error)

	// Update rewrites the mutable fields of an existing trader.
	Update(ctx context.Context, t *Trader) error
}
