package product

import "context"

// Repository defines single-record and listing data access for products.
// Structural writes (create, delete, trader edges) go through the relation
// manager.
type Repository interface {
	// GetByID retrieves a product by its id, with its trader edge set.
	GetByID(ctx context.Context, id string) (*Product, error)

	// ListByOwnerUserID returns one title-sorted window of the products
	// owned by the manufacturer attached to the given user account.
	ListByOwnerUserID(ctx context.Context, userID string, limit, offset int) ([]*Product, error)

	// CountByOwnerUserID counts that manufacturer's full product collection.
	CountByOwnerUserID(ctx context.Context, userID string) (int, error)

	// ListByTraderID returns all products associated with a trader.
	ListByTraderID(ctx context.Context, traderID string) ([]*Product, error)

	// FindByAssetPath looks up the product referencing the exact stored
	// path in the named asset field.
	FindByAssetPath(ctx context.Context, field, path string) (*Product, error)

	// Update rewrites the mutable fields of an existing product.
	Update(ctx context.Context, p *Product) error
}
