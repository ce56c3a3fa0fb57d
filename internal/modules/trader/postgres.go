package trader

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL trader repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// traderQuery aggregates the product edge set inline so a single round
// trip populates Trader.ProductIDs.
const traderQuery = `
	SELECT t.id, t.title, t.email, t.address, t.image_path, t.manufacturer_id,
	       COALESCE(array_agg(tp.product_id) FILTER (WHERE tp.product_id IS NOT NULL), '{}'),
	       t.created_at, t.updated_at
	FROM traders t
	LEFT JOIN trader_products tp ON tp.trader_id = t.id
`

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Trader, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, traderQuery+`
		WHERE t.id = $1
		GROUP BY t.id`, parsedID)
	return scanTrader(row)
}

func (r *postgresRepository) ListByManufacturerID(ctx context.Context, manufacturerID string) ([]*Trader, error) {
	parsedID, err := uuid.Parse(manufacturerID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, traderQuery+`
		WHERE t.manufacturer_id = $1
		GROUP BY t.id
		ORDER BY t.title ASC`, parsedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traders []*Trader
	for rows.Next() {
		t, err := scanTrader(rows)
		if err != nil {
			return nil, err
		}
		traders = append(traders, t)
	}
	return traders, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, t *Trader) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE traders
		SET title = $1, email = $2, address = $3, updated_at = $4
		WHERE id = $5`,
		t.Title, t.Email, t.Address, time.Now(), t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrader(row rowScanner) (*Trader, error) {
	t := &Trader{}
	var productIDs pq.StringArray
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Email,
		&t.Address,
		&t.ImagePath,
		&t.ManufacturerID,
		&productIDs,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.ProductIDs = make([]uuid.UUID, 0, len(productIDs))
	for _, s := range productIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		t.ProductIDs = append(t.ProductIDs, id)
	}
	return t, nil
}
