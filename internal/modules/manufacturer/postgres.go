package manufacturer

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const manufacturerColumns = `id, title, description, address, image_path, user_id, trader_ids, product_ids, created_at, updated_at`

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL manufacturer repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Manufacturer, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = $1`, parsedID)
	return scanManufacturer(row)
}

func (r *postgresRepository) ListByOwnerUserID(ctx context.Context, userID string) ([]*Manufacturer, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+manufacturerColumns+` FROM manufacturers WHERE user_id = $1 ORDER BY title ASC`, parsedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var manufacturers []*Manufacturer
	for rows.Next() {
		m, err := scanManufacturer(rows)
		if err != nil {
			return nil, err
		}
		manufacturers = append(manufacturers, m)
	}
	return manufacturers, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, m *Manufacturer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE manufacturers
		SET title = $1, description = $2, address = $3, updated_at = $4
		WHERE id = $5`,
		m.Title, m.Description, m.Address, time.Now(), m.ID)
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

func scanManufacturer(row rowScanner) (*Manufacturer, error) {
	m := &Manufacturer{}
	var traderIDs, productIDs pq.StringArray
	err := row.Scan(
		&m.ID,
		&m.Title,
		&m.Description,
		&m.Address,
		&m.ImagePath,
		&m.UserID,
		&traderIDs,
		&productIDs,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	m.TraderIDs = parseIDs(traderIDs)
	m.ProductIDs = parseIDs(productIDs)
	return m, nil
}

func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
