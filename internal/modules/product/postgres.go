package product

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

// NewPostgresRepository creates a new PostgreSQL product repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

// productQuery aggregates the trader edge set inline so a single round
// trip populates Product.TraderIDs.
const productQuery = `
	SELECT p.id, p.folder, p.title, p.description, p.price,
	       p.image_path, p.coa_path, p.msds_path, p.cep_path, p.qos_path,
	       p.dmf, p.impurities, p.ref_standards, p.pharmacopoeias,
	       p.manufacturer_id,
	       COALESCE(array_agg(tp.trader_id) FILTER (WHERE tp.trader_id IS NOT NULL), '{}'),
	       p.created_at, p.updated_at
	FROM products p
	LEFT JOIN trader_products tp ON tp.product_id = p.id
`

// assetColumns whitelists the asset field names usable in FindByAssetPath.
var assetColumns = map[string]string{
	"image": "image_path",
	"coa":   "coa_path",
	"msds":  "msds_path",
	"cep":   "cep_path",
	"qos":   "qos_path",
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Product, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, productQuery+`
		WHERE p.id = $1
		GROUP BY p.id`, parsedID)
	return scanProduct(row)
}

func (r *postgresRepository) ListByOwnerUserID(ctx context.Context, userID string, limit, offset int) ([]*Product, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, productQuery+`
		JOIN manufacturers m ON m.id = p.manufacturer_id
		WHERE m.user_id = $1
		GROUP BY p.id
		ORDER BY p.title ASC
		LIMIT $2 OFFSET $3`, parsedID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *postgresRepository) CountByOwnerUserID(ctx context.Context, userID string) (int, error) {
	parsedID, err := uuid.Parse(userID)
	if err != nil {
		return 0, storage.ErrNotFound
	}
	var total int
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM products p
		JOIN manufacturers m ON m.id = p.manufacturer_id
		WHERE m.user_id = $1`, parsedID).Scan(&total)
	return total, err
}

func (r *postgresRepository) ListByTraderID(ctx context.Context, traderID string) ([]*Product, error) {
	parsedID, err := uuid.Parse(traderID)
	if err != nil {
		return nil, storage.ErrNotFound
	}
	rows, err := r.db.QueryContext(ctx, productQuery+`
		JOIN trader_products edge ON edge.product_id = p.id
		WHERE edge.trader_id = $1
		GROUP BY p.id
		ORDER BY p.title ASC`, parsedID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (r *postgresRepository) FindByAssetPath(ctx context.Context, field, path string) (*Product, error) {
	column, ok := assetColumns[field]
	if !ok {
		return nil, storage.ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, productQuery+`
		WHERE p.`+column+` = $1
		GROUP BY p.id`, path)
	return scanProduct(row)
}

func (r *postgresRepository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET title = $1, description = $2, price = $3,
		    image_path = $4, coa_path = $5, msds_path = $6, cep_path = $7, qos_path = $8,
		    dmf = $9, impurities = $10, ref_standards = $11, pharmacopoeias = $12,
		    updated_at = $13
		WHERE id = $14`,
		p.Title, p.Description, p.Price,
		p.ImagePath, p.COAPath, p.MSDSPath, p.CEPPath, p.QOSPath,
		p.DMF, p.Impurities, p.RefStandards, p.Pharmacopoeias,
		time.Now(), p.ID)
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

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	var traderIDs pq.StringArray
	err := row.Scan(
		&p.ID,
		&p.Folder,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.ImagePath,
		&p.COAPath,
		&p.MSDSPath,
		&p.CEPPath,
		&p.QOSPath,
		&p.DMF,
		&p.Impurities,
		&p.RefStandards,
		&p.Pharmacopoeias,
		&p.ManufacturerID,
		&traderIDs,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.TraderIDs = make([]uuid.UUID, 0, len(traderIDs))
	for _, s := range traderIDs {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		p.TraderIDs = append(p.TraderIDs, id)
	}
	return p, nil
}

func collectProducts(rows *sql.Rows) ([]*Product, error) {
	var products []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
