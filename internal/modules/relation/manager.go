// Package relation is the single choke point for every structural
// mutation: creating or deleting a record and updating its owner's reverse
// list happen inside one atomic unit, so no reader ever observes an
// orphaned reference or an orphaned child.
package relation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ewpharma/tradelink-backend/internal/modules/manufacturer"
	"github.com/ewpharma/tradelink-backend/internal/modules/product"
	"github.com/ewpharma/tradelink-backend/internal/modules/trader"
	"github.com/ewpharma/tradelink-backend/internal/storage"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Manager executes paired writes over the denormalized back-references.
// It implements the Linker interfaces declared by the entity services.
type Manager struct {
	db      *sql.DB
	adminID uuid.UUID
	timeout time.Duration
}

// NewManager creates a relation manager. adminID is the user every new
// manufacturer is attached to; timeout bounds each atomic unit.
func NewManager(db *sql.DB, adminID uuid.UUID, timeout time.Duration) *Manager {
	return &Manager{db: db, adminID: adminID, timeout: timeout}
}

// LinkManufacturer inserts m and appends its id to the admin user's
// manufacturer list. The admin row is locked first so concurrent links
// serialize on the same parent.
func (mgr *Manager) LinkManufacturer(ctx context.Context, m *manufacturer.Manufacturer) error {
	m.UserID = mgr.adminID
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		if err := lockRow(ctx, tx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, mgr.adminID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO manufacturers (id, title, description, address, image_path, user_id, trader_ids, product_ids)
			VALUES ($1, $2, $3, $4, $5, $6, '{}', '{}')`,
			m.ID, m.Title, m.Description, m.Address, m.ImagePath, m.UserID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET manufacturer_ids = array_append(manufacturer_ids, $1), updated_at = NOW()
			WHERE id = $2`, m.ID, mgr.adminID)
		return err
	})
}

// UnlinkManufacturer deletes m, its traders and products, and pulls its id
// from the owner's list. Children go first: their rows still reference the
// manufacturer, and their reverse lists die with it.
func (mgr *Manager) UnlinkManufacturer(ctx context.Context, m *manufacturer.Manufacturer) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			DELETE FROM trader_products
			WHERE trader_id IN (SELECT id FROM traders WHERE manufacturer_id = $1)
			   OR product_id IN (SELECT id FROM products WHERE manufacturer_id = $1)`, m.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM traders WHERE manufacturer_id = $1`, m.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE manufacturer_id = $1`, m.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM manufacturers WHERE id = $1`, m.ID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE users SET manufacturer_ids = array_remove(manufacturer_ids, $1), updated_at = NOW()
			WHERE id = $2`, m.ID, m.UserID)
		return err
	})
}

// LinkTrader inserts t under the manufacturer owned by ownerUserID and
// appends its id to that manufacturer's trader list.
func (mgr *Manager) LinkTrader(ctx context.Context, t *trader.Trader, ownerUserID uuid.UUID) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		manufacturerID, err := lockOwnedManufacturer(ctx, tx, ownerUserID)
		if err != nil {
			return err
		}
		t.ManufacturerID = manufacturerID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO traders (id, title, email, address, image_path, manufacturer_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, t.Title, t.Email, t.Address, t.ImagePath, t.ManufacturerID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE manufacturers SET trader_ids = array_append(trader_ids, $1), updated_at = NOW()
			WHERE id = $2`, t.ID, t.ManufacturerID)
		return err
	})
}

// UnlinkTrader deletes t, its product edges and its entry in the owning
// manufacturer's trader list.
func (mgr *Manager) UnlinkTrader(ctx context.Context, t *trader.Trader) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trader_products WHERE trader_id = $1`, t.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM traders WHERE id = $1`, t.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE manufacturers SET trader_ids = array_remove(trader_ids, $1), updated_at = NOW()
			WHERE id = $2`, t.ID, t.ManufacturerID)
		return err
	})
}

// LinkProduct inserts p under the manufacturer owned by ownerUserID,
// appends its id to that manufacturer's product list and records both
// sides of the trader association in the edge set.
func (mgr *Manager) LinkProduct(ctx context.Context, p *product.Product, ownerUserID uuid.UUID) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		manufacturerID, err := lockOwnedManufacturer(ctx, tx, ownerUserID)
		if err != nil {
			return err
		}
		p.ManufacturerID = manufacturerID

		_, err = tx.ExecContext(ctx, `
			INSERT INTO products (id, folder, title, description, price,
			                      image_path, coa_path, msds_path, cep_path, qos_path,
			                      dmf, impurities, ref_standards, pharmacopoeias, manufacturer_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
			p.ID, p.Folder, p.Title, p.Description, p.Price,
			p.ImagePath, p.COAPath, p.MSDSPath, p.CEPPath, p.QOSPath,
			p.DMF, p.Impurities, p.RefStandards, p.Pharmacopoeias, p.ManufacturerID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE manufacturers SET product_ids = array_append(product_ids, $1), updated_at = NOW()
			WHERE id = $2`, p.ID, p.ManufacturerID)
		if err != nil {
			return err
		}
		return insertTraderEdges(ctx, tx, p.ID, p.TraderIDs)
	})
}

// UnlinkProduct deletes p, its trader edges and its entry in the owning
// manufacturer's product list.
func (mgr *Manager) UnlinkProduct(ctx context.Context, p *product.Product) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trader_products WHERE product_id = $1`, p.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, p.ID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			UPDATE manufacturers SET product_ids = array_remove(product_ids, $1), updated_at = NOW()
			WHERE id = $2`, p.ID, p.ManufacturerID)
		return err
	})
}

// ReplaceProductTraders rewrites the product's trader edge set.
func (mgr *Manager) ReplaceProductTraders(ctx context.Context, productID uuid.UUID, traderIDs []uuid.UUID) error {
	return storage.RunAtomic(ctx, mgr.db, mgr.timeout, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM trader_products WHERE product_id = $1`, productID); err != nil {
			return err
		}
		return insertTraderEdges(ctx, tx, productID, traderIDs)
	})
}

// OwnerUserID reports the user account owning a manufacturer. Used by the
// ownership guard; a missing manufacturer fails closed as not found.
func (mgr *Manager) OwnerUserID(ctx context.Context, manufacturerID uuid.UUID) (uuid.UUID, error) {
	var ownerID uuid.UUID
	err := mgr.db.QueryRowContext(ctx,
		`SELECT user_id FROM manufacturers WHERE id = $1`, manufacturerID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, storage.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return ownerID, nil
}

// lockOwnedManufacturer resolves and row-locks the manufacturer attached
// to a user account so concurrent links against the same parent serialize.
func lockOwnedManufacturer(ctx context.Context, tx *sql.Tx, ownerUserID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `
		SELECT id FROM manufacturers WHERE user_id = $1
		ORDER BY created_at ASC LIMIT 1
		FOR UPDATE`, ownerUserID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, storage.ErrParentNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func lockRow(ctx context.Context, tx *sql.Tx, query string, arg interface{}) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, query, arg).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrParentNotFound
	}
	return err
}

func insertTraderEdges(ctx context.Context, tx *sql.Tx, productID uuid.UUID, traderIDs []uuid.UUID) error {
	if len(traderIDs) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO trader_products (trader_id, product_id)
		SELECT unnest($1::uuid[]), $2
		ON CONFLICT DO NOTHING`, pq.Array(traderIDs), productID)
	return err
}
