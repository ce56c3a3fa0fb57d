package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RunAtomic executes fn inside a single transaction bounded by timeout.
// Either every write in fn is committed or none is; a deadline overrun
// surfaces as ErrStoreTimeout, any other failure as ErrTransactionAborted
// wrapping the cause.
func RunAtomic(ctx context.Context, db *sql.DB, timeout time.Duration, fn func(tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return wrapAtomic(ctx, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		// Sentinel failures (missing parent, conflict) pass through untouched
		// so call sites can map them; everything else is an aborted unit.
		if errors.Is(err, ErrParentNotFound) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return err
		}
		return wrapAtomic(ctx, err)
	}

	if err := tx.Commit(); err != nil {
		return wrapAtomic(ctx, err)
	}
	return nil
}

func wrapAtomic(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrTransactionAborted, err)
}
