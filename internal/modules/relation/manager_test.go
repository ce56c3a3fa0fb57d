package relation

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ewpharma/tradelink-backend/internal/modules/manufacturer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures every statement the manager prepares so the write
// order inside an atomic unit can be asserted without a live database.
type recorder struct {
	mu      sync.Mutex
	queries []string
}

func (r *recorder) add(q string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

type recordingDriver struct{ rec *recorder }

func (d recordingDriver) Open(string) (driver.Conn, error) { return recordingConn{rec: d.rec}, nil }

type recordingConn struct{ rec *recorder }

func (c recordingConn) Prepare(q string) (driver.Stmt, error) {
	c.rec.add(q)
	return recordingStmt{}, nil
}

func (recordingConn) Close() error              { return nil }
func (recordingConn) Begin() (driver.Tx, error) { return recordingTx{}, nil }

type recordingStmt struct{}

func (recordingStmt) Close() error   { return nil }
func (recordingStmt) NumInput() int  { return -1 }
func (recordingStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}
func (recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries not supported")
}

type recordingTx struct{}

func (recordingTx) Commit() error   { return nil }
func (recordingTx) Rollback() error { return nil }

func openRecorder(t *testing.T) (*sql.DB, *recorder) {
	t.Helper()
	rec := &recorder{}
	name := "relation-recorder-" + t.Name()
	sql.Register(name, recordingDriver{rec: rec})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, rec
}

func statementIndex(t *testing.T, queries []string, substr string) int {
	t.Helper()
	for i, q := range queries {
		if strings.Contains(q, substr) {
			return i
		}
	}
	t.Fatalf("no statement containing %q in %v", substr, queries)
	return -1
}

// Deleting a manufacturer must remove its traders, products and their
// association edges in the same unit, before the manufacturer row itself;
// the child rows still reference it.
func TestUnlinkManufacturerRemovesChildrenFirst(t *testing.T) {
	db, rec := openRecorder(t)
	mgr := NewManager(db, uuid.New(), time.Second)

	m := &manufacturer.Manufacturer{ID: uuid.New(), UserID: uuid.New()}
	require.NoError(t, mgr.UnlinkManufacturer(context.Background(), m))

	queries := rec.all()
	parent := statementIndex(t, queries, "DELETE FROM manufacturers")
	assert.Less(t, statementIndex(t, queries, "DELETE FROM trader_products"), parent)
	assert.Less(t, statementIndex(t, queries, "DELETE FROM traders"), parent)
	assert.Less(t, statementIndex(t, queries, "DELETE FROM products"), parent)
	assert.Less(t, parent, statementIndex(t, queries, "UPDATE users"))
}
