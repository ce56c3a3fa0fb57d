package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDriver satisfies just enough of database/sql/driver to run an
// atomic unit without a live database.
type stubDriver struct{ state *stubState }

type stubState struct {
	mu        sync.Mutex
	commits   int
	rollbacks int
}

func (s *stubState) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits, s.rollbacks
}

func (d stubDriver) Open(string) (driver.Conn, error) { return stubConn{state: d.state}, nil }

type stubConn struct{ state *stubState }

func (stubConn) Prepare(string) (driver.Stmt, error) { return stubStmt{}, nil }
func (stubConn) Close() error                        { return nil }
func (c stubConn) Begin() (driver.Tx, error)         { return stubTx{state: c.state}, nil }

type stubStmt struct{}

func (stubStmt) Close() error  { return nil }
func (stubStmt) NumInput() int { return -1 }
func (stubStmt) Exec([]driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}
func (stubStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries not supported")
}

type stubTx struct{ state *stubState }

func (t stubTx) Commit() error {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	t.state.commits++
	return nil
}

func (t stubTx) Rollback() error {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	t.state.rollbacks++
	return nil
}

func openStub(t *testing.T) (*sql.DB, *stubState) {
	t.Helper()
	state := &stubState{}
	name := "atomic-stub-" + t.Name()
	sql.Register(name, stubDriver{state: state})
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, state
}

func TestRunAtomicCommitsOnSuccess(t *testing.T) {
	db, state := openStub(t)

	err := RunAtomic(context.Background(), db, time.Second, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), `UPDATE records SET n = n + 1`)
		return err
	})
	require.NoError(t, err)

	commits, _ := state.counts()
	assert.Equal(t, 1, commits)
}

// Missing-record and conflict failures must reach the caller untouched so
// handlers can map them; wrapping them as aborted would turn a 404 into a 500.
func TestRunAtomicPassesSentinelsThrough(t *testing.T) {
	db, state := openStub(t)

	for _, sentinel := range []error{ErrParentNotFound, ErrNotFound, ErrConflict} {
		err := RunAtomic(context.Background(), db, time.Second, func(*sql.Tx) error {
			return sentinel
		})
		assert.ErrorIs(t, err, sentinel)
		assert.NotErrorIs(t, err, ErrTransactionAborted)
	}

	commits, rollbacks := state.counts()
	assert.Equal(t, 0, commits)
	assert.Equal(t, 3, rollbacks)
}

func TestRunAtomicWrapsFailuresAsAborted(t *testing.T) {
	db, state := openStub(t)

	cause := errors.New("deadlock detected")
	err := RunAtomic(context.Background(), db, time.Second, func(*sql.Tx) error {
		return cause
	})
	assert.ErrorIs(t, err, ErrTransactionAborted)
	assert.NotErrorIs(t, err, ErrStoreTimeout)

	commits, rollbacks := state.counts()
	assert.Equal(t, 0, commits)
	assert.Equal(t, 1, rollbacks)
}

// A unit that overruns its deadline surfaces as a store timeout, never as
// a committed write.
func TestRunAtomicMapsDeadlineToStoreTimeout(t *testing.T) {
	db, state := openStub(t)

	err := RunAtomic(context.Background(), db, 10*time.Millisecond, func(*sql.Tx) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, ErrStoreTimeout)

	commits, _ := state.counts()
	assert.Equal(t, 0, commits)
}
