package asset

import "log/slog"

// Cleaner removes released assets as detached background tasks. A failed
// removal is logged and never reaches the request that triggered it; the
// record deletion it accompanies is already committed.
type Cleaner struct {
	store Store
}

// NewCleaner creates a cleaner over the given store.
func NewCleaner(store Store) *Cleaner {
	return &Cleaner{store: store}
}

// Release schedules a best-effort unlink of path. An empty path is a no-op.
func (c *Cleaner) Release(path string) {
	if path == "" {
		return
	}
	go c.release(path)
}

func (c *Cleaner) release(path string) {
	if err := c.store.Remove(path); err != nil {
		slog.Warn("asset cleanup failed", "path", path, "error", err)
	}
}
