// Package state keeps per-session schedule uploads in SQLite.
//
// The default database is in-memory, so uploads live as long as the server
// process. Point state_path at a file to keep them across restarts.
package state

import (
	"github.com/leapstack-labs/leapgantt/pkg/core"
)

// Store is an alias for core.UploadStore.
type Store = core.UploadStore

// Upload is an alias for core.Upload.
type Upload = core.Upload

// ErrNotFound is re-exported from core.
var ErrNotFound = core.ErrNotFound

var _ Store = (*SQLiteStore)(nil)
