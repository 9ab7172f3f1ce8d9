// Package sqlite provides the public factory for the local SQLite mirror.
// The mirror implements types.Store so embedders can browse and edit
// processes offline with the same listing contract as the remote API.
package sqlite

import (
	"github.com/mesh-intelligence/docket/internal/sqlite"
	"github.com/mesh-intelligence/docket/pkg/types"
)

// NewBackend creates a new SQLite mirror.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".docket-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}
