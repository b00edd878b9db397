package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bnema/arkium/internal/logging"
)

// DatabaseProvider hands out the vault connection.
type DatabaseProvider interface {
	DB(ctx context.Context) (*sql.DB, error)
}

// LazyDB opens the vault the first time a caller needs it. Most sessions
// never fill a login form, so the WASM compile and the migrations wait.
type LazyDB struct {
	path string

	mu      sync.Mutex
	tried   bool
	db      *sql.DB
	openErr error
}

var errVaultClosed = errors.New("vault closed")

var _ DatabaseProvider = (*LazyDB)(nil)

// NewLazyDB returns a provider for the vault at path.
func NewLazyDB(path string) *LazyDB {
	return &LazyDB{path: path}
}

// DB returns the shared connection. Only the first call opens it; a failed
// open is remembered and returned to every later caller.
func (l *LazyDB) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.tried {
		l.tried = true
		logging.FromContext(ctx).Debug().Str("path", l.path).Msg("opening vault")
		l.db, l.openErr = Open(ctx, l.path)
		if l.openErr != nil {
			logging.FromContext(ctx).Error().Err(l.openErr).Msg("vault unavailable")
		}
	}
	if l.openErr != nil {
		return nil, fmt.Errorf("vault: %w", l.openErr)
	}
	if l.db == nil {
		return nil, errVaultClosed
	}
	return l.db, nil
}

// Close releases the connection when one was opened.
func (l *LazyDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}

// IsInitialized reports whether the vault has been opened successfully.
func (l *LazyDB) IsInitialized() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db != nil
}
