// Package sqlite holds the credential vault: a SQLite database whose
// passwords are sealed with a per-profile key.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/bnema/arkium/internal/logging"
)

// VaultFileName is the vault database inside the data directory.
const VaultFileName = "credentials.db"

const dbDirPerm = 0o750

// vaultPragmas are applied by the driver on every new connection.
var vaultPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(wal)",
	"synchronous(normal)",
	"secure_delete(on)",
}

// dsn builds the driver URI for path with the vault pragmas attached.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range vaultPragmas {
		q.Add("_pragma", p)
	}
	u := url.URL{Scheme: "file", OmitHost: true, Path: path, RawQuery: q.Encode()}
	return u.String()
}

// Open opens the vault at path, creating its directory, and migrates it.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("vault path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), dbDirPerm); err != nil {
		return nil, fmt.Errorf("create vault directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}
	// One writer, a handful of writes per session.
	db.SetMaxOpenConns(1)

	version, err := migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	logging.FromContext(ctx).Info().
		Str("path", path).
		Int64("schema", version).
		Msg("credential vault opened")
	return db, nil
}
