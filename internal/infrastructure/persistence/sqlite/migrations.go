package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/bnema/arkium/internal/logging"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// migrate brings the vault schema up to date and returns the resulting
// schema version.
func migrate(ctx context.Context, db *sql.DB) (int64, error) {
	sources, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return 0, err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sources)
	if err != nil {
		return 0, fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("apply migrations: %w", err)
	}
	log := logging.FromContext(ctx)
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Dur("took", r.Duration).
			Msg("vault migration applied")
	}

	return provider.GetDBVersion(ctx)
}
