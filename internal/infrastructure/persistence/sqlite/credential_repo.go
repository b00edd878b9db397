package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/logging"
)

type credentialRepo struct {
	provider DatabaseProvider
	sealer   *Sealer
}

// NewCredentialRepository creates a vault-backed credential repository.
func NewCredentialRepository(provider DatabaseProvider, sealer *Sealer) repository.CredentialRepository {
	return &credentialRepo{provider: provider, sealer: sealer}
}

func associated(host, username string) []byte {
	return []byte(host + "\x00" + username)
}

// Save inserts or replaces the login for (host, username).
func (r *credentialRepo) Save(ctx context.Context, c entity.Credential) error {
	if !c.IsComplete() {
		return fmt.Errorf("incomplete credential for %q", c.Host)
	}
	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}

	host := strings.ToLower(c.Host)
	sealed, err := r.sealer.Seal([]byte(c.Password), associated(host, c.Username))
	if err != nil {
		return fmt.Errorf("failed to seal password: %w", err)
	}
	updated := c.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO credentials (host, username, password, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (host, username) DO UPDATE SET
			password = excluded.password,
			updated_at = excluded.updated_at`,
		host, c.Username, sealed, updated.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// FindByHost returns the logins for host, most recently updated first.
// Rows that fail to unseal are skipped.
func (r *credentialRepo) FindByHost(ctx context.Context, host string) ([]entity.Credential, error) {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	host = strings.ToLower(host)

	rows, err := db.QueryContext(ctx, `
		SELECT username, password, updated_at
		FROM credentials
		WHERE host = ?
		ORDER BY updated_at DESC, username ASC`, host)
	if err != nil {
		return nil, fmt.Errorf("failed to query credentials: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.Credential
	for rows.Next() {
		var (
			username string
			sealed   []byte
			updated  int64
		)
		if err := rows.Scan(&username, &sealed, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan credential: %w", err)
		}
		password, err := r.sealer.Open(sealed, associated(host, username))
		if err != nil {
			logging.FromContext(ctx).Warn().Str("host", host).Msg("credential could not be unsealed, skipping")
			continue
		}
		out = append(out, entity.Credential{
			Host:      host,
			Username:  username,
			Password:  string(password),
			UpdatedAt: time.UnixMilli(updated),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credentials: %w", err)
	}
	return out, nil
}

func (r *credentialRepo) Delete(ctx context.Context, host, username string) error {
	db, err := r.provider.DB(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`DELETE FROM credentials WHERE host = ? AND username = ?`,
		strings.ToLower(host), username); err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}
