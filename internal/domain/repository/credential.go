package repository

import (
	"context"

	"github.com/bnema/arkium/internal/domain/entity"
)

// CredentialRepository stores site logins keyed by host.
type CredentialRepository interface {
	// Save upserts the credential for (host, username).
	Save(ctx context.Context, cred entity.Credential) error

	// FindByHost returns the logins for host, most recently updated first.
	FindByHost(ctx context.Context, host string) ([]entity.Credential, error)

	// Delete removes the login for (host, username).
	Delete(ctx context.Context, host, username string) error
}
