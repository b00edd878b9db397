package sqlite_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/domain/entity"
	"github.com/bnema/arkium/internal/domain/repository"
	"github.com/bnema/arkium/internal/infrastructure/persistence/sqlite"
)

func newVault(t *testing.T) (repository.CredentialRepository, *sqlite.LazyDB, string) {
	t.Helper()
	dir := t.TempDir()
	sealer, err := sqlite.LoadOrCreateSealer(filepath.Join(dir, sqlite.VaultKeyFileName))
	require.NoError(t, err)
	lazy := sqlite.NewLazyDB(filepath.Join(dir, sqlite.VaultFileName))
	t.Cleanup(func() { _ = lazy.Close() })
	return sqlite.NewCredentialRepository(lazy, sealer), lazy, dir
}

func TestCredentialRepository_SaveFind(t *testing.T) {
	ctx := testCtx()
	repo, _, _ := newVault(t)

	older := time.UnixMilli(1_700_000_000_000)
	newer := older.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "Example.COM", Username: "alice", Password: "pw1", UpdatedAt: older}))
	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "example.com", Username: "bob", Password: "pw2", UpdatedAt: newer}))

	creds, err := repo.FindByHost(ctx, "EXAMPLE.com")
	require.NoError(t, err)
	require.Len(t, creds, 2)
	assert.Equal(t, "bob", creds[0].Username, "most recent first")
	assert.Equal(t, "pw2", creds[0].Password)
	assert.Equal(t, "alice", creds[1].Username)
	assert.Equal(t, older, creds[1].UpdatedAt)

	none, err := repo.FindByHost(ctx, "other.test")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCredentialRepository_SaveReplaces(t *testing.T) {
	ctx := testCtx()
	repo, _, _ := newVault(t)

	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "a.test", Username: "alice", Password: "old"}))
	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "a.test", Username: "alice", Password: "new"}))

	creds, err := repo.FindByHost(ctx, "a.test")
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, "new", creds[0].Password)
}

func TestCredentialRepository_RejectsIncomplete(t *testing.T) {
	repo, lazy, _ := newVault(t)

	err := repo.Save(testCtx(), entity.Credential{Host: "a.test", Username: "alice"})

	assert.Error(t, err)
	assert.False(t, lazy.IsInitialized(), "vault is not opened for invalid input")
}

func TestCredentialRepository_Delete(t *testing.T) {
	ctx := testCtx()
	repo, _, _ := newVault(t)
	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "a.test", Username: "alice", Password: "pw"}))

	require.NoError(t, repo.Delete(ctx, "A.test", "alice"))

	creds, err := repo.FindByHost(ctx, "a.test")
	require.NoError(t, err)
	assert.Empty(t, creds)
}

func TestCredentialRepository_PasswordsAreSealed(t *testing.T) {
	ctx := testCtx()
	repo, lazy, _ := newVault(t)
	require.NoError(t, repo.Save(ctx, entity.Credential{Host: "a.test", Username: "alice", Password: "hunter2-plaintext"}))

	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	var stored []byte
	require.NoError(t, db.QueryRowContext(ctx, `SELECT password FROM credentials`).Scan(&stored))
	assert.False(t, bytes.Contains(stored, []byte("hunter2-plaintext")))
}

func TestSealer_KeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), sqlite.VaultKeyFileName)

	first, err := sqlite.LoadOrCreateSealer(path)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	sealed, err := first.Seal([]byte("secret"), []byte("a.test\x00alice"))
	require.NoError(t, err)

	second, err := sqlite.LoadOrCreateSealer(path)
	require.NoError(t, err)
	plain, err := second.Open(sealed, []byte("a.test\x00alice"))
	require.NoError(t, err)
	assert.Equal(t, "secret", string(plain))

	_, err = second.Open(sealed, []byte("a.test\x00mallory"))
	assert.Error(t, err, "additional data is bound")
}

func TestSealer_BadKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), sqlite.VaultKeyFileName)
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o600))

	_, err := sqlite.LoadOrCreateSealer(path)
	assert.ErrorIs(t, err, sqlite.ErrBadVaultKey)
}
