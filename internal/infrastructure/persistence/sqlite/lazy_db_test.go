package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/arkium/internal/logging"
)

func testCtx() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

func TestLazyDB_OpensOnFirstAccess(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), sqlite.VaultFileName))
	assert.False(t, lazy.IsInitialized())

	db, err := lazy.DB(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lazy.Close() })
	assert.True(t, lazy.IsInitialized())

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'credentials'`).Scan(&tables))
	assert.Equal(t, 1, tables, "migrations ran")
}

func TestLazyDB_ConcurrentAccessSharesConnection(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), sqlite.VaultFileName))
	t.Cleanup(func() { _ = lazy.Close() })

	const goroutines = 8
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []any
	)
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			db, err := lazy.DB(ctx)
			assert.NoError(t, err)
			mu.Lock()
			got = append(got, db)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, got, goroutines)
	for _, db := range got[1:] {
		assert.Same(t, got[0], db)
	}
}

func TestLazyDB_CloseBeforeInit(t *testing.T) {
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), sqlite.VaultFileName))
	assert.NoError(t, lazy.Close())
}

func TestLazyDB_FailureIsSticky(t *testing.T) {
	lazy := sqlite.NewLazyDB("")

	_, err := lazy.DB(testCtx())
	require.Error(t, err)
	_, err = lazy.DB(testCtx())
	assert.Error(t, err)
}

func TestLazyDB_UseAfterClose(t *testing.T) {
	ctx := testCtx()
	lazy := sqlite.NewLazyDB(filepath.Join(t.TempDir(), sqlite.VaultFileName))

	_, err := lazy.DB(ctx)
	require.NoError(t, err)
	require.NoError(t, lazy.Close())

	_, err = lazy.DB(ctx)
	assert.Error(t, err)
	assert.False(t, lazy.IsInitialized())
}
