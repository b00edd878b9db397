package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter_DataDirFollowsXDG(t *testing.T) {
	t.Setenv("ENV", "")
	base := t.TempDir()
	t.Setenv("XDG_DATA_HOME", base)

	adapter := New()
	dir, err := adapter.DataDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "arkium"), dir)
	assert.DirExists(t, dir)

	file, err := adapter.DataFile("history.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "arkium", "history.json"), file)

	profile, err := adapter.ProfileDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "arkium", "profile"), profile)
}

func TestAdapter_DataDirFallsBackToWorkingDir(t *testing.T) {
	t.Setenv("ENV", "")
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	t.Setenv("XDG_DATA_HOME", blocker)

	adapter := &Adapter{getwd: func() (string, error) { return "/work", nil }}
	dir, err := adapter.DataDir()

	require.NoError(t, err)
	assert.Equal(t, "/work", dir)
}

func TestAdapter_ConfigDir(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	dir, err := New().ConfigDir()

	require.NoError(t, err)
	assert.Equal(t, "/cfg/arkium", dir)
}

func TestAdapter_StateDirIsCreated(t *testing.T) {
	t.Setenv("ENV", "")
	base := t.TempDir()
	t.Setenv("XDG_STATE_HOME", base)

	dir, err := New().StateDir()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "arkium"), dir)
	assert.DirExists(t, dir)
}
