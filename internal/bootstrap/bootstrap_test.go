package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileLock_Exclusive(t *testing.T) {
	dir := t.TempDir()

	first, err := AcquireProfileLock(dir)
	require.NoError(t, err)

	_, err = AcquireProfileLock(dir)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, first.Release())
	require.NoError(t, first.Release())

	again, err := AcquireProfileLock(dir)
	require.NoError(t, err)
	require.NoError(t, again.Release())
}

func TestMarkers_DetectAbruptExit(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, previousExitWasAbrupt(dir), "first run")

	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, writeStartupMarker(dir, started))
	assert.True(t, previousExitWasAbrupt(dir))

	require.NoError(t, writeShutdownMarker(dir, started.Add(time.Hour)))
	assert.False(t, previousExitWasAbrupt(dir))

	raw, err := os.ReadFile(shutdownMarkerPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "started_at=2026-03-01T10:00:00Z")
	_, err = os.Stat(startupMarkerPath(dir))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRecoverProfile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Symlink("host-1234", filepath.Join(dir, "SingletonLock")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "SingletonCookie"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Preferences"), []byte("{}"), 0o600))

	log := zerolog.Nop()
	removed := recoverProfile(dir, &log)

	assert.ElementsMatch(t, []string{"SingletonLock", "SingletonCookie"}, removed)
	_, err := os.Stat(filepath.Join(dir, "Preferences"))
	assert.NoError(t, err)
}

func TestStartupTimer(t *testing.T) {
	timer := NewStartupTimer()
	timer.Mark("config")
	timer.Mark("engine")
	timer.Mark("config")

	assert.Equal(t, []string{"config", "engine"}, timer.order, "a repeated phase keeps its first position")
	assert.Len(t, timer.phases, 2)
	assert.Positive(t, timer.Total())
}
