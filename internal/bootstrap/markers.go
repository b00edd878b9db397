package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	markerFilePerm     = 0o644
	startupMarkerName  = "startup.marker"
	shutdownMarkerName = "shutdown.marker"
)

// chromeSingletonFiles are left behind in the profile by a browser that
// did not exit cleanly. Chrome refuses to start while they point at a
// live-looking process.
var chromeSingletonFiles = []string{"SingletonLock", "SingletonSocket", "SingletonCookie"}

func startupMarkerPath(dir string) string  { return filepath.Join(dir, startupMarkerName) }
func shutdownMarkerPath(dir string) string { return filepath.Join(dir, shutdownMarkerName) }

// writeStartupMarker records the start of a session and clears the
// shutdown marker of the previous one.
func writeStartupMarker(dir string, startedAt time.Time) error {
	if dir == "" {
		return errors.New("startup marker requires a directory")
	}
	if err := os.MkdirAll(dir, lockDirPerm); err != nil {
		return err
	}
	content := fmt.Sprintf("%s\npid=%d\nppid=%d\n",
		startedAt.Format(time.RFC3339Nano), os.Getpid(), os.Getppid())
	if err := os.WriteFile(startupMarkerPath(dir), []byte(content), markerFilePerm); err != nil {
		return err
	}
	_ = os.Remove(shutdownMarkerPath(dir))
	return nil
}

// writeShutdownMarker records a clean exit.
func writeShutdownMarker(dir string, endedAt time.Time) error {
	if dir == "" {
		return errors.New("shutdown marker requires a directory")
	}
	var started string
	if raw, err := os.ReadFile(startupMarkerPath(dir)); err == nil {
		if line := firstNonEmptyLine(raw); line != "" {
			started = "started_at=" + line + "\n"
		}
	}
	content := endedAt.Format(time.RFC3339Nano) + "\n" + started
	if err := os.WriteFile(shutdownMarkerPath(dir), []byte(content), markerFilePerm); err != nil {
		return err
	}
	_ = os.Remove(startupMarkerPath(dir))
	return nil
}

// previousExitWasAbrupt reports whether the last session started but never
// wrote its shutdown marker.
func previousExitWasAbrupt(dir string) bool {
	if _, err := os.Stat(startupMarkerPath(dir)); err != nil {
		return false
	}
	_, err := os.Stat(shutdownMarkerPath(dir))
	return errors.Is(err, os.ErrNotExist)
}

// recoverProfile removes stale singleton files from profileDir after an
// abrupt exit. It returns the files removed.
func recoverProfile(profileDir string, log *zerolog.Logger) []string {
	var removed []string
	for _, name := range chromeSingletonFiles {
		path := filepath.Join(profileDir, name)
		if _, err := os.Lstat(path); err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("failed to remove stale profile lock")
			continue
		}
		removed = append(removed, name)
	}
	if len(removed) > 0 {
		log.Warn().Strs("files", removed).Msg("recovered profile after abrupt exit")
	}
	return removed
}

func firstNonEmptyLine(raw []byte) string {
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
