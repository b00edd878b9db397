package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

const (
	lockDirPerm  = 0o755
	lockFilePerm = 0o600
	lockFileName = "arkium.lock"
)

// ErrAlreadyRunning is returned when another arkium process holds the
// profile.
var ErrAlreadyRunning = errors.New("another arkium instance is using this profile")

// ProfileLock guards a browser profile against a second instance. Two
// browsers on one user data directory corrupt each other's state.
type ProfileLock struct {
	file *os.File
	path string
}

// AcquireProfileLock takes an exclusive advisory lock in dir.
func AcquireProfileLock(dir string) (*ProfileLock, error) {
	if err := os.MkdirAll(dir, lockDirPerm); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := filepath.Join(dir, lockFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFilePerm)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	locked, err := tryLockExclusiveNonBlocking(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("lock profile: %w", err)
	}
	if !locked {
		_ = f.Close()
		return nil, ErrAlreadyRunning
	}

	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "pid=%d\n", os.Getpid())
	return &ProfileLock{file: f, path: path}, nil
}

// Release drops the lock. It is safe to call twice.
func (l *ProfileLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlockAndClose(l.file)
	l.file = nil
	_ = os.Remove(l.path)
	return err
}

func tryLockExclusiveNonBlocking(f *os.File) (bool, error) {
	if f == nil {
		return false, errors.New("nil file")
	}
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.EWOULDBLOCK) {
		return false, nil
	}
	return false, err
}

func unlockAndClose(f *os.File) error {
	if f == nil {
		return nil
	}
	_ = unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return f.Close()
}
