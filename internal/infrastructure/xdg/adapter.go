// Package xdg resolves where arkium keeps its files.
package xdg

import (
	"os"
	"path/filepath"

	"github.com/bnema/arkium/internal/application/port"
	"github.com/bnema/arkium/internal/infrastructure/config"
)

const (
	ownerOnlyDir   = 0o700
	profileDirName = "profile"
)

// Adapter resolves the XDG base directories. Data and state directories
// are created on demand; when that is impossible the working directory
// stands in so the browser still starts.
type Adapter struct {
	getwd func() (string, error)
}

var _ port.XDGPaths = (*Adapter)(nil)

// New returns an adapter that falls back to the process working directory.
func New() *Adapter {
	return &Adapter{getwd: os.Getwd}
}

func (a *Adapter) ConfigDir() (string, error) { return config.GetConfigDir() }

func (a *Adapter) DataDir() (string, error) { return a.ensure(config.GetDataDir) }

func (a *Adapter) StateDir() (string, error) { return a.ensure(config.GetStateDir) }

// ProfileDir is the engine's user data directory under DataDir. The engine
// creates it itself.
func (a *Adapter) ProfileDir() (string, error) { return a.DataFile(profileDirName) }

// DataFile is the path of name inside DataDir.
func (a *Adapter) DataFile(name string) (string, error) {
	dir, err := a.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (a *Adapter) ensure(resolve func() (string, error)) (string, error) {
	if dir, err := resolve(); err == nil && os.MkdirAll(dir, ownerOnlyDir) == nil {
		return dir, nil
	}
	return a.getwd()
}
