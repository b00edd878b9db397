package chromium

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/bnema/arkium/assets"
)

const (
	startPageDir   = "startpage"
	startPageIndex = "index.html"
)

// WriteStartPage copies the bundled start document under dir and returns
// its file URL. Existing files are overwritten so upgrades take effect.
func WriteStartPage(dir string) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve start page dir: %w", err)
	}

	err = fs.WalkDir(assets.StartPage, startPageDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(abs, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := fs.ReadFile(assets.StartPage, p)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return "", fmt.Errorf("write start page: %w", err)
	}

	u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(abs, startPageDir, startPageIndex))}
	return u.String(), nil
}
