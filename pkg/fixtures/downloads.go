package fixtures

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Downloads inspects the directory the browser saves downloads into
type Downloads struct {
	fs  afero.Fs
	dir string
}

// NewDownloads creates a view of dir on fs
func NewDownloads(fs afero.Fs, dir string) *Downloads {
	return &Downloads{fs: fs, dir: dir}
}

// Dir returns the download directory
func (d *Downloads) Dir() string {
	return d.dir
}

// Path returns the full path of a downloaded file
func (d *Downloads) Path(name string) string {
	return filepath.Join(d.dir, name)
}

// Exists reports whether a completed download named name is present.
// Chrome keeps partial downloads under a .crdownload suffix until they finish.
func (d *Downloads) Exists(name string) (bool, error) {
	info, err := d.fs.Stat(d.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat download %s: %w", name, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("download %s is a directory", name)
	}
	if ok, _ := afero.Exists(d.fs, d.Path(name)+".crdownload"); ok {
		return false, nil
	}
	return true, nil
}

// List returns the file names currently in the download directory
func (d *Downloads) List() ([]string, error) {
	entries, err := afero.ReadDir(d.fs, d.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Remove deletes a downloaded file if present
func (d *Downloads) Remove(name string) error {
	if err := d.fs.Remove(d.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove download %s: %w", name, err)
	}
	return nil
}
