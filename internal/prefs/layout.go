package prefs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jask/shopdash/internal/layout"
)

const layoutFile = "layout.json"

var _ layout.Persister = (*FileStore)(nil)

// DefaultPath returns the layout file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shopdash", layoutFile), nil
}

// FileStore persists the layout snapshot as a single JSON document.
// Writes go to a temp file that is renamed over the target.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(_ context.Context) (layout.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return layout.Snapshot{}, false, nil
		}
		return layout.Snapshot{}, false, err
	}
	snap, err := layout.Unmarshal(data)
	if err != nil {
		return layout.Snapshot{}, false, fmt.Errorf("%s: %w", f.path, err)
	}
	return snap, true, nil
}

func (f *FileStore) Save(_ context.Context, snap layout.Snapshot) error {
	data, err := layout.Marshal(snap)
	if err != nil {
		return err
	}
	return writeAtomic(f.path, data)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
