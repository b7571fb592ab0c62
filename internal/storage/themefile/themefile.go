// Package themefile persists the theme preference as a single JSON document
// on disk, the durable key-value entry of the storefront.
package themefile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"

	"github.com/xenking/storefront-gateway/internal/domain/theme"
)

var _ theme.Persister = (*Store)(nil)

// Store reads and writes the theme mode at a fixed file path.
type Store struct {
	path string
}

// New returns a Store backed by the given path. The parent directory is
// created on the first Save.
func New(path string) *Store {
	return &Store{path: path}
}

type document struct {
	Mode theme.Mode `json:"mode"`
}

// Load reads the persisted mode. A missing file maps to
// theme.ErrNotPersisted so the store falls back to platform detection.
func (s *Store) Load() (theme.Mode, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", theme.ErrNotPersisted
		}
		return "", errors.Wrap(err, "read theme file")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", errors.Wrap(err, "decode theme file")
	}
	return doc.Mode, nil
}

// Save writes the mode atomically: a temp file in the same directory is
// renamed over the target so readers never see a partial document.
func (s *Store) Save(mode theme.Mode) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create theme dir")
	}

	data, err := json.Marshal(document{Mode: mode})
	if err != nil {
		return errors.Wrap(err, "encode theme file")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".theme-*")
	if err != nil {
		return errors.Wrap(err, "create temp theme file")
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return errors.Wrap(err, "write temp theme file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return errors.Wrap(err, "close temp theme file")
	}
	if err := os.Rename(name, s.path); err != nil {
		os.Remove(name)
		return errors.Wrap(err, "replace theme file")
	}
	return nil
}
