package keystore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// FileBackend stores each slot as a 0600 file in a directory. Saves are
// atomic, a crash leaves the old or the new blob.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "failed to create store directory %s", dir)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(slot string) string {
	return filepath.Join(b.dir, filepath.Base(slot)+".json")
}

func (b *FileBackend) Load(_ context.Context, slot string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(slot))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to read store file")
	}
	return data, true, nil
}

func (b *FileBackend) Save(_ context.Context, slot string, data []byte) error {
	if err := renameio.WriteFile(b.path(slot), data, 0o600); err != nil {
		return errors.Wrap(err, "failed to replace store file")
	}
	return nil
}

func (b *FileBackend) Delete(_ context.Context, slot string) error {
	err := os.Remove(b.path(slot))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "failed to delete store file")
	}
	return nil
}
