package keystore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StaticDeviceID is a fixed device id, for tests and for deployments that
// inject one through configuration.
type StaticDeviceID string

func (s StaticDeviceID) DeviceID(context.Context) (string, error) {
	if s == "" {
		return "", errors.New("device id must not be empty")
	}
	return string(s), nil
}

// FileDeviceID persists a random installation id on first use and mixes it
// with the hostname. The result obscures the store at rest; it is not a
// secret.
type FileDeviceID struct {
	path string

	mu sync.Mutex
	id string
}

func NewFileDeviceID(path string) *FileDeviceID {
	return &FileDeviceID{path: path}
}

func (f *FileDeviceID) DeviceID(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.id != "" {
		return f.id, nil
	}

	installation, err := f.installationID()
	if err != nil {
		return "", err
	}

	host, _ := os.Hostname()
	sum := sha256.Sum256([]byte(installation + "|" + host))
	f.id = hex.EncodeToString(sum[:])

	return f.id, nil
}

func (f *FileDeviceID) installationID() (string, error) {
	data, err := os.ReadFile(f.path)
	if err == nil {
		if id, err := uuid.Parse(strings.TrimSpace(string(data))); err == nil {
			return id.String(), nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrap(err, "failed to read device id file")
	}

	id := uuid.New().String()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create device id directory")
	}
	if err := os.WriteFile(f.path, []byte(id+"\n"), 0o600); err != nil {
		return "", errors.Wrap(err, "failed to write device id file")
	}

	return id, nil
}
