package keystore

import (
	"context"
	"io"
	"path/filepath"

	"github.com/pkg/errors"
)

// Backend kinds accepted by NewBackend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

type BackendConfig struct {
	Kind        string `json:"kind"`
	Dir         string `json:"dir"`
	PostgresDSN string `json:"-"`
}

// NewBackend creates the configured persistence backend. Backends holding a
// connection implement io.Closer.
//
//nolint:ireturn
func NewBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	var (
		b   Backend
		err error
	)

	switch cfg.Kind {
	case BackendMemory:
		b = NewMemoryBackend()
	case BackendFile, "":
		b, err = asBackend(NewFileBackend(cfg.Dir))
	case BackendBadger:
		b, err = asBackend(NewBadgerBackend(filepath.Join(cfg.Dir, "badger")))
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("postgres backend requires a dsn")
		}
		b, err = asBackend(NewPostgresBackend(ctx, cfg.PostgresDSN))
	default:
		return nil, errors.Errorf("unknown storage backend %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	return b, nil
}

// asBackend drops typed nil pointers so a failed constructor yields a nil Backend.
//
//nolint:ireturn
func asBackend[T Backend](b T, err error) (Backend, error) {
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CloseBackend closes b when it holds resources.
func CloseBackend(b Backend) error {
	if c, ok := b.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
