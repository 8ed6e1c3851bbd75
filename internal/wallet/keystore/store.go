package keystore

import (
	"context"
	"encoding/json"
	"maps"
	"sync"

	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

// Store keeps an in-memory map hydrated once from the backend. Every mutation
// re-seals the whole map and replaces the persisted blob; the in-memory map
// only changes after the backend confirmed the write.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	device   DeviceID
	index    *cipher.Provider
	entries  map[string]string
	hydrated bool
	observer WriteObserver
}

type StoreOption func(*Store)

// WithWriteObserver reports blob writes, typically to metrics.
func WithWriteObserver(o WriteObserver) StoreOption {
	return func(s *Store) {
		s.observer = o
	}
}

// WithIndexCipher replaces the provider sealing the blob under the device id.
func WithIndexCipher(p *cipher.Provider) StoreOption {
	return func(s *Store) {
		s.index = p
	}
}

func NewStore(backend Backend, device DeviceID, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		device:  device,
		index:   cipher.New(cipher.LightScryptParams()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetUniqueID returns the device identifier the blob is sealed with.
func (s *Store) GetUniqueID(ctx context.Context) (string, error) {
	id, err := s.device.DeviceID(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to get device id")
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.hydrate(ctx); err != nil {
		return "", false, err
	}

	v, ok := s.entries[key]
	return v, ok, nil
}

// Has reports whether key is present.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := s.Get(ctx, key)
	return ok, err
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	return s.mutate(ctx, func(m map[string]string) {
		m[key] = value
	})
}

// SetMany writes all pairs with a single blob write.
func (s *Store) SetMany(ctx context.Context, pairs map[string]string) error {
	return s.mutate(ctx, func(m map[string]string) {
		maps.Copy(m, pairs)
	})
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.mutate(ctx, func(m map[string]string) {
		delete(m, key)
	})
}

// RemoveMany deletes keys with a single blob write.
func (s *Store) RemoveMany(ctx context.Context, keys ...string) error {
	return s.mutate(ctx, func(m map[string]string) {
		for _, k := range keys {
			delete(m, k)
		}
	})
}

// Clear deletes the persisted blob and empties the cache.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Delete(ctx, Slot)
	s.observe(err)
	if err != nil {
		return errors.Wrap(err, "failed to delete store blob")
	}

	s.entries = map[string]string{}
	s.hydrated = true

	util.LogFromContext(ctx).Debug().Msg("Cleared encrypted store")

	return nil
}

// SetSealed encrypts plaintext under passKey before storing it, so the entry is
// opaque even to a holder of the device id.
func (s *Store) SetSealed(ctx context.Context, key string, passKey string, provider *cipher.Provider, plaintext []byte) error {
	sealed, err := provider.Encrypt(passKey, plaintext)
	if err != nil {
		return errors.Wrapf(err, "failed to seal %s", key)
	}
	return s.Set(ctx, key, sealed)
}

// GetSealed opens an entry written by SetSealed. A wrong passKey matches
// core.ErrInvalidPassword.
func (s *Store) GetSealed(ctx context.Context, key string, passKey string, provider *cipher.Provider) ([]byte, bool, error) {
	sealed, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	plaintext, err := provider.Decrypt(passKey, sealed)
	if err != nil {
		return nil, true, err
	}

	return plaintext, true, nil
}

func (s *Store) mutate(ctx context.Context, fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.hydrate(ctx); err != nil {
		return err
	}

	next := maps.Clone(s.entries)
	if next == nil {
		next = map[string]string{}
	}
	fn(next)

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.entries = next

	return nil
}

func (s *Store) persist(ctx context.Context, entries map[string]string) error {
	deviceID, err := s.GetUniqueID(ctx)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return errors.Wrap(err, "failed to marshal store entries")
	}
	defer clear(data)

	sealed, err := s.index.Encrypt(deviceID, data)
	if err != nil {
		return errors.Wrap(err, "failed to seal store blob")
	}

	err = s.backend.Save(ctx, Slot, []byte(sealed))
	s.observe(err)
	if err != nil {
		util.LogFromContext(ctx).Error().Err(err).Msg("Failed to persist encrypted store")
		return errors.Wrap(err, "failed to persist store blob")
	}

	return nil
}

// hydrate loads the blob once per process. Caller holds mu.
func (s *Store) hydrate(ctx context.Context) error {
	if s.hydrated {
		return nil
	}

	blob, ok, err := s.backend.Load(ctx, Slot)
	if err != nil {
		return errors.Wrap(err, "failed to load store blob")
	}

	entries := map[string]string{}
	if ok {
		deviceID, err := s.GetUniqueID(ctx)
		if err != nil {
			return err
		}

		data, err := s.index.Decrypt(deviceID, string(blob))
		if err != nil {
			// flattened so a blob from another device never reads as a wrong password
			return &core.DecryptionError{Cause: errors.Errorf("failed to open store blob: %v", err)}
		}
		defer clear(data)

		if err := json.Unmarshal(data, &entries); err != nil {
			return &core.DecryptionError{Cause: errors.Wrap(err, "failed to unmarshal store blob")}
		}
	}

	s.entries = entries
	s.hydrated = true

	return nil
}

func (s *Store) observe(err error) {
	if s.observer != nil {
		s.observer.ObserveStoreWrite(err)
	}
}
