package test

import (
	"context"
	"sync"
	"testing"

	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
)

// ErrInjected is returned by FaultyBackend when a fault is armed.
var ErrInjected = errors.New("injected storage fault")

// FaultyBackend wraps a backend and fails writes on demand.
type FaultyBackend struct {
	keystore.Backend

	mu         sync.Mutex
	failSaves  bool
	failAfter  int
	saves      int
	failLoads  bool
	failDelete bool
}

func NewFaultyBackend(inner keystore.Backend) *FaultyBackend {
	return &FaultyBackend{Backend: inner, failAfter: -1}
}

// FailSaves makes every following Save fail until reset.
func (f *FaultyBackend) FailSaves(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSaves = fail
}

// FailSavesAfter lets n more saves through and fails the rest.
func (f *FaultyBackend) FailSavesAfter(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAfter = f.saves + n
}

func (f *FaultyBackend) FailLoads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failLoads = fail
}

func (f *FaultyBackend) FailDeletes(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failDelete = fail
}

// Saves returns the number of successful saves.
func (f *FaultyBackend) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *FaultyBackend) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failLoads
	f.mu.Unlock()

	if fail {
		return nil, false, ErrInjected
	}
	return f.Backend.Load(ctx, slot)
}

func (f *FaultyBackend) Save(ctx context.Context, slot string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSaves || (f.failAfter >= 0 && f.saves >= f.failAfter) {
		return ErrInjected
	}
	if err := f.Backend.Save(ctx, slot, data); err != nil {
		return err
	}
	f.saves++

	return nil
}

func (f *FaultyBackend) Delete(ctx context.Context, slot string) error {
	f.mu.Lock()
	fail := f.failDelete
	f.mu.Unlock()

	if fail {
		return ErrInjected
	}
	return f.Backend.Delete(ctx, slot)
}

// TestDeviceID is the device id used by test stores.
const TestDeviceID = keystore.StaticDeviceID("test-device-0001")

// NewTestCipher returns a cipher provider with the light scrypt profile.
func NewTestCipher() *cipher.Provider {
	return cipher.New(cipher.LightScryptParams())
}

// WithTestStore runs closure with a store on a fresh in-memory backend.
func WithTestStore(t *testing.T, closure func(store *keystore.Store, backend *FaultyBackend)) {
	t.Helper()

	backend := NewFaultyBackend(keystore.NewMemoryBackend())
	closure(keystore.NewStore(backend, TestDeviceID), backend)
}
