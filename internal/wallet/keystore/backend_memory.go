package keystore

import (
	"context"
	"sync"
)

// MemoryBackend keeps blobs in process memory. Used in tests and for
// ephemeral sessions.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: map[string][]byte{}}
}

func (b *MemoryBackend) Load(_ context.Context, slot string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	blob, ok := b.blobs[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (b *MemoryBackend) Save(_ context.Context, slot string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.blobs[slot] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, slot string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.blobs, slot)
	return nil
}
