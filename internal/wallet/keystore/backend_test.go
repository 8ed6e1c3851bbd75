package keystore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseBackend(t *testing.T, b keystore.Backend) {
	t.Helper()
	ctx := t.Context()

	_, ok, err := b.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Save(ctx, keystore.Slot, []byte("one")))
	require.NoError(t, b.Save(ctx, keystore.Slot, []byte("two")))

	data, ok, err := b.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("two"), data)

	require.NoError(t, b.Delete(ctx, keystore.Slot))
	require.NoError(t, b.Delete(ctx, keystore.Slot))

	_, ok, err = b.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, keystore.NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	dir := t.TempDir()
	b, err := keystore.NewFileBackend(dir)
	require.NoError(t, err)
	exerciseBackend(t, b)

	require.NoError(t, b.Save(t.Context(), keystore.Slot, []byte("blob")))
	info, err := os.Stat(filepath.Join(dir, keystore.Slot+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, b.Save(t.Context(), keystore.Slot, []byte("newer blob")))
	data, ok, err := b.Load(t.Context(), keystore.Slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("newer blob"), data)

	info, err = os.Stat(filepath.Join(dir, keystore.Slot+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestBadgerBackend(t *testing.T) {
	b, err := keystore.NewBadgerBackend("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)
}

func TestBadgerBackendOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := t.Context()

	b, err := keystore.NewBadgerBackend(dir)
	require.NoError(t, err)
	require.NoError(t, b.Save(ctx, keystore.Slot, []byte("persisted")))
	require.NoError(t, b.Close())

	b, err = keystore.NewBadgerBackend(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	data, ok, err := b.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("persisted"), data)
}

func TestPostgresBackend(t *testing.T) {
	dsn := os.Getenv("WEB3CONNECT_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("WEB3CONNECT_TEST_POSTGRES_DSN not set")
	}

	b, err := keystore.NewPostgresBackend(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)
}

func TestNewBackend(t *testing.T) {
	ctx := t.Context()
	dir := t.TempDir()

	for _, kind := range []string{keystore.BackendMemory, keystore.BackendFile, keystore.BackendBadger} {
		b, err := keystore.NewBackend(ctx, keystore.BackendConfig{Kind: kind, Dir: dir})
		require.NoError(t, err, kind)
		exerciseBackend(t, b)
		require.NoError(t, keystore.CloseBackend(b))
	}

	_, err := keystore.NewBackend(ctx, keystore.BackendConfig{Kind: keystore.BackendPostgres})
	require.Error(t, err)

	_, err = keystore.NewBackend(ctx, keystore.BackendConfig{Kind: "s3"})
	require.Error(t, err)
}
