package keystore_test

import (
	"context"
	"testing"

	"github.com/chapool/web3connect/internal/metrics"
	"github.com/chapool/web3connect/internal/test"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetSetRemove(t *testing.T) {
	test.WithTestStore(t, func(store *keystore.Store, backend *test.FaultyBackend) {
		ctx := t.Context()

		_, ok, err := store.Get(ctx, "a")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, store.Set(ctx, "a", "1"))
		require.NoError(t, store.SetMany(ctx, map[string]string{"b": "2", "c": "3"}))
		assert.Equal(t, 2, backend.Saves())

		v, ok, err := store.Get(ctx, "b")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "2", v)

		require.NoError(t, store.Remove(ctx, "b"))
		has, err := store.Has(ctx, "b")
		require.NoError(t, err)
		assert.False(t, has)

		id, err := store.GetUniqueID(ctx)
		require.NoError(t, err)
		assert.Equal(t, string(test.TestDeviceID), id)
	})
}

func TestStorePersistsAcrossInstances(t *testing.T) {
	ctx := t.Context()
	backend := keystore.NewMemoryBackend()

	first := keystore.NewStore(backend, test.TestDeviceID)
	require.NoError(t, first.Set(ctx, keystore.KeyAuthMethod, "email-link"))

	blob, ok, err := backend.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(blob), "email-link")

	second := keystore.NewStore(backend, test.TestDeviceID)
	v, ok, err := second.Get(ctx, keystore.KeyAuthMethod)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "email-link", v)

	// another device cannot open the blob
	other := keystore.NewStore(backend, keystore.StaticDeviceID("other-device"))
	_, _, err = other.Get(ctx, keystore.KeyAuthMethod)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrDecryption))
	assert.False(t, errors.Is(err, core.ErrInvalidPassword))
}

func TestStoreFailedWriteLeavesState(t *testing.T) {
	test.WithTestStore(t, func(store *keystore.Store, backend *test.FaultyBackend) {
		ctx := t.Context()

		require.NoError(t, store.Set(ctx, "k", "old"))

		backend.FailSaves(true)
		err := store.Set(ctx, "k", "new")
		assert.True(t, errors.Is(err, test.ErrInjected))

		err = store.Set(ctx, "other", "x")
		assert.True(t, errors.Is(err, test.ErrInjected))

		v, _, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "old", v)
		has, err := store.Has(ctx, "other")
		require.NoError(t, err)
		assert.False(t, has)

		// a fresh process sees the same state
		backend.FailSaves(false)
		reloaded := keystore.NewStore(backend, test.TestDeviceID)
		v, _, err = reloaded.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "old", v)
	})
}

func TestStoreClear(t *testing.T) {
	test.WithTestStore(t, func(store *keystore.Store, backend *test.FaultyBackend) {
		ctx := t.Context()

		require.NoError(t, store.Set(ctx, "k", "v"))

		backend.FailDeletes(true)
		require.Error(t, store.Clear(ctx))
		has, err := store.Has(ctx, "k")
		require.NoError(t, err)
		assert.True(t, has)

		backend.FailDeletes(false)
		require.NoError(t, store.Clear(ctx))
		has, err = store.Has(ctx, "k")
		require.NoError(t, err)
		assert.False(t, has)

		_, ok, err := backend.Load(ctx, keystore.Slot)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreLoadFailure(t *testing.T) {
	test.WithTestStore(t, func(store *keystore.Store, backend *test.FaultyBackend) {
		backend.FailLoads(true)
		_, _, err := store.Get(t.Context(), "k")
		assert.True(t, errors.Is(err, test.ErrInjected))

		backend.FailLoads(false)
		_, ok, err := store.Get(t.Context(), "k")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreSealedEntries(t *testing.T) {
	test.WithTestStore(t, func(store *keystore.Store, _ *test.FaultyBackend) {
		ctx := t.Context()
		provider := test.NewTestCipher()

		require.NoError(t, store.SetSealed(ctx, keystore.KeySeedMaterial, "correcthorse", provider, []byte("seed words")))

		raw, ok, err := store.Get(ctx, keystore.KeySeedMaterial)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotContains(t, raw, "seed words")

		plain, ok, err := store.GetSealed(ctx, keystore.KeySeedMaterial, "correcthorse", provider)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("seed words"), plain)

		_, ok, err = store.GetSealed(ctx, keystore.KeySeedMaterial, "batterystaple", provider)
		assert.True(t, ok)
		assert.True(t, errors.Is(err, core.ErrInvalidPassword))

		_, ok, err = store.GetSealed(ctx, "missing", "correcthorse", provider)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestStoreWriteObserver(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	backend := test.NewFaultyBackend(keystore.NewMemoryBackend())
	store := keystore.NewStore(backend, test.TestDeviceID, keystore.WithWriteObserver(m))

	require.NoError(t, store.Set(ctx, "a", "b"))
	backend.FailSaves(true)
	require.Error(t, store.Set(ctx, "a", "c"))

	count, err := testutil.GatherAndCount(m.Registry, "web3connect_store_writes_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
