package wallet_test

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/test"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/evm"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	password        = "correcthorse"
	wrongPassword   = "batterystaple"
	abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"
	hardhatKey      = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

var evmAddress = `^0x[0-9a-fA-F]{40}$`

func families(ws []core.Wallet) []core.Family {
	res := make([]core.Family, 0, len(ws))
	for _, w := range ws {
		res = append(res, w.Family())
	}
	return res
}

func TestConnectMintsSeed(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()

		assert.Equal(t, wallet.StateUnauthenticated, tw.Service.State())

		tw.SignIn(t, "user-1")
		assert.Equal(t, wallet.StateAuthenticatedNoWallet, tw.Service.State())
		assert.Nil(t, tw.Service.UserInfo())

		info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		assert.Regexp(t, evmAddress, info.Address)
		assert.Equal(t, chain.IDEthereum, info.ChainID)
		assert.Equal(t, "user-1", info.UID)
		assert.Equal(t, core.DID(info.Address), info.DID)
		assert.True(t, info.BackupEnabled)
		assert.False(t, info.IsExternal)
		assert.NotEmpty(t, info.PublicKey)

		assert.Equal(t, wallet.StateWalletReady, tw.Service.State())
		assert.Equal(t, []core.Family{core.FamilyEVM, core.FamilyUTXO, core.FamilyEd25519}, families(tw.Service.Wallets()))
		assert.Equal(t, info.Address, tw.Service.Active().Address())

		sealed, ok, err := tw.Store.Get(ctx, keystore.KeySeedMaterial)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotContains(t, sealed, "mnemonic")

		method, _, err := tw.Store.Get(ctx, keystore.KeyAuthMethod)
		require.NoError(t, err)
		assert.Equal(t, "google", method)

		count, err := testutil.GatherAndCount(tw.Metrics.Registry, "web3connect_wallet_init_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestSameAddressInNewSession(t *testing.T) {
	backend := test.NewFaultyBackend(keystore.NewMemoryBackend())

	first := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	first.SignIn(t, "user-1")
	info, err := first.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
	require.NoError(t, err)
	addresses := map[core.Family]string{}
	for _, w := range first.Service.Wallets() {
		addresses[w.Family()] = w.Address()
	}

	second := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	second.SignIn(t, "user-1")
	again, err := second.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
	require.NoError(t, err)

	assert.Equal(t, info.Address, again.Address)
	assert.Equal(t, info.PublicKey, again.PublicKey)
	for _, w := range second.Service.Wallets() {
		assert.Equal(t, addresses[w.Family()], w.Address(), w.Family())
	}
}

func TestWrongPasswordDoesNotClear(t *testing.T) {
	backend := test.NewFaultyBackend(keystore.NewMemoryBackend())

	first := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	first.SignIn(t, "user-1")
	info, err := first.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
	require.NoError(t, err)

	second := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	second.SignIn(t, "user-1")

	_, err = second.Service.Connect(t.Context(), wrongPassword, wallet.ConnectChoice{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidPassword))
	assert.Equal(t, core.KindInvalidPassword, core.KindOf(err))

	assert.Equal(t, wallet.StateAuthenticatedNoWallet, second.Service.State())
	assert.NotNil(t, second.Identity.CurrentUser(), "a wrong password must not sign out")
	has, err := second.Store.Has(t.Context(), keystore.KeySeedMaterial)
	require.NoError(t, err)
	assert.True(t, has)

	again, err := second.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
	require.NoError(t, err)
	assert.Equal(t, info.Address, again.Address)
}

func TestShortPasswordRejectedForNewWallet(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		tw.SignIn(t, "user-1")

		_, err := tw.Service.Connect(t.Context(), "short", wallet.ConnectChoice{})
		assert.True(t, errors.Is(err, core.ErrInvalidPassword))

		_, err = tw.Service.Connect(t.Context(), "", wallet.ConnectChoice{})
		assert.True(t, errors.Is(err, core.ErrPasswordRequired))

		has, err := tw.Store.Has(t.Context(), keystore.KeySeedMaterial)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestConnectRequiresUser(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		_, err := tw.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
		assert.True(t, errors.Is(err, core.ErrNotAuthenticated))

		_, err = tw.Service.InitWallet(t.Context(), wallet.InitOptions{})
		assert.True(t, errors.Is(err, core.ErrNotAuthenticated))
	})
}

func TestIdentityWithoutSecretStaysPending(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		tw.SignIn(t, "user-1")

		assert.Equal(t, wallet.StateAuthenticatedNoWallet, tw.Service.State())
		assert.Nil(t, tw.Service.Active())

		_, err := tw.Service.InitWallet(t.Context(), wallet.InitOptions{})
		assert.True(t, errors.Is(err, core.ErrPasswordRequired))
		assert.NotNil(t, tw.Identity.CurrentUser())
	})
}

func TestAnonymousWithoutExternalProvider(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()

		user, err := tw.Identity.SignInAnonymously(ctx)
		require.NoError(t, err)

		err = tw.Service.HandleIdentityChange(ctx, user)
		require.Error(t, err)
		assert.True(t, errors.Is(err, core.ErrNoExternalProvider))
		assert.Equal(t, core.KindNoExternalProvider, core.KindOf(err))

		// recoverable: the user may still pick a local wallet
		assert.Equal(t, wallet.StateAuthenticatedNoWallet, tw.Service.State())
		assert.NotNil(t, tw.Identity.CurrentUser())
	})
}

type fakeSigner struct {
	key *ecdsa.PrivateKey
}

func (f *fakeSigner) Accounts() []accounts.Account {
	return []accounts.Account{{Address: crypto.PubkeyToAddress(f.key.PublicKey)}}
}

func (f *fakeSigner) SignText(_ accounts.Account, text []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(text), f.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

func (f *fakeSigner) SignTx(_ accounts.Account, tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.NewLondonSigner(chainID), f.key)
}

func TestAnonymousExternalWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	chains := test.NewTestChains(t)
	drivers := test.NewTestDrivers(chains,
		evm.WithExternalSigner("http://127.0.0.1:8550"),
		evm.WithExternalDialer(func(string) (evm.ExternalSigner, error) {
			return &fakeSigner{key: key}, nil
		}),
	)
	tw := test.NewTestWallet(t, nil, test.DefaultTestWalletConfig(), drivers)
	ctx := t.Context()

	user, err := tw.Identity.SignInAnonymously(ctx)
	require.NoError(t, err)
	require.NoError(t, tw.Service.HandleIdentityChange(ctx, user))

	info := tw.Service.UserInfo()
	require.NotNil(t, info)
	assert.True(t, info.IsExternal)
	assert.False(t, info.BackupEnabled)
	assert.Empty(t, info.PublicKey)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), info.Address)
	assert.Len(t, tw.Service.Wallets(), 1)

	has, err := tw.Store.Has(ctx, keystore.KeySeedMaterial)
	require.NoError(t, err)
	assert.False(t, has, "external wallets never touch seed material")

	_, _, err = tw.Service.Backup(ctx, true, nil)
	assert.True(t, errors.Is(err, core.ErrBackupUnavailable))

	// another evm chain rebinds the external wallet, other families have none
	info, err = tw.Service.SwitchNetwork(ctx, chain.IDPolygon)
	require.NoError(t, err)
	assert.Equal(t, chain.IDPolygon, info.ChainID)

	_, err = tw.Service.SwitchNetwork(ctx, chain.IDSolana)
	assert.True(t, errors.Is(err, core.ErrNoExternalProvider))
	assert.Len(t, tw.Service.Wallets(), 1)
}

func TestSwitchNetwork(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")
		info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)
		size := len(tw.Service.Wallets())

		// same chain is a no-op
		same, err := tw.Service.SwitchNetwork(ctx, chain.IDEthereum)
		require.NoError(t, err)
		assert.Equal(t, info, same)

		for range 2 {
			polygon, err := tw.Service.SwitchNetwork(ctx, chain.IDPolygon)
			require.NoError(t, err)
			assert.Equal(t, chain.IDPolygon, polygon.ChainID)
			assert.Equal(t, info.Address, polygon.Address)
			assert.Len(t, tw.Service.Wallets(), size)
		}

		btcInfo, err := tw.Service.SwitchNetwork(ctx, chain.IDBitcoin)
		require.NoError(t, err)
		assert.Equal(t, core.FamilyUTXO, btcInfo.Family)
		assert.Regexp(t, `^1[1-9A-HJ-NP-Za-km-z]{25,34}$`, btcInfo.Address)

		testnet, err := tw.Service.SwitchNetwork(ctx, chain.IDBitcoinTestnet)
		require.NoError(t, err)
		assert.Regexp(t, `^[mn][1-9A-HJ-NP-Za-km-z]{25,34}$`, testnet.Address)
		assert.Len(t, tw.Service.Wallets(), size)

		_, err = tw.Service.SwitchNetwork(ctx, 999)
		assert.True(t, errors.Is(err, core.ErrChainUnavailable))
		assert.Equal(t, chain.IDBitcoinTestnet, tw.Service.Active().ChainID())
		assert.Equal(t, wallet.StateWalletReady, tw.Service.State())
	})
}

func TestSwitchNetworkFollowsCoinType(t *testing.T) {
	importAbandon := func(tw *test.TestWallet, chainID int64) *wallet.UserInfo {
		tw.SignIn(t, "user-1")
		info, err := tw.Service.Connect(t.Context(), password, wallet.ConnectChoice{InitOptions: wallet.InitOptions{
			WalletType: wallet.WalletTypeImportSeed,
			Mnemonic:   abandonMnemonic,
			ChainID:    chainID,
		}})
		require.NoError(t, err)
		return info
	}

	direct := test.NewTestWallet(t, nil, test.DefaultTestWalletConfig(), nil)
	want := importAbandon(direct, chain.IDBitcoinTestnet)
	assert.Equal(t, chain.IDBitcoinTestnet, want.ChainID)

	switched := test.NewTestWallet(t, nil, test.DefaultTestWalletConfig(), nil)
	importAbandon(switched, chain.IDEthereum)

	mainnet, err := switched.Service.SwitchNetwork(t.Context(), chain.IDBitcoin)
	require.NoError(t, err)
	assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", mainnet.Address)

	stale := switched.Service.Active()

	testnet, err := switched.Service.SwitchNetwork(t.Context(), chain.IDBitcoinTestnet)
	require.NoError(t, err)
	assert.Equal(t, want.Address, testnet.Address)
	assert.Equal(t, want.PublicKey, testnet.PublicKey)
	assert.Len(t, switched.Service.Wallets(), 3)

	_, err = stale.SignMessage(t.Context(), []byte("replaced"))
	assert.True(t, errors.Is(err, core.ErrNotReady))

	back, err := switched.Service.SwitchNetwork(t.Context(), chain.IDBitcoin)
	require.NoError(t, err)
	assert.Equal(t, mainnet.Address, back.Address)
}

func TestSwitchNetworkBeforeInit(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		_, err := tw.Service.SwitchNetwork(t.Context(), chain.IDPolygon)
		assert.True(t, errors.Is(err, core.ErrNotReady))
	})
}

// blockingDriver parks the first mnemonic derivation until released.
type blockingDriver struct {
	wallet.Driver

	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (d *blockingDriver) DeriveFromMnemonic(ctx context.Context, mnemonic string, path string, c *chain.Chain) (core.Wallet, error) {
	d.once.Do(func() { close(d.started) })
	<-d.release
	return d.Driver.DeriveFromMnemonic(ctx, mnemonic, path, c)
}

func TestSwitchNetworkDuringInit(t *testing.T) {
	chains := test.NewTestChains(t)
	drivers := test.NewTestDrivers(chains)
	blocking := &blockingDriver{Driver: drivers[0], started: make(chan struct{}), release: make(chan struct{})}
	drivers[0] = blocking

	tw := test.NewTestWallet(t, nil, test.DefaultTestWalletConfig(), drivers)
	tw.SignIn(t, "user-1")

	done := make(chan error, 1)
	go func() {
		_, err := tw.Service.Connect(context.Background(), password, wallet.ConnectChoice{})
		done <- err
	}()

	<-blocking.started
	_, err := tw.Service.SwitchNetwork(t.Context(), chain.IDPolygon)
	assert.True(t, errors.Is(err, core.ErrNotReady))
	assert.Equal(t, core.KindNotReady, core.KindOf(err))

	close(blocking.release)
	require.NoError(t, <-done)

	info, err := tw.Service.SwitchNetwork(t.Context(), chain.IDPolygon)
	require.NoError(t, err)
	assert.Equal(t, chain.IDPolygon, info.ChainID)
}

func TestSeedWriteFailure(t *testing.T) {
	backend := test.NewFaultyBackend(keystore.NewMemoryBackend())
	tw := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	ctx := t.Context()

	tw.SignIn(t, "user-1")

	// the auth method and the password signature get through, the seed does not
	backend.FailSavesAfter(2)

	_, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, test.ErrInjected))

	assert.Equal(t, wallet.StateError, tw.Service.State())
	assert.Equal(t, err, tw.Service.LastError())
	assert.Nil(t, tw.Service.Active())
	assert.Empty(t, tw.Service.Wallets())
	assert.Nil(t, tw.Identity.CurrentUser(), "failed initialization signs out")

	_, ok, err := backend.Load(ctx, keystore.Slot)
	require.NoError(t, err)
	assert.False(t, ok, "failed initialization clears the store")

	// the next attempt mints again and persists before returning
	backend.FailSaves(false)
	backend.FailSavesAfter(1 << 20)

	tw.SignIn(t, "user-1")
	assert.Equal(t, wallet.StateAuthenticatedNoWallet, tw.Service.State())
	info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
	require.NoError(t, err)

	restarted := test.NewTestWallet(t, backend, test.DefaultTestWalletConfig(), nil)
	restarted.SignIn(t, "user-1")
	again, err := restarted.Service.Connect(ctx, password, wallet.ConnectChoice{})
	require.NoError(t, err)
	assert.Equal(t, info.Address, again.Address)
}

func TestImportSeed(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")

		info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: wallet.InitOptions{
			WalletType: wallet.WalletTypeImportSeed,
			Mnemonic:   strings.ToUpper(abandonMnemonic[:1]) + abandonMnemonic[1:],
		}})
		require.NoError(t, err)
		assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", info.Address)

		btcInfo, err := tw.Service.SwitchNetwork(ctx, chain.IDBitcoin)
		require.NoError(t, err)
		assert.Equal(t, "1LqBGSKuX5yYUonjxT5qGfpUsXKYYWeabA", btcInfo.Address)

		require.NoError(t, tw.Service.SignOut(ctx, false))
		tw.SignIn(t, "user-1")

		_, err = tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: wallet.InitOptions{
			WalletType: wallet.WalletTypeImportSeed,
			Mnemonic:   abandonMnemonic,
		}})
		assert.True(t, errors.Is(err, core.ErrUnsupported))

		has, err := tw.Store.Has(ctx, keystore.KeySeedMaterial)
		require.NoError(t, err)
		assert.True(t, has, "a refused import keeps the stored seed")
		assert.NotEqual(t, wallet.StateError, tw.Service.State())
	})
}

func TestImportInvalidSeedKeepsSession(t *testing.T) {
	tests := []struct {
		name string
		opts wallet.InitOptions
		kind core.Kind
	}{
		{"empty mnemonic", wallet.InitOptions{WalletType: wallet.WalletTypeImportSeed}, core.KindMissingSeed},
		{"mistyped mnemonic", wallet.InitOptions{WalletType: wallet.WalletTypeImportSeed, Mnemonic: "abandon abandon typo"}, core.KindInvalidSeed},
		{"bad checksum", wallet.InitOptions{WalletType: wallet.WalletTypeImportSeed, Mnemonic: strings.Repeat("abandon ", 12)}, core.KindInvalidSeed},
		{"non hex key", wallet.InitOptions{WalletType: wallet.WalletTypeImportPrivateKey, PrivateKey: "0xnothex"}, core.KindInvalidSeed},
		{"bad solana key", wallet.InitOptions{WalletType: wallet.WalletTypeImportPrivateKey, PrivateKey: "0OIl", ChainID: chain.IDSolana}, core.KindInvalidSeed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			test.WithTestWallet(t, func(tw *test.TestWallet) {
				ctx := t.Context()
				tw.SignIn(t, "user-1")

				_, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: tt.opts})
				require.Error(t, err)
				assert.Equal(t, tt.kind, core.KindOf(err))

				assert.Equal(t, wallet.StateAuthenticatedNoWallet, tw.Service.State())
				require.NotNil(t, tw.Service.User())
				assert.NotNil(t, tw.Identity.CurrentUser())

				has, err := tw.Store.Has(ctx, keystore.KeySignature)
				require.NoError(t, err)
				assert.True(t, has, "password signature survives a rejected import")

				has, err = tw.Store.Has(ctx, keystore.KeySeedMaterial)
				require.NoError(t, err)
				assert.False(t, has)

				// the corrected input goes through with the same password
				info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: wallet.InitOptions{
					WalletType: wallet.WalletTypeImportSeed,
					Mnemonic:   abandonMnemonic,
				}})
				require.NoError(t, err)
				assert.Equal(t, "0x9858EfFD232B4033E47d90003D41EC34EcaEda94", info.Address)
			})
		})
	}
}

func TestImportWhileReadyUnsupported(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")

		info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		for _, opts := range []wallet.InitOptions{
			{WalletType: wallet.WalletTypeImportSeed, Mnemonic: abandonMnemonic},
			{WalletType: wallet.WalletTypeImportPrivateKey, PrivateKey: hardhatKey},
		} {
			_, err = tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: opts})
			assert.True(t, errors.Is(err, core.ErrUnsupported), opts.WalletType)
		}

		assert.Equal(t, wallet.StateWalletReady, tw.Service.State())
		assert.Equal(t, info.Address, tw.Service.Active().Address())

		again, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)
		assert.Equal(t, info.Address, again.Address)
	})
}

func TestImportPrivateKey(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")

		info, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{InitOptions: wallet.InitOptions{
			WalletType: wallet.WalletTypeImportPrivateKey,
			PrivateKey: hardhatKey,
		}})
		require.NoError(t, err)
		assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", info.Address)
		assert.Equal(t, []core.Family{core.FamilyEVM}, families(tw.Service.Wallets()))

		_, err = tw.Service.SwitchNetwork(ctx, chain.IDSolana)
		assert.True(t, errors.Is(err, core.ErrUnsupported))

		sepolia, err := tw.Service.SwitchNetwork(ctx, chain.IDSepolia)
		require.NoError(t, err)
		assert.Equal(t, info.Address, sepolia.Address)
	})
}

func TestSignOutForgetsHandedOutWallets(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")
		_, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		handles := tw.Service.Wallets()
		require.Len(t, handles, 3)

		require.NoError(t, tw.Service.SignOut(ctx, false))

		for _, w := range handles {
			_, err := w.SignMessage(ctx, []byte("after sign out"))
			assert.True(t, errors.Is(err, core.ErrNotReady), w.Family())
		}
	})
}

func TestSignOut(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		tw.SignIn(t, "user-1")
		_, err := tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		require.NoError(t, tw.Service.SignOut(ctx, false))
		assert.Equal(t, wallet.StateUnauthenticated, tw.Service.State())
		assert.Nil(t, tw.Service.UserInfo())
		assert.Nil(t, tw.Identity.CurrentUser())

		has, err := tw.Store.Has(ctx, keystore.KeySeedMaterial)
		require.NoError(t, err)
		assert.True(t, has, "seed survives a plain sign out")

		tw.SignIn(t, "user-1")
		_, err = tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		require.NoError(t, tw.Service.SignOut(ctx, true))
		has, err = tw.Store.Has(ctx, keystore.KeySeedMaterial)
		require.NoError(t, err)
		assert.False(t, has)
	})
}

func TestRememberSecret(t *testing.T) {
	backend := test.NewFaultyBackend(keystore.NewMemoryBackend())
	cfg := test.DefaultTestWalletConfig()
	cfg.RememberSecret = true

	first := test.NewTestWallet(t, backend, cfg, nil)
	first.SignIn(t, "user-1")
	info, err := first.Service.Connect(t.Context(), password, wallet.ConnectChoice{})
	require.NoError(t, err)

	// a returning user is unlocked without a prompt
	second := test.NewTestWallet(t, backend, cfg, nil)
	second.SignIn(t, "user-1")
	assert.Equal(t, wallet.StateWalletReady, second.Service.State())
	assert.Equal(t, info.Address, second.Service.UserInfo().Address)

	// signing out forgets the remembered secret
	require.NoError(t, second.Service.SignOut(t.Context(), false))
	third := test.NewTestWallet(t, backend, cfg, nil)
	third.SignIn(t, "user-1")
	assert.Equal(t, wallet.StateAuthenticatedNoWallet, third.Service.State())
}

func TestBackupPolicy(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx := t.Context()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		status, err := tw.Service.BackupStatus(ctx, now)
		require.NoError(t, err)
		assert.False(t, status.Available)
		assert.False(t, status.ShouldPrompt)
		assert.True(t, errors.Is(tw.Service.SkipBackup(ctx, now), core.ErrBackupUnavailable))

		tw.SignIn(t, "user-1")
		_, err = tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		status, err = tw.Service.BackupStatus(ctx, now)
		require.NoError(t, err)
		assert.True(t, status.Available)
		assert.True(t, status.Pending)
		assert.True(t, status.ShouldPrompt, "a new seed prompts right away")

		require.NoError(t, tw.Service.SkipBackup(ctx, now))

		status, err = tw.Service.BackupStatus(ctx, now.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, status.ShouldPrompt)
		require.NotNil(t, status.SkippedAt)
		assert.Equal(t, now, *status.SkippedAt)

		status, err = tw.Service.BackupStatus(ctx, now.Add(15*time.Minute))
		require.NoError(t, err)
		assert.True(t, status.ShouldPrompt)

		artifact, location, err := tw.Service.Backup(ctx, true, keystore.DirSink{Dir: t.TempDir()})
		require.NoError(t, err)
		assert.NotEmpty(t, location)
		assert.True(t, artifact.Encrypted)
		assert.Equal(t, tw.Service.UserInfo().Address, artifact.Address)

		status, err = tw.Service.BackupStatus(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		assert.False(t, status.Pending)
		assert.False(t, status.ShouldPrompt)
		assert.Nil(t, status.SkippedAt)

		plain, location, err := tw.Service.Backup(ctx, false, nil)
		require.NoError(t, err)
		assert.Empty(t, location)
		assert.False(t, plain.Encrypted)
		assert.Contains(t, plain.Payload, `"kind":"mnemonic"`)
	})
}

func TestRunFollowsIdentity(t *testing.T) {
	test.WithTestWallet(t, func(tw *test.TestWallet) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		done := make(chan error, 1)
		go func() {
			done <- tw.Service.Run(ctx)
		}()

		_, err := tw.Identity.SignIn(ctx, "user-1", auth.MethodEmailLink)
		require.NoError(t, err)
		require.Eventually(t, func() bool {
			return tw.Service.State() == wallet.StateAuthenticatedNoWallet
		}, 5*time.Second, 10*time.Millisecond)

		_, err = tw.Service.Connect(ctx, password, wallet.ConnectChoice{})
		require.NoError(t, err)

		require.NoError(t, tw.Identity.SignOut(ctx))
		require.Eventually(t, func() bool {
			return tw.Service.State() == wallet.StateUnauthenticated
		}, 5*time.Second, 10*time.Millisecond)
		assert.Empty(t, tw.Service.Wallets())

		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
	})
}

func TestNewServiceValidatesConfig(t *testing.T) {
	chains := test.NewTestChains(t)
	cfg := test.DefaultTestWalletConfig()
	store := keystore.NewStore(keystore.NewMemoryBackend(), test.TestDeviceID)
	identity := auth.NewLocalProvider(nil)

	cfg.DefaultChainID = 42
	_, err := wallet.NewService(cfg, chains, test.NewTestDrivers(chains), store, test.NewTestCipher(), identity)
	assert.True(t, errors.Is(err, core.ErrChainUnavailable))

	cfg.DefaultChainID = chain.IDEthereum
	drivers := append(test.NewTestDrivers(chains), evm.NewDriver(chains))
	_, err = wallet.NewService(cfg, chains, drivers, store, test.NewTestCipher(), identity)
	require.Error(t, err)

	svc, err := wallet.NewService(cfg, chains, test.NewTestDrivers(chains), store, test.NewTestCipher(), identity)
	require.NoError(t, err)
	assert.Len(t, svc.AuthMethods(), 4)
}
