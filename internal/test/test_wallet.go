package test

import (
	"testing"
	"time"

	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/metrics"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/chapool/web3connect/internal/wallet/btc"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/evm"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/chapool/web3connect/internal/wallet/sol"
	"github.com/stretchr/testify/require"
)

// TestWallet bundles an orchestrator with the collaborators tests poke at.
type TestWallet struct {
	Service  wallet.Service
	Identity *auth.LocalProvider
	Chains   chain.Service
	Store    *keystore.Store
	Backend  *FaultyBackend
	Metrics  *metrics.Service
}

func DefaultTestWalletConfig() wallet.Config {
	return wallet.Config{
		DefaultChainID:    chain.IDEthereum,
		BackupPromptAfter: 15 * time.Minute,
		MinPasswordLength: 8,
	}
}

func NewTestChains(t *testing.T) chain.Service {
	t.Helper()

	chains, err := chain.NewService(chain.DefaultChains())
	require.NoError(t, err)
	return chains
}

// NewTestDrivers returns one driver per family. Nothing dials out unless a
// test sends a transaction.
func NewTestDrivers(chains chain.Service, evmOpts ...evm.Option) []wallet.Driver {
	return []wallet.Driver{
		evm.NewDriver(chains, evmOpts...),
		btc.NewDriver(chains),
		sol.NewDriver(chains),
	}
}

// NewTestWallet builds an orchestrator over backend. A nil drivers slice
// selects NewTestDrivers. Sessions sharing a backend behave like restarts on
// the same device.
func NewTestWallet(t *testing.T, backend *FaultyBackend, cfg wallet.Config, drivers []wallet.Driver) *TestWallet {
	t.Helper()

	if backend == nil {
		backend = NewFaultyBackend(keystore.NewMemoryBackend())
	}
	chains := NewTestChains(t)
	if drivers == nil {
		drivers = NewTestDrivers(chains)
	}

	m := metrics.New()
	store := keystore.NewStore(backend, TestDeviceID, keystore.WithWriteObserver(m))
	identity := auth.NewLocalProvider(cfg.EnabledAuthMethods)

	svc, err := wallet.NewService(cfg, chains, drivers, store, NewTestCipher(), identity, wallet.WithMetrics(m))
	require.NoError(t, err)

	return &TestWallet{
		Service:  svc,
		Identity: identity,
		Chains:   chains,
		Store:    store,
		Backend:  backend,
		Metrics:  m,
	}
}

// WithTestWallet runs closure with an orchestrator on a fresh in-memory backend.
func WithTestWallet(t *testing.T, closure func(tw *TestWallet)) {
	t.Helper()

	closure(NewTestWallet(t, nil, DefaultTestWalletConfig(), nil))
}

// SignIn signs uid in and hands the change to the orchestrator directly,
// without a running subscription loop.
func (tw *TestWallet) SignIn(t *testing.T, uid string) *auth.User {
	t.Helper()

	user, err := tw.Identity.SignIn(t.Context(), uid, auth.MethodGoogle)
	require.NoError(t, err)
	require.NoError(t, tw.Service.HandleIdentityChange(t.Context(), user))

	return user
}
