package sol

import (
	"context"
	"crypto/ed25519"
	"strings"

	"github.com/chapool/web3connect/internal/wallet/address"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

// Driver creates Ed25519 wallets.
type Driver struct {
	chains chain.Service
	dial   Dialer
}

func NewDriver(chains chain.Service, opts ...Option) *Driver {
	d := &Driver{
		chains: chains,
		dial:   DialRPC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) Family() core.Family {
	return core.FamilyEd25519
}

// DeriveFromMnemonic derives the key at path (m/44'/501'/0'/0' when empty).
// BIP-32 public derivation does not exist on this curve, so every segment must
// be hardened.
func (d *Driver) DeriveFromMnemonic(_ context.Context, mnemonic string, path string, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}

	p, err := address.Resolve(path, c)
	if err != nil {
		return nil, err
	}

	seedBytes, err := seed.ToSeed(mnemonic)
	if err != nil {
		return nil, err
	}
	defer clear(seedBytes)

	key, err := address.DeriveEd25519(seedBytes, p)
	if err != nil {
		return nil, err
	}

	return d.newWallet(solana.PrivateKey(key), c), nil
}

// DeriveFromPrivateKey imports a base58 encoded 64 byte keypair as exported
// by solana-keygen and browser wallets.
func (d *Driver) DeriveFromPrivateKey(_ context.Context, key string, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, core.ErrMissingSeed
	}

	privateKey, err := solana.PrivateKeyFromBase58(key)
	if err != nil {
		return nil, errors.Wrapf(core.ErrInvalidSeed, "invalid solana private key: %v", err)
	}
	if len(privateKey) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(core.ErrInvalidSeed, "invalid solana private key length %d", len(privateKey))
	}

	// the public half must match the seed half
	expected := ed25519.NewKeyFromSeed(privateKey[:ed25519.SeedSize])
	if !expected.Equal(ed25519.PrivateKey(privateKey)) {
		return nil, errors.Wrap(core.ErrInvalidSeed, "invalid solana private key: public key mismatch")
	}

	return d.newWallet(privateKey, c), nil
}

// ConnectExternal always fails: no external signer bridge exists for this family.
func (d *Driver) ConnectExternal(_ context.Context, c *chain.Chain) (core.Wallet, error) {
	if err := d.checkChain(c); err != nil {
		return nil, err
	}
	return nil, errors.Wrap(core.ErrNoExternalProvider, "ed25519 chains have no external wallet bridge")
}

func (d *Driver) checkChain(c *chain.Chain) error {
	if c == nil {
		return errors.Wrap(core.ErrChainUnavailable, "no chain given")
	}
	if c.Family != core.FamilyEd25519 {
		return errors.Wrapf(core.ErrChainUnavailable, "chain %d is not an ed25519 chain", c.ID)
	}
	return nil
}

func (d *Driver) newWallet(key solana.PrivateKey, c *chain.Chain) *wallet {
	return &wallet{
		key:    key,
		pub:    key.PublicKey(),
		chain:  c,
		chains: d.chains,
		dial:   d.dial,
	}
}

// DialRPC creates an rpc.Client for the first URL of the list. The client
// connects lazily, so ctx is unused.
func DialRPC(_ context.Context, rpcURL string) (Backend, error) {
	urls := chain.ParseRPCURLs(rpcURL)
	if len(urls) == 0 {
		return nil, errors.Wrap(core.ErrChainUnavailable, "no rpc url configured")
	}
	return rpc.New(urls[0]), nil
}
