package sol_test

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/chapool/web3connect/internal/wallet/address"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/seed"
	"github.com/chapool/web3connect/internal/wallet/sol"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const abandonMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func setup(t *testing.T, opts ...sol.Option) (*sol.Driver, *chain.Chain) {
	t.Helper()
	chains, err := chain.NewService(chain.DefaultChains())
	require.NoError(t, err)
	c, err := chains.GetChain(chain.IDSolana)
	require.NoError(t, err)
	return sol.NewDriver(chains, opts...), c
}

func TestDeriveFromMnemonic(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)
	assert.Equal(t, core.FamilyEd25519, w.Family())
	assert.Equal(t, chain.IDSolana, w.ChainID())

	raw, err := base58.Decode(w.Address())
	require.NoError(t, err)
	assert.Len(t, raw, ed25519.PublicKeySize)

	// same key as SLIP-0010 along m/44'/501'/0'/0'
	seedBytes, err := seed.ToSeed(abandonMnemonic)
	require.NoError(t, err)
	key, err := address.DeriveEd25519(seedBytes, address.MustParsePath("m/44'/501'/0'/0'"))
	require.NoError(t, err)
	assert.Equal(t, []byte(key.Public().(ed25519.PublicKey)), raw)

	again, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "m/44'/501'/0'/0'", mainnet)
	require.NoError(t, err)
	assert.Equal(t, w.Address(), again.Address())

	other, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "m/44'/501'/1'/0'", mainnet)
	require.NoError(t, err)
	assert.NotEqual(t, w.Address(), other.Address())
}

func TestDeriveErrors(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	_, err := d.DeriveFromMnemonic(ctx, "", "", mainnet)
	assert.True(t, errors.Is(err, core.ErrMissingSeed))

	// bip32 style public derivation is not mixed into ed25519
	_, err = d.DeriveFromMnemonic(ctx, abandonMnemonic, "m/44'/501'/0'/0/0", mainnet)
	assert.True(t, errors.Is(err, core.ErrInvalidDerivationPath))

	_, err = d.DeriveFromMnemonic(ctx, abandonMnemonic, "m/44'/60'/0'/0'", mainnet)
	assert.True(t, errors.Is(err, core.ErrInvalidDerivationPath))

	_, err = d.ConnectExternal(ctx, mainnet)
	assert.True(t, errors.Is(err, core.ErrNoExternalProvider))

	_, err = d.DeriveFromPrivateKey(ctx, "", mainnet)
	assert.True(t, errors.Is(err, core.ErrMissingSeed))
}

func TestDeriveFromPrivateKey(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	w, err := d.DeriveFromPrivateKey(ctx, key.String(), mainnet)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey().String(), w.Address())

	broken := make([]byte, len(key))
	copy(broken, key)
	broken[63] ^= 0xff
	_, err = d.DeriveFromPrivateKey(ctx, base58.Encode(broken), mainnet)
	assert.True(t, errors.Is(err, core.ErrInvalidSeed))

	_, err = d.DeriveFromPrivateKey(ctx, "0OIl", mainnet)
	assert.True(t, errors.Is(err, core.ErrInvalidSeed))

	_, err = d.DeriveFromPrivateKey(ctx, base58.Encode(key[:32]), mainnet)
	require.Error(t, err)
}

func TestSignAndVerifyMessage(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)

	sig, err := w.SignMessage(ctx, []byte("gm solana"))
	require.NoError(t, err)
	require.Len(t, sig, ed25519.SignatureSize)

	ok, err := w.VerifySignature(ctx, []byte("gm solana"), sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = w.VerifySignature(ctx, []byte("gn solana"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = w.VerifySignature(ctx, []byte("gm solana"), sig[:32])
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeBackend struct {
	blockhash solana.Hash
	sent      []*solana.Transaction
}

func (f *fakeBackend) GetLatestBlockhash(context.Context, rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	return &rpc.GetLatestBlockhashResult{Value: &rpc.LatestBlockhashResult{Blockhash: f.blockhash}}, nil
}

func (f *fakeBackend) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, _ rpc.TransactionOpts) (solana.Signature, error) {
	f.sent = append(f.sent, tx)
	return tx.Signatures[0], nil
}

func TestSignTransaction(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)

	recipient, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	req := &core.TxRequest{
		To:              recipient.PublicKey().String(),
		Value:           big.NewInt(5_000),
		RecentBlockhash: solana.Hash(sha256.Sum256([]byte("block"))).String(),
	}

	a, err := w.SignTransaction(ctx, req)
	require.NoError(t, err)
	b, err := w.SignTransaction(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, a.Raw, b.Raw)
	assert.Equal(t, a.Hash, b.Hash)

	hash, err := base58.Decode(a.Hash)
	require.NoError(t, err)
	assert.Len(t, hash, ed25519.SignatureSize)

	_, err = w.SignTransaction(ctx, &core.TxRequest{To: "not-base58-0OIl", Value: big.NewInt(1), RecentBlockhash: req.RecentBlockhash})
	require.Error(t, err)

	_, err = w.SignTransaction(ctx, &core.TxRequest{To: req.To, Value: big.NewInt(-1), RecentBlockhash: req.RecentBlockhash})
	require.Error(t, err)
}

func TestSendTransaction(t *testing.T) {
	ctx := t.Context()
	backend := &fakeBackend{blockhash: solana.Hash(sha256.Sum256([]byte("latest")))}
	var dialed []string
	d, mainnet := setup(t, sol.WithDialer(func(_ context.Context, rpcURL string) (sol.Backend, error) {
		dialed = append(dialed, rpcURL)
		return backend, nil
	}))

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)

	recipient, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	signed, err := w.SendTransaction(ctx, &core.TxRequest{To: recipient.PublicKey().String(), Value: big.NewInt(1)})
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Len(t, dialed, 1)

	tx := backend.sent[0]
	assert.Equal(t, backend.blockhash, tx.Message.RecentBlockhash)
	assert.Equal(t, w.Address(), tx.Message.AccountKeys[0].String())
	assert.Equal(t, tx.Signatures[0].String(), signed.Hash)
	require.NoError(t, tx.VerifySignatures())
}

func TestSwitchNetwork(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t)

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)
	addr := w.Address()

	require.NoError(t, w.SwitchNetwork(ctx, chain.IDSolana))
	require.NoError(t, w.SwitchNetwork(ctx, chain.IDSolanaDevnet))
	assert.Equal(t, chain.IDSolanaDevnet, w.ChainID())
	assert.Equal(t, addr, w.Address())

	err = w.SwitchNetwork(ctx, chain.IDBitcoin)
	assert.True(t, errors.Is(err, core.ErrChainUnavailable))
	err = w.SwitchNetwork(ctx, 42)
	assert.True(t, errors.Is(err, core.ErrChainUnavailable))
}

func TestForget(t *testing.T) {
	ctx := t.Context()
	d, mainnet := setup(t, sol.WithDialer(func(context.Context, string) (sol.Backend, error) {
		t.Fatal("a forgotten wallet must not reach the network")
		return nil, nil
	}))

	w, err := d.DeriveFromMnemonic(ctx, abandonMnemonic, "", mainnet)
	require.NoError(t, err)
	addr := w.Address()

	w.(core.Forgetter).Forget()
	assert.Equal(t, addr, w.Address())

	_, err = w.SignMessage(ctx, []byte("hello"))
	assert.True(t, errors.Is(err, core.ErrNotReady))

	req := &core.TxRequest{To: addr, Value: big.NewInt(1)}
	_, err = w.SignTransaction(ctx, req)
	assert.True(t, errors.Is(err, core.ErrNotReady))
	_, err = w.SendTransaction(ctx, req)
	assert.True(t, errors.Is(err, core.ErrNotReady))
}
