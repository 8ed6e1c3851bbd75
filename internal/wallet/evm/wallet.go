package evm

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

type localWallet struct {
	*network
	address common.Address
	pubKey  string

	keyMu sync.RWMutex
	key   *ecdsa.PrivateKey // nil once forgotten
}

func newLocalWallet(key *ecdsa.PrivateKey, n *network) *localWallet {
	return &localWallet{
		network: n,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		pubKey:  hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)),
	}
}

// withKey runs f with the private key held against a concurrent Forget.
func (w *localWallet) withKey(f func(key *ecdsa.PrivateKey) error) error {
	w.keyMu.RLock()
	defer w.keyMu.RUnlock()

	if w.key == nil {
		return errors.Wrap(core.ErrNotReady, "wallet key has been forgotten")
	}
	return f(w.key)
}

func (w *localWallet) Address() string {
	return w.address.Hex()
}

func (w *localWallet) PublicKey() string {
	return w.pubKey
}

func (w *localWallet) IsExternal() bool {
	return false
}

// SignMessage produces a personal-sign signature with V in {27,28}.
func (w *localWallet) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	var sig []byte
	err := w.withKey(func(key *ecdsa.PrivateKey) error {
		var err error
		sig, err = crypto.Sign(accounts.TextHash(message), key)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return sig, nil
}

func (w *localWallet) VerifySignature(_ context.Context, message []byte, signature []byte) (bool, error) {
	signer, ok := recoverAddress(message, signature)
	return ok && signer == w.address, nil
}

func (w *localWallet) SignTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	signed, err := w.sign(ctx, req)
	if err != nil {
		return nil, err
	}
	return encodeTx(signed)
}

func (w *localWallet) SendTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	signed, err := w.sign(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := w.broadcast(ctx, signed); err != nil {
		return nil, err
	}
	return encodeTx(signed)
}

func (w *localWallet) sign(ctx context.Context, req *core.TxRequest) (*types.Transaction, error) {
	if w.forgotten() {
		return nil, errors.Wrap(core.ErrNotReady, "wallet key has been forgotten")
	}

	tx, chainID, err := w.buildTx(ctx, w.address, req)
	if err != nil {
		return nil, err
	}

	var signed *types.Transaction
	err = w.withKey(func(key *ecdsa.PrivateKey) error {
		var err error
		signed, err = types.SignTx(tx, types.NewLondonSigner(chainID), key)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signed, nil
}

func (w *localWallet) forgotten() bool {
	w.keyMu.RLock()
	defer w.keyMu.RUnlock()
	return w.key == nil
}

func (w *localWallet) Forget() {
	w.keyMu.Lock()
	defer w.keyMu.Unlock()

	if w.key != nil && w.key.D != nil {
		w.key.D.SetUint64(0)
	}
	w.key = nil
}
