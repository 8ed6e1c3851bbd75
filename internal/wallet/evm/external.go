package evm

import (
	"context"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// externalWallet delegates every signature to an ExternalSigner and owns no
// key material.
type externalWallet struct {
	*network
	signer  ExternalSigner
	account accounts.Account
}

func (w *externalWallet) Address() string {
	return w.account.Address.Hex()
}

func (w *externalWallet) PublicKey() string {
	return ""
}

func (w *externalWallet) IsExternal() bool {
	return true
}

func (w *externalWallet) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	sig, err := w.signer.SignText(w.account, message)
	if err != nil {
		return nil, errors.Wrap(err, "external signer rejected message")
	}
	return sig, nil
}

func (w *externalWallet) VerifySignature(_ context.Context, message []byte, signature []byte) (bool, error) {
	signer, ok := recoverAddress(message, signature)
	return ok && signer == w.account.Address, nil
}

func (w *externalWallet) SignTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	signed, err := w.sign(ctx, req)
	if err != nil {
		return nil, err
	}
	return encodeTx(signed)
}

func (w *externalWallet) SendTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	signed, err := w.sign(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := w.broadcast(ctx, signed); err != nil {
		return nil, err
	}
	return encodeTx(signed)
}

func (w *externalWallet) sign(ctx context.Context, req *core.TxRequest) (*types.Transaction, error) {
	tx, chainID, err := w.buildTx(ctx, w.account.Address, req)
	if err != nil {
		return nil, err
	}

	signed, err := w.signer.SignTx(w.account, tx, chainID)
	if err != nil {
		return nil, errors.Wrap(err, "external signer rejected transaction")
	}

	return signed, nil
}
