package sol

import (
	"context"
	"sync"

	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

var errForgotten = errors.Wrap(core.ErrNotReady, "wallet key has been forgotten")

type wallet struct {
	mu  sync.Mutex
	key solana.PrivateKey // nil once forgotten
	pub solana.PublicKey

	chain   *chain.Chain
	chains  chain.Service
	dial    Dialer
	backend Backend
}

func (w *wallet) Address() string {
	return w.pub.String()
}

func (w *wallet) PublicKey() string {
	return w.pub.String()
}

func (w *wallet) ChainID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chain.ID
}

func (w *wallet) Family() core.Family {
	return core.FamilyEd25519
}

func (w *wallet) IsExternal() bool {
	return false
}

func (w *wallet) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		return nil, errForgotten
	}
	sig, err := w.key.Sign(message)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign message")
	}
	return sig[:], nil
}

func (w *wallet) VerifySignature(_ context.Context, message []byte, signature []byte) (bool, error) {
	if len(signature) != len(solana.Signature{}) {
		return false, nil
	}
	var sig solana.Signature
	copy(sig[:], signature)
	return sig.Verify(w.pub, message), nil
}

func (w *wallet) SignTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	tx, err := w.buildTx(ctx, req)
	if err != nil {
		return nil, err
	}
	return encodeTx(tx)
}

func (w *wallet) SendTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	tx, err := w.buildTx(ctx, req)
	if err != nil {
		return nil, err
	}

	backend, err := w.client(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := backend.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentFinalized,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	return encodeTx(tx)
}

// buildTx creates and signs a SOL transfer. The blockhash is fetched when the
// request does not carry one.
func (w *wallet) buildTx(ctx context.Context, req *core.TxRequest) (*solana.Transaction, error) {
	if req == nil {
		return nil, errors.New("transaction request is required")
	}
	if req.Value == nil || !req.Value.IsUint64() || req.Value.Sign() <= 0 {
		return nil, errors.New("value must be a positive lamport amount")
	}
	if w.forgotten() {
		return nil, errForgotten
	}

	to, err := solana.PublicKeyFromBase58(req.To)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid recipient address %q", req.To)
	}

	var blockhash solana.Hash
	if req.RecentBlockhash != "" {
		blockhash, err = solana.HashFromBase58(req.RecentBlockhash)
		if err != nil {
			return nil, errors.Wrap(err, "invalid recent blockhash")
		}
	} else {
		backend, err := w.client(ctx)
		if err != nil {
			return nil, err
		}
		recent, err := backend.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		if err != nil {
			return nil, errors.Wrap(err, "failed to get recent blockhash")
		}
		blockhash = recent.Value.Blockhash
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(req.Value.Uint64(), w.pub, to).Build(),
		},
		blockhash,
		solana.TransactionPayer(w.pub),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transaction")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		return nil, errForgotten
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if w.pub.Equals(key) {
			return &w.key
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return tx, nil
}

func (w *wallet) forgotten() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.key == nil
}

func encodeTx(tx *solana.Transaction) (*core.SignedTx, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	return &core.SignedTx{Raw: raw, Hash: tx.Signatures[0].String()}, nil
}

// SwitchNetwork rebinds the RPC endpoint. Switching to the current chain is a
// no-op.
func (w *wallet) SwitchNetwork(_ context.Context, chainID int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.chain.ID == chainID {
		return nil
	}

	c, err := w.chains.GetChain(chainID)
	if err != nil {
		return err
	}
	if c.Family != core.FamilyEd25519 {
		return errors.Wrapf(core.ErrChainUnavailable, "chain %d is not an ed25519 chain", chainID)
	}

	w.chain = c
	w.backend = nil

	return nil
}

func (w *wallet) client(ctx context.Context) (Backend, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.backend != nil {
		return w.backend, nil
	}

	backend, err := w.dial(ctx, w.chain.RPCURL)
	if err != nil {
		return nil, err
	}
	w.backend = backend

	return backend, nil
}

func (w *wallet) Forget() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.key)
	w.key = nil
}
