package evm

import (
	"context"
	"math/big"
	"sync"

	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// network is the chain binding shared by local and external wallets.
type network struct {
	mu      sync.Mutex
	chain   *chain.Chain
	chains  chain.Service
	dial    Dialer
	backend Backend
}

func (n *network) ChainID() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chain.ID
}

func (n *network) Family() core.Family {
	return core.FamilyEVM
}

// SwitchNetwork rebinds the RPC endpoint. Switching to the current chain is a
// no-op.
func (n *network) SwitchNetwork(_ context.Context, chainID int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.chain.ID == chainID {
		return nil
	}

	c, err := n.chains.GetChain(chainID)
	if err != nil {
		return err
	}
	if c.Family != core.FamilyEVM {
		return errors.Wrapf(core.ErrChainUnavailable, "chain %d is not an evm chain", chainID)
	}

	n.chain = c
	n.backend = nil

	return nil
}

func (n *network) client(ctx context.Context) (Backend, *big.Int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	chainID := big.NewInt(n.chain.ID)
	if n.backend != nil {
		return n.backend, chainID, nil
	}

	backend, err := n.dial(ctx, n.chain.RPCURL)
	if err != nil {
		return nil, nil, err
	}
	n.backend = backend

	return backend, chainID, nil
}

// buildTx assembles an unsigned EIP-1559 transaction, filling nonce, gas and
// fee caps from the backend when the request leaves them empty.
//
//nolint:varnamelen // tx is a common abbreviation for transaction
func (n *network) buildTx(ctx context.Context, from common.Address, req *core.TxRequest) (*types.Transaction, *big.Int, error) {
	if req == nil {
		return nil, nil, errors.New("transaction request is required")
	}
	if !common.IsHexAddress(req.To) {
		return nil, nil, errors.Errorf("invalid recipient address %q", req.To)
	}

	to := common.HexToAddress(req.To)
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	needsBackend := req.Nonce == nil || req.GasLimit == 0 || req.MaxFeePerGas == nil || req.MaxPriorityFeePerGas == nil

	var (
		backend Backend
		chainID = big.NewInt(n.ChainID())
		err     error
	)
	if needsBackend {
		backend, chainID, err = n.client(ctx)
		if err != nil {
			return nil, nil, err
		}
	}

	var nonce uint64
	if req.Nonce != nil {
		nonce = *req.Nonce
	} else {
		nonce, err = backend.PendingNonceAt(ctx, from)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get nonce")
		}
	}

	tip := req.MaxPriorityFeePerGas
	if tip == nil {
		tip, err = backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to suggest gas tip cap")
		}
	}

	feeCap := req.MaxFeePerGas
	if feeCap == nil {
		head, err := backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get latest header")
		}
		baseFee := head.BaseFee
		if baseFee == nil {
			baseFee = new(big.Int)
		}
		// 2 * baseFee + tip leaves room for six full blocks of base fee growth
		feeCap = new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	}

	gas := req.GasLimit
	if gas == 0 {
		gas, err = backend.EstimateGas(ctx, ethereum.CallMsg{
			From:      from,
			To:        &to,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Value:     value,
			Data:      req.Data,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to estimate gas")
		}
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      req.Data,
	})

	return tx, chainID, nil
}

func (n *network) broadcast(ctx context.Context, tx *types.Transaction) error {
	backend, _, err := n.client(ctx)
	if err != nil {
		return err
	}
	if err := backend.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}
	return nil
}

func encodeTx(tx *types.Transaction) (*core.SignedTx, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}
	return &core.SignedTx{Raw: raw, Hash: tx.Hash().Hex()}, nil
}

// recoverAddress recovers the personal-sign signer of message. V may be in
// either {0,1} or {27,28} form.
func recoverAddress(message []byte, signature []byte) (common.Address, bool) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, false
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return common.Address{}, false
	}

	return crypto.PubkeyToAddress(*pub), true
}
