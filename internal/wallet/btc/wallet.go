package btc

import (
	"bytes"
	"context"
	"encoding/hex"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/chapool/web3connect/internal/wallet/chain"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

var errForgotten = errors.Wrap(core.ErrNotReady, "wallet key has been forgotten")

type wallet struct {
	mu         sync.Mutex
	key        *btcec.PrivateKey // nil once forgotten
	pubKey     []byte
	compressed bool

	chain   *chain.Chain
	params  *chaincfg.Params
	address *btcutil.AddressPubKeyHash

	chains  chain.Service
	dial    Dialer
	backend Backend
}

// bind re-encodes the P2PKH address for the network of c. Caller holds mu or
// owns w exclusively.
func (w *wallet) bind(c *chain.Chain, params *chaincfg.Params) error {
	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(w.pubKey), params)
	if err != nil {
		return errors.Wrap(err, "failed to encode address")
	}

	w.chain = c
	w.params = params
	w.address = addr
	w.backend = nil

	return nil
}

func (w *wallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.address.EncodeAddress()
}

func (w *wallet) PublicKey() string {
	return hex.EncodeToString(w.pubKey)
}

func (w *wallet) ChainID() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.chain.ID
}

func (w *wallet) Family() core.Family {
	return core.FamilyUTXO
}

func (w *wallet) IsExternal() bool {
	return false
}

// SignMessage returns the 65 byte compact signature over the Bitcoin signed
// message hash. Wallet software usually shows it base64 encoded.
func (w *wallet) SignMessage(_ context.Context, message []byte) ([]byte, error) {
	hash, err := messageHash(message)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		return nil, errForgotten
	}
	return ecdsa.SignCompact(w.key, hash, w.compressed), nil
}

func (w *wallet) VerifySignature(_ context.Context, message []byte, signature []byte) (bool, error) {
	hash, err := messageHash(message)
	if err != nil {
		return false, err
	}

	pub, compressed, err := ecdsa.RecoverCompact(signature, hash)
	if err != nil {
		return false, nil //nolint:nilerr // a malformed signature is simply not valid
	}

	serialized := pub.SerializeUncompressed()
	if compressed {
		serialized = pub.SerializeCompressed()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	return bytes.Equal(btcutil.Hash160(serialized), w.address.Hash160()[:]), nil
}

func messageHash(message []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, signedMessageMagic); err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	if err := wire.WriteVarString(&buf, 0, string(message)); err != nil {
		return nil, errors.Wrap(err, "failed to encode message")
	}
	return chainhash.DoubleHashB(buf.Bytes()), nil
}

// SignTransaction spends req.Inputs to req.To, paying req.Fee and returning
// the change to this wallet when above DustLimit.
func (w *wallet) SignTransaction(_ context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	msg, err := w.buildTx(req)
	if err != nil {
		return nil, err
	}
	return encodeTx(msg)
}

func (w *wallet) SendTransaction(ctx context.Context, req *core.TxRequest) (*core.SignedTx, error) {
	msg, err := w.buildTx(req)
	if err != nil {
		return nil, err
	}

	backend, err := w.client(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := backend.SendRawTransaction(msg, false); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	return encodeTx(msg)
}

func (w *wallet) buildTx(req *core.TxRequest) (*wire.MsgTx, error) {
	if req == nil {
		return nil, errors.New("transaction request is required")
	}
	if len(req.Inputs) == 0 {
		return nil, errors.New("at least one input is required")
	}
	if req.Value == nil || !req.Value.IsInt64() || req.Value.Sign() <= 0 {
		return nil, errors.New("value must be a positive satoshi amount")
	}
	if req.Fee < 0 {
		return nil, errors.New("fee must not be negative")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.key == nil {
		return nil, errForgotten
	}

	to, err := btcutil.DecodeAddress(req.To, w.params)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid recipient address %q", req.To)
	}
	if !to.IsForNet(w.params) {
		return nil, errors.Errorf("recipient %s is not a %s address", req.To, w.params.Name)
	}

	toScript, err := txscript.PayToAddrScript(to)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build output script")
	}
	ownScript, err := txscript.PayToAddrScript(w.address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build change script")
	}

	msg := wire.NewMsgTx(wire.TxVersion)

	var total int64
	for _, in := range req.Inputs {
		hash, err := chainhash.NewHashFromStr(in.TxID)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid input txid %q", in.TxID)
		}
		msg.AddTxIn(wire.NewTxIn(wire.NewOutPoint(hash, in.Vout), nil, nil))
		total += in.Value
	}

	value := req.Value.Int64()
	change := total - value - req.Fee
	if change < 0 {
		return nil, errors.Errorf("insufficient funds: inputs %d, value %d, fee %d", total, value, req.Fee)
	}

	msg.AddTxOut(wire.NewTxOut(value, toScript))
	if change >= DustLimit {
		msg.AddTxOut(wire.NewTxOut(change, ownScript))
	}

	for i, in := range req.Inputs {
		subscript := in.PkScript
		if len(subscript) == 0 {
			subscript = ownScript
		}

		sigScript, err := txscript.SignatureScript(msg, i, subscript, txscript.SigHashAll, w.key, w.compressed)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to sign input %d", i)
		}
		msg.TxIn[i].SignatureScript = sigScript
	}

	return msg, nil
}

func encodeTx(msg *wire.MsgTx) (*core.SignedTx, error) {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to serialize transaction")
	}
	return &core.SignedTx{Raw: buf.Bytes(), Hash: msg.TxHash().String()}, nil
}

// SwitchNetwork rebinds the wallet to another UTXO chain and re-encodes its
// address for that network.
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
	if c.Family != core.FamilyUTXO {
		return errors.Wrapf(core.ErrChainUnavailable, "chain %d is not a utxo chain", chainID)
	}

	params, err := Params(c)
	if err != nil {
		return err
	}

	return w.bind(c, params)
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
	if w.key != nil {
		w.key.Zero()
	}
	w.key = nil
}
