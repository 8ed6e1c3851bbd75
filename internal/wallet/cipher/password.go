package cipher

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	// SignatureMessage is the constant message signed by a password-derived key.
	SignatureMessage = "web3connect-signature-value"

	// SignatureSlot is the store key the signature is kept under.
	SignatureSlot = "web3connect-signature"
)

// SignMessageFromPassword signs message with a secp256k1 key derived from
// password. The salt is the keccak hash of the message, so the key is
// reproducible from the password alone.
func (p *Provider) SignMessageFromPassword(password string, message string) (string, error) {
	key, err := p.passwordKey(password, message)
	if err != nil {
		return "", err
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign message")
	}

	return hex.EncodeToString(sig), nil
}

// VerifySignatureFromPassword re-derives the password key and checks that it
// produced signature. Any mismatch is core.ErrInvalidPassword.
func (p *Provider) VerifySignatureFromPassword(password string, message string, signature string) error {
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return errors.Wrap(core.ErrInvalidPassword, "stored signature is malformed")
	}

	key, err := p.passwordKey(password, message)
	if err != nil {
		return err
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return errors.Wrap(core.ErrInvalidPassword, "failed to recover signer")
	}

	if crypto.PubkeyToAddress(*pub) != crypto.PubkeyToAddress(key.PublicKey) {
		return core.ErrInvalidPassword
	}

	return nil
}

func (p *Provider) passwordKey(password string, message string) (*ecdsa.PrivateKey, error) {
	if password == "" {
		return nil, errors.Wrap(core.ErrInvalidPassword, "password must not be empty")
	}

	raw, err := scrypt.Key([]byte(password), crypto.Keccak256([]byte(message)), p.params.N, p.params.R, p.params.P, keyLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive password key")
	}
	defer clear(raw)

	key, err := crypto.ToECDSA(raw)
	if err != nil {
		return nil, errors.Wrap(err, "failed to convert password key")
	}

	return key, nil
}

// KV is the slice of the encrypted store the password guard needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
}

// PasswordGuard detects a wrong password before any seed decryption is
// attempted, without persisting the password or a hash of it.
type PasswordGuard struct {
	provider *Provider
	store    KV
}

func NewPasswordGuard(provider *Provider, store KV) *PasswordGuard {
	return &PasswordGuard{provider: provider, store: store}
}

// Check verifies password against the stored signature when seedExists and a
// signature is present; otherwise it signs the constant message and stores the
// signature for later sessions.
func (g *PasswordGuard) Check(ctx context.Context, password string, seedExists bool) error {
	stored, ok, err := g.store.Get(ctx, SignatureSlot)
	if err != nil {
		return errors.Wrap(err, "failed to read password signature")
	}

	if seedExists && ok {
		return g.provider.VerifySignatureFromPassword(password, SignatureMessage, stored)
	}

	sig, err := g.provider.SignMessageFromPassword(password, SignatureMessage)
	if err != nil {
		return err
	}

	if err := g.store.Set(ctx, SignatureSlot, sig); err != nil {
		return errors.Wrap(err, "failed to store password signature")
	}

	return nil
}
