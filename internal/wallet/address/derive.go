package address

import (
	"crypto/ed25519"

	"github.com/anyproto/go-slip10"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
)

// DeriveBIP32 derives a secp256k1 child key from a BIP-39 seed.
// WARNING: caller must clear the returned key.Key after use
func DeriveBIP32(seed []byte, path Path) (*bip32.Key, error) {
	if len(seed) == 0 {
		return nil, core.ErrMissingSeed
	}

	masterKey, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	key := masterKey
	for _, index := range path {
		key, err = key.NewChildKey(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key, nil
}

// DeriveHDKeychain derives a secp256k1 extended key bound to UTXO network params.
func DeriveHDKeychain(seed []byte, path Path, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	if len(seed) == 0 {
		return nil, core.ErrMissingSeed
	}

	key, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}

	for _, index := range path {
		key, err = key.Derive(index)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive child key at index %d", index)
		}
	}

	return key, nil
}

// DeriveEd25519 derives an Ed25519 private key following SLIP-0010. Only
// hardened segments exist on this curve; a BIP-32 style public derivation
// segment is rejected rather than silently derived.
func DeriveEd25519(seed []byte, path Path) (ed25519.PrivateKey, error) {
	if len(seed) == 0 {
		return nil, core.ErrMissingSeed
	}

	for i := range path {
		if !path.Hardened(i) {
			return nil, errors.Wrapf(core.ErrInvalidDerivationPath, "path %s: non-hardened segment at level %d", path, i)
		}
	}

	node, err := slip10.DeriveForPath(path.String(), seed)
	if err != nil {
		return nil, errors.Wrapf(core.ErrInvalidDerivationPath, "path %s: %v", path, err)
	}

	_, key := node.Keypair()
	return key, nil
}
