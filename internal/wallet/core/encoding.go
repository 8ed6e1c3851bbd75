package core

import (
	"encoding/base64"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// EncodeSignature renders a message signature the way wallets of the family
// display it: 0x hex for EVM, base64 for UTXO and base58 for Ed25519.
func EncodeSignature(family Family, sig []byte) string {
	switch family {
	case FamilyUTXO:
		return base64.StdEncoding.EncodeToString(sig)
	case FamilyEd25519:
		return base58.Encode(sig)
	default:
		return hexutil.Encode(sig)
	}
}

// DecodeSignature reverses EncodeSignature.
func DecodeSignature(family Family, sig string) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch family {
	case FamilyUTXO:
		out, err = base64.StdEncoding.DecodeString(sig)
	case FamilyEd25519:
		out, err = base58.Decode(sig)
	default:
		out, err = hexutil.Decode(sig)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s signature encoding", family)
	}
	return out, nil
}
