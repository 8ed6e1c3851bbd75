package seed

import (
	"strings"

	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/text/unicode/norm"
)

// EntropyBits of generated mnemonics (12 words).
const EntropyBits = 128

// GenerateMnemonic generates a new BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(EntropyBits)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate entropy")
	}
	defer clear(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate mnemonic")
	}

	return mnemonic, nil
}

// NormalizeMnemonic applies NFKD and collapses whitespace.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(norm.NFKD.String(strings.ToLower(mnemonic))), " ")
}

// ValidateMnemonic checks word list membership and checksum.
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(NormalizeMnemonic(mnemonic))
}

// ToSeed converts a mnemonic to a 64 byte BIP-39 seed with an empty passphrase.
// WARNING: caller must clear the returned seed after use
func ToSeed(mnemonic string) ([]byte, error) {
	mnemonic = NormalizeMnemonic(mnemonic)
	if mnemonic == "" {
		return nil, core.ErrMissingSeed
	}

	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, errors.Wrapf(core.ErrInvalidSeed, "invalid mnemonic: %v", err)
	}

	return seed, nil
}
