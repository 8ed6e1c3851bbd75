package core

import (
	"github.com/pkg/errors"
)

// Kind is the stable, UI-facing classification of a wallet error.
type Kind string

const (
	KindInvalidPassword       Kind = "invalid_password"
	KindPasswordRequired      Kind = "password_required"
	KindDecryption            Kind = "decryption_failed"
	KindMissingSeed           Kind = "missing_seed"
	KindInvalidSeed           Kind = "invalid_seed"
	KindBackupUnavailable     Kind = "backup_unavailable"
	KindInvalidDerivationPath Kind = "invalid_derivation_path"
	KindChainUnavailable      Kind = "chain_unavailable"
	KindNoExternalProvider    Kind = "no_external_provider"
	KindNotReady              Kind = "not_ready"
	KindNotAuthenticated      Kind = "not_authenticated"
	KindUnsupported           Kind = "unsupported"
	KindInternal              Kind = "internal"
)

var (
	ErrInvalidPassword       = errors.New("invalid password")
	ErrPasswordRequired      = errors.New("password required")
	ErrDecryption            = errors.New("decryption failed")
	ErrMissingSeed           = errors.New("missing seed material")
	ErrInvalidSeed           = errors.New("invalid seed material")
	ErrBackupUnavailable     = errors.New("backup unavailable: no seed material stored")
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	ErrChainUnavailable      = errors.New("chain unavailable")
	ErrNoExternalProvider    = errors.New("no external wallet provider available")
	ErrNotReady              = errors.New("wallet not ready")
	ErrNotAuthenticated      = errors.New("user not authenticated")
	ErrUnsupported           = errors.New("operation not supported by this wallet")
)

// DecryptionError is returned by the cipher provider. WrongKey is set when the
// ciphertext was well formed but failed authentication under the given pass-key.
type DecryptionError struct {
	WrongKey bool
	Cause    error
}

func (e *DecryptionError) Error() string {
	if e.WrongKey {
		return "decryption failed: invalid password"
	}
	if e.Cause != nil {
		return "decryption failed: " + e.Cause.Error()
	}
	return "decryption failed"
}

func (e *DecryptionError) Unwrap() error {
	return e.Cause
}

func (e *DecryptionError) Is(target error) bool {
	switch target {
	case ErrDecryption:
		return true
	case ErrInvalidPassword:
		return e.WrongKey
	}
	return false
}

// ordered so that the most specific kind wins
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidPassword, KindInvalidPassword},
	{ErrPasswordRequired, KindPasswordRequired},
	{ErrDecryption, KindDecryption},
	{ErrBackupUnavailable, KindBackupUnavailable},
	{ErrMissingSeed, KindMissingSeed},
	{ErrInvalidSeed, KindInvalidSeed},
	{ErrInvalidDerivationPath, KindInvalidDerivationPath},
	{ErrChainUnavailable, KindChainUnavailable},
	{ErrNoExternalProvider, KindNoExternalProvider},
	{ErrNotReady, KindNotReady},
	{ErrNotAuthenticated, KindNotAuthenticated},
	{ErrUnsupported, KindUnsupported},
}

// KindOf classifies err. Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
