// Package keystore is the encrypted key-value store holding seed material and
// session state. All entries live in one blob sealed under the device id.
package keystore

import (
	"context"
)

// Slot is the fixed storage name of the sealed blob.
const Slot = "web3connect-store"

// Entry keys used by the wallet.
const (
	KeySeedMaterial     = "web3connect-seed"
	KeyRememberedSecret = "web3connect-secret"
	KeySignature        = "web3connect-signature"
	KeyAuthMethod       = "web3connect-auth-method"
	KeyBackupPending    = "web3connect-backup-pending"
	KeyBackupSkippedAt  = "web3connect-backup-skipped-at"
)

// Backend persists opaque blobs by slot name. Save must replace the previous
// blob atomically.
type Backend interface {
	Load(ctx context.Context, slot string) ([]byte, bool, error)
	Save(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

// DeviceID yields the stable, non-secret identifier the blob is sealed with.
type DeviceID interface {
	DeviceID(ctx context.Context) (string, error)
}

// WriteObserver is notified after every blob write.
type WriteObserver interface {
	ObserveStoreWrite(err error)
}
