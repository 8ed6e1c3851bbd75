package wallet

import (
	"context"
	"strconv"
	"time"

	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/pkg/errors"
)

// BackupStatus reports whether the UI should prompt for a backup at now. A
// freshly minted seed prompts right away; a skipped prompt returns once
// BackupPromptAfter has elapsed; a completed backup never prompts again.
func (s *service) BackupStatus(ctx context.Context, now time.Time) (*BackupStatus, error) {
	status := &BackupStatus{}

	var err error
	status.Available, err = s.store.Has(ctx, keystore.KeySeedMaterial)
	if err != nil {
		return nil, err
	}
	status.Pending, err = s.store.Has(ctx, keystore.KeyBackupPending)
	if err != nil {
		return nil, err
	}

	raw, ok, err := s.store.Get(ctx, keystore.KeyBackupSkippedAt)
	if err != nil {
		return nil, err
	}
	if ok {
		if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t := time.Unix(sec, 0).UTC()
			status.SkippedAt = &t
		}
	}

	status.ShouldPrompt = status.Available && status.Pending &&
		(status.SkippedAt == nil || now.Sub(*status.SkippedAt) >= s.cfg.BackupPromptAfter)

	return status, nil
}

func (s *service) SkipBackup(ctx context.Context, now time.Time) error {
	available, err := s.store.Has(ctx, keystore.KeySeedMaterial)
	if err != nil {
		return err
	}
	if !available {
		return core.ErrBackupUnavailable
	}

	return s.store.Set(ctx, keystore.KeyBackupSkippedAt, strconv.FormatInt(now.Unix(), 10))
}

// Backup exports the seed material. An encrypted backup is the sealed record
// as stored; a plain one needs the session secret to open it.
func (s *service) Backup(ctx context.Context, withEncryption bool, sink keystore.Sink) (*keystore.Artifact, string, error) {
	active := s.Active()
	if active != nil && active.IsExternal() {
		return nil, "", errors.Wrap(core.ErrBackupUnavailable, "external wallets hold no seed material")
	}

	req := keystore.BackupRequest{
		WithEncryption: withEncryption,
		Provider:       s.cipher,
		Sink:           sink,
		Now:            s.now(),
	}
	if active != nil {
		req.Address = active.Address()
	}

	if !withEncryption {
		secret, ok := s.secrets.Secret()
		if !ok {
			return nil, "", core.ErrPasswordRequired
		}
		req.Secret = secret
	}

	artifact, location, err := s.store.ExecuteBackup(ctx, req)
	if err != nil {
		return nil, "", err
	}

	if err := s.store.RemoveMany(ctx, keystore.KeyBackupPending, keystore.KeyBackupSkippedAt); err != nil {
		return nil, "", errors.Wrap(err, "failed to clear backup flag")
	}

	util.LogFromContext(ctx).Info().Bool("encrypted", withEncryption).Msg("Wallet backup completed")

	return artifact, location, nil
}
