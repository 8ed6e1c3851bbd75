package keystore

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chapool/web3connect/internal/util"
	"github.com/chapool/web3connect/internal/wallet/cipher"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	artifactVersion = 1
	qrSize          = 256
)

// Artifact is the user-downloadable backup of the seed material.
type Artifact struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Address   string    `json:"address,omitempty"`
	// QR is a base64 PNG of Address, handy for checking the backup later.
	QR        string `json:"qr,omitempty"`
	Encrypted bool   `json:"encrypted"`
	// Payload is the sealed cipher envelope when Encrypted, the plain seed
	// material JSON otherwise.
	Payload string `json:"payload"`
}

// Sink receives a finished artifact and returns where it was written.
type Sink interface {
	Write(ctx context.Context, artifact *Artifact) (string, error)
}

type BackupRequest struct {
	WithEncryption bool
	Secret         string
	Provider       *cipher.Provider
	Address        string
	Sink           Sink
	Now            time.Time
}

// ExecuteBackup exports the stored seed material. With encryption the sealed
// record is exported unchanged, so it only opens with the original password;
// without it the record is opened with req.Secret first. Fails with
// core.ErrBackupUnavailable when no seed material was ever stored.
func (s *Store) ExecuteBackup(ctx context.Context, req BackupRequest) (*Artifact, string, error) {
	sealed, ok, err := s.Get(ctx, KeySeedMaterial)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", core.ErrBackupUnavailable
	}

	payload := sealed
	if !req.WithEncryption {
		if req.Provider == nil {
			return nil, "", errors.New("cipher provider required for a plain backup")
		}
		plain, err := req.Provider.Decrypt(req.Secret, sealed)
		if err != nil {
			return nil, "", err
		}
		payload = string(plain)
		clear(plain)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	artifact := &Artifact{
		Version:   artifactVersion,
		ID:        uuid.New().String(),
		CreatedAt: now.UTC(),
		Address:   req.Address,
		Encrypted: req.WithEncryption,
		Payload:   payload,
	}

	if req.Address != "" {
		png, err := qrcode.Encode(req.Address, qrcode.Medium, qrSize)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to render address qr code")
		}
		artifact.QR = base64.StdEncoding.EncodeToString(png)
	}

	if req.Sink == nil {
		return artifact, "", nil
	}

	location, err := req.Sink.Write(ctx, artifact)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to write backup artifact")
	}

	util.LogFromContext(ctx).Info().
		Str("location", location).
		Bool("encrypted", req.WithEncryption).
		Msg("Wrote wallet backup")

	return artifact, location, nil
}

// DirSink writes artifacts as web3connect-backup-<unix>.json files.
type DirSink struct {
	Dir string
}

func (d DirSink) Write(_ context.Context, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(d.Dir, 0o700); err != nil {
		return "", errors.Wrap(err, "failed to create backup directory")
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal backup artifact")
	}

	path := filepath.Join(d.Dir, fmt.Sprintf("web3connect-backup-%d.json", artifact.CreatedAt.Unix()))
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return "", errors.Wrap(err, "failed to write backup file")
	}

	return path, nil
}

// ReadArtifact parses a backup file written by DirSink.
func ReadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read backup file")
	}

	var artifact Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrap(err, "failed to parse backup file")
	}
	if artifact.Version != artifactVersion {
		return nil, errors.Errorf("unsupported backup version %d", artifact.Version)
	}

	return &artifact, nil
}
