package keystore

import (
	"context"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const badgerKeyPrefix = "keystore/"

// BadgerBackend stores blobs in an embedded badger database.
type BadgerBackend struct {
	db *badgerdb.DB
}

// NewBadgerBackend opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	opts := badgerdb.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = true
	opts.BlockCacheSize = 8 << 20
	opts.IndexCacheSize = 8 << 20
	opts.Logger = badgerLogger{log.With().Str("component", "badger").Logger()}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open badger database")
	}

	return &BadgerBackend{db: db}, nil
}

func (b *BadgerBackend) Load(_ context.Context, slot string) ([]byte, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(badgerKeyPrefix + slot))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to read badger key")
	}
	return value, true, nil
}

func (b *BadgerBackend) Save(_ context.Context, slot string, data []byte) error {
	err := b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(badgerKeyPrefix+slot), data)
	})
	if err != nil {
		return errors.Wrap(err, "failed to write badger key")
	}
	return nil
}

func (b *BadgerBackend) Delete(_ context.Context, slot string) error {
	err := b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(badgerKeyPrefix + slot))
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete badger key")
	}
	return nil
}

func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's printf style logs into zerolog.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(format, args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(format, args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(format, args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Trace().Msgf(format, args...)
}
