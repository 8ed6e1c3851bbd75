package keystore

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"

	// Import postgres driver for database/sql package
	_ "github.com/lib/pq"
)

const migrationTable = "web3connect_migrations"

var postgresMigrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "20250101000000-create-store.sql",
			Up: []string{`CREATE TABLE IF NOT EXISTS web3connect_store (
				slot text PRIMARY KEY,
				data bytea NOT NULL,
				updated_at timestamptz NOT NULL DEFAULT now()
			);`},
			Down: []string{`DROP TABLE IF EXISTS web3connect_store;`},
		},
	},
}

// PostgresBackend stores blobs in the web3connect_store table.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend connects to dsn and applies pending migrations.
func NewPostgresBackend(ctx context.Context, dsn string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open postgres connection")
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping postgres")
	}

	b, err := NewPostgresBackendWithDB(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return b, nil
}

// NewPostgresBackendWithDB migrates and wraps an existing connection pool.
func NewPostgresBackendWithDB(db *sql.DB) (*PostgresBackend, error) {
	if _, err := Migrate(db); err != nil {
		return nil, err
	}
	return &PostgresBackend{db: db}, nil
}

// Migrate applies pending store migrations and returns how many ran.
func Migrate(db *sql.DB) (int, error) {
	set := migrate.MigrationSet{TableName: migrationTable}
	n, err := set.Exec(db, "postgres", postgresMigrations, migrate.Up)
	if err != nil {
		return 0, errors.Wrap(err, "failed to migrate store table")
	}
	return n, nil
}

func (b *PostgresBackend) Load(ctx context.Context, slot string) ([]byte, bool, error) {
	var data []byte
	err := b.db.QueryRowContext(ctx, `SELECT data FROM web3connect_store WHERE slot = $1`, slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to load store row")
	}
	return data, true, nil
}

func (b *PostgresBackend) Save(ctx context.Context, slot string, data []byte) error {
	_, err := b.db.ExecContext(ctx, `INSERT INTO web3connect_store (slot, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`, slot, data)
	if err != nil {
		return errors.Wrap(err, "failed to save store row")
	}
	return nil
}

func (b *PostgresBackend) Delete(ctx context.Context, slot string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM web3connect_store WHERE slot = $1`, slot); err != nil {
		return errors.Wrap(err, "failed to delete store row")
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	return b.db.Close()
}
