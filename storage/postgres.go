package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "bearer_tokens"

// Postgres is a pgx-backed backend for deployments that already run a SQL
// database. One row per record; the key column is the token hash.
//
// Postgres implements [Consumer] with DELETE ... RETURNING, so consume is a
// single atomic statement.
type Postgres struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgres creates a Postgres backend on the given pool. table selects the
// record table; empty selects the default "bearer_tokens".
func NewPostgres(pool *pgxpool.Pool, table string) *Postgres {
	if table == "" {
		table = defaultPostgresTable
	}
	return &Postgres{
		pool:  pool,
		table: table,
	}
}

// EnsureSchema creates the record table when it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	record     BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`, p.table)

	if _, err := p.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Set upserts the encoded record.
func (p *Postgres) Set(ctx context.Context, key string, record *Record) error {
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (key, record, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET record = EXCLUDED.record, expires_at = EXCLUDED.expires_at
`, p.table)

	if _, err := p.pool.Exec(ctx, query, key, data, record.ExpiresAt.UTC()); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Get fetches and decodes the record, or reports absence.
func (p *Postgres) Get(ctx context.Context, key string) (*Record, bool, error) {
	query := fmt.Sprintf(`SELECT record FROM %s WHERE key = $1`, p.table)

	var data []byte
	if err := p.pool.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// Delete removes the record. Missing keys are a no-op.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table)

	if _, err := p.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Consume atomically removes and returns the record.
func (p *Postgres) Consume(ctx context.Context, key string) (*Record, bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1 RETURNING record`, p.table)

	var data []byte
	if err := p.pool.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	record, err := DecodeRecord(data)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// PurgeExpired deletes rows whose expiry has passed. Postgres has no native
// TTL eviction, so deployments run this periodically; the manager's lazy
// expiry checks do not depend on it.
func (p *Postgres) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE expires_at <= $1`, p.table)

	tag, err := p.pool.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tag.RowsAffected(), nil
}
