package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// postgresStore is a server-backed Store implementation. It replaces the
// on-device stores when the engine runs against a shared backend.
type postgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a Postgres-backed store and ensures its table
// exists. The pool is owned by the caller until the store is closed.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (Store, error) {
	ddl := `
		CREATE TABLE IF NOT EXISTS kv_entries (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &postgresStore{
		pool:   pool,
		logger: logger.With().Str("store", "postgres").Logger(),
	}, nil
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		s.logger.Error().Err(err).Str("key", key).Msg("failed to query value")
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`

	if _, err := s.pool.Exec(ctx, query, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to upsert value")
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE key = $1`

	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete value")
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *postgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT key FROM kv_entries WHERE key LIKE $1 ORDER BY key`

	rows, err := s.pool.Query(ctx, query, prefix+"%")
	if err != nil {
		s.logger.Error().Err(err).Str("prefix", prefix).Msg("failed to query keys")
		return nil, fmt.Errorf("failed to list keys with prefix %s: %w", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keys: %w", err)
	}

	return keys, nil
}

func (s *postgresStore) Close() error {
	s.pool.Close()
	return nil
}
