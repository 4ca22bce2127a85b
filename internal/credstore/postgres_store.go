package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Pool is the part of *pgxpool.Pool the backend uses.
type Pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresBackend stores session values in the portal_session_values table.
type PostgresBackend struct {
	pool Pool
	ttl  time.Duration
}

// NewPostgresBackend wraps pool. A nil pool yields unavailable stores.
func NewPostgresBackend(pool Pool, ttl time.Duration) *PostgresBackend {
	return &PostgresBackend{pool: pool, ttl: ttl}
}

// Session returns the store of session id.
func (b *PostgresBackend) Session(id string) Store {
	if id == "" || b == nil || b.pool == nil {
		return NoSession()
	}
	return &postgresStore{backend: b, id: id}
}

// Ping verifies database connectivity.
func (b *PostgresBackend) Ping(ctx context.Context) error {
	if b == nil || b.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return b.pool.Ping(ctx)
}

// PurgeExpired removes rows whose session has ended.
func (b *PostgresBackend) PurgeExpired(ctx context.Context) (int64, error) {
	if b == nil || b.pool == nil {
		return 0, nil
	}
	const query = `DELETE FROM portal_session_values WHERE expires_at <= NOW()`
	cmd, err := b.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

type postgresStore struct {
	backend *PostgresBackend
	id      string
}

func (s *postgresStore) Get(ctx context.Context, key Key) Lookup {
	const query = `
        SELECT value FROM portal_session_values
        WHERE session_id=$1 AND key=$2 AND expires_at > NOW()`

	var value []byte
	err := s.backend.pool.QueryRow(ctx, query, s.id, string(key)).Scan(&value)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return missing()
	case err != nil:
		return unavailable(fmt.Errorf("postgres get %s: %w", key, err))
	}
	return found(value)
}

func (s *postgresStore) Set(ctx context.Context, entries ...Entry) error {
	const query = `
        INSERT INTO portal_session_values (session_id, key, value, expires_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (session_id, key)
        DO UPDATE SET value=EXCLUDED.value, expires_at=EXCLUDED.expires_at`

	tx, err := s.backend.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}

	expiresAt := time.Now().Add(s.backend.ttl)
	for _, e := range entries {
		if _, err := tx.Exec(ctx, query, s.id, string(e.Key), e.Value, expiresAt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("postgres set %s: %w", e.Key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

func (s *postgresStore) Delete(ctx context.Context, keys ...Key) error {
	const query = `DELETE FROM portal_session_values WHERE session_id=$1 AND key = ANY($2)`

	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, string(k))
	}
	if _, err := s.backend.pool.Exec(ctx, query, s.id, names); err != nil {
		return fmt.Errorf("postgres delete: %w", err)
	}
	return nil
}
