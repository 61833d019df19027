package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// connectBackoff is the first wait between ping attempts; it doubles each retry.
const connectBackoff = 500 * time.Millisecond

// DB wraps a pgxpool.Pool shared by every request handler.
type DB struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// New creates the connection pool and blocks until the database answers a ping.
// The ping is tried up to attempts times with exponential backoff; a malformed
// URL fails immediately.
func New(ctx context.Context, databaseURL string, attempts uint64) (*DB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithCappedDuration(10*time.Second,
		retry.WithMaxRetries(attempts-1, retry.NewExponential(connectBackoff)))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database ping failed", "attempt", attempt, "max_attempts", attempts, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database after %d attempts: %w", attempt, err)
	}

	slog.Info("database connected", "host", config.ConnConfig.Host, "database", config.ConnConfig.Database)

	return &DB{pool: pool}, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
	slog.Info("database connection closed")
}
