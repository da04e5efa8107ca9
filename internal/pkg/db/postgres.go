// Package db provides PostgreSQL database connection management.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"coin-admin-api/internal/config"
)

// Pool wraps pgxpool.Pool with additional functionality.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new PostgreSQL connection pool.
func NewPool(ctx context.Context, cfg *config.DatabaseConfig) (*Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = int32(cfg.PoolSize)
	poolConfig.MinConns = int32(cfg.PoolSize / 4) // 25% of max as minimum
	if poolConfig.MinConns < 1 {
		poolConfig.MinConns = 1
	}

	// Connection timeouts
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	} else {
		poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second
	}

	// Connection lifetime settings
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	} else {
		poolConfig.MaxConnLifetime = time.Hour
	}

	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	} else {
		poolConfig.MaxConnIdleTime = 30 * time.Minute
	}

	// Health check settings
	poolConfig.HealthCheckPeriod = 30 * time.Second

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int("pool_size", cfg.PoolSize).
		Msg("Connecting to PostgreSQL")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to PostgreSQL")

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		log.Info().Msg("PostgreSQL connection pool closed")
	}
}

// Stats returns pool statistics for monitoring.
func (p *Pool) Stats() *pgxpool.Stat {
	return p.Pool.Stat()
}

// HealthCheck performs a health check on the database connection.
func (p *Pool) HealthCheck(ctx context.Context) error {
	return p.Pool.Ping(ctx)
}

// Migrate applies the database schema. It is idempotent and runs at
// startup; repository integration tests reuse it against throwaway
// containers.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// Migration 1: user accounts. The unique index on username_key is
	// load-bearing: it prevents two concurrent synthesis passes from
	// creating duplicate placeholder accounts for one identity.
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS user_accounts (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			username_key VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	// Migration 2: tombstones for deleted usernames. Append-only.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS deleted_usernames (
			username_key VARCHAR(255) PRIMARY KEY,
			deleted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	// Migration 3: ledger entries. entry_date is a YYYY-MM-DD string;
	// month filtering is a prefix match on it.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			username_key VARCHAR(255) NOT NULL,
			game_name VARCHAR(255) NOT NULL,
			type VARCHAR(20) NOT NULL,
			amount DOUBLE PRECISION NOT NULL DEFAULT 0,
			amount_final DOUBLE PRECISION,
			entry_date CHAR(10) NOT NULL,
			created_by TEXT,
			method TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_username_key ON ledger_entries(username_key);
		CREATE INDEX IF NOT EXISTS idx_ledger_game_date ON ledger_entries(game_name, entry_date);
	`)
	if err != nil {
		return err
	}

	// Migration 4: sessions. The partial unique index backstops the
	// single-open-session invariant at the storage layer.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			username_key VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			sign_in_at TIMESTAMPTZ NOT NULL,
			sign_out_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_time ON sessions(username_key, sign_in_at DESC);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_open ON sessions(username_key) WHERE sign_out_at IS NULL;
	`)
	if err != nil {
		return err
	}

	// Migration 5: games.
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			coins_recharged DOUBLE PRECISION NOT NULL DEFAULT 0,
			last_recharge_date TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	return err
}
