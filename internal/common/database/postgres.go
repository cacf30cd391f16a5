// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"costume-studio/internal/common/config"

	_ "github.com/lib/pq"
)

const defaultConnLifetime = 5 * time.Minute

// PostgresClient owns the connection pool backing the run ledger.
type PostgresClient struct {
	db *sql.DB
}

// NewPostgres opens a pool for cfg. No connection is made until Ping or the
// first query.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.Database, err)
	}
	configurePool(db, cfg)
	return &PostgresClient{db: db}, nil
}

func configurePool(db *sql.DB, cfg config.PostgresConfig) {
	lifetime := config.GetDuration(cfg.ConnMaxLifetime)
	if lifetime <= 0 {
		lifetime = defaultConnLifetime
	}
	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(lifetime)
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// EnsureSchema creates the generation_runs table if it is missing.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, runsSchema); err != nil {
		return fmt.Errorf("create generation_runs: %w", err)
	}
	return nil
}

// GetDB exposes the pool for the run ledger.
func (c *PostgresClient) GetDB() *sql.DB {
	return c.db
}

func (c *PostgresClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
