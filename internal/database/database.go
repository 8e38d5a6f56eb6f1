package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	connectTimeout    = 10 * time.Second
	healthTimeout     = 2 * time.Second
	connMaxLifetime   = 30 * time.Minute
	connMaxIdleTime   = 5 * time.Minute
	healthCheckPeriod = 30 * time.Second
)

// DB wraps the pgx pool. Repositories take the pool through the Querier
// interface, so transactions and the pool are interchangeable.
type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string, maxConns int32, minConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	cfg.MaxConns = maxConns
	cfg.MinConns = minConns
	cfg.MaxConnLifetime = connMaxLifetime
	cfg.MaxConnIdleTime = connMaxIdleTime
	cfg.HealthCheckPeriod = healthCheckPeriod

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("database connected",
		"max_conns", maxConns,
		"min_conns", minConns,
		"database", cfg.ConnConfig.Database,
	)
	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		stat := db.Pool.Stat()
		slog.Info("closing database pool",
			"acquired", stat.AcquiredConns(),
			"idle", stat.IdleConns(),
		)
		db.Pool.Close()
	}
}

// Health pings with its own short deadline so a wedged pool turns into a
// fast unhealthy answer instead of hanging the health endpoint.
func (db *DB) Health(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	return db.Pool.Ping(pingCtx)
}
