package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/l1jgo/paradox/internal/config"
	"go.uber.org/zap"
)

// ErrDisabled is returned by Open when no DSN is configured.
var ErrDisabled = errors.New("run ledger disabled: database.dsn is empty")

// DB is the run ledger's connection pool, migrated to the latest schema.
type DB struct {
	Pool   *pgxpool.Pool
	Schema int64
	log    *zap.Logger
}

// Open connects, pings and migrates. The pool is closed again on any error.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if cfg.DSN == "" {
		return nil, ErrDisabled
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = int32(max(cfg.MaxOpenConns, 1))
	poolCfg.MinConns = int32(min(cfg.MaxIdleConns, cfg.MaxOpenConns))
	poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	version, err := RunMigrations(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("run ledger ready",
		zap.Int64("schema", version),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)
	return &DB{Pool: pool, Schema: version, log: log}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
	db.log.Debug("run ledger closed")
}
