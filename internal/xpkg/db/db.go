package db

import (
	"context"
	"fmt"
	"time"

	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	reconnectAttempts = 10
	pingTimeout       = 5 * time.Second
)

type DB struct {
	Pool  *pgxpool.Pool
	mylog logger.Logger
}

// Start opens a connection pool and verifies it with a ping.
func Start(ctx context.Context, dbCfg *config.Postgres, mylog logger.Logger) (*DB, error) {
	return StartDSN(ctx, dbCfg.DSN(), mylog)
}

func StartDSN(ctx context.Context, dsn string, mylog logger.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		Pool:  pool,
		mylog: mylog,
	}, nil
}

// IsAlive pings the pool to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.Pool == nil {
		return fmt.Errorf("DB is not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := d.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Reconnect waits for the database to answer pings again.
func (d *DB) Reconnect(ctx context.Context) error {
	log := d.mylog.Action("reconnecting")
	for i := 0; i < reconnectAttempts; i++ {
		log.Info("reconnecting attempt", "attempt-number", i+1)
		if err := d.IsAlive(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("reconnecting failed")
}

func (d *DB) Close() error {
	if d.Pool != nil {
		d.Pool.Close()
	}
	return nil
}
