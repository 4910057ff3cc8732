// Package storage persists the point-of-sale collections as whole JSON
// values under fixed keys, guarded by a per-key revision counter.
package storage

import (
	"context"
	"fmt"

	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/db"
	"restaurant-pos/internal/xpkg/errors"
	"restaurant-pos/internal/xpkg/logger"

	"github.com/go-redis/redis/v8"
)

const (
	KeyProducts = "posProducts"
	KeyOrders   = "posOrders"
)

var ErrRevisionConflict = errors.ErrRevisionConflict

// Store is a string-keyed blob store. An absent key loads as nil data with
// revision 0. Save succeeds only while the stored revision still equals
// expectedRev and returns the new revision.
type Store interface {
	Load(ctx context.Context, key string) (data []byte, rev int64, err error)
	Save(ctx context.Context, key string, data []byte, expectedRev int64) (int64, error)
	Close() error
}

// Open builds the store selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, mylog logger.Logger) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		return NewFile(cfg.Storage.Dir)

	case config.DriverMemory:
		return NewMemory(), nil

	case config.DriverPostgres:
		d, err := db.Start(ctx, cfg.DB, mylog)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrDBConn, err)
		}
		return NewPostgres(ctx, d)

	case config.DriverRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if cfg.Redis.DB != 0 {
			opts.DB = cfg.Redis.DB
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: %w", errors.ErrDBConn, err)
		}
		return NewRedis(client, cfg.Redis.Namespace), nil
	}
	return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
}
