package storage

import (
	"context"
	"errors"
	"fmt"

	"restaurant-pos/internal/xpkg/db"

	"github.com/jackc/pgx/v5"
)

const createTable = `
CREATE TABLE IF NOT EXISTS pos_kv (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	revision   BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Postgres struct {
	db *db.DB
}

// NewPostgres ensures the pos_kv table exists.
func NewPostgres(ctx context.Context, d *db.DB) (*Postgres, error) {
	if _, err := d.Pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create pos_kv: %w", err)
	}
	return &Postgres{db: d}, nil
}

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, int64, error) {
	var (
		data string
		rev  int64
	)
	err := p.withReconnect(ctx, func() error {
		return p.db.Pool.QueryRow(ctx,
			`SELECT value::text, revision FROM pos_kv WHERE key = $1`, key,
		).Scan(&data, &rev)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(data), rev, nil
}

// Save writes data into the jsonb column. expectedRev 0 means the key must not exist yet.
func (p *Postgres) Save(ctx context.Context, key string, data []byte, expectedRev int64) (int64, error) {
	var rev int64
	err := p.withReconnect(ctx, func() error {
		if expectedRev == 0 {
			return p.db.Pool.QueryRow(ctx, `
				INSERT INTO pos_kv (key, value, revision, updated_at)
				VALUES ($1, $2::jsonb, 1, now())
				ON CONFLICT (key) DO NOTHING
				RETURNING revision`,
				key, string(data),
			).Scan(&rev)
		}
		return p.db.Pool.QueryRow(ctx, `
			UPDATE pos_kv
			SET value = $2::jsonb, revision = revision + 1, updated_at = now()
			WHERE key = $1 AND revision = $3
			RETURNING revision`,
			key, string(data), expectedRev,
		).Scan(&rev)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrRevisionConflict
	}
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", key, err)
	}
	return rev, nil
}

// withReconnect runs op once more after the database answers pings again.
// A write that committed before the connection dropped then surfaces as a
// revision conflict.
func (p *Postgres) withReconnect(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || errors.Is(err, pgx.ErrNoRows) || ctx.Err() != nil {
		return err
	}
	if p.db.IsAlive(ctx) == nil {
		return err
	}
	if rerr := p.db.Reconnect(ctx); rerr != nil {
		return fmt.Errorf("%w (reconnect: %v)", err, rerr)
	}
	return op()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
