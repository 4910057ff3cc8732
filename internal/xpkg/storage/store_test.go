package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"restaurant-pos/internal/xpkg/config"
	"restaurant-pos/internal/xpkg/db"
	"restaurant-pos/internal/xpkg/logger"
	"restaurant-pos/internal/xpkg/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedis(client, "pos-test")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func testStore(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		data, rev, err := store.Load(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, data)
		assert.Zero(t, rev)
	})

	t.Run("create and update", func(t *testing.T) {
		rev, err := store.Save(ctx, "k1", []byte(`[1]`), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)

		rev, err = store.Save(ctx, "k1", []byte(`[1, 2]`), rev)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rev)

		data, got, err := store.Load(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got)
		assert.JSONEq(t, `[1, 2]`, string(data))
	})

	t.Run("stale revision", func(t *testing.T) {
		_, err := store.Save(ctx, "k2", []byte(`[]`), 0)
		require.NoError(t, err)

		_, err = store.Save(ctx, "k2", []byte(`[3]`), 0)
		require.ErrorIs(t, err, ErrRevisionConflict)

		_, err = store.Save(ctx, "k2", []byte(`[3]`), 7)
		require.ErrorIs(t, err, ErrRevisionConflict)

		data, rev, err := store.Load(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)
		assert.JSONEq(t, `[]`, string(data))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemory())
}

func TestFileStore(t *testing.T) {
	store, err := NewFile(t.TempDir())
	require.NoError(t, err)
	testStore(t, store)

	t.Run("rejects path keys", func(t *testing.T) {
		_, _, err := store.Load(context.Background(), "../escape")
		require.Error(t, err)
	})

	t.Run("keeps malformed values verbatim", func(t *testing.T) {
		ctx := context.Background()
		_, err := store.Save(ctx, "broken", []byte(`{not json`), 0)
		require.NoError(t, err)

		data, rev, err := store.Load(ctx, "broken")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rev)
		assert.Equal(t, `{not json`, string(data))
	})
}

func TestOpen_DefaultDriverSharesAcrossProcesses(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()

	ordering, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer ordering.Close()
	kitchen, err := Open(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer kitchen.Close()

	_, err = NewOrderRepo(ordering, logger.Nop()).Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		return append(orders, models.Order{ID: "ORD12345", Status: models.StatusPending}), nil
	})
	require.NoError(t, err)

	orders, err := NewOrderRepo(kitchen, logger.Nop()).List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD12345", orders[0].ID)

	_, err = NewOrderRepo(kitchen, logger.Nop()).Mutate(ctx, func(orders []models.Order) ([]models.Order, error) {
		orders[0].Status = models.StatusPreparing
		return orders, nil
	})
	require.NoError(t, err)

	_, rev, err := ordering.Load(ctx, KeyOrders)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rev)
}

func TestRedisStore(t *testing.T) {
	store, mr := setupRedis(t)
	testStore(t, store)

	assert.True(t, mr.Exists("pos-test:k1"))
	assert.Equal(t, "2", mr.HGet("pos-test:k1", "revision"))
}

func TestPostgresWithReconnect_NoRetry(t *testing.T) {
	p := &Postgres{}

	calls := 0
	err := p.withReconnect(context.Background(), func() error {
		calls++
		return pgx.ErrNoRows
	})
	require.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, 1, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	connReset := errors.New("connection reset by peer")
	err = p.withReconnect(ctx, func() error {
		calls++
		return connReset
	})
	require.ErrorIs(t, err, connReset)
	assert.Equal(t, 2, calls)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POS_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POS_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	d, err := db.StartDSN(ctx, dsn, logger.Nop())
	require.NoError(t, err)
	_, err = d.Pool.Exec(ctx, `DROP TABLE IF EXISTS pos_kv`)
	require.NoError(t, err)

	store, err := NewPostgres(ctx, d)
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)
	require.NoError(t, d.IsAlive(ctx))
}
