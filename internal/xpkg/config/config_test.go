package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DriverFile, cfg.Storage.Driver)
		assert.Equal(t, "data", cfg.Storage.Dir)
		assert.Equal(t, 10*time.Second, cfg.Kitchen.PollInterval)
		assert.Equal(t, 10, cfg.MenuAPI.SeedLimit)
		assert.False(t, cfg.RMQ.Enabled())
	})

	t.Run("yaml overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
storage:
  driver: postgres
database:
  host: db
  port: "6543"
  user: admin
  password: secret
  database: restaurant
rabbitmq:
  host: mq
kitchen:
  poll_interval: 3s
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
		assert.Equal(t, "postgres://admin:secret@db:6543/restaurant?sslmode=disable", cfg.DB.DSN())
		assert.Equal(t, 3*time.Second, cfg.Kitchen.PollInterval)
		assert.True(t, cfg.RMQ.Enabled())
		assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RMQ.URL())
	})

	t.Run("env overrides yaml", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: postgres\n")
		t.Setenv("POS_STORAGE_DRIVER", "redis")
		t.Setenv("REDIS_URL", "redis://cache:6379/0")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DriverRedis, cfg.Storage.Driver)
		assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	})

	t.Run("invalid driver", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: localstorage\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("file driver needs a dir", func(t *testing.T) {
		path := writeConfig(t, "storage:\n  driver: file\n  dir: \"\"\n")
		_, err := LoadConfig(path)
		require.Error(t, err)

		t.Setenv("POS_STORAGE_DIR", "/var/lib/pos")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/pos", cfg.Storage.Dir)
	})

	t.Run("invalid poll interval", func(t *testing.T) {
		path := writeConfig(t, "kitchen:\n  poll_interval: 0s\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "storage: [driver\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}
