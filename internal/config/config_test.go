package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pollcontract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	admin := uuid.New()
	path := writeConfig(t, `
port: 9000
store: badger
badgerPath: /var/lib/pollcontract
shutdownTimeout: 5s
codeHashes:
  - "0x`+strings.Repeat("11", 32)+`"
postgres:
  host: db
redis:
  addr: "cache:6379"
`)

	t.Setenv("POLLCONTRACT_PORT", "9100")
	t.Setenv("POLLCONTRACT_ADMIN_ACCOUNT", admin.String())
	t.Setenv("POSTGRES_DB", "polls")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("REDIS_STREAM", "events")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint(9100), cfg.Port)
	assert.Equal(t, StoreBadger, cfg.Store)
	assert.Equal(t, "/var/lib/pollcontract", cfg.BadgerPath)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "postgres://u:p@db:5432/polls?sslmode=disable", cfg.DSN())
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, "events", cfg.Redis.Stream)

	id, err := cfg.AdminAccountID()
	require.NoError(t, err)
	assert.Equal(t, admin, id)

	hashes, err := cfg.KnownCodeHashes()
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	assert.Equal(t, byte(0x11), hashes[0][0])
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POLLCONTRACT_JWT_SECRET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("POLLCONTRACT_JWT_SECRET") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWTSecret)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"unknown store", func(c *Config) { c.Store = "sqlite" }, "unknown store"},
		{"zero port", func(c *Config) { c.Port = 0 }, "invalid port"},
		{"bad admin", func(c *Config) { c.AdminAccount = "root" }, "invalid admin account"},
		{"bad code hash", func(c *Config) { c.CodeHashes = []string{"0x01"} }, "invalid code hash"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.msg)
		})
	}
}

func TestDSNOverride(t *testing.T) {
	cfg := defaults()
	cfg.Postgres.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", cfg.DSN())
}
