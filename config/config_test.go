package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MYSQL_URL", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID", "SETTLE_CRON", "EXPIRE_CRON",
		"LEASE_TTL", "SETTLE_CONCURRENCY", "LOCK_BACKEND", "BOXSCORE_SOURCE",
		"ESPN_BASE_URL", "LOOKUP_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadYAMLWithOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  url: mysql://u:p@db:3306/wagers
scheduler:
  settle_spec: "*/30 * * * * *"
  lease_ttl: 2m
  concurrency: 8
boxscore:
  source: espn
log:
  level: debug
`), 0o600))

	t.Setenv("DATABASE_URL", "sqlite:/tmp/override.db")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite:/tmp/override.db", cfg.Database.URL)
	assert.Equal(t, "*/30 * * * * *", cfg.Scheduler.SettleSpec)
	assert.Equal(t, "0 */5 * * * *", cfg.Scheduler.ExpireSpec)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.LeaseTTL)
	assert.Equal(t, 8, cfg.Scheduler.Concurrency)
	assert.Equal(t, "db", cfg.Scheduler.LockBackend)
	assert.Equal(t, "espn", cfg.Boxscore.Source)
	assert.Equal(t, 15*time.Second, cfg.Boxscore.LookupTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("MYSQL_URL", "u:p@tcp(localhost:3306)/wagers")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("LEASE_TTL", "90s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "u:p@tcp(localhost:3306)/wagers", cfg.Database.URL)
	assert.Equal(t, "redis", cfg.Scheduler.LockBackend)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.LeaseTTL)
	assert.Equal(t, "db", cfg.Boxscore.Source)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"no database", map[string]string{}},
		{"redis without address", map[string]string{"DATABASE_URL": "sqlite:x.db", "LOCK_BACKEND": "redis"}},
		{"unknown lock backend", map[string]string{"DATABASE_URL": "sqlite:x.db", "LOCK_BACKEND": "zookeeper"}},
		{"unknown source", map[string]string{"DATABASE_URL": "sqlite:x.db", "BOXSCORE_SOURCE": "fax"}},
		{"lease too short", map[string]string{"DATABASE_URL": "sqlite:x.db", "LEASE_TTL": "10ms"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
