package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"BUYER_AGENT_ADDR", "BUYER_AGENT_STORE", "BUYER_AGENT_SESSION_TTL", "BUYER_AGENT_SWEEP_INTERVAL"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.Equal(t, "buyer-agent:", cfg.Redis.Prefix)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("BUYER_AGENT_ADDR", ":9090")
	t.Setenv("BUYER_AGENT_STORE", "SQLite")
	t.Setenv("BUYER_AGENT_SESSION_TTL", "2d")
	t.Setenv("BUYER_AGENT_SWEEP_INTERVAL", "90s")
	t.Setenv("REDIS_DB", "3")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 90*time.Second, cfg.SweepInterval)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("BUYER_AGENT_STORE", "postgres")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("BUYER_AGENT_STORE", "memory")
	t.Setenv("BUYER_AGENT_SESSION_TTL", "forever")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("BUYER_AGENT_RATE_RPS=42\n"), 0o600))
	t.Setenv("BUYER_AGENT_RATE_RPS", "")
	os.Unsetenv("BUYER_AGENT_RATE_RPS")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.RateRPS)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"7d", 7 * 24 * time.Hour},
		{"24h", 24 * time.Hour},
		{"30m", 30 * time.Minute},
		{"60s", 60 * time.Second},
		{"1h30m", 90 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDuration("soon")
	assert.Error(t, err)
}
