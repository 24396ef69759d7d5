package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tripledger/internal/calculator"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "USD", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, "discharge", cfg.Ledger.SettlementConvention)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tripledger.yaml")
	err := os.WriteFile(path, []byte(`
server:
  addr: ":9090"
database:
  driver: mysql
  mysql:
    host: db.internal
    user: ledger
    name: trips
auth:
  token_ttl: 2h
ledger:
  default_currency: eur
  settlement_convention: offset
  strict_splits: true
  retry_base_delay: 5ms
`), 0o644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.MySQL.Port, "unset keys keep defaults")
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)

	lc := cfg.LedgerConfig()
	assert.Equal(t, calculator.Offset, lc.Convention)
	assert.Equal(t, "EUR", lc.DefaultCurrency)
	assert.True(t, lc.StrictSplits)
	assert.Equal(t, 5*time.Millisecond, lc.RetryBaseDelay)

	m := cfg.MySQL()
	assert.Equal(t, "db.internal", m.Host)
	assert.Equal(t, "trips", m.Name)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("DB_PATH", "/tmp/ledger.db")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DEFAULT_CURRENCY", "GBP")
	t.Setenv("STRICT_SPLITS", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "/tmp/ledger.db", cfg.Database.Path)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "GBP", cfg.Ledger.DefaultCurrency)
	assert.True(t, cfg.Ledger.StrictSplits)
}

func TestEnvInvalid(t *testing.T) {
	t.Setenv("TOKEN_TTL", "forever")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }, "unknown database driver"},
		{"unknown currency", func(c *Config) { c.Ledger.DefaultCurrency = "XYZ" }, "unknown default currency"},
		{"unknown convention", func(c *Config) { c.Ledger.SettlementConvention = "forgive" }, "unknown settlement convention"},
		{"negative retries", func(c *Config) { c.Ledger.MaxRetries = -1 }, "max_retries"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "unknown log format"},
		{"mysql without host", func(c *Config) {
			c.Database.Driver = "mysql"
			c.Database.MySQL.Host = ""
		}, "host and name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
