package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("فروشگاه نمونه", "retail")
	cfg.Ledger.CashAccount = "112"

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Shop", "retail")

	assert.Equal(t, "My Shop", cfg.Business.Name)
	assert.Equal(t, "retail", cfg.Business.Profile)
	assert.Equal(t, "111", cfg.Ledger.CashAccount)
	assert.Equal(t, "13", cfg.Ledger.SuspenseAccount)
	assert.Equal(t, "53", cfg.Ledger.DefaultExpenseAccount)
	assert.Equal(t, "42", cfg.Ledger.DefaultRevenueAccount)
	assert.InDelta(t, 0.75, cfg.Resolver.MatchThreshold, 0.001)
	assert.InDelta(t, 0.5, cfg.Receipt.MinConfidence, 0.001)
	assert.Equal(t, StorageSQLite, cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestApplyEnv(t *testing.T) {
	cfg := Default("x", "retail")
	env := map[string]string{
		EnvDBPath:      "/tmp/other.db",
		EnvStorage:     StorageMemory,
		EnvLogLevel:    "debug",
		EnvCashAccount: "",
	}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "/tmp/other.db", cfg.Storage.Path)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "111", cfg.Ledger.CashAccount, "empty values do not override")
}

func TestLoadDir_DotEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("x", "retail")))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"),
		[]byte("SANAD_CASH_ACCOUNT=112\nSANAD_LOG_LEVEL=warn\n"), 0o644))
	t.Setenv(EnvLogLevel, "error")

	cfg, err := LoadDir(root)
	require.NoError(t, err)
	assert.Equal(t, "112", cfg.Ledger.CashAccount)
	assert.Equal(t, "error", cfg.Log.Level, "process environment wins over .env")
}

func TestLoadDir_NoDotEnv(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(filepath.Join(root, FileName), Default("x", "retail")))

	cfg, err := LoadDir(root)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Business.Name)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, "unknown storage driver"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage path"},
		{"memory without path", func(c *Config) { c.Storage.Driver = StorageMemory; c.Storage.Path = "" }, ""},
		{"zero threshold", func(c *Config) { c.Resolver.MatchThreshold = 0 }, "match_threshold"},
		{"threshold above one", func(c *Config) { c.Resolver.MatchThreshold = 1.5 }, "match_threshold"},
		{"negative confidence", func(c *Config) { c.Receipt.MinConfidence = -0.1 }, "min_confidence"},
		{"no cash account", func(c *Config) { c.Ledger.CashAccount = "" }, "cash_account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("x", "retail")
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDBPath(t *testing.T) {
	cfg := Default("x", "retail")
	assert.Equal(t, filepath.Join("/ledger", "data", "sanad.db"), cfg.DBPath("/ledger"))

	cfg.Storage.Path = "/abs/ledger.db"
	assert.Equal(t, "/abs/ledger.db", cfg.DBPath("/ledger"))
}
