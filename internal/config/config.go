package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/match"
)

// FileName is the config file at the root of a ledger directory.
const FileName = "sanad.yaml"

// Environment overrides, read from the process or a .env file next to the
// config. Process values win.
const (
	EnvDBPath      = "SANAD_DB_PATH"
	EnvStorage     = "SANAD_STORAGE"
	EnvLogLevel    = "SANAD_LOG_LEVEL"
	EnvCashAccount = "SANAD_CASH_ACCOUNT"
)

// Storage drivers.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config represents the top-level sanad.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Resolver ResolverConfig `yaml:"resolver"`
	Receipt  ReceiptConfig  `yaml:"receipt"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name     string `yaml:"name"`
	Profile  string `yaml:"profile"` // default chart profile, e.g. "retail"
	Currency string `yaml:"currency"`
}

// LedgerConfig names the accounts, by code, that intake postings fall back on.
type LedgerConfig struct {
	CashAccount           string `yaml:"cash_account"`
	SuspenseAccount       string `yaml:"suspense_account"`
	DefaultExpenseAccount string `yaml:"default_expense_account"`
	DefaultRevenueAccount string `yaml:"default_revenue_account"`
}

// ResolverConfig tunes counterparty matching.
type ResolverConfig struct {
	MatchThreshold float64 `yaml:"match_threshold"`
}

// ReceiptConfig tunes OCR field filtering.
type ReceiptConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// StorageConfig selects the persistence driver. Path is relative to the
// ledger directory unless absolute.
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
}

// Load reads a sanad.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// LoadDir reads <root>/sanad.yaml and applies environment overrides from
// <root>/.env and the process environment.
func LoadDir(root string) (*Config, error) {
	cfg, err := Load(filepath.Join(root, FileName))
	if err != nil {
		return nil, err
	}
	env, err := readDotEnv(filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := env[key]
		return v, ok
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return env, nil
}

// ApplyEnv overrides fields from the environment variables lookup finds.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvDBPath); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup(EnvStorage); ok && v != "" {
		c.Storage.Driver = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvCashAccount); ok && v != "" {
		c.Ledger.CashAccount = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == StorageSQLite && c.Storage.Path == "" {
		return errors.New("storage path is required for sqlite")
	}
	if t := c.Resolver.MatchThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("resolver match_threshold %v must be in (0, 1]", t)
	}
	if m := c.Receipt.MinConfidence; m < 0 || m > 1 {
		return fmt.Errorf("receipt min_confidence %v must be in [0, 1]", m)
	}
	if c.Ledger.CashAccount == "" {
		return errors.New("ledger cash_account is required")
	}
	return nil
}

// DBPath resolves the storage path against the ledger directory.
func (c *Config) DBPath(root string) string {
	if filepath.IsAbs(c.Storage.Path) {
		return c.Storage.Path
	}
	return filepath.Join(root, c.Storage.Path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(businessName, profile string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Profile:  profile,
			Currency: "IRR",
		},
		Ledger: LedgerConfig{
			CashAccount:           accounts.DefaultCashCode,
			SuspenseAccount:       accounts.DefaultSuspenseCode,
			DefaultExpenseAccount: accounts.DefaultExpenseCode,
			DefaultRevenueAccount: accounts.DefaultRevenueCode,
		},
		Resolver: ResolverConfig{
			MatchThreshold: match.DefaultThreshold,
		},
		Receipt: ReceiptConfig{
			MinConfidence: 0.5,
		},
		Storage: StorageConfig{
			Driver: StorageSQLite,
			Path:   "data/sanad.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
