// Package app wires the registry, posting engine, resolver, receipt
// normalizer and reports over one store, and exposes the operations the CLI
// calls.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/config"
	"github.com/cleared-dev/sanad/internal/importer"
	"github.com/cleared-dev/sanad/internal/intakelog"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/receipt"
	"github.com/cleared-dev/sanad/internal/report"
	"github.com/cleared-dev/sanad/internal/resolver"
	"github.com/cleared-dev/sanad/internal/store/memstore"
	"github.com/cleared-dev/sanad/internal/store/sqlite"
)

// ChartFile is an optional chart of accounts at the ledger root, used
// instead of the profile's default chart when the store is first seeded.
const ChartFile = "chart.csv"

// App is an open ledger.
type App struct {
	root   string
	cfg    *config.Config
	log    zerolog.Logger
	now    func() time.Time
	store  journal.Store
	closer io.Closer

	registry *accounts.Registry
	ledger   *journal.Ledger
	resolver *resolver.Resolver
	receipts *receipt.Normalizer
	reports  *report.Engine
	intake   *intakelog.Log
}

// InitOptions configures a new ledger directory.
type InitOptions struct {
	BusinessName string
	Profile      string
	ChartPath    string // optional chart CSV to copy in
	Storage      string // optional driver override
}

// Init creates a ledger directory with a default sanad.yaml and opens it.
// It refuses to overwrite an existing config.
func Init(ctx context.Context, root string, opts InitOptions, log zerolog.Logger) (*App, error) {
	cfgPath := filepath.Join(root, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return nil, fmt.Errorf("%s already exists in %s", config.FileName, root)
	}
	for _, dir := range []string{"", intakelog.Dir, importer.Dir, importer.ProcessedDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger dir: %w", err)
		}
	}

	profile := opts.Profile
	if profile == "" {
		profile = "retail"
	}
	cfg := config.Default(opts.BusinessName, profile)
	if opts.Storage != "" {
		cfg.Storage.Driver = opts.Storage
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if opts.ChartPath != "" {
		chart, err := accounts.LoadChartFile(opts.ChartPath)
		if err != nil {
			return nil, err
		}
		if err := writeChart(filepath.Join(root, ChartFile), chart); err != nil {
			return nil, err
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return nil, err
	}
	log.Info().Str("root", root).Str("driver", cfg.Storage.Driver).Msg("ledger initialized")
	return Open(ctx, root, log)
}

// Open loads <root>/sanad.yaml, opens the configured store and rebuilds the
// in-memory ledger from it.
func Open(ctx context.Context, root string, log zerolog.Logger) (*App, error) {
	cfg, err := config.LoadDir(root)
	if err != nil {
		return nil, err
	}

	var (
		store  journal.Store
		closer io.Closer
	)
	switch cfg.Storage.Driver {
	case config.StorageSQLite:
		s, err := sqlite.Open(cfg.DBPath(root))
		if err != nil {
			return nil, err
		}
		store, closer = s, s
	default:
		store = memstore.New()
	}

	a, err := New(ctx, root, cfg, store, log)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	a.closer = closer
	return a, nil
}

// New builds an App over an already open store. An empty store is seeded
// with the chart of accounts.
func New(ctx context.Context, root string, cfg *config.Config, store journal.Store, log zerolog.Logger) (*App, error) {
	a := &App{
		root:   root,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
		store:  store,
		intake: intakelog.New(root),
	}

	accts, err := store.LoadAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if len(accts) == 0 {
		a.registry, err = a.seed(ctx)
	} else {
		a.registry, err = accounts.Restore(accts)
	}
	if err != nil {
		return nil, err
	}

	a.ledger = journal.NewLedger(a.registry, store, log)
	entries, err := store.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	if err := a.ledger.Replay(entries); err != nil {
		return nil, err
	}

	a.resolver = resolver.New(a.registry, resolver.Config{
		CashCode:           cfg.Ledger.CashAccount,
		SuspenseCode:       cfg.Ledger.SuspenseAccount,
		DefaultExpenseCode: cfg.Ledger.DefaultExpenseAccount,
		DefaultRevenueCode: cfg.Ledger.DefaultRevenueAccount,
		Threshold:          cfg.Resolver.MatchThreshold,
	})
	a.receipts = receipt.New(cfg.Receipt.MinConfidence)
	a.reports = report.New(a.ledger)

	log.Debug().
		Int("accounts", len(a.registry.All())).
		Int("entries", len(entries)).
		Msg("ledger loaded")
	return a, nil
}

// WithClock replaces the time source for entry dates and intake stamps.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	a.ledger.WithClock(now)
	a.resolver.WithClock(now)
	a.intake.WithClock(now)
	return a
}

func (a *App) seed(ctx context.Context) (*accounts.Registry, error) {
	chart := accounts.DefaultChart(a.cfg.Business.Profile)
	if a.root != "" {
		custom, err := accounts.LoadChartFile(filepath.Join(a.root, ChartFile))
		switch {
		case err == nil:
			chart = custom
		case !errors.Is(err, fs.ErrNotExist):
			return nil, err
		}
	}

	reg := accounts.NewRegistry()
	if _, err := reg.Seed(chart, a.persistAccount(ctx)); err != nil {
		return nil, err
	}
	a.log.Info().Int("accounts", len(chart)).Msg("chart of accounts seeded")
	return reg, nil
}

func (a *App) persistAccount(ctx context.Context) accounts.PersistFunc {
	return func(acct model.Account) error {
		return a.store.SaveAccount(ctx, acct)
	}
}

func (a *App) updateAccount(ctx context.Context) accounts.PersistFunc {
	return func(acct model.Account) error {
		return a.store.UpdateAccount(ctx, acct)
	}
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Root returns the ledger directory.
func (a *App) Root() string {
	return a.root
}

// Close releases the store.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

func writeChart(path string, chart []accounts.ChartEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := accounts.WriteChart(f, chart); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
