package journal_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/store/memstore"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newRegistry(t *testing.T) *accounts.Registry {
	t.Helper()
	r := accounts.NewRegistry()
	_, err := r.Seed(accounts.DefaultChart("retail"), nil)
	require.NoError(t, err)
	return r
}

func newLedger(t *testing.T) (*journal.Ledger, *accounts.Registry) {
	t.Helper()
	r := newRegistry(t)
	l := journal.NewLedger(r, memstore.New(), zerolog.Nop()).
		WithClock(func() time.Time { return date(2025, 6, 1) })
	return l, r
}

func acct(t *testing.T, r *accounts.Registry, code string) string {
	t.Helper()
	a, ok := r.GetByCode(code)
	require.True(t, ok, "account %s", code)
	return a.ID
}

func pair(debitID, creditID string, amount model.Amount, when time.Time) model.DraftEntry {
	return model.DraftEntry{
		Date:        when,
		Description: "test",
		Lines: []model.Transaction{
			{AccountID: debitID, Type: model.Debit, Amount: amount},
			{AccountID: creditID, Type: model.Credit, Amount: amount},
		},
	}
}
