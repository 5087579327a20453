package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/store/sqlite"
)

var _ journal.Store = (*sqlite.Store)(nil)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *sqlite.Store) *accounts.Registry {
	t.Helper()
	ctx := context.Background()
	r := accounts.NewRegistry()
	_, err := r.Seed(accounts.DefaultChart("retail"), func(a model.Account) error {
		return s.SaveAccount(ctx, a)
	})
	require.NoError(t, err)
	return r
}

func TestReserveEntryNumber_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sanad.db")
	ctx := context.Background()

	s := openStore(t, path)
	for want := int64(1); want <= 3; want++ {
		n, err := s.ReserveEntryNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	n, err := reopened.ReserveEntryNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestTransactions_HonorContext(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "sanad.db"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReserveEntryNumber(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Error(t, s.AppendEntry(ctx, model.JournalEntry{ID: "e1", Number: 1}))

	n, err := s.ReserveEntryNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAccountsRoundTrip(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "sanad.db"))
	r := seed(t, s)

	loaded, err := s.LoadAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, len(r.All()))

	restored, err := accounts.Restore(loaded)
	require.NoError(t, err)
	assert.Equal(t, r.Chart(), restored.Chart())
}

func TestUpdateAccount_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanad.db")
	ctx := context.Background()

	s := openStore(t, path)
	r := seed(t, s)
	bank, ok := r.GetByCode("112")
	require.True(t, ok)

	name := "بانک ملت"
	_, err := r.Update(bank.ID, accounts.UpdateParams{Name: &name}, func(a model.Account) error {
		return s.UpdateAccount(ctx, a)
	})
	require.NoError(t, err)
	_, err = r.Deactivate(bank.ID, func(a model.Account) error {
		return s.UpdateAccount(ctx, a)
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened := openStore(t, path)
	loaded, err := reopened.LoadAccounts(ctx)
	require.NoError(t, err)
	restored, err := accounts.Restore(loaded)
	require.NoError(t, err)
	got, ok := restored.GetByCode("112")
	require.True(t, ok)
	assert.Equal(t, "بانک ملت", got.Name)
	assert.True(t, got.Inactive)
	assert.False(t, restored.Active(got.ID))

	assert.Error(t, reopened.UpdateAccount(ctx, model.Account{ID: "missing", Code: "X"}))
}

func TestLedgerSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanad.db")
	ctx := context.Background()

	s := openStore(t, path)
	r := seed(t, s)
	l := journal.NewLedger(r, s, zerolog.Nop())

	cash, _ := r.GetByCode("111")
	rent, _ := r.GetByCode("512")
	committed, err := l.Commit(ctx, model.DraftEntry{
		Date:        time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Description: "اجاره بهمن",
		Source:      model.SourceVoice,
		NeedsReview: true,
		RawInput:    "پرداخت اجاره",
		Lines: []model.Transaction{
			{AccountID: rent.ID, Type: model.Debit, Amount: 4_000_000},
			{AccountID: cash.ID, Type: model.Credit, Amount: 4_000_000},
		},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2 := openStore(t, path)
	loadedAccts, err := s2.LoadAccounts(ctx)
	require.NoError(t, err)
	r2, err := accounts.Restore(loadedAccts)
	require.NoError(t, err)
	entries, err := s2.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, committed.ID, got.ID)
	assert.Equal(t, committed.Number, got.Number)
	assert.Equal(t, committed.Date, got.Date)
	assert.Equal(t, committed.Lines, got.Lines)
	assert.Equal(t, model.SourceVoice, got.Source)
	assert.True(t, got.NeedsReview)
	assert.Equal(t, "پرداخت اجاره", got.RawInput)

	l2 := journal.NewLedger(r2, s2, zerolog.Nop())
	require.NoError(t, l2.Replay(entries))
	bal, err := r2.Balance(rent.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Amount(4_000_000), bal)

	next, err := l2.Commit(ctx, model.DraftEntry{Lines: []model.Transaction{
		{AccountID: cash.ID, Type: model.Debit, Amount: 1},
		{AccountID: rent.ID, Type: model.Credit, Amount: 1},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Number)
}

func TestAppendEntry_RollsBackOnBadLine(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "sanad.db"))
	r := seed(t, s)
	ctx := context.Background()
	cash, _ := r.GetByCode("111")

	err := s.AppendEntry(ctx, model.JournalEntry{
		ID:        "e1",
		Number:    1,
		Date:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Source:    model.SourceManual,
		CreatedAt: time.Now(),
		Lines: []model.Transaction{
			{ID: "l1", AccountID: cash.ID, Type: model.Debit, Amount: 5},
			{ID: "l2", AccountID: "no-such-account", Type: model.Credit, Amount: 5},
		},
	})
	require.Error(t, err)

	entries, err := s.LoadEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
