package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/store/memstore"
)

var _ journal.Store = (*memstore.Store)(nil)

func TestReserveEntryNumber(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.ReserveEntryNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReserveEntryNumber_CanceledContext(t *testing.T) {
	s := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReserveEntryNumber(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendAndLoadEntries(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.AppendEntry(ctx, model.JournalEntry{Number: 2}))
	require.NoError(t, s.AppendEntry(ctx, model.JournalEntry{Number: 1}))
	assert.Error(t, s.AppendEntry(ctx, model.JournalEntry{Number: 1}))

	entries, err := s.LoadEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].Number)
}

func TestSaveAccount_RejectsDuplicateCode(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, model.Account{ID: "a", Code: "1"}))
	assert.Error(t, s.SaveAccount(ctx, model.Account{ID: "b", Code: "1"}))

	accts, err := s.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accts, 1)
}

func TestUpdateAccount(t *testing.T) {
	s := memstore.New()
	ctx := context.Background()

	require.NoError(t, s.SaveAccount(ctx, model.Account{ID: "a", Code: "1", Name: "old"}))
	require.NoError(t, s.UpdateAccount(ctx, model.Account{ID: "a", Code: "1", Name: "new", Inactive: true}))
	assert.Error(t, s.UpdateAccount(ctx, model.Account{ID: "b", Code: "2"}))

	accts, err := s.LoadAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accts, 1)
	assert.Equal(t, "new", accts[0].Name)
	assert.True(t, accts[0].Inactive)
}
