package journal_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/journal"
)

func TestWriteEntries(t *testing.T) {
	l, r := newLedger(t)
	ctx := context.Background()
	cash, rent := acct(t, r, "111"), acct(t, r, "512")

	_, err := l.Commit(ctx, pair(rent, cash, 4_500_000, date(2025, 1, 15)))
	require.NoError(t, err)
	_, err = l.Reverse(ctx, 1, date(2025, 1, 16))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, journal.WriteEntries(&buf, l.Entries(), r))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, strings.Split(journal.Header, ","), rows[0])

	assert.Equal(t, []string{"JE-000001", "2025-01-15", "512", "اجاره", "test", "", "4500000", "", "manual", "", "", ""}, rows[1])
	assert.Equal(t, []string{"JE-000001", "2025-01-15", "111", "صندوق", "test", "", "", "4500000", "manual", "", "", ""}, rows[2])
	assert.Equal(t, "JE-000002", rows[3][0])
	assert.Equal(t, "4500000", rows[3][7])
	assert.Equal(t, "JE-000001", rows[3][11])
}

func TestWriteEntries_LineMemoKeepsEntryDescription(t *testing.T) {
	l, r := newLedger(t)
	d := pair(acct(t, r, "512"), acct(t, r, "111"), 100, date(2025, 1, 15))
	d.Description = "اجاره دی"
	d.Lines[1].Description = "از صندوق"
	_, err := l.Commit(context.Background(), d)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, journal.WriteEntries(&buf, l.Entries(), r))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"اجاره دی", ""}, rows[1][4:6])
	assert.Equal(t, []string{"اجاره دی", "از صندوق"}, rows[2][4:6])
}
