package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/journal"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/report"
	"github.com/cleared-dev/sanad/internal/store/memstore"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	reg    *accounts.Registry
	ledger *journal.Ledger
	engine *report.Engine
	ids    map[string]string
}

// newFixture posts three entries: capital paid in, rent paid, goods sold.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := accounts.NewRegistry()
	_, err := reg.Seed(accounts.DefaultChart("retail"), nil)
	require.NoError(t, err)
	l := journal.NewLedger(reg, memstore.New(), zerolog.Nop())

	f := &fixture{reg: reg, ledger: l, engine: report.New(l), ids: map[string]string{}}
	for _, code := range []string{"1", "111", "31", "411", "512"} {
		a, ok := reg.GetByCode(code)
		require.True(t, ok)
		f.ids[code] = a.ID
	}

	post := func(debit, credit string, amount model.Amount, when time.Time, review bool) {
		_, err := l.Commit(context.Background(), model.DraftEntry{
			Date:        when,
			Description: "سند " + debit,
			NeedsReview: review,
			Lines: []model.Transaction{
				{AccountID: f.ids[debit], Type: model.Debit, Amount: amount},
				{AccountID: f.ids[credit], Type: model.Credit, Amount: amount},
			},
		})
		require.NoError(t, err)
	}
	post("111", "31", 1_000_000, date(2025, 1, 10), false)
	post("512", "111", 200_000, date(2025, 2, 5), false)
	post("111", "411", 300_000, date(2025, 3, 1), true)
	return f
}

type row struct {
	code                   string
	debit, credit, balance model.Amount
}

func rowsOf(tb report.TrialBalance) []row {
	var out []row
	for _, r := range tb.Rows {
		out = append(out, row{r.Code, r.Debit, r.Credit, r.Balance})
	}
	return out
}

func TestTrialBalance(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		asOf time.Time
		want []row
	}{
		{
			name: "all time",
			want: []row{
				{"111", 1_300_000, 200_000, 1_100_000},
				{"31", 0, 1_000_000, 1_000_000},
				{"411", 0, 300_000, 300_000},
				{"512", 200_000, 0, 200_000},
			},
		},
		{
			name: "as of february",
			asOf: date(2025, 2, 28),
			want: []row{
				{"111", 1_000_000, 200_000, 800_000},
				{"31", 0, 1_000_000, 1_000_000},
				{"512", 200_000, 0, 200_000},
			},
		},
		{
			name: "time of day is ignored",
			asOf: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
			want: []row{
				{"111", 1_000_000, 0, 1_000_000},
				{"31", 0, 1_000_000, 1_000_000},
			},
		},
		{
			name: "before any entry",
			asOf: date(2024, 12, 31),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb, err := f.engine.TrialBalance(tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rowsOf(tb))
			assert.Equal(t, tb.TotalDebit, tb.TotalCredit)
		})
	}
}

func TestTrialBalance_Mismatch(t *testing.T) {
	f := newFixture(t)
	// A one-sided update bypassing the posting engine.
	require.NoError(t, f.reg.Apply([]model.Transaction{
		{AccountID: f.ids["111"], Type: model.Debit, Amount: 5},
	}))

	_, err := f.engine.TrialBalance(time.Time{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTrialBalanceMismatch)
	assert.Equal(t, apperr.KindConsistency, apperr.KindOf(err))
}

func TestLedger(t *testing.T) {
	f := newFixture(t)

	type lrow struct {
		number  int64
		debit   model.Amount
		credit  model.Amount
		running model.Amount
	}
	tests := []struct {
		name    string
		code    string
		from    time.Time
		to      time.Time
		opening model.Amount
		want    []lrow
	}{
		{
			name: "cash all time",
			code: "111",
			want: []lrow{{1, 1_000_000, 0, 1_000_000}, {2, 0, 200_000, 800_000}, {3, 300_000, 0, 1_100_000}},
		},
		{
			name:    "cash from february",
			code:    "111",
			from:    date(2025, 2, 1),
			opening: 1_000_000,
			want:    []lrow{{2, 0, 200_000, 800_000}, {3, 300_000, 0, 1_100_000}},
		},
		{
			name:    "cash february only",
			code:    "111",
			from:    date(2025, 2, 1),
			to:      date(2025, 2, 28),
			opening: 1_000_000,
			want:    []lrow{{2, 0, 200_000, 800_000}},
		},
		{
			name: "asset subtree",
			code: "1",
			want: []lrow{{1, 1_000_000, 0, 1_000_000}, {2, 0, 200_000, 800_000}, {3, 300_000, 0, 1_100_000}},
		},
		{
			name: "credit normal account",
			code: "31",
			want: []lrow{{1, 0, 1_000_000, 1_000_000}},
		},
		{
			name:    "empty range keeps opening",
			code:    "111",
			from:    date(2025, 4, 1),
			opening: 1_100_000,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, err := f.engine.Ledger(f.ids[tt.code], tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.code, lg.Account.Code)
			assert.Equal(t, tt.opening, lg.Opening)

			var got []lrow
			for _, r := range lg.Rows {
				got = append(got, lrow{r.Number, r.Debit, r.Credit, r.Running})
			}
			assert.Equal(t, tt.want, got)

			closing := tt.opening
			if len(tt.want) > 0 {
				closing = tt.want[len(tt.want)-1].running
			}
			assert.Equal(t, closing, lg.Closing)
		})
	}
}

func TestLedger_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Ledger("missing", time.Time{}, time.Time{})
	assert.ErrorIs(t, err, apperr.ErrUnknownAccount)

	_, err = f.engine.Ledger(f.ids["111"], date(2025, 3, 1), date(2025, 2, 1))
	assert.ErrorIs(t, err, apperr.ErrInvalidRange)
}

func TestLedger_RowsCarryDescription(t *testing.T) {
	f := newFixture(t)

	lg, err := f.engine.Ledger(f.ids["512"], time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, lg.Rows, 1)
	assert.Equal(t, "سند 512", lg.Rows[0].Description)
	assert.Equal(t, date(2025, 2, 5), lg.Rows[0].Date)
}

func TestSummary(t *testing.T) {
	f := newFixture(t)

	s, err := f.engine.Summary(2)
	require.NoError(t, err)

	assert.Equal(t, 3, s.Entries)
	assert.Equal(t, len(f.reg.All()), s.Accounts)
	assert.Equal(t, 1, s.NeedsReview)
	assert.Equal(t, model.Amount(1_500_000), s.TotalDebit)
	assert.Equal(t, model.Amount(1_500_000), s.TotalCredit)
	assert.Zero(t, s.Difference)
	require.Len(t, s.Recent, 2)
	assert.Equal(t, int64(3), s.Recent[0].Number)
	assert.Equal(t, int64(2), s.Recent[1].Number)
}
