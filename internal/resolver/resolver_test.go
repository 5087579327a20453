package resolver

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
)

var fixedNow = func() time.Time { return time.Date(2025, 7, 1, 15, 4, 5, 0, time.UTC) }

func defaultRegistry(t *testing.T) *accounts.Registry {
	t.Helper()
	r := accounts.NewRegistry()
	_, err := r.Seed(accounts.DefaultChart("retail"), nil)
	require.NoError(t, err)
	_, err = r.Seed([]accounts.ChartEntry{
		{Code: "611", Name: "علی‌آقا", Type: model.AccountTypeReceivable, ParentCode: "61"},
		{Code: "612", Name: "رضا محمدی", Type: model.AccountTypeReceivable, ParentCode: "61"},
		{Code: "711", Name: "شرکت پخش البرز", Type: model.AccountTypePayable, ParentCode: "71"},
	}, nil)
	require.NoError(t, err)
	return r
}

func defaultConfig() Config {
	return Config{
		CashCode:           accounts.DefaultCashCode,
		SuspenseCode:       accounts.DefaultSuspenseCode,
		DefaultExpenseCode: accounts.DefaultExpenseCode,
		DefaultRevenueCode: accounts.DefaultRevenueCode,
	}
}

func codes(t *testing.T, r *accounts.Registry, d model.DraftEntry) (debit, credit string) {
	t.Helper()
	require.Len(t, d.Lines, 2)
	dr, ok := r.Get(d.Lines[0].AccountID)
	require.True(t, ok)
	cr, ok := r.Get(d.Lines[1].AccountID)
	require.True(t, ok)
	assert.Equal(t, model.Debit, d.Lines[0].Type)
	assert.Equal(t, model.Credit, d.Lines[1].Type)
	return dr.Code, cr.Code
}

func TestResolve_PaymentToNamedCounterparty(t *testing.T) {
	r := accounts.NewRegistry()
	_, err := r.Seed([]accounts.ChartEntry{
		{Code: "1", Name: "صندوق", Type: model.AccountTypeAsset},
		{Code: "6", Name: "بدهکاران", Type: model.AccountTypeReceivable},
		{Code: "61", Name: "علی‌آقا", Type: model.AccountTypeReceivable, ParentCode: "6"},
	}, nil)
	require.NoError(t, err)

	res, err := New(r, Config{CashCode: "1"}).WithClock(fixedNow).
		Resolve("پرداخت ۵۰۰۰۰۰ تومان به علی‌آقا بابت خرید کالا")
	require.NoError(t, err)

	debit, credit := codes(t, r, res.Draft)
	assert.Equal(t, "61", debit)
	assert.Equal(t, "1", credit)
	assert.Equal(t, model.Amount(500000), res.Draft.Lines[0].Amount)
	assert.Equal(t, model.Amount(500000), res.Draft.Lines[1].Amount)
	assert.Equal(t, "خرید کالا", res.Draft.Description)
	assert.Equal(t, IntentPayment, res.Intent)
	assert.Equal(t, model.SourceVoice, res.Draft.Source)
	assert.False(t, res.Draft.NeedsReview)
	assert.True(t, res.Counterparty.Exact)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), res.Draft.Date)
	assert.Equal(t, "پرداخت ۵۰۰۰۰۰ تومان به علی‌آقا بابت خرید کالا", res.Draft.RawInput)
}

func TestResolve(t *testing.T) {
	r := defaultRegistry(t)
	res := New(r, defaultConfig()).WithClock(fixedNow)

	tests := []struct {
		name        string
		input       string
		intent      Intent
		amount      model.Amount
		debit       string
		credit      string
		description string
		review      bool
	}{
		{
			name:        "receipt in words",
			input:       "دریافت دو میلیون و پانصد هزار تومان از شرکت پخش البرز بابت فروش کالا",
			intent:      IntentReceipt,
			amount:      2_500_000,
			debit:       "111",
			credit:      "711",
			description: "فروش کالا",
		},
		{
			name:        "amount after counterparty",
			input:       "به رضا محمدی ۳ میلیون دادم",
			intent:      IntentPayment,
			amount:      3_000_000,
			debit:       "612",
			credit:      "111",
			description: "پرداخت به رضا محمدی",
		},
		{
			name:        "spacing variant of name",
			input:       "دریافت ۱۰۰ هزار از علی آقا",
			intent:      IntentReceipt,
			amount:      100_000,
			debit:       "111",
			credit:      "611",
			description: "دریافت از علی آقا",
		},
		{
			name:        "no counterparty uses default expense",
			input:       "پرداخت ۲۰۰,۰۰۰ تومان بابت ناهار",
			intent:      IntentPayment,
			amount:      200_000,
			debit:       "53",
			credit:      "111",
			description: "ناهار",
		},
		{
			name:        "no counterparty uses default revenue",
			input:       "فروش ۷۵۰ هزار",
			intent:      IntentReceipt,
			amount:      750_000,
			debit:       "111",
			credit:      "42",
			description: "دریافت",
		},
		{
			name:        "unknown counterparty goes to suspense",
			input:       "پرداخت ۵۰ هزار به حسین بابت تعمیرات",
			intent:      IntentPayment,
			amount:      50_000,
			debit:       "13",
			credit:      "111",
			description: "تعمیرات",
			review:      true,
		},
		{
			name:        "numbers in memo are ignored",
			input:       "پرداخت ۵۰۰ هزار به علی‌آقا بابت فاکتور ۱۲",
			intent:      IntentPayment,
			amount:      500_000,
			debit:       "611",
			credit:      "111",
			description: "فاکتور 12",
		},
		{
			name:        "earliest verb wins",
			input:       "دریافت ۹۰ هزار تومان پرداختی از مشتریان",
			intent:      IntentReceipt,
			amount:      90_000,
			debit:       "111",
			credit:      "61",
			description: "دریافت از مشتریان",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := res.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.amount, got.Amount)
			debit, credit := codes(t, r, got.Draft)
			assert.Equal(t, tt.debit, debit)
			assert.Equal(t, tt.credit, credit)
			assert.Equal(t, tt.description, got.Draft.Description)
			assert.Equal(t, tt.review, got.Draft.NeedsReview)

			dsum, csum := got.Draft.Totals()
			assert.Equal(t, dsum, csum)
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	r := defaultRegistry(t)
	withSuspense := New(r, defaultConfig())
	bare := New(r, Config{CashCode: "111"})
	badCash := New(r, Config{CashCode: "999"})

	tests := []struct {
		name     string
		resolver *Resolver
		input    string
		want     error
	}{
		{"no verb", withSuspense, "سلام ۵۰۰ تومان به علی‌آقا", apperr.ErrUnrecognizedIntent},
		{"verb only in memo", withSuspense, "۵۰۰ تومان به علی‌آقا بابت خرید", apperr.ErrUnrecognizedIntent},
		{"no amount", withSuspense, "پرداخت به علی‌آقا", apperr.ErrAmountNotFound},
		{"two amounts", withSuspense, "پرداخت ۵۰۰ به علی‌آقا ۲۰۰", apperr.ErrAmountNotFound},
		{"zero amount", withSuspense, "پرداخت صفر تومان به علی‌آقا", apperr.ErrAmountNotFound},
		{"amount beyond range", withSuspense, "پرداخت 18446744073709551621 تومان به علی‌آقا", apperr.ErrAmountNotFound},
		{"unmatched without suspense", bare, "پرداخت ۵۰ هزار به حسین", apperr.ErrLowConfidenceCounterparty},
		{"no party and no defaults", bare, "پرداخت ۵۰ هزار", apperr.ErrLowConfidenceCounterparty},
		{"cash account missing", badCash, "پرداخت ۵۰ هزار به علی‌آقا", apperr.ErrUnknownAccount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.resolver.Resolve(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := defaultRegistry(t)
	res := New(r, defaultConfig()).WithClock(fixedNow)
	input := "دریافت دو میلیون از رضا محمدى بابت تسویه"

	first, err := res.Resolve(input)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := res.Resolve(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_NoSuspenseFallsBackToDefaultOnlyWithoutParty(t *testing.T) {
	r := defaultRegistry(t)
	cfg := defaultConfig()
	cfg.SuspenseCode = ""
	res := New(r, cfg)

	_, err := res.Resolve("پرداخت ۵۰ هزار به حسین")
	assert.True(t, errors.Is(err, apperr.ErrLowConfidenceCounterparty))
	assert.Equal(t, apperr.KindExtraction, apperr.KindOf(err))

	got, err := res.Resolve("پرداخت ۵۰ هزار")
	require.NoError(t, err)
	assert.False(t, got.Draft.NeedsReview)
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "payment", IntentPayment.String())
	assert.Equal(t, "receipt", IntentReceipt.String())
	assert.Equal(t, "unknown", IntentUnknown.String())
}
