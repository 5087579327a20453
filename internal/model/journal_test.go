package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalSide(t *testing.T) {
	tests := []struct {
		typ  AccountType
		want Side
	}{
		{AccountTypeAsset, Debit},
		{AccountTypeExpense, Debit},
		{AccountTypeReceivable, Debit},
		{AccountTypeLiability, Credit},
		{AccountTypeEquity, Credit},
		{AccountTypeRevenue, Credit},
		{AccountTypePayable, Credit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.NormalSide(), "NormalSide(%s)", tt.typ)
	}
}

func TestAccountTypeValid(t *testing.T) {
	assert.True(t, AccountTypePayable.Valid())
	assert.False(t, AccountType("bank").Valid())
}

func TestTransactionSigned(t *testing.T) {
	l := Transaction{Type: Debit, Amount: 100}
	assert.Equal(t, Amount(100), l.Signed(Debit))
	assert.Equal(t, Amount(-100), l.Signed(Credit))
}

func TestEntryTotals(t *testing.T) {
	e := JournalEntry{Lines: []Transaction{
		{Type: Debit, Amount: 70},
		{Type: Debit, Amount: 30},
		{Type: Credit, Amount: 100},
	}}
	debit, credit := e.Totals()
	assert.Equal(t, Amount(100), debit)
	assert.Equal(t, Amount(100), credit)
}

func TestSumLinesOverflow(t *testing.T) {
	_, _, ok := SumLines([]Transaction{
		{Type: Debit, Amount: 1 << 62},
		{Type: Debit, Amount: 1 << 62},
		{Type: Credit, Amount: 1},
	})
	assert.False(t, ok)

	debit, credit, ok := SumLines([]Transaction{
		{Type: Debit, Amount: MaxAmount},
		{Type: Credit, Amount: MaxAmount},
	})
	require.True(t, ok)
	assert.Equal(t, MaxAmount, debit)
	assert.Equal(t, MaxAmount, credit)
}

func TestAmountAdd(t *testing.T) {
	s, ok := Amount(40).Add(2)
	require.True(t, ok)
	assert.Equal(t, Amount(42), s)

	_, ok = MaxAmount.Add(1)
	assert.False(t, ok)

	_, ok = Amount(-MaxAmount - 1).Add(-1)
	assert.False(t, ok)
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount("500000")
	require.NoError(t, err)
	assert.Equal(t, Amount(500000), a)

	a, err = ParseAmount("9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, a)

	for _, in := range []string{"12.5", "abc", "9223372036854775808", "18446744073709551621", "-5"} {
		_, err = ParseAmount(in)
		assert.Error(t, err, "ParseAmount(%q)", in)
	}
}

func TestDay(t *testing.T) {
	got := Day(time.Date(2025, 3, 4, 17, 22, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), got)
}
