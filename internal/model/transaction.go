package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of a transaction line.
type Side string

const (
	Debit  Side = "debit"
	Credit Side = "credit"
)

// Valid reports whether s is debit or credit.
func (s Side) Valid() bool {
	return s == Debit || s == Credit
}

// Amount is a money quantity in integer minor units of the ledger currency.
type Amount int64

// MaxAmount is the largest representable amount.
const MaxAmount = Amount(math.MaxInt64)

var maxAmountDecimal = decimal.NewFromInt(math.MaxInt64)

// AmountFromDecimal converts a whole, non-negative decimal to an Amount. It
// reports false for fractions, negatives and values above MaxAmount.
func AmountFromDecimal(d decimal.Decimal) (Amount, bool) {
	if !d.IsInteger() || d.IsNegative() || d.GreaterThan(maxAmountDecimal) {
		return 0, false
	}
	return Amount(d.IntPart()), true
}

// Add returns a+b and reports false if the sum overflows.
func (a Amount) Add(b Amount) (Amount, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}

// Decimal returns the amount as a decimal for formatting.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(a))
}

func (a Amount) String() string {
	return a.Decimal().String()
}

// ParseAmount parses a plain integer amount such as "500000".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("amount %q has a fractional part", s)
	}
	a, ok := AmountFromDecimal(d)
	if !ok {
		return 0, fmt.Errorf("amount %q is out of range", s)
	}
	return a, nil
}

// Transaction is one line of a journal entry.
type Transaction struct {
	ID          string
	AccountID   string
	Type        Side
	Amount      Amount
	Description string
}

// Signed returns the line amount as it affects an account whose balance
// grows on the given normal side.
func (t Transaction) Signed(normal Side) Amount {
	if t.Type == normal {
		return t.Amount
	}
	return -t.Amount
}

// DebitCredit splits the line amount into debit and credit columns.
func (t Transaction) DebitCredit() (debit, credit Amount) {
	if t.Type == Debit {
		return t.Amount, 0
	}
	return 0, t.Amount
}
