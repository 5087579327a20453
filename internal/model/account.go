package model

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset      AccountType = "asset"
	AccountTypeLiability  AccountType = "liability"
	AccountTypeEquity     AccountType = "equity"
	AccountTypeRevenue    AccountType = "revenue"
	AccountTypeExpense    AccountType = "expense"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
	AccountTypeReceivable,
	AccountTypePayable,
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	for _, known := range AccountTypes {
		if t == known {
			return true
		}
	}
	return false
}

// NormalSide returns the side on which the account type's balance increases.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense, AccountTypeReceivable:
		return Debit
	default:
		return Credit
	}
}

// Account is a node in the chart of accounts. Balances are not stored here;
// they are derived by the registry from committed entries.
type Account struct {
	ID          string
	Code        string
	Name        string
	Type        AccountType
	ParentID    string // "" = top-level
	Description string
	Inactive    bool // deactivated accounts keep their code and history but take no new postings
	CreatedAt   time.Time
}

// IsRoot reports whether the account has no parent.
func (a Account) IsRoot() bool {
	return a.ParentID == ""
}
