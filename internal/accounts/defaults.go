package accounts

import (
	"fmt"

	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
)

// ChartEntry is one row of a chart of accounts, with the parent given by code.
type ChartEntry struct {
	Code        string
	Name        string
	Type        model.AccountType
	ParentCode  string
	Description string
}

// Codes used by the default configuration.
const (
	DefaultCashCode     = "111"
	DefaultSuspenseCode = "13"
	DefaultExpenseCode  = "53"
	DefaultRevenueCode  = "42"
)

// DefaultChart returns the default chart of accounts for a business profile.
func DefaultChart(profile string) []ChartEntry {
	switch profile {
	case "retail":
		return retailChart()
	default:
		return retailChart()
	}
}

func retailChart() []ChartEntry {
	a, l, e := model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeEquity
	r, x := model.AccountTypeRevenue, model.AccountTypeExpense
	d, c := model.AccountTypeReceivable, model.AccountTypePayable
	return []ChartEntry{
		{Code: "1", Name: "دارایی‌ها", Type: a},
		{Code: "2", Name: "بدهی‌ها", Type: l},
		{Code: "3", Name: "حقوق صاحبان سهام", Type: e},
		{Code: "4", Name: "درآمدها", Type: r},
		{Code: "5", Name: "هزینه‌ها", Type: x},
		{Code: "6", Name: "بدهکاران", Type: d},
		{Code: "7", Name: "بستانکاران", Type: c},

		{Code: "11", Name: "دارایی‌های جاری", Type: a, ParentCode: "1"},
		{Code: "111", Name: "صندوق", Type: a, ParentCode: "11", Description: "وجه نقد"},
		{Code: "112", Name: "بانک", Type: a, ParentCode: "11"},
		{Code: "113", Name: "موجودی کالا", Type: a, ParentCode: "11"},
		{Code: "12", Name: "دارایی‌های ثابت", Type: a, ParentCode: "1"},
		{Code: "121", Name: "ساختمان", Type: a, ParentCode: "12"},
		{Code: "122", Name: "ماشین‌آلات", Type: a, ParentCode: "12"},
		{Code: "13", Name: "حساب معلق", Type: a, ParentCode: "1", Description: "اقلام تطبیق‌نیافته در انتظار بررسی"},

		{Code: "21", Name: "بدهی‌های جاری", Type: l, ParentCode: "2"},
		{Code: "211", Name: "حساب‌های پرداختنی", Type: l, ParentCode: "21"},
		{Code: "212", Name: "وام کوتاه‌مدت", Type: l, ParentCode: "21"},
		{Code: "22", Name: "بدهی‌های بلندمدت", Type: l, ParentCode: "2"},
		{Code: "221", Name: "وام بلندمدت", Type: l, ParentCode: "22"},

		{Code: "31", Name: "سرمایه", Type: e, ParentCode: "3"},
		{Code: "32", Name: "سود انباشته", Type: e, ParentCode: "3"},

		{Code: "41", Name: "درآمد فروش", Type: r, ParentCode: "4"},
		{Code: "411", Name: "فروش کالا", Type: r, ParentCode: "41"},
		{Code: "412", Name: "فروش خدمات", Type: r, ParentCode: "41"},
		{Code: "42", Name: "سایر درآمدها", Type: r, ParentCode: "4"},

		{Code: "51", Name: "هزینه‌های عملیاتی", Type: x, ParentCode: "5"},
		{Code: "511", Name: "حقوق و دستمزد", Type: x, ParentCode: "51"},
		{Code: "512", Name: "اجاره", Type: x, ParentCode: "51"},
		{Code: "513", Name: "آب و برق و گاز", Type: x, ParentCode: "51"},
		{Code: "514", Name: "تلفن و اینترنت", Type: x, ParentCode: "51"},
		{Code: "52", Name: "هزینه‌های اداری", Type: x, ParentCode: "5"},
		{Code: "521", Name: "لوازم اداری", Type: x, ParentCode: "52"},
		{Code: "522", Name: "هزینه تبلیغات", Type: x, ParentCode: "52"},
		{Code: "53", Name: "هزینه‌های متفرقه", Type: x, ParentCode: "5"},

		{Code: "61", Name: "مشتریان", Type: d, ParentCode: "6"},
		{Code: "62", Name: "اسناد دریافتنی", Type: d, ParentCode: "6"},

		{Code: "71", Name: "تامین‌کنندگان", Type: c, ParentCode: "7"},
		{Code: "72", Name: "اسناد پرداختنی", Type: c, ParentCode: "7"},
	}
}

// Seed creates chart entries in order. Parents must precede their children.
func (r *Registry) Seed(chart []ChartEntry, persist PersistFunc) ([]model.Account, error) {
	created := make([]model.Account, 0, len(chart))
	for _, e := range chart {
		var parentID string
		if e.ParentCode != "" {
			parent, ok := r.GetByCode(e.ParentCode)
			if !ok {
				return created, fmt.Errorf("seeding %s: %w", e.Code,
					apperr.ErrUnknownParent.Withf("no account with code %s", e.ParentCode))
			}
			parentID = parent.ID
		}
		acct, err := r.Create(CreateParams{
			Name:        e.Name,
			Type:        e.Type,
			ParentID:    parentID,
			Code:        e.Code,
			Description: e.Description,
		}, persist)
		if err != nil {
			return created, fmt.Errorf("seeding %s: %w", e.Code, err)
		}
		created = append(created, acct)
	}
	return created, nil
}

// Chart returns the registry's accounts as chart entries ordered by code.
func (r *Registry) Chart() []ChartEntry {
	all := r.All()
	codeOf := make(map[string]string, len(all))
	for _, a := range all {
		codeOf[a.ID] = a.Code
	}
	chart := make([]ChartEntry, len(all))
	for i, a := range all {
		chart[i] = ChartEntry{
			Code:        a.Code,
			Name:        a.Name,
			Type:        a.Type,
			ParentCode:  codeOf[a.ParentID],
			Description: a.Description,
		}
	}
	return chart
}
