// Package resolver turns a transcribed Persian payment or receipt command
// into a balanced draft entry.
//
// Commands follow a small grammar:
//
//	[verb] [amount] به|از [counterparty] بابت|برای [memo]
//
// The verb decides the intent, the amount may be digits or words, the
// counterparty is matched against receivable and payable accounts, and the
// memo becomes the entry description.
package resolver

import (
	"strings"
	"time"

	"github.com/cleared-dev/sanad/internal/accounts"
	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/match"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/numparse"
	"github.com/cleared-dev/sanad/internal/persian"
)

var (
	memoMarkers  = map[string]bool{"بابت": true, "برای": true}
	partyMarkers = map[string]bool{"به": true, "از": true}
	// Words that end a counterparty phrase.
	phraseStops = map[string]bool{
		"تومان": true, "تومن": true, "ریال": true,
		"کردم": true, "کردیم": true, "شد": true, "را": true,
	}
)

// Config names the accounts the resolver posts against, by code.
type Config struct {
	CashCode           string
	SuspenseCode       string // optional
	DefaultExpenseCode string // optional
	DefaultRevenueCode string // optional
	Threshold          float64
}

// Result is a resolved command.
type Result struct {
	Draft        model.DraftEntry
	Intent       Intent
	Amount       model.Amount
	PartyQuery   string       // counterparty phrase as heard, "" if none
	Counterparty match.Result // best candidate, zero if PartyQuery is ""
	Matched      bool         // Counterparty met the threshold
}

// Resolver resolves commands against a registry. It holds no per-call
// state and is safe for concurrent use.
type Resolver struct {
	accounts *accounts.Registry
	cfg      Config
	now      func() time.Time
}

// New creates a Resolver. A zero threshold uses match.DefaultThreshold.
func New(registry *accounts.Registry, cfg Config) *Resolver {
	if cfg.Threshold <= 0 {
		cfg.Threshold = match.DefaultThreshold
	}
	return &Resolver{accounts: registry, cfg: cfg, now: time.Now}
}

// WithClock replaces the time source used to date drafts.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Resolve parses one transcribed command. The returned draft is balanced
// and unnumbered; committing it is the caller's decision.
func (r *Resolver) Resolve(transcript string) (Result, error) {
	tokens := persian.Tokens(transcript)

	head, memo := tokens, []string(nil)
	for i, tok := range tokens {
		if memoMarkers[tok] {
			head, memo = tokens[:i], tokens[i+1:]
			break
		}
	}

	intent, verbAt := detectIntent(head)
	if intent == IntentUnknown {
		return Result{}, apperr.ErrUnrecognizedIntent.Withf("no payment or receipt verb in %q", transcript)
	}

	spans := numparse.SpansOf(head)
	amount, span, err := numparse.Single(spans)
	if err != nil {
		return Result{}, err
	}

	res := Result{Intent: intent, Amount: amount}
	res.PartyQuery = counterpartyPhrase(head, span, verbAt)

	cash, ok := r.accounts.GetByCode(r.cfg.CashCode)
	if !ok {
		return Result{}, apperr.ErrUnknownAccount.Withf("cash account %q is not in the chart", r.cfg.CashCode)
	}

	other, review, err := r.counterAccount(&res)
	if err != nil {
		return Result{}, err
	}

	debit, credit := other, cash
	if intent == IntentReceipt {
		debit, credit = cash, other
	}

	res.Draft = model.DraftEntry{
		Date:        model.Day(r.now()),
		Description: description(intent, res.PartyQuery, memo),
		Source:      model.SourceVoice,
		NeedsReview: review,
		RawInput:    transcript,
		Lines: []model.Transaction{
			{AccountID: debit.ID, Type: model.Debit, Amount: amount},
			{AccountID: credit.ID, Type: model.Credit, Amount: amount},
		},
	}
	return res, nil
}

// counterAccount picks the non-cash side of the entry and reports whether the
// draft needs review.
func (r *Resolver) counterAccount(res *Result) (model.Account, bool, error) {
	if res.PartyQuery == "" {
		code := r.cfg.DefaultExpenseCode
		if res.Intent == IntentReceipt {
			code = r.cfg.DefaultRevenueCode
		}
		if a, ok := r.lookup(code); ok {
			return a, false, nil
		}
		if a, ok := r.lookup(r.cfg.SuspenseCode); ok {
			return a, true, nil
		}
		return model.Account{}, false, apperr.ErrLowConfidenceCounterparty.Withf(
			"no counterparty named and no default %s account configured", res.Intent)
	}

	best, ok := match.Best(res.PartyQuery, r.accounts.Counterparties(), r.cfg.Threshold)
	res.Counterparty = best
	res.Matched = ok
	if ok {
		a, found := r.accounts.Get(best.ID)
		if found {
			return a, false, nil
		}
	}

	if a, found := r.lookup(r.cfg.SuspenseCode); found {
		return a, true, nil
	}
	return model.Account{}, false, apperr.ErrLowConfidenceCounterparty.
		Withf("no account matches %q closely enough (best %.2f)", res.PartyQuery, best.Score).
		WithDetail("query", res.PartyQuery).
		WithDetail("best_code", best.Code)
}

func (r *Resolver) lookup(code string) (model.Account, bool) {
	if code == "" {
		return model.Account{}, false
	}
	return r.accounts.GetByCode(code)
}

// counterpartyPhrase returns the words after the first به or از, stopping at
// the amount, the verb or a filler word.
func counterpartyPhrase(head []string, amount numparse.Span, verbAt int) string {
	start := -1
	for i, tok := range head {
		if partyMarkers[tok] {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ""
	}

	var words []string
	for i := start; i < len(head); i++ {
		if i == verbAt || (i >= amount.Start && i < amount.End) || phraseStops[head[i]] || partyMarkers[head[i]] {
			break
		}
		words = append(words, head[i])
	}
	return strings.Join(words, " ")
}

func description(intent Intent, party string, memo []string) string {
	if len(memo) > 0 {
		return strings.Join(memo, " ")
	}
	switch {
	case intent == IntentPayment && party != "":
		return "پرداخت به " + party
	case intent == IntentPayment:
		return "پرداخت"
	case party != "":
		return "دریافت از " + party
	default:
		return "دریافت"
	}
}
