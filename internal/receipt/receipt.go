// Package receipt normalizes OCR field candidates from a receipt into an
// amount, a date and a vendor.
package receipt

import (
	"sort"
	"strings"
	"time"

	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/numparse"
	"github.com/cleared-dev/sanad/internal/persian"
)

// Field names in OCR output.
const (
	FieldAmount = "amount"
	FieldDate   = "date"
	FieldVendor = "vendor"
	FieldText   = "text"
)

// Candidate is one OCR reading of a field.
type Candidate struct {
	Text       string
	Confidence float64
}

// Fields maps a field name to its candidate readings.
type Fields map[string][]Candidate

// FromStrings builds Fields with one fully confident candidate per field.
// Empty values are skipped.
func FromStrings(values map[string]string) Fields {
	f := make(Fields, len(values))
	for k, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		f[k] = []Candidate{{Text: v, Confidence: 1}}
	}
	return f
}

// Result is a normalized receipt. Success requires both an amount and a date;
// the vendor is informational.
type Result struct {
	Success       bool
	Amount        model.Amount
	Date          string // YYYY/MM/DD, calendar as printed
	Vendor        string
	ExtractedText string
	Missing       []string
}

// Err returns ErrIncompleteReceipt naming the missing fields, or nil.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	return apperr.ErrIncompleteReceipt.
		Withf("receipt is missing %s", strings.Join(r.Missing, ", ")).
		WithDetail("missing", r.Missing)
}

// DraftParams names the accounts and date for a receipt posting.
type DraftParams struct {
	ExpenseAccountID string
	CashAccountID    string
	Date             time.Time
}

// Draft builds an expense-paid-in-cash draft from a successful result. It is
// never called implicitly; a receipt is posted only on request.
func (r Result) Draft(p DraftParams) (model.DraftEntry, error) {
	if err := r.Err(); err != nil {
		return model.DraftEntry{}, err
	}
	desc := "هزینه طبق رسید"
	if r.Vendor != "" {
		desc = "خرید از " + r.Vendor
	}
	return model.DraftEntry{
		Date:        model.Day(p.Date),
		Description: desc,
		Reference:   "رسید " + r.Date,
		Source:      model.SourceOCR,
		RawInput:    r.ExtractedText,
		Lines: []model.Transaction{
			{AccountID: p.ExpenseAccountID, Type: model.Debit, Amount: r.Amount},
			{AccountID: p.CashAccountID, Type: model.Credit, Amount: r.Amount},
		},
	}, nil
}

// Normalizer turns OCR fields into a Result. It is stateless and safe for
// concurrent use.
type Normalizer struct {
	minConfidence float64
}

// New creates a Normalizer that ignores candidates below minConfidence.
func New(minConfidence float64) *Normalizer {
	return &Normalizer{minConfidence: minConfidence}
}

// Normalize extracts amount, date and vendor. Each field is taken from its
// own candidates first, best confidence first, and otherwise searched for in
// the full receipt text.
func (n *Normalizer) Normalize(f Fields) Result {
	var res Result
	if texts := n.accepted(f[FieldText]); len(texts) > 0 {
		res.ExtractedText = texts[0]
	}

	amountFound := false
	for _, c := range n.accepted(f[FieldAmount]) {
		if a, err := numparse.Parse(c); err == nil {
			res.Amount, amountFound = a, true
			break
		}
	}
	if !amountFound {
		res.Amount, amountFound = extractAmount(res.ExtractedText)
	}

	for _, c := range n.accepted(f[FieldDate]) {
		if d, ok := extractDate(c); ok {
			res.Date = d
			break
		}
	}
	if res.Date == "" {
		res.Date, _ = extractDate(res.ExtractedText)
	}

	for _, c := range n.accepted(f[FieldVendor]) {
		if v := cleanVendor(c); v != "" {
			res.Vendor = v
			break
		}
	}
	if res.Vendor == "" {
		res.Vendor = extractVendor(res.ExtractedText)
	}

	if !amountFound {
		res.Missing = append(res.Missing, FieldAmount)
	}
	if res.Date == "" {
		res.Missing = append(res.Missing, FieldDate)
	}
	res.Success = len(res.Missing) == 0
	return res
}

// accepted returns candidate texts at or above the confidence floor, most
// confident first.
func (n *Normalizer) accepted(cands []Candidate) []string {
	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Confidence >= n.minConfidence && strings.TrimSpace(c.Text) != "" {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })
	out := make([]string, len(kept))
	for i, c := range kept {
		out[i] = c.Text
	}
	return out
}

func cleanVendor(s string) string {
	return strings.Join(strings.Fields(persian.Normalize(s)), " ")
}
