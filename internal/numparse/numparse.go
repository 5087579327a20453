// Package numparse extracts money quantities from Persian free text: ASCII,
// Persian and Arabic-Indic digits, number words and scale words.
package numparse

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sanad/internal/apperr"
	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/persian"
)

const connector = "و"

var units = map[string]int64{
	"صفر": 0, "یک": 1, "یه": 1, "دو": 2, "سه": 3, "چهار": 4, "پنج": 5,
	"شش": 6, "شیش": 6, "هفت": 7, "هشت": 8, "نه": 9, "ده": 10,
	"یازده": 11, "دوازده": 12, "سیزده": 13, "چهارده": 14, "پانزده": 15,
	"پونزده": 15, "شانزده": 16, "شونزده": 16, "هفده": 17, "هجده": 18,
	"هیجده": 18, "نوزده": 19, "بیست": 20, "سی": 30, "چهل": 40,
	"پنجاه": 50, "شصت": 60, "هفتاد": 70, "هشتاد": 80, "نود": 90,
	"صد": 100, "یکصد": 100, "دویست": 200, "سیصد": 300, "چهارصد": 400,
	"پانصد": 500, "پونصد": 500, "ششصد": 600, "هفتصد": 700, "هشتصد": 800,
	"نهصد": 900,
}

var scales = map[string]int64{
	"هزار":    1_000,
	"میلیون":  1_000_000,
	"ملیون":   1_000_000,
	"میلیارد": 1_000_000_000,
	"ملیارد":  1_000_000_000,
}

// Span is one contiguous quantity found in a token stream.
type Span struct {
	Value decimal.Decimal
	Start int // index of first token
	End   int // index one past the last token
}

// Spans returns every quantity in text, in order. Number tokens joined by
// "و" or followed by scale words form a single quantity: "دو میلیون و
// پانصد هزار" is one span of 2500000.
func Spans(text string) []Span {
	return SpansOf(persian.Tokens(text))
}

// SpansOf is Spans over already tokenized text.
func SpansOf(tokens []string) []Span {
	var spans []Span
	var acc *accumulator
	start := 0
	lastWasValue := false
	pendingConnector := false

	closeSpan := func(end int) {
		if acc != nil {
			spans = append(spans, Span{Value: acc.value(), Start: start, End: end})
			acc = nil
		}
		lastWasValue = false
		pendingConnector = false
	}

	for i, tok := range tokens {
		v, isValue := valueOf(tok)
		scale, isScale := scales[tok]

		switch {
		case isValue:
			if acc != nil && lastWasValue && !pendingConnector {
				closeSpan(i)
			}
			if acc == nil {
				acc = &accumulator{}
				start = i
			}
			acc.add(v)
			lastWasValue = true
			pendingConnector = false
		case isScale:
			if acc == nil {
				acc = &accumulator{}
				start = i
			}
			acc.scale(scale)
			lastWasValue = false
			pendingConnector = false
		case tok == connector && acc != nil && !pendingConnector:
			pendingConnector = true
		default:
			end := i
			if pendingConnector {
				end = i - 1
			}
			closeSpan(end)
		}
	}
	end := len(tokens)
	if pendingConnector {
		end--
	}
	closeSpan(end)
	return spans
}

// Parse returns the single positive whole amount in text. It fails with
// ErrAmountNotFound when there is no quantity, more than one quantity, or a
// quantity that is zero, fractional or too large for an Amount.
func Parse(text string) (model.Amount, error) {
	amount, _, err := Single(Spans(text))
	return amount, err
}

// Single picks the only span from spans and converts it to an Amount, with
// the same rules as Parse.
func Single(spans []Span) (model.Amount, Span, error) {
	switch len(spans) {
	case 0:
		return 0, Span{}, apperr.ErrAmountNotFound.Withf("no amount found")
	case 1:
	default:
		return 0, Span{}, apperr.ErrAmountNotFound.Withf("ambiguous amount: %d quantities found", len(spans))
	}

	sp := spans[0]
	if !sp.Value.IsInteger() {
		return 0, sp, apperr.ErrAmountNotFound.Withf("amount %s is not a whole number", sp.Value)
	}
	if !sp.Value.IsPositive() {
		return 0, sp, apperr.ErrAmountNotFound.Withf("amount %s is not positive", sp.Value)
	}
	a, ok := model.AmountFromDecimal(sp.Value)
	if !ok {
		return 0, sp, apperr.ErrAmountNotFound.Withf("amount %s is too large", sp.Value)
	}
	return a, sp, nil
}

func valueOf(tok string) (decimal.Decimal, bool) {
	if persian.IsNumber(tok) {
		d, err := decimal.NewFromString(tok)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	if n, ok := units[tok]; ok {
		return decimal.NewFromInt(n), true
	}
	return decimal.Zero, false
}

// accumulator folds values and scale words the way they are spoken:
// values add into the current group, a scale word multiplies the group
// into the running total.
type accumulator struct {
	total   decimal.Decimal
	current decimal.Decimal
	seen    bool
}

func (a *accumulator) add(v decimal.Decimal) {
	a.current = a.current.Add(v)
	a.seen = true
}

func (a *accumulator) scale(s int64) {
	m := decimal.NewFromInt(s)
	switch {
	case !a.seen && a.total.IsZero():
		a.current = decimal.NewFromInt(1)
	case !a.seen:
		// "هزار میلیون": the scale applies to everything so far.
		a.total = a.total.Mul(m)
		return
	}
	a.total = a.total.Add(a.current.Mul(m))
	a.current = decimal.Zero
	a.seen = false
}

func (a *accumulator) value() decimal.Decimal {
	return a.total.Add(a.current)
}
