package resolver

// Intent is the kind of cash movement a command describes.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentPayment
	IntentReceipt
)

func (i Intent) String() string {
	switch i {
	case IntentPayment:
		return "payment"
	case IntentReceipt:
		return "receipt"
	default:
		return "unknown"
	}
}

var verbs = map[string]Intent{
	"پرداخت":   IntentPayment,
	"پرداختی":  IntentPayment,
	"پرداختم":  IntentPayment,
	"پرداختیم": IntentPayment,
	"دادم":     IntentPayment,
	"دادیم":    IntentPayment,
	"خرید":     IntentPayment,
	"خریدم":    IntentPayment,
	"خریدیم":   IntentPayment,
	"خریداری":  IntentPayment,

	"دریافت":  IntentReceipt,
	"دریافتی": IntentReceipt,
	"گرفتم":   IntentReceipt,
	"گرفتیم":  IntentReceipt,
	"فروش":    IntentReceipt,
	"فروختم":  IntentReceipt,
	"فروختیم": IntentReceipt,
}

// detectIntent returns the intent of the earliest verb in tokens and its
// index, or IntentUnknown and -1.
func detectIntent(tokens []string) (Intent, int) {
	for i, tok := range tokens {
		if in, ok := verbs[tok]; ok {
			return in, i
		}
	}
	return IntentUnknown, -1
}
