package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/sanad/internal/model"
	"github.com/cleared-dev/sanad/internal/persian"
)

var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:مبلغ|جمع|کل|total|amount)[:\s]*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:ریال|تومان|rials?)`),
	regexp.MustCompile(`قابل\s+پرداخت[:\s]*(\d+(?:\.\d+)?)`),
}

type datePattern struct {
	re    *regexp.Regexp
	order string // field order of the three groups: "ymd" or "dmy"
}

var datePatterns = []datePattern{
	{regexp.MustCompile(`\b(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})\b`), "ymd"},
	{regexp.MustCompile(`\b(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})\b`), "dmy"},
	{regexp.MustCompile(`\b(\d{2})[/.\-](\d{2})[/.\-](\d{2})\b`), "dmy"},
}

var headerWords = []string{"receipt", "invoice", "فاکتور", "رسید"}

// extractAmount returns the largest amount introduced by a total keyword or
// followed by a currency word.
func extractAmount(text string) (model.Amount, bool) {
	text = persian.Normalize(text)
	var best model.Amount
	found := false
	for _, re := range amountPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			d, err := decimal.NewFromString(m[1])
			if err != nil || !d.IsPositive() {
				continue
			}
			a, ok := model.AmountFromDecimal(d)
			if !ok {
				continue
			}
			if !found || a > best {
				best, found = a, true
			}
		}
	}
	return best, found
}

// extractDate finds the first date in text and formats it as YYYY/MM/DD.
// Two-digit years are read as 14YY.
func extractDate(text string) (string, bool) {
	text = persian.Normalize(text)
	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			y, mo, d := m[1], m[2], m[3]
			if p.order == "dmy" {
				d, y = m[1], m[3]
			}
			if len(y) == 2 {
				y = "14" + y
			}
			if s, ok := formatDate(y, mo, d); ok {
				return s, true
			}
		}
	}
	return "", false
}

func formatDate(y, m, d string) (string, bool) {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(m)
	day, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d/%02d/%02d", year, month, day), true
}

// extractVendor returns the first of the top five lines that looks like a
// name: longer than three characters, not starting with a digit and not a
// receipt header.
func extractVendor(text string) string {
	lines := strings.Split(persian.Normalize(text), "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= 3 {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(line); unicode.IsDigit(r) {
			continue
		}
		if isHeader(line) {
			continue
		}
		return strings.Join(strings.Fields(line), " ")
	}
	return ""
}

func isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
