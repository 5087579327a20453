// Package persian normalizes Persian text coming from transcription and OCR
// so that lexicon lookups, number parsing and name matching see one spelling.
package persian

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	zwnj    = '‌'
	tatweel = 'ـ'
)

var replacer = strings.NewReplacer(
	"ي", "ی",
	"ى", "ی",
	"ك", "ک",
	"ۀ", "ه",
	"٫", ".",
)

var folder = cases.Fold()

// Normalize applies NFC, unifies Arabic and Persian letter variants, maps
// Persian and Arabic-Indic digits to ASCII and drops thousands separators
// that sit between two digits.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = replacer.Replace(s)

	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		r = ToASCIIDigit(r)
		if r == tatweel {
			continue
		}
		if isGroupSeparator(r) && i > 0 && i+1 < len(runes) &&
			isDigit(ToASCIIDigit(runes[i-1])) && isDigit(ToASCIIDigit(runes[i+1])) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fold normalizes s for comparison: case folded, ZWNJ treated as a space and
// whitespace collapsed.
func Fold(s string) string {
	s = Normalize(s)
	s = strings.Map(func(r rune) rune {
		if r == zwnj {
			return ' '
		}
		return r
	}, s)
	s = folder.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// ToASCIIDigit maps a Persian or Arabic-Indic digit to its ASCII form and
// returns any other rune unchanged.
func ToASCIIDigit(r rune) rune {
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
}

// Tokens splits normalized text into words and numbers. A run of digits
// (with an inner decimal point) is always its own token, so "۵۰۰هزار"
// yields "500" and "هزار". Punctuation separates tokens and is dropped.
func Tokens(s string) []string {
	s = Normalize(s)
	runes := []rune(s)

	var tokens []string
	var cur []rune
	curDigits := false
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		switch {
		case isDigit(r):
			if !curDigits {
				flush()
			}
			curDigits = true
			cur = append(cur, r)
		case r == '.' && curDigits && i+1 < len(runes) && isDigit(runes[i+1]):
			cur = append(cur, r)
		case isWordRune(r):
			if curDigits {
				flush()
			}
			curDigits = false
			cur = append(cur, r)
		default:
			flush()
			curDigits = false
		}
	}
	flush()
	return tokens
}

// IsNumber reports whether a token produced by Tokens is numeric.
func IsNumber(tok string) bool {
	if tok == "" {
		return false
	}
	return isDigit([]rune(tok)[0])
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.Mn, r) || r == zwnj
}

func isGroupSeparator(r rune) bool {
	return r == ',' || r == '،' || r == '٬'
}
