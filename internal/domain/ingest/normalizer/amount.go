// Package normalizer turns raw spreadsheet cell text into typed values:
// monetary amounts, calendar dates, booleans and transaction types. It is
// deliberately forgiving about locale formatting because uploaded files mix
// US, European and bank-export conventions within the same dataset.
package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// AmountParser extracts a monetary value from raw cell text. The second
// return value reports whether the text held a usable amount at all.
type AmountParser interface {
	Parse(raw string) (float64, bool)
}

// HeuristicParser is the default AmountParser. It handles currency symbols,
// ISO 4217 prefixes and suffixes, thousands separators in both US and
// European styles, parenthesised negatives and typographic minus signs.
type HeuristicParser struct{}

var (
	// Bare dates like 12/31/2026 or 2026-01-02 would otherwise survive
	// separator stripping and parse as numbers.
	bareDatePattern = regexp.MustCompile(`^\d{1,4}[/-]\d{1,2}[/-]\d{1,4}$`)

	// Currency codes commonly seen prefixed or suffixed to amounts in
	// exports ("USD 1,250.00", "1250 EUR").
	currencyCodes = []string{
		"USD", "EUR", "GBP", "JPY", "INR", "AUD", "CAD", "CHF", "CNY", "SGD",
		"HKD", "NZD", "SEK", "NOK", "DKK", "MXN", "BRL", "ZAR", "AED", "SAR",
	}
)

// Parse implements AmountParser.
func (HeuristicParser) Parse(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if bareDatePattern.MatchString(s) {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = stripCurrencyCode(s)

	// Typographic minus variants pasted from spreadsheets and PDFs.
	s = strings.NewReplacer("−", "-", "–", "-", "—", "-").Replace(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Sc, r) || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	hasDigit := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			return 0, false
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if !hasDigit {
		return 0, false
	}

	s = resolveSeparators(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if negative {
		v = -math.Abs(v)
	}
	return v, true
}

// stripCurrencyCode removes a leading or trailing ISO 4217 code. Codes must
// stand alone, so "USDX" or a product code like "EUR123A" are left untouched
// only when the character after the code is another letter.
func stripCurrencyCode(s string) string {
	up := strings.ToUpper(s)
	for _, code := range currencyCodes {
		if strings.HasPrefix(up, code) {
			rest := s[len(code):]
			if rest == "" {
				return rest
			}
			if r := []rune(rest)[0]; !unicode.IsLetter(r) {
				return strings.TrimSpace(rest)
			}
		}
		if strings.HasSuffix(up, code) {
			rest := s[:len(s)-len(code)]
			if rest == "" {
				return rest
			}
			rs := []rune(rest)
			if r := rs[len(rs)-1]; !unicode.IsLetter(r) {
				return strings.TrimSpace(rest)
			}
		}
	}
	return s
}

// resolveSeparators decides which of comma and dot is the decimal mark.
// When both appear the rightmost one wins; a lone comma is decimal only when
// it is the only comma and one or two digits follow it, otherwise commas are
// thousands separators.
func resolveSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", strings.Count(s, ","))
			// Only the final comma is decimal; earlier ones were thousands.
			if strings.Count(s, ".") > 1 {
				i := strings.LastIndex(s, ".")
				s = strings.ReplaceAll(s[:i], ".", "") + s[i:]
			}
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		trailing := len(s) - lastComma - 1
		if strings.Count(s, ",") == 1 && trailing >= 1 && trailing <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}
	return s
}

// ParseAmount parses raw with the default heuristic parser.
func ParseAmount(raw string) (float64, bool) {
	return HeuristicParser{}.Parse(raw)
}
