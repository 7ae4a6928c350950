package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DateResult is the outcome of date inference for a single cell.
// Value is an ISO date (YYYY-MM-DD) or empty when nothing parseable was
// found. Ambiguous is set when the day/month order could not be decided
// and a convention had to be assumed.
type DateResult struct {
	Value     string
	Ambiguous bool
}

var (
	isoDatePattern     = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	numericDatePattern = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{2}|\d{4})$`)

	textDateLayouts = []string{
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		"02 Jan 2006",
		"2 January 2006",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
		time.RFC1123,
		time.RFC822,
	}
)

// InferDate parses raw into an ISO date. Year-first input is never
// ambiguous. For day/month pairs where both components could be a month the
// month-first convention is assumed and the result is flagged ambiguous;
// when the first component exceeds 12 the input must be day-first.
func InferDate(raw string) DateResult {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateResult{}
	}

	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		if iso, ok := validDate(y, mo, d); ok {
			return DateResult{Value: iso}
		}
		return DateResult{}
	}

	if m := numericDatePattern.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			if y < 70 {
				y += 2000
			} else {
				y += 1900
			}
		}

		mo, d := a, b
		if a > 12 && b <= 12 {
			mo, d = b, a
		}
		ambiguous := a <= 12 && b <= 12
		if iso, ok := validDate(y, mo, d); ok {
			return DateResult{Value: iso, Ambiguous: ambiguous}
		}
		return DateResult{}
	}

	if strings.IndexFunc(s, unicode.IsLetter) >= 0 {
		for _, layout := range textDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return DateResult{Value: t.UTC().Format("2006-01-02")}
			}
		}
	}
	return DateResult{}
}

// validDate round-trips the components through time.Date so that overflow
// like month 13 or Feb 30 is rejected instead of silently normalized.
func validDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
