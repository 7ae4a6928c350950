package service

import (
	"strings"
	"unicode"
)

// headerHints are tokens whose presence in a first-row cell strongly
// suggests a header, even when the row otherwise looks numeric. Cells are
// matched by containment, so "Total Sales" and "transaction_date" both hit.
var headerHints = []string{
	"date", "transaction", "amount", "total", "value",
	"type", "category", "revenue", "expense", "product",
	"customer", "name", "amt", "price", "sum", "cost",
	"kind", "day",
}

// PrepareRows trims every cell, drops rows that are entirely blank and pads
// short rows out to the widest row seen. It returns the cleaned matrix and
// the number of rows that needed padding.
func PrepareRows(rows [][]string) (prepared [][]string, padded int) {
	maxColumns := 0
	for _, row := range rows {
		trimmed := make([]string, len(row))
		blank := true
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
			if trimmed[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if len(trimmed) > maxColumns {
			maxColumns = len(trimmed)
		}
		prepared = append(prepared, trimmed)
	}
	for i, row := range prepared {
		if len(row) < maxColumns {
			full := make([]string, maxColumns)
			copy(full, row)
			prepared[i] = full
			padded++
		}
	}
	return prepared, padded
}

// DetectHeader decides whether the first row is a header. Any hint token
// wins outright; otherwise the row must be at least half alphabetic-looking
// and no more numeric than alphabetic. An all-empty row is never a header.
func DetectHeader(first []string) bool {
	nonEmpty, alphaLike, numericLike, hintCount := 0, 0, 0, 0
	for _, cell := range first {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		nonEmpty++
		key := normalizeToken(cell)
		for _, hint := range headerHints {
			if strings.Contains(key, hint) {
				hintCount++
				break
			}
		}
		if looksNumeric(cell) {
			numericLike++
		} else if hasLetter(cell) {
			alphaLike++
		}
	}
	if nonEmpty == 0 {
		return false
	}
	if hintCount > 0 {
		return true
	}
	half := (nonEmpty + 1) / 2
	return alphaLike >= half && alphaLike >= numericLike
}

func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func looksNumeric(s string) bool {
	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(".,-+()$%€£¥₹ /:", r) || unicode.Is(unicode.Sc, r):
		default:
			return false
		}
	}
	return hasDigit
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
