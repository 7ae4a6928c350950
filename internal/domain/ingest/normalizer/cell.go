package normalizer

import "strings"

// maxCellTextLength caps stored text cells so a single pathological cell
// cannot blow up row storage.
const maxCellTextLength = 10000

// TxType classifies a transaction's direction.
type TxType string

const (
	TypeRevenue TxType = "revenue"
	TypeExpense TxType = "expense"
)

var expenseKeywords = []string{
	"expense", "cost", "spend", "spending", "debit", "outflow", "withdrawal", "payment",
}

var revenueKeywords = []string{
	"revenue", "income", "sale", "sales", "credit", "deposit",
}

// InferType classifies a transaction from its type cell, falling back to the
// sign of the amount when the text matches no known keyword.
func InferType(raw string, amount float64) TxType {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s != "" {
		for _, kw := range expenseKeywords {
			if strings.Contains(s, kw) {
				return TypeExpense
			}
		}
		for _, kw := range revenueKeywords {
			if strings.Contains(s, kw) {
				return TypeRevenue
			}
		}
	}
	if amount < 0 {
		return TypeExpense
	}
	return TypeRevenue
}

// NormalizeCell converts raw cell text into the value stored for a dataset
// row: nil for blanks, bool for true/false, float64 when the amount
// heuristics recognise a number, otherwise the trimmed text capped at
// maxCellTextLength.
func NormalizeCell(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if v, ok := ParseAmount(s); ok {
		return v
	}
	if len(s) > maxCellTextLength {
		s = s[:maxCellTextLength]
	}
	return s
}
